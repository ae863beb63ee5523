package interfaces

// EventPublisher delivers ledger events to whatever the embedding application
// listens on. Publishing is best-effort: the ledger log, not the event
// stream, is the source of truth.
type EventPublisher interface {
	Publish(topic string, event any) error
}
