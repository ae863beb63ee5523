package memory

import (
	"sync"

	interfaces "github.com/sheikh-saqib/custodial-interest-ledger/internal/interfaces"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models/events"
)

// Notifier is an in-process implementation of interfaces.EventPublisher: it
// fans committed ledger events out to subscriber channels so an embedding
// application (UI, CLI) can react without polling.
type Notifier struct {
	mu      sync.Mutex
	subs    []chan events.LedgerEvent
	bufSize int
}

// NewNotifier creates a notifier whose subscriber channels buffer bufSize
// events. A subscriber that falls behind loses events rather than blocking
// the ledger.
func NewNotifier(bufSize int) *Notifier {
	if bufSize < 1 {
		bufSize = 1
	}
	return &Notifier{bufSize: bufSize}
}

// Subscribe registers a new listener and returns its channel.
func (n *Notifier) Subscribe() <-chan events.LedgerEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan events.LedgerEvent, n.bufSize)
	n.subs = append(n.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber, dropping it for any whose
// buffer is full. Never fails.
func (n *Notifier) Publish(_ string, event any) error {
	ledgerEvent, ok := event.(events.LedgerEvent)
	if !ok {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- ledgerEvent:
		default:
		}
	}
	return nil
}

// Compile-time check: Notifier implements the EventPublisher interface.
var _ interfaces.EventPublisher = (*Notifier)(nil)
