package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/custodial-interest-ledger/internal/config"
	kafkaevents "github.com/sheikh-saqib/custodial-interest-ledger/internal/events/kafka"
	notifier "github.com/sheikh-saqib/custodial-interest-ledger/internal/events/memory"
	interfaces "github.com/sheikh-saqib/custodial-interest-ledger/internal/interfaces"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/ledger"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/models"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/custodial-interest-ledger/internal/storage/postgres"
)

// callerHeader carries the caller identity on every mutating request. The
// ledger never infers who is calling from ambient context; an upstream
// gateway is expected to authenticate and set this header.
const callerHeader = "X-Caller-ID"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()

	// Record store: postgres when a DSN is configured, in-memory otherwise.
	var store interfaces.RecordStore = memory.NewStore()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("failed to open postgres")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Fatal("postgres is not responding")
		}
		pgStore := postgres.NewStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to ensure ledger schema")
		}
		store = pgStore
		log.Info("using postgres record store")
	}

	// Event fan-out: always notify in-process subscribers; add kafka when
	// brokers are configured.
	localNotifier := notifier.NewNotifier(64)
	var publisher interfaces.EventPublisher = localNotifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := kafkaevents.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPub.Close()
		publisher = teePublisher{localNotifier, kafkaPub}
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing ledger events to kafka")
	}

	ledgerService, err := ledger.New(cfg.InitialBalance, cfg.OwnerID, time.Now(), store,
		ledger.WithPublisher(publisher),
		ledger.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create ledger")
	}

	// Log committed events as they arrive, as a stand-in for whatever display
	// refresh the embedding application wants.
	go func() {
		for event := range localNotifier.Subscribe() {
			log.WithFields(logrus.Fields{
				"kind":    event.Kind,
				"amount":  event.Amount,
				"balance": event.ResultingBalance,
			}).Info("ledger event")
		}
	}()

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/deposit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		amount, ok := decodeAmount(w, r)
		if !ok {
			return
		}
		balance, err := ledgerService.Deposit(r.Context(), r.Header.Get(callerHeader), amount, time.Now())
		if err != nil {
			writeLedgerError(w, log, err)
			return
		}
		writeBalance(w, balance)
	})

	mux.HandleFunc("/withdraw", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		amount, ok := decodeAmount(w, r)
		if !ok {
			return
		}
		balance, err := ledgerService.Withdraw(r.Context(), r.Header.Get(callerHeader), amount, time.Now())
		if err != nil {
			writeLedgerError(w, log, err)
			return
		}
		writeBalance(w, balance)
	})

	mux.HandleFunc("/interest-rate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]int64{"interest_rate_bps": ledgerService.InterestRate()})
		case http.MethodPost:
			var req struct {
				RateBps int64 `json:"rate_bps"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if err := ledgerService.SetInterestRate(r.Header.Get(callerHeader), req.RateBps); err != nil {
				writeLedgerError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]int64{"interest_rate_bps": req.RateBps})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/accrue", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		interest, err := ledgerService.AccrueInterest(r.Context(), r.Header.Get(callerHeader), time.Now())
		if err != nil {
			writeLedgerError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"interest": interest,
			"balance":  ledgerService.Balance(),
		})
	})

	mux.HandleFunc("/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeBalance(w, ledgerService.Balance())
	})

	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		offset, limit := pageParams(r)
		var (
			records []models.TransactionRecord
			err     error
		)
		if limit > 0 {
			records, err = ledgerService.HistoryPage(r.Context(), offset, limit)
		} else {
			records, err = ledgerService.History(r.Context())
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	mux.HandleFunc("/limits", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, ledgerService.Limits())
	})

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("starting ledger server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	log.Info("server stopped")
}

// teePublisher forwards every event to both the in-process notifier and
// kafka. The notifier never fails, so only the kafka error surfaces.
type teePublisher struct {
	first  interfaces.EventPublisher
	second interfaces.EventPublisher
}

func (t teePublisher) Publish(topic string, event any) error {
	if err := t.first.Publish(topic, event); err != nil {
		return err
	}
	return t.second.Publish(topic, event)
}

// decodeAmount parses the request body's amount, given in display units
// (e.g. "12.34"), and converts it to the ledger's smallest unit. Fractions
// below one smallest unit are rejected rather than silently rounded.
func decodeAmount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return 0, false
	}
	cents := req.Amount.Mul(decimal.NewFromInt(models.CentsPerUnit))
	if !cents.IsInteger() {
		http.Error(w, "amount has sub-cent precision", http.StatusBadRequest)
		return 0, false
	}
	return cents.IntPart(), true
}

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}

func writeBalance(w http.ResponseWriter, balance int64) {
	writeJSON(w, http.StatusOK, struct {
		Balance int64  `json:"balance"`
		Display string `json:"display"`
	}{
		Balance: balance,
		Display: decimal.NewFromInt(balance).Div(decimal.NewFromInt(models.CentsPerUnit)).StringFixed(2),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeLedgerError maps the ledger's error taxonomy onto HTTP statuses.
// An invariant violation means the ledger is corrupt; log loudly and return
// a 500 rather than pretending the request was at fault.
func writeLedgerError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var insufficient *ledger.InsufficientBalanceError
	var invariant *ledger.InvariantViolationError

	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ledger.ErrLimitExceeded), errors.Is(err, ledger.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "insufficient balance",
			"balance":   insufficient.Balance,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &invariant):
		log.WithError(err).Error("ledger invariant violated")
		http.Error(w, "ledger corrupt", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
