package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/pkg/logger"
)

// ledger remembers booked payments by idempotency key.
type ledger struct {
	mu     sync.Mutex
	booked map[string]messaging.PaymentEvent
}

func (l *ledger) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		http.Error(w, "Idempotency-Key header is required", http.StatusBadRequest)
		return
	}

	var event messaging.PaymentEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	_, duplicate := l.booked[key]
	if !duplicate {
		l.booked[key] = event
	}
	l.mu.Unlock()

	if duplicate {
		log.Info().Str("payment_id", key).Msg("Duplicate payment ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info().
		Str("payment_id", key).
		Str("contractor_id", event.ContractorID).
		Float64("amount", event.Amount).
		Msg("Payment booked")
	w.WriteHeader(http.StatusCreated)
}

func main() {
	logger.Setup(true)

	l := &ledger{booked: make(map[string]messaging.PaymentEvent)}
	http.HandleFunc("/", l.handle)

	log.Info().Msg("Payroll API mock server starting on port 8081...")
	log.Fatal().Err(http.ListenAndServe(":8081", nil)).Msg("server stopped")
}
