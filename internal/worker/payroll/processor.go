package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/worker"
	"timesheet.service/internal/worker/payrollapi"
)

// Processor handles jobs from the payroll queue by booking each payment in
// the payroll system. A circuit breaker keeps a struggling payroll API
// from being hammered.
type Processor struct {
	payroll payrollapi.Client
	cb      *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the payroll queue.
func NewProcessor(payroll payrollapi.Client) *Processor {
	settings := gobreaker.Settings{
		Name:        "Payroll-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// A rejected payment is the caller's problem, not an outage.
			var serr *payrollapi.StatusError
			return err == nil || (errors.As(err, &serr) && !serr.Retryable())
		},
	}

	return &Processor{
		payroll: payroll,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}

	var event messaging.PaymentEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal payment event")
		return false, 0, err
	}
	if event.PaymentID == "" {
		return false, 0, errors.New("payment event without payment id")
	}

	log.Ctx(ctx).Info().
		Str("payment_id", event.PaymentID).
		Str("contractor_id", event.ContractorID).
		Float64("amount", event.Amount).
		Msg("Exporting payment to payroll")

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.payroll.RecordPayment(ctx, event)
	})
	if err == nil {
		return false, 0, nil
	}

	var serr *payrollapi.StatusError
	if errors.As(err, &serr) && !serr.Retryable() {
		return false, 0, err
	}
	if errors.Is(err, gobreaker.ErrOpenState) {
		log.Ctx(ctx).Warn().Msg("Circuit Breaker is OPEN; skipping Payroll API call")
	}
	return true, worker.CalculateBackoff(worker.ReceiveCount(msg)), err
}
