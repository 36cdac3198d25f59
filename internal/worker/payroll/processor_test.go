package payroll

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/worker/payrollapi"
)

type stubPayroll struct {
	err    error
	events []messaging.PaymentEvent
}

func (s *stubPayroll) RecordPayment(ctx context.Context, event messaging.PaymentEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func body(s string) types.Message {
	return types.Message{MessageId: aws.String("m-1"), Body: aws.String(s)}
}

func TestProcessRecordsPayment(t *testing.T) {
	api := &stubPayroll{}
	retry, _, err := NewProcessor(api).Process(context.Background(), body(`{"paymentId":"pay-1","amount":8600}`))
	if err != nil || retry {
		t.Fatalf("expected success, got retry=%v err=%v", retry, err)
	}
	if len(api.events) != 1 || api.events[0].PaymentID != "pay-1" {
		t.Fatalf("unexpected calls: %+v", api.events)
	}
}

func TestProcessRejectedPaymentIsNotRetried(t *testing.T) {
	api := &stubPayroll{err: &payrollapi.StatusError{Code: http.StatusUnprocessableEntity}}
	retry, _, err := NewProcessor(api).Process(context.Background(), body(`{"paymentId":"pay-1"}`))
	if err == nil || retry {
		t.Fatalf("expected unrecoverable error, got retry=%v err=%v", retry, err)
	}
}

func TestProcessOutageIsRetried(t *testing.T) {
	api := &stubPayroll{err: errors.New("connection refused")}
	retry, delay, err := NewProcessor(api).Process(context.Background(), body(`{"paymentId":"pay-1"}`))
	if err == nil || !retry || delay != 20 {
		t.Fatalf("expected retry after 20s, got retry=%v delay=%d err=%v", retry, delay, err)
	}
}

func TestProcessRequiresPaymentID(t *testing.T) {
	api := &stubPayroll{}
	if retry, _, err := NewProcessor(api).Process(context.Background(), body(`{"amount":1}`)); err == nil || retry {
		t.Fatalf("expected unrecoverable error, got retry=%v err=%v", retry, err)
	}
	if len(api.events) != 0 {
		t.Fatalf("payroll api should not be called")
	}
}
