package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Producer struct {
	sender               MessageSender
	notificationQueueURL string
	payrollQueueURL      string
}

func NewProducer(sender MessageSender, notificationQueueURL, payrollQueueURL string) *Producer {
	return &Producer{
		sender:               sender,
		notificationQueueURL: notificationQueueURL,
		payrollQueueURL:      payrollQueueURL,
	}
}

func NewSQSProducer(client SQSClient, notificationQueueURL, payrollQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, notificationQueueURL, payrollQueueURL)
}

func (p *Producer) PublishNotification(ctx context.Context, body interface{}) error {
	return p.publish(ctx, p.notificationQueueURL, body)
}

// PublishPayment is a no-op when no payroll queue is configured.
func (p *Producer) PublishPayment(ctx context.Context, body interface{}) error {
	if p.payrollQueueURL == "" {
		return nil
	}
	return p.publish(ctx, p.payrollQueueURL, body)
}

func (p *Producer) publish(ctx context.Context, destination string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		var payload struct {
			SubmissionID string `json:"submissionId"`
			Type         string `json:"type"`
		}
		if err := json.Unmarshal(b, &payload); err == nil && payload.SubmissionID != "" {
			span.SetAttributes(
				attribute.String("app.submissionId", payload.SubmissionID),
				attribute.String("app.event.type", payload.Type),
			)
		}
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// LogProducer writes events to the logger instead of a queue. It is used
// when no notification queue is configured.
type LogProducer struct{}

func (LogProducer) PublishNotification(ctx context.Context, body interface{}) error {
	log.Ctx(ctx).Info().Interface("event", body).Msg("Notification queue not configured, event logged only")
	return nil
}

func (LogProducer) PublishPayment(ctx context.Context, body interface{}) error {
	log.Ctx(ctx).Info().Interface("payment", body).Msg("Payroll queue not configured, payment logged only")
	return nil
}
