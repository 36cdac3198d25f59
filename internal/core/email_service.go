package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/pkg/telemetry"
)

type EmailService interface {
	SendSubmissionUpdate(ctx context.Context, to string, event messaging.SubmissionEvent) error
}

// SESClient is the subset of the SES API the email service uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
}

func NewSESEmailService(client SESClient, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) SendSubmissionUpdate(ctx context.Context, to string, event messaging.SubmissionEvent) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if id := telemetry.GetSubmissionIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("app.submissionId", id))
	}

	subject, body := ComposeEmail(event)
	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

// ComposeEmail renders the subject and plain-text body for an event.
func ComposeEmail(event messaging.SubmissionEvent) (string, string) {
	name := event.ContractorName
	if name == "" {
		name = "there"
	}

	var subject, detail string
	switch event.Type {
	case messaging.SubmissionSubmitted:
		subject = "Timesheet received"
		detail = fmt.Sprintf("We received your timesheet for %.2f. It is now waiting for approval.", event.Amount)
	case messaging.SubmissionApproved:
		subject = "Timesheet approved"
		detail = "Your timesheet has been approved and is queued for payment."
	case messaging.SubmissionRejected:
		subject = "Timesheet rejected"
		detail = "Your timesheet was rejected."
	case messaging.SubmissionClarificationRequested:
		subject = "Clarification requested on your timesheet"
		detail = "An administrator has asked your manager for clarification on your timesheet."
	case messaging.SubmissionPaid:
		subject = "Timesheet paid"
		detail = fmt.Sprintf("A payment of %.2f has been recorded for your timesheet.", event.Amount)
	default:
		subject = "Timesheet update"
		detail = fmt.Sprintf("Your timesheet is now %s.", event.ToStatus)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s", name, detail)
	if event.Note != "" {
		fmt.Fprintf(&b, "\n\nNote: %s", event.Note)
	}
	fmt.Fprintf(&b, "\n\nReference: %s", event.SubmissionID)
	return subject, b.String()
}
