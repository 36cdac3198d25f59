package messaging

import "time"

// EventType names a submission lifecycle event.
type EventType string

const (
	SubmissionSubmitted              EventType = "SubmissionSubmitted"
	SubmissionApproved               EventType = "SubmissionApproved"
	SubmissionRejected               EventType = "SubmissionRejected"
	SubmissionClarificationRequested EventType = "SubmissionClarificationRequested"
	SubmissionPaid                   EventType = "SubmissionPaid"
)

// SubmissionEvent is the JSON payload sent via SQS for the notification queue
type SubmissionEvent struct {
	EventID         string    `json:"eventId"`
	Type            EventType `json:"type"`
	SubmissionID    string    `json:"submissionId"`
	ContractorID    string    `json:"contractorId"`
	ContractorName  string    `json:"contractorName,omitempty"`
	ContractorEmail string    `json:"contractorEmail,omitempty"`
	ActorID         string    `json:"actorId"`
	ActorRole       string    `json:"actorRole"`
	Action          string    `json:"action,omitempty"`
	FromStatus      string    `json:"fromStatus,omitempty"`
	ToStatus        string    `json:"toStatus"`
	Note            string    `json:"note,omitempty"`
	Amount          float64   `json:"amount"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// PaymentEvent is the JSON payload sent via SQS for the payroll queue
type PaymentEvent struct {
	EventID      string    `json:"eventId"`
	PaymentID    string    `json:"paymentId"`
	SubmissionID string    `json:"submissionId"`
	ContractorID string    `json:"contractorId"`
	Amount       float64   `json:"amount"`
	PeriodStart  time.Time `json:"periodStart"`
	PeriodEnd    time.Time `json:"periodEnd"`
	PaidAt       time.Time `json:"paidAt"`
	CreatedBy    string    `json:"createdBy"`
}
