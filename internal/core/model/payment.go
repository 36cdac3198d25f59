package model

import "time"

// Payment records the settlement of an approved submission.
type Payment struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	ContractorID string    `json:"contractorId"`
	Amount       float64   `json:"amount"`
	PaidAt       time.Time `json:"paidAt"`
	CreatedBy    string    `json:"createdBy"`
}
