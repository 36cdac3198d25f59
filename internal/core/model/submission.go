package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission is a contractor's timesheet for one work period.
type Submission struct {
	ID string `json:"id"`

	ContractorID    string `json:"contractorId"`
	ContractorName  string `json:"contractorName"`
	ContractorEmail string `json:"contractorEmail"`
	ContractorType  string `json:"contractorType,omitempty"`
	ManagerID       string `json:"managerId,omitempty"`
	ProjectID       string `json:"projectId,omitempty"`
	ProjectName     string `json:"projectName,omitempty"`

	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	RegularHours        float64 `json:"regularHours"`
	OvertimeHours       float64 `json:"overtimeHours"`
	OvertimeDescription string  `json:"overtimeDescription,omitempty"`
	Description         string  `json:"description"`
	HourlyRate          float64 `json:"hourlyRate"`
	OvertimeRate        float64 `json:"overtimeRate"`
	TotalAmount         float64 `json:"totalAmount"`

	Status          Status     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	AdminNote       string     `json:"adminNote,omitempty"`
	ManagerResponse string     `json:"managerResponse,omitempty"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewSubmissionParams carries the contractor-supplied fields of a new submission.
type NewSubmissionParams struct {
	ContractorID        string    `json:"contractorId"`
	ContractorName      string    `json:"contractorName"`
	ContractorEmail     string    `json:"contractorEmail"`
	ContractorType      string    `json:"contractorType"`
	ManagerID           string    `json:"managerId"`
	ProjectID           string    `json:"projectId"`
	ProjectName         string    `json:"projectName"`
	PeriodStart         time.Time `json:"periodStart"`
	PeriodEnd           time.Time `json:"periodEnd"`
	RegularHours        float64   `json:"regularHours"`
	OvertimeHours       float64   `json:"overtimeHours"`
	OvertimeDescription string    `json:"overtimeDescription"`
	Description         string    `json:"description"`
	HourlyRate          float64   `json:"hourlyRate"`
	OvertimeRate        float64   `json:"overtimeRate"`
}

// Validate checks the construction preconditions of a submission.
func (p NewSubmissionParams) Validate() error {
	if strings.TrimSpace(p.ContractorID) == "" {
		return invalid("contractorId", "is required")
	}
	if p.PeriodStart.IsZero() {
		return invalid("periodStart", "is required")
	}
	if p.PeriodEnd.IsZero() {
		return invalid("periodEnd", "is required")
	}
	if p.PeriodEnd.Before(p.PeriodStart) {
		return invalid("periodEnd", "must not be before periodStart")
	}
	if !finite(p.RegularHours) || p.RegularHours <= 0 {
		return invalid("regularHours", "must be a finite number greater than zero")
	}
	if !finite(p.OvertimeHours) || p.OvertimeHours < 0 {
		return invalid("overtimeHours", "must be a finite, non-negative number")
	}
	if p.OvertimeHours > 0 && strings.TrimSpace(p.OvertimeDescription) == "" {
		return invalid("overtimeDescription", "is required when overtime hours are logged")
	}
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "is required")
	}
	if !finite(p.HourlyRate) || p.HourlyRate < 0 {
		return invalid("hourlyRate", "must be a finite, non-negative number")
	}
	if !finite(p.OvertimeRate) || p.OvertimeRate < 0 {
		return invalid("overtimeRate", "must be a finite, non-negative number")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NewSubmission validates the params and builds a PENDING submission.
func NewSubmission(p NewSubmissionParams, now time.Time) (*Submission, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	overtimeRate := p.OvertimeRate
	if overtimeRate == 0 {
		overtimeRate = p.HourlyRate
	}

	s := &Submission{
		ID:                  uuid.New().String(),
		ContractorID:        p.ContractorID,
		ContractorName:      strings.TrimSpace(p.ContractorName),
		ContractorEmail:     strings.TrimSpace(p.ContractorEmail),
		ContractorType:      strings.ToUpper(strings.TrimSpace(p.ContractorType)),
		ManagerID:           p.ManagerID,
		ProjectID:           p.ProjectID,
		ProjectName:         strings.TrimSpace(p.ProjectName),
		PeriodStart:         p.PeriodStart,
		PeriodEnd:           p.PeriodEnd,
		RegularHours:        p.RegularHours,
		OvertimeHours:       p.OvertimeHours,
		OvertimeDescription: strings.TrimSpace(p.OvertimeDescription),
		Description:         strings.TrimSpace(p.Description),
		HourlyRate:          p.HourlyRate,
		OvertimeRate:        overtimeRate,
		Status:              StatusPending,
		SubmittedAt:         now,
		UpdatedBy:           p.ContractorID,
		UpdatedAt:           now,
	}
	s.TotalAmount = TotalAmount(s.RegularHours, s.OvertimeHours, s.HourlyRate, s.OvertimeRate)
	return s, nil
}

// TotalAmount computes regular plus overtime pay, rounded to cents.
func TotalAmount(regularHours, overtimeHours, rate, overtimeRate float64) float64 {
	total := regularHours*rate + overtimeHours*overtimeRate
	return math.Round(total*100) / 100
}

// TotalHours is regular and overtime hours combined.
func (s *Submission) TotalHours() float64 {
	return s.RegularHours + s.OvertimeHours
}

// CheckInvariants verifies the status-dependent auxiliary fields.
func (s *Submission) CheckInvariants() error {
	if s.OvertimeHours > 0 && strings.TrimSpace(s.OvertimeDescription) == "" {
		return invalid("overtimeDescription", "is required when overtime hours are logged")
	}
	if s.Status == StatusRejected && strings.TrimSpace(s.RejectionReason) == "" {
		return invalid("rejectionReason", "is required for rejected submissions")
	}
	if s.Status != StatusRejected && s.RejectionReason != "" {
		return invalid("rejectionReason", "must be empty unless rejected")
	}
	if (s.Status == StatusPaid) != (s.PaidAt != nil) {
		return invalid("paidAt", "must be set exactly when paid")
	}
	approved := s.Status == StatusApproved || s.Status == StatusPaid
	if approved != (s.ApprovedAt != nil) {
		return invalid("approvedAt", "must be set exactly when approved or paid")
	}
	return nil
}
