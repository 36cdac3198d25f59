package query

import (
	"math"

	"timesheet.service/internal/core/model"
)

// Summary aggregates a listing for dashboards.
type Summary struct {
	Count         int                  `json:"count"`
	RegularHours  float64              `json:"regularHours"`
	OvertimeHours float64              `json:"overtimeHours"`
	TotalAmount   float64              `json:"totalAmount"`
	PendingAmount float64              `json:"pendingAmount"`
	PaidAmount    float64              `json:"paidAmount"`
	ByStatus      map[model.Status]int `json:"byStatus"`
}

// Summarize totals the given submissions.
func Summarize(list []model.Submission) Summary {
	s := Summary{ByStatus: make(map[model.Status]int, len(model.Statuses))}
	for _, status := range model.Statuses {
		s.ByStatus[status] = 0
	}

	for _, sub := range list {
		s.Count++
		s.RegularHours += sub.RegularHours
		s.OvertimeHours += sub.OvertimeHours
		s.TotalAmount += sub.TotalAmount
		s.ByStatus[sub.Status]++

		switch sub.Status {
		case model.StatusPending, model.StatusNeedsClarification:
			s.PendingAmount += sub.TotalAmount
		case model.StatusPaid:
			s.PaidAmount += sub.TotalAmount
		}
	}

	s.TotalAmount = cents(s.TotalAmount)
	s.PendingAmount = cents(s.PendingAmount)
	s.PaidAmount = cents(s.PaidAmount)
	return s
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
