package query

import (
	"sort"
	"strings"

	"timesheet.service/internal/core/model"
)

// Sortable fields.
const (
	SortSubmittedAt = "submitted_at"
	SortAmount      = "amount"
	SortPeriodStart = "period_start"
	SortContractor  = "contractor"
)

// Sort orders a listing. The zero value sorts by submission date, newest first.
type Sort struct {
	Field     string `json:"field,omitempty"`
	Ascending bool   `json:"ascending,omitempty"`
}

// SortSubmissions sorts list in place. Ties are broken by ascending ID.
func SortSubmissions(list []model.Submission, s Sort) {
	cmp := comparator(s.Field)
	sort.SliceStable(list, func(i, j int) bool {
		c := cmp(list[i], list[j])
		if c == 0 {
			return list[i].ID < list[j].ID
		}
		if s.Ascending {
			return c < 0
		}
		return c > 0
	})
}

func comparator(field string) func(a, b model.Submission) int {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case SortAmount:
		return func(a, b model.Submission) int { return compareFloat(a.TotalAmount, b.TotalAmount) }
	case SortPeriodStart:
		return func(a, b model.Submission) int { return a.PeriodStart.Compare(b.PeriodStart) }
	case SortContractor:
		return func(a, b model.Submission) int {
			return strings.Compare(strings.ToLower(a.ContractorName), strings.ToLower(b.ContractorName))
		}
	}
	return func(a, b model.Submission) int { return a.SubmittedAt.Compare(b.SubmittedAt) }
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
