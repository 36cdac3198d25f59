package query

import (
	"strings"
	"time"

	"timesheet.service/internal/core/model"
)

// Filter selects submissions. Empty or unrecognised values do not exclude
// anything; set fields combine with AND.
type Filter struct {
	Status         string `json:"status,omitempty"`
	Search         string `json:"search,omitempty"`
	ProjectID      string `json:"projectId,omitempty"`
	ManagerID      string `json:"managerId,omitempty"`
	ContractorType string `json:"contractorType,omitempty"`
	// Month is YYYY-MM.
	Month string `json:"month,omitempty"`
	Sort  Sort   `json:"sort"`
}

const monthLayout = "2006-01"

// FilterSubmissions returns the matching submissions in sort order. The
// input slice is not modified.
func FilterSubmissions(list []model.Submission, f Filter) []model.Submission {
	status, filterStatus := model.ParseStatus(f.Status)
	search := strings.ToLower(strings.TrimSpace(f.Search))
	contractorType := strings.TrimSpace(f.ContractorType)
	monthStart, monthEnd, filterMonth := monthBounds(f.Month)

	out := make([]model.Submission, 0, len(list))
	for _, s := range list {
		if filterStatus && s.Status != status {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		if f.ProjectID != "" && s.ProjectID != f.ProjectID {
			continue
		}
		if f.ManagerID != "" && s.ManagerID != f.ManagerID {
			continue
		}
		if contractorType != "" && !strings.EqualFold(s.ContractorType, contractorType) {
			continue
		}
		if filterMonth && !overlaps(s.PeriodStart, s.PeriodEnd, monthStart, monthEnd) {
			continue
		}
		out = append(out, s)
	}

	SortSubmissions(out, f.Sort)
	return out
}

func matchesSearch(s model.Submission, needle string) bool {
	for _, field := range []string{s.ContractorName, s.ContractorEmail, s.ProjectName, s.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// monthBounds returns the first and last day of a YYYY-MM month.
func monthBounds(month string) (time.Time, time.Time, bool) {
	start, err := time.Parse(monthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.AddDate(0, 1, -1), true
}

func overlaps(periodStart, periodEnd, from, to time.Time) bool {
	if periodEnd.IsZero() {
		periodEnd = periodStart
	}
	return !dateOf(periodStart).After(to) && !dateOf(periodEnd).Before(from)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
