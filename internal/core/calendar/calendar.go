// Package calendar answers which time-off entries affect a date range and
// which users they apply to.
package calendar

import (
	"sort"
	"strings"
	"time"

	"timesheet.service/internal/core/model"
)

// IsAffectingRange reports whether entry overlaps [start, end]. A nil
// EndDate is treated as ongoing. Comparison is by calendar date.
func IsAffectingRange(entry model.TimeOffEntry, start, end time.Time) bool {
	if dateOf(entry.StartDate).After(dateOf(end)) {
		return false
	}
	return entry.EndDate == nil || !dateOf(*entry.EndDate).Before(dateOf(start))
}

// AffectsRole reports whether entry applies to users with role.
func AffectsRole(entry model.TimeOffEntry, role string) bool {
	if entry.Scope != model.ScopeRoles {
		return true
	}
	role = strings.TrimSpace(role)
	for _, r := range entry.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

// CountAffected counts active users the entry applies to.
func CountAffected(entry model.TimeOffEntry, users []model.User) int {
	n := 0
	for _, u := range users {
		if u.Active && AffectsRole(entry, string(u.Role)) {
			n++
		}
	}
	return n
}

// EntriesAffecting returns the entries overlapping [start, end] that apply
// to role, ordered by start date. An empty role matches every entry.
func EntriesAffecting(entries []model.TimeOffEntry, start, end time.Time, role string) []model.TimeOffEntry {
	out := make([]model.TimeOffEntry, 0, len(entries))
	for _, e := range entries {
		if !IsAffectingRange(e, start, end) {
			continue
		}
		if role != "" && !AffectsRole(e, role) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ValidateEntry checks an entry before it is stored.
func ValidateEntry(entry model.TimeOffEntry) error {
	if strings.TrimSpace(entry.Title) == "" {
		return &model.ValidationError{Field: "title", Message: "is required"}
	}
	if entry.StartDate.IsZero() {
		return &model.ValidationError{Field: "startDate", Message: "is required"}
	}
	if entry.EndDate != nil && dateOf(*entry.EndDate).Before(dateOf(entry.StartDate)) {
		return &model.ValidationError{Field: "endDate", Message: "must not be before startDate"}
	}

	switch entry.Scope {
	case model.ScopeAll:
	case model.ScopeRoles:
		if len(entry.Roles) == 0 {
			return &model.ValidationError{Field: "roles", Message: "at least one role is required for ROLES scope"}
		}
		for _, r := range entry.Roles {
			if _, ok := model.ParseRole(r); !ok {
				return &model.ValidationError{Field: "roles", Message: "unknown role " + r}
			}
		}
	default:
		return &model.ValidationError{Field: "scope", Message: "must be ALL or ROLES"}
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
