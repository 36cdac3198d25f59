package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"timesheet.service/internal/core/calendar"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/repository"
)

// CalendarService maintains the shared holiday and time-off calendar.
type CalendarService struct {
	repo  repository.TimeOffRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewCalendarService(repo repository.TimeOffRepository, users repository.UserRepository) *CalendarService {
	return &CalendarService{repo: repo, users: users, now: time.Now}
}

// Create adds an entry. Admin only.
func (s *CalendarService) Create(ctx context.Context, actor model.Actor, entry model.TimeOffEntry) (*model.TimeOffEntry, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	normalize(&entry)
	if err := calendar.ValidateEntry(entry); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry.ID = uuid.New().String()
	entry.CreatedBy = actor.ID
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.countAffected(ctx, &entry); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTimeOff(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to create time-off entry: %w", err)
	}

	log.Ctx(ctx).Info().Str("entry_id", entry.ID).Int("affected", entry.AffectedCount).Msg("Time-off entry created")
	return &entry, nil
}

// Update replaces an entry's editable fields. Admin only.
func (s *CalendarService) Update(ctx context.Context, actor model.Actor, entry model.TimeOffEntry) (*model.TimeOffEntry, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	existing, err := s.repo.GetTimeOff(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get time-off entry %s: %w", entry.ID, err)
	}

	normalize(&entry)
	if err := calendar.ValidateEntry(entry); err != nil {
		return nil, err
	}

	entry.CreatedBy = existing.CreatedBy
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = s.now().UTC()

	if err := s.countAffected(ctx, &entry); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTimeOff(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to update time-off entry %s: %w", entry.ID, err)
	}
	return &entry, nil
}

// Delete removes an entry. Admin only.
func (s *CalendarService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.DeleteTimeOff(ctx, id); err != nil {
		return fmt.Errorf("failed to delete time-off entry %s: %w", id, err)
	}
	return nil
}

// List returns every entry ordered by start date.
func (s *CalendarService) List(ctx context.Context) ([]model.TimeOffEntry, error) {
	entries, err := s.repo.ListTimeOff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off entries: %w", err)
	}
	return entries, nil
}

// ListAffecting returns entries overlapping [from, to] that apply to role.
func (s *CalendarService) ListAffecting(ctx context.Context, from, to time.Time, role string) ([]model.TimeOffEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.EntriesAffecting(entries, from, to, role), nil
}

func (s *CalendarService) countAffected(ctx context.Context, entry *model.TimeOffEntry) error {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	entry.AffectedCount = calendar.CountAffected(*entry, users)
	return nil
}

func normalize(entry *model.TimeOffEntry) {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Scope = model.TimeOffScope(strings.ToUpper(strings.TrimSpace(string(entry.Scope))))
	if entry.Scope == "" {
		entry.Scope = model.ScopeAll
	}
	if entry.Scope == model.ScopeAll {
		entry.Roles = nil
		return
	}
	roles := make([]string, 0, len(entry.Roles))
	for _, r := range entry.Roles {
		roles = append(roles, strings.ToUpper(strings.TrimSpace(r)))
	}
	entry.Roles = roles
}
