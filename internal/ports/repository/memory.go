package repository

import (
	"context"
	"sort"
	"sync"

	"timesheet.service/internal/core/model"
)

type memoryTxKey struct{}

// MemoryStore is an in-process implementation of every repository port.
// It backs local development and tests.
type MemoryStore struct {
	// writeMu serialises writers so a rolled back transaction can restore
	// its snapshot without discarding anyone else's changes.
	writeMu sync.Mutex

	mu          sync.RWMutex
	submissions map[string]model.Submission
	payments    map[string]model.Payment
	timeOff     map[string]model.TimeOffEntry
	users       map[string]model.User
}

// NewMemoryStore creates an empty store seeded with users.
func NewMemoryStore(users ...model.User) *MemoryStore {
	s := &MemoryStore{
		submissions: make(map[string]model.Submission),
		payments:    make(map[string]model.Payment),
		timeOff:     make(map[string]model.TimeOffEntry),
		users:       make(map[string]model.User),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *MemoryStore) lockWrite(ctx context.Context) func() {
	if ctx.Value(memoryTxKey{}) != nil {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

// WithinTx restores the store to its prior state when fn fails.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	subs := copyMap(s.submissions)
	payments := copyMap(s.payments)
	timeOff := copyMap(s.timeOff)
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, true)); err != nil {
		s.mu.Lock()
		s.submissions, s.payments, s.timeOff = subs, payments, timeOff
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &sub, nil
}

func (s *MemoryStore) ListSubmissions(ctx context.Context, scope Scope) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if scope.ContractorID != "" && sub.ContractorID != scope.ContractorID {
			continue
		}
		if scope.ManagerID != "" && sub.ManagerID != scope.ManagerID {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CompareAndSetStatus(ctx context.Context, id string, expected model.Status, m model.Mutation) (*model.Submission, error) {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if sub.Status != expected {
		return nil, &StatusMismatchError{ID: id, Expected: expected, Actual: sub.Status}
	}

	updated := m.ApplyTo(sub)
	s.submissions[id] = updated
	return &updated, nil
}

func (s *MemoryStore) CreatePayment(ctx context.Context, p model.Payment) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	return nil
}

func (s *MemoryStore) ListPayments(ctx context.Context, contractorID string) ([]model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if contractorID == "" || p.ContractorID == contractorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(out[j].PaidAt) {
			return out[i].PaidAt.After(out[j].PaidAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateTimeOff(ctx context.Context, e *model.TimeOffEntry) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeOff[e.ID] = cloneEntry(*e)
	return nil
}

func (s *MemoryStore) UpdateTimeOff(ctx context.Context, e *model.TimeOffEntry) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timeOff[e.ID]; !ok {
		return model.ErrNotFound
	}
	s.timeOff[e.ID] = cloneEntry(*e)
	return nil
}

func (s *MemoryStore) DeleteTimeOff(ctx context.Context, id string) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timeOff[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.timeOff, id)
	return nil
}

func (s *MemoryStore) GetTimeOff(ctx context.Context, id string) (*model.TimeOffEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.timeOff[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	e = cloneEntry(e)
	return &e, nil
}

func (s *MemoryStore) ListTimeOff(ctx context.Context) ([]model.TimeOffEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TimeOffEntry, 0, len(s.timeOff))
	for _, e := range s.timeOff {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneEntry(e model.TimeOffEntry) model.TimeOffEntry {
	if e.Roles != nil {
		e.Roles = append([]string(nil), e.Roles...)
	}
	if e.EndDate != nil {
		t := *e.EndDate
		e.EndDate = &t
	}
	return e
}
