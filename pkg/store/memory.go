package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

// MemoryFormStore is a map-backed FormStore, safe for concurrent use.
type MemoryFormStore struct {
	mu    sync.RWMutex
	forms map[string]catalog.Form
}

// NewMemoryFormStore constructs a store seeded with the provided forms.
func NewMemoryFormStore(forms ...catalog.Form) *MemoryFormStore {
	s := &MemoryFormStore{forms: make(map[string]catalog.Form, len(forms))}
	for _, form := range forms {
		s.forms[form.ID] = form
	}
	return s
}

// PutForm inserts or replaces a form record.
func (s *MemoryFormStore) PutForm(form catalog.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = form
}

// GetForm implements FormStore.
func (s *MemoryFormStore) GetForm(ctx context.Context, id string) (catalog.Form, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Form{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return catalog.Form{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	return form, nil
}

// MemorySubmissionStore is a map-backed SubmissionStore, safe for concurrent
// use. Ids are assigned on create when the caller leaves them empty.
type MemorySubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]Submission
	now         func() time.Time
}

// NewMemorySubmissionStore constructs an empty submission store.
func NewMemorySubmissionStore() *MemorySubmissionStore {
	return &MemorySubmissionStore{
		submissions: make(map[string]Submission),
		now:         time.Now,
	}
}

// CreateSubmission implements SubmissionStore.
func (s *MemorySubmissionStore) CreateSubmission(ctx context.Context, submission Submission) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := s.now()
	submission.CreatedAt = now
	submission.UpdatedAt = now
	s.submissions[submission.ID] = submission
	return submission, nil
}

// GetSubmission implements SubmissionStore.
func (s *MemorySubmissionStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[id]
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	return submission, nil
}

// ListSubmissions implements SubmissionStore. Results are ordered by creation
// time, oldest first.
func (s *MemorySubmissionStore) ListSubmissions(ctx context.Context, formID string) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Submission
	for _, submission := range s.submissions {
		if formID == "" || submission.FormID == formID {
			out = append(out, submission)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateSubmission implements SubmissionStore.
func (s *MemorySubmissionStore) UpdateSubmission(ctx context.Context, submission Submission) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.submissions[submission.ID]
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s", ErrSubmissionNotFound, submission.ID)
	}
	submission.CreatedAt = existing.CreatedAt
	submission.UpdatedAt = s.now()
	s.submissions[submission.ID] = submission
	return submission, nil
}

// DeleteSubmission implements SubmissionStore.
func (s *MemorySubmissionStore) DeleteSubmission(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	delete(s.submissions, id)
	return nil
}
