// Package store defines the persistence seams the engine depends on — a form
// store and a submission store — together with in-memory implementations and
// a read-through TTL cache. The engine itself never persists anything; these
// interfaces are how the surrounding application hands it records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

// ErrFormNotFound reports a form id unknown to the store.
var ErrFormNotFound = errors.New("store: form not found")

// ErrSubmissionNotFound reports a submission id unknown to the store.
var ErrSubmissionNotFound = errors.New("store: submission not found")

// FormStore retrieves form records by id.
type FormStore interface {
	GetForm(ctx context.Context, id string) (catalog.Form, error)
}

// FormStoreFunc adapts a function to the FormStore interface.
type FormStoreFunc func(ctx context.Context, id string) (catalog.Form, error)

// GetForm implements FormStore.
func (f FormStoreFunc) GetForm(ctx context.Context, id string) (catalog.Form, error) {
	return f(ctx, id)
}

// Submission is one recorded form fill.
type Submission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SubmissionStore persists form submissions.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, submission Submission) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, formID string) ([]Submission, error)
	UpdateSubmission(ctx context.Context, submission Submission) (Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
}
