package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

func TestMemoryFormStore(t *testing.T) {
	form := catalog.Form{ID: "form-1", Name: "Inquiry"}
	s := NewMemoryFormStore(form)

	got, err := s.GetForm(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if got.Name != "Inquiry" {
		t.Fatalf("GetForm = %#v", got)
	}

	if _, err := s.GetForm(context.Background(), "missing"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestMemorySubmissionStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySubmissionStore()

	created, err := s.CreateSubmission(ctx, Submission{FormID: "form-1", Values: map[string]any{"f1": "x"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("create must assign an id")
	}

	got, err := s.GetSubmission(ctx, created.ID)
	if err != nil || got.FormID != "form-1" {
		t.Fatalf("get = %#v, %v", got, err)
	}

	got.Values["f1"] = "y"
	updated, err := s.UpdateSubmission(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update must preserve CreatedAt")
	}

	listed, err := s.ListSubmissions(ctx, "form-1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("list = %#v, %v", listed, err)
	}

	if err := s.DeleteSubmission(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSubmission(ctx, created.ID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

type countingFormStore struct {
	inner FormStore
	calls atomic.Int64
}

func (c *countingFormStore) GetForm(ctx context.Context, id string) (catalog.Form, error) {
	c.calls.Add(1)
	return c.inner.GetForm(ctx, id)
}

func TestCachedFormStore_ServesFreshEntries(t *testing.T) {
	counting := &countingFormStore{inner: NewMemoryFormStore(catalog.Form{ID: "form-1"})}

	current := time.Unix(0, 0)
	cache := NewCachedFormStore(counting,
		WithTTL(time.Minute),
		WithCacheClock(func() time.Time { return current }),
	)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cache.GetForm(ctx, "form-1"); err != nil {
			t.Fatalf("GetForm: %v", err)
		}
	}
	if calls := counting.calls.Load(); calls != 1 {
		t.Fatalf("inner store consulted %d times within TTL, want 1", calls)
	}

	current = current.Add(2 * time.Minute)
	if _, err := cache.GetForm(ctx, "form-1"); err != nil {
		t.Fatalf("GetForm after expiry: %v", err)
	}
	if calls := counting.calls.Load(); calls != 2 {
		t.Fatalf("expired entry must re-read the inner store, calls = %d", calls)
	}
}

func TestCachedFormStore_ErrorsAreNotCached(t *testing.T) {
	backing := NewMemoryFormStore()
	counting := &countingFormStore{inner: backing}
	cache := NewCachedFormStore(counting)
	ctx := context.Background()

	if _, err := cache.GetForm(ctx, "form-1"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}

	backing.PutForm(catalog.Form{ID: "form-1"})
	if _, err := cache.GetForm(ctx, "form-1"); err != nil {
		t.Fatalf("later read must retry the inner store: %v", err)
	}
	if calls := counting.calls.Load(); calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestCachedFormStore_Invalidate(t *testing.T) {
	counting := &countingFormStore{inner: NewMemoryFormStore(catalog.Form{ID: "form-1"})}
	cache := NewCachedFormStore(counting)
	ctx := context.Background()

	if _, err := cache.GetForm(ctx, "form-1"); err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	cache.Invalidate("form-1")
	if _, err := cache.GetForm(ctx, "form-1"); err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if calls := counting.calls.Load(); calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}
