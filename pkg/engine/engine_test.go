package engine

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/resolve"
	"github.com/goliatone/go-formvars/pkg/store"
)

func inquiryForm() catalog.Form {
	return catalog.Form{
		ID: "form-1",
		Sections: []catalog.Section{
			{Fields: []catalog.FieldDescriptor{
				{ID: "f1", Type: catalog.FieldTypeEmail, Label: "Your Email", StableID: "item_email"},
				{ID: "f2", Type: catalog.FieldTypeText, Label: "First Name"},
				{ID: "f3", Type: catalog.FieldTypeTel, Label: "Phone Number", Mapping: "contactPhone"},
			}},
		},
	}
}

func newTestEngine(options ...Option) *Engine {
	base := []Option{
		WithFormStore(store.NewMemoryFormStore(inquiryForm())),
	}
	return New(append(base, options...)...)
}

func TestRender_StableID(t *testing.T) {
	engine := newTestEngine()
	got := engine.Render(context.Background(), "Contact: {{item_email}}", "form-1", map[string]any{"f1": "a@b.com"})
	assert.Equal(t, "Contact: a@b.com", got)
}

func TestRender_SemanticRoleViaType(t *testing.T) {
	engine := newTestEngine()
	got := engine.Render(context.Background(), "Contact: {{email}}", "form-1", map[string]any{"f1": "a@b.com"})
	assert.Equal(t, "Contact: a@b.com", got)
}

func TestRender_UnknownVariableBecomesEmpty(t *testing.T) {
	engine := newTestEngine()
	got := engine.Render(context.Background(), "[{{doesNotExist}}]", "form-1", map[string]any{"f1": "a@b.com"})
	assert.Equal(t, "[]", got)
}

func TestRender_LabelAndMappingVariables(t *testing.T) {
	engine := newTestEngine()
	payload := map[string]any{"f2": "Ada", "f3": "555-0100"}

	assert.Equal(t, "Ada", engine.Render(context.Background(), "{{firstName}}", "form-1", payload))
	assert.Equal(t, "555-0100", engine.Render(context.Background(), "{{contactPhone}}", "form-1", payload))
	assert.Equal(t, "555-0100", engine.Render(context.Background(), "{{phone}}", "form-1", payload))
}

func TestRender_ArrayShapedPayload(t *testing.T) {
	engine := newTestEngine()
	payload := []any{
		map[string]any{"id": "f1", "value": "a@b.com"},
		map[string]any{"id": "x9", "value": "Ada Lovelace", "type": "name"},
	}

	assert.Equal(t, "a@b.com", engine.Render(context.Background(), "{{item_email}}", "form-1", payload))
	// The item's own declared type feeds the recogniser even though the form
	// catalog knows nothing about field x9.
	assert.Equal(t, "Ada Lovelace", engine.Render(context.Background(), "{{name}}", "form-1", payload))
}

func TestRender_SystemVariables(t *testing.T) {
	sysvars := resolve.NewSystemVariables(
		resolve.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
		resolve.WithRand(func(int) int { return 7 }),
	)
	engine := newTestEngine(WithSystemVariables(sysvars))

	got := engine.Render(context.Background(), "{{leadId}}", "form-1", map[string]any{"trackingToken": "abc_12345"})
	assert.Equal(t, "abc", got)

	got = engine.Render(context.Background(), "{{timestamp}}", "form-1", nil)
	assert.Equal(t, "1700000000000", got)

	got = engine.Render(context.Background(), "{{trackingToken}}", "form-1", nil)
	assert.Equal(t, "lead-form-1-7-1700000000000", got)
}

func TestRender_TimestampIsCurrent(t *testing.T) {
	start := time.Now().UnixMilli()
	engine := newTestEngine()
	got := engine.Render(context.Background(), "{{timestamp}}", "form-1", nil)

	ms, err := strconv.ParseInt(got, 10, 64)
	require.NoError(t, err, "timestamp must be all digits, got %q", got)
	assert.GreaterOrEqual(t, ms, start)
}

func TestRender_Totality(t *testing.T) {
	engine := newTestEngine()
	templates := []string{
		"",
		"plain text",
		"{{unclosed",
		"}}{{",
		"{{}}",
		"{{a}}{{b}}{{a}}",
	}
	payloads := []any{
		nil,
		map[string]any{"f1": nil},
		[]any{map[string]any{"id": "f1"}},
		"not even json",
		42,
	}
	for _, tmpl := range templates {
		for _, p := range payloads {
			assert.NotPanics(t, func() {
				_ = engine.Render(context.Background(), tmpl, "form-1", p)
			})
		}
	}
}

func TestRender_FormFetchFailureReturnsTemplateUnmodified(t *testing.T) {
	engine := New(WithFormStore(store.NewMemoryFormStore()))
	tmpl := "Hello {{name}}, you are {{email}}"
	got := engine.Render(context.Background(), tmpl, "missing-form", map[string]any{"name": "Ada"})
	assert.Equal(t, tmpl, got)
}

func TestRender_Idempotent(t *testing.T) {
	engine := newTestEngine()
	payload := map[string]any{"f1": "a@b.com", "f2": "Ada"}

	first := engine.Render(context.Background(), "{{firstName}} <{{item_email}}>", "form-1", payload)
	second := engine.Render(context.Background(), first, "form-1", payload)
	assert.Equal(t, first, second)
}

func TestRender_Sanitizer(t *testing.T) {
	payload := map[string]any{"f1": "<script>alert(1)</script>a@b.com"}

	plain := newTestEngine()
	assert.Contains(t, plain.Render(context.Background(), "{{item_email}}", "form-1", payload), "<script>")

	sanitised := newTestEngine(WithSanitizer(bluemonday.StrictPolicy()))
	got := sanitised.Render(context.Background(), "{{item_email}}", "form-1", payload)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "a@b.com")
}

func TestResolveAllMappings(t *testing.T) {
	engine := newTestEngine()
	payload := map[string]any{"f1": "a@b.com", "f2": "Ada", "f3": "555-0100"}

	got := engine.ResolveAllMappings(context.Background(), "form-1", payload)

	for key, want := range map[string]any{
		"f1":           "a@b.com",
		"f2":           "Ada",
		"f3":           "555-0100",
		"item_email":   "a@b.com",
		"contactPhone": "555-0100",
		"yourEmail":    "a@b.com",
		"firstName":    "Ada",
		"email":        "a@b.com",
		"phone":        "555-0100",
	} {
		assert.Equal(t, want, got[key], "alias %q", key)
	}
}

func TestResolveAllMappings_DoesNotMutateInput(t *testing.T) {
	engine := newTestEngine()
	payload := map[string]any{"f1": "a@b.com"}
	snapshot := map[string]any{"f1": "a@b.com"}

	_ = engine.ResolveAllMappings(context.Background(), "form-1", payload)
	if diff := cmp.Diff(snapshot, payload); diff != "" {
		t.Fatalf("payload mutated (-want +got):\n%s", diff)
	}
}

func TestResolveAllMappings_AliasNeverClobbersPayloadKey(t *testing.T) {
	engine := newTestEngine()
	payload := map[string]any{"f1": "a@b.com", "email": "explicit@b.com"}

	got := engine.ResolveAllMappings(context.Background(), "form-1", payload)
	assert.Equal(t, "explicit@b.com", got["email"])
}

func TestResolveAllMappings_UnknownFormReturnsUnmappedCopy(t *testing.T) {
	engine := New(WithFormStore(store.NewMemoryFormStore()))
	payload := map[string]any{"f1": "x"}

	got := engine.ResolveAllMappings(context.Background(), "missing", payload)
	assert.Equal(t, map[string]any{"f1": "x"}, got)
}

func TestResolveOne(t *testing.T) {
	forms := store.NewMemoryFormStore(catalog.Form{
		ID: "form-2",
		Fields: []catalog.FieldDescriptor{
			{ID: "a", StableID: "item_a", Mapping: "ignored", Label: "Also Ignored"},
			{ID: "b", Mapping: "mapped_b", Label: "Ignored"},
			{ID: "c", Label: "Company Name"},
			{ID: "d"},
		},
	})
	engine := New(WithFormStore(forms))
	ctx := context.Background()

	assert.Equal(t, "item_a", engine.ResolveOne(ctx, "form-2", "a"))
	assert.Equal(t, "mapped_b", engine.ResolveOne(ctx, "form-2", "b"))
	assert.Equal(t, "companyName", engine.ResolveOne(ctx, "form-2", "c"))
	assert.Equal(t, "d", engine.ResolveOne(ctx, "form-2", "d"))
	assert.Equal(t, "unknown", engine.ResolveOne(ctx, "form-2", "unknown"))
	assert.Equal(t, "a", engine.ResolveOne(ctx, "no-such-form", "a"))
}

func TestRender_ObserverReceivesSystemVariableEvents(t *testing.T) {
	var mu sync.Mutex
	var events []resolve.Event
	engine := newTestEngine(WithObserver(resolve.ObserverFunc(func(ev resolve.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})))

	_ = engine.Render(context.Background(), "{{timestamp}}", "form-1", nil)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	assert.Equal(t, resolve.EventSystemVariable, events[0].Kind)
	assert.Equal(t, "timestamp", events[0].Variable)
}
