// Package formvars resolves {{variable}} placeholders in user-authored
// templates against form submissions. Form authors edit labels, types, and
// ids freely; the engine keeps templates working across those edits by
// walking an ordered chain of resolution strategies (pre-mapped keys, direct
// keys, stable ids, author mappings, labels, semantic roles, alias and prefix
// patterns) and degrading to the empty string rather than failing. The root
// package re-exports the public seams; the pipeline lives under pkg/.
package formvars

import (
	"context"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/engine"
	"github.com/goliatone/go-formvars/pkg/resolve"
	"github.com/goliatone/go-formvars/pkg/store"
)

// Form is the record handed over by the form store.
type Form = catalog.Form

// Section groups fields inside a form.
type Section = catalog.Section

// FieldDescriptor is one form field as authored.
type FieldDescriptor = catalog.FieldDescriptor

// Engine resolves template variables against form submissions.
type Engine = engine.Engine

// Option customises the engine configuration.
type Option = engine.Option

// FormStore retrieves form records by id.
type FormStore = store.FormStore

// Observer receives structured resolution events.
type Observer = resolve.Observer

// Event is one structured resolution decision.
type Event = resolve.Event

// New constructs an engine applying any provided options.
func New(options ...Option) *Engine {
	return engine.New(options...)
}

// WithFormStore injects the store used to fetch form records.
var WithFormStore = engine.WithFormStore

// WithLogger injects the logger shared by engine components.
var WithLogger = engine.WithLogger

// WithObserver registers an observer for resolution decision events.
var WithObserver = engine.WithObserver

// WithSanitizer applies a bluemonday policy to resolved values.
var WithSanitizer = engine.WithSanitizer

// Render builds a one-shot engine and runs the full tokenize → resolve →
// substitute pipeline. It is the simplest entry point for callers that just
// want a rendered string.
func Render(ctx context.Context, template, formID string, payload any, options ...Option) string {
	return engine.New(options...).Render(ctx, template, formID, payload)
}

// ResolveAllMappings builds a one-shot engine and returns the flattened
// mapped view of a submission: original keys plus every derivable alias.
func ResolveAllMappings(ctx context.Context, formID string, payload any, options ...Option) map[string]any {
	return engine.New(options...).ResolveAllMappings(ctx, formID, payload)
}

// ResolveOne builds a one-shot engine and maps a field id to its best stable
// alias.
func ResolveOne(ctx context.Context, formID, fieldID string, options ...Option) string {
	return engine.New(options...).ResolveOne(ctx, formID, fieldID)
}
