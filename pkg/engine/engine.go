// Package engine wires the field catalog, semantic recogniser, resolution
// chain, system variable provider, and substitution scheduler into the three
// operations exposed to the surrounding application: Render,
// ResolveAllMappings, and ResolveOne. All three are total from the caller's
// perspective — they log their diagnostics and degrade to the best value they
// can produce instead of returning errors or panicking.
package engine

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/resolve"
	"github.com/goliatone/go-formvars/pkg/store"
	"github.com/goliatone/go-formvars/pkg/template"
)

// Option customises the engine configuration.
type Option func(*Engine)

// WithFormStore injects the store used to fetch form records. Defaults to an
// empty in-memory store.
func WithFormStore(forms store.FormStore) Option {
	return func(e *Engine) {
		if forms != nil {
			e.forms = forms
		}
	}
}

// WithLogger injects the logger shared by every component the engine
// constructs itself. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.log = logger
		}
	}
}

// WithObserver registers an observer receiving every resolution decision
// event, including batch timeouts.
func WithObserver(observer resolve.Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// WithResolver injects a custom resolver, replacing the default chain.
func WithResolver(resolver *resolve.Resolver) Option {
	return func(e *Engine) {
		if resolver != nil {
			e.resolver = resolver
		}
	}
}

// WithSystemVariables injects a custom system variable provider; tests use
// this to pin the clock and random source.
func WithSystemVariables(sysvars *resolve.SystemVariables) Option {
	return func(e *Engine) {
		if sysvars != nil {
			e.sysvars = sysvars
		}
	}
}

// WithTemplateEngine injects a custom substitution engine, for callers that
// need non-default batch sizing or timeouts.
func WithTemplateEngine(templates *template.Engine) Option {
	return func(e *Engine) {
		if templates != nil {
			e.templates = templates
		}
	}
}

// WithCatalogExtractor injects a custom field catalog extractor.
func WithCatalogExtractor(extractor *catalog.Extractor) Option {
	return func(e *Engine) {
		if extractor != nil {
			e.extractor = extractor
		}
	}
}

// WithSanitizer applies a bluemonday policy to every resolved value before
// substitution. Rendered templates in this domain are usually HTML email
// bodies and payload values are untrusted user input. Off by default so plain
// text renders stay exact.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		e.sanitizer = policy
	}
}

// Engine resolves template variables against form submissions.
type Engine struct {
	forms     store.FormStore
	extractor *catalog.Extractor
	resolver  *resolve.Resolver
	sysvars   *resolve.SystemVariables
	templates *template.Engine
	sanitizer *bluemonday.Policy
	observer  resolve.Observer
	log       *zap.Logger
}

// New constructs an Engine applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Engine {
	e := &Engine{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

func (e *Engine) applyDefaults() {
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.observer == nil {
		e.observer = resolve.NopObserver()
	}
	if e.forms == nil {
		e.forms = store.NewMemoryFormStore()
	}
	if e.extractor == nil {
		e.extractor = catalog.NewExtractor(catalog.WithLogger(e.log))
	}
	if e.resolver == nil {
		e.resolver = resolve.New(
			resolve.WithLogger(e.log),
			resolve.WithObserver(e.observer),
		)
	}
	if e.sysvars == nil {
		e.sysvars = resolve.NewSystemVariables(resolve.WithSystemLogger(e.log))
	}
	if e.templates == nil {
		e.templates = template.NewEngine(
			template.WithLogger(e.log),
			template.WithObserver(e.observer),
		)
	}
}
