// Package resolve implements the stable identity resolver: given a template
// variable name and a normalised submission payload, it walks an ordered,
// short-circuiting chain of strategies until one produces a value. The chain
// order is a contract — earlier strategies (stable id, author mapping) must
// pre-empt the looser ones (similarity, common prefixes) — so it is exposed
// as an explicit strategy list rather than buried in control flow.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/payload"
	"github.com/goliatone/go-formvars/pkg/semantics"
)

// Request carries everything a strategy may consult: the variable under
// resolution, the normalised payload, the extracted field catalog, and the
// recognised semantic roles. Strategies treat all of it as read-only.
type Request struct {
	FormID   string
	Variable string
	Payload  payload.Flat
	Catalog  []catalog.FieldDescriptor
	Roles    semantics.Roles
}

// Strategy is one step of the resolution chain: a pure lookup that either
// produces a value or reports a miss. Strategies never fail.
type Strategy interface {
	Name() string
	Resolve(req Request) (any, bool)
}

type strategyFunc struct {
	name string
	fn   func(Request) (any, bool)
}

func (s strategyFunc) Name() string { return s.name }

func (s strategyFunc) Resolve(req Request) (any, bool) { return s.fn(req) }

// NewStrategy wraps a plain function as a named Strategy.
func NewStrategy(name string, fn func(Request) (any, bool)) Strategy {
	return strategyFunc{name: name, fn: fn}
}

// Option customises a Resolver before construction.
type Option func(*Resolver)

// WithChain overrides the strategy chain. Order is significant.
func WithChain(chain []Strategy) Option {
	return func(r *Resolver) {
		if len(chain) > 0 {
			r.chain = chain
		}
	}
}

// WithLogger injects the logger used for per-strategy decision logging.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.log = logger.Named("resolve")
		}
	}
}

// WithObserver registers an observer that receives a structured event at
// every resolution decision point.
func WithObserver(observer Observer) Option {
	return func(r *Resolver) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// Resolver executes the strategy chain with a short-circuiting fold.
type Resolver struct {
	chain    []Strategy
	log      *zap.Logger
	observer Observer
}

// New constructs a Resolver. Without options it runs the default chain with a
// no-op logger and observer.
func New(options ...Option) *Resolver {
	r := &Resolver{
		chain:    DefaultChain(),
		log:      zap.NewNop(),
		observer: NopObserver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Resolve walks the chain in order and returns the first defined value. A
// cancelled context stops the walk early and reports a miss; resolution is a
// pure read path, so abandoning it mid-chain loses nothing.
func (r *Resolver) Resolve(ctx context.Context, req Request) (any, bool) {
	if req.Variable == "" {
		return nil, false
	}
	for _, strategy := range r.chain {
		if ctx != nil && ctx.Err() != nil {
			return nil, false
		}
		r.observer.ObserveResolution(Event{
			Kind:     EventStrategyAttempt,
			FormID:   req.FormID,
			Variable: req.Variable,
			Strategy: strategy.Name(),
		})
		value, ok := strategy.Resolve(req)
		if !ok {
			continue
		}
		r.observer.ObserveResolution(Event{
			Kind:     EventStrategyMatch,
			FormID:   req.FormID,
			Variable: req.Variable,
			Strategy: strategy.Name(),
		})
		r.log.Info("variable resolved",
			zap.String("variable", req.Variable),
			zap.String("strategy", strategy.Name()))
		return value, true
	}
	r.observer.ObserveResolution(Event{
		Kind:     EventResolutionMiss,
		FormID:   req.FormID,
		Variable: req.Variable,
	})
	r.log.Info("variable unresolved", zap.String("variable", req.Variable))
	return nil, false
}
