// Package template implements the substitution half of the pipeline: it
// tokenizes {{variable}} placeholders, schedules their resolution in bounded
// concurrent batches, and merges the results back into the template string.
// Substitution is total — an unresolved variable becomes the empty string and
// a timed-out batch empties only its own variables, so one bad lookup can
// never fail a whole render.
package template

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formvars/pkg/resolve"
)

const (
	// DefaultBatchSize is how many distinct variables resolve concurrently
	// under one shared deadline.
	DefaultBatchSize = 5
	// DefaultVariableTimeout is the per-variable share of a batch deadline.
	DefaultVariableTimeout = 2 * time.Second
	// DefaultMaxBatchTimeout caps a batch deadline regardless of size.
	DefaultMaxBatchTimeout = 10 * time.Second
)

// tokenPattern matches {{ name }} placeholders: double braces around any run
// of non-brace characters. Compiled once; the matcher itself is stateless so
// concurrent renders cannot trip over shared match positions.
var tokenPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Tokenize returns the distinct variable names referenced by the template, in
// first-appearance order. Whitespace inside the braces is insignificant and
// empty tokens are dropped.
func Tokenize(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ResolveFunc resolves one variable name to its substitution value. The
// context carries the batch deadline; implementations should return promptly
// once it is done.
type ResolveFunc func(ctx context.Context, name string) (string, bool)

// Option customises an Engine before construction.
type Option func(*Engine)

// WithBatchSize overrides the number of variables resolved concurrently.
func WithBatchSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithVariableTimeout overrides the per-variable share of a batch deadline.
func WithVariableTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.perVariable = d
		}
	}
}

// WithMaxBatchTimeout overrides the cap applied to batch deadlines.
func WithMaxBatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.maxBatch = d
		}
	}
}

// WithLogger injects the logger used for batch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.log = logger.Named("template")
		}
	}
}

// WithObserver registers an observer notified when batches time out.
func WithObserver(observer resolve.Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// Engine performs tokenize → schedule → substitute over a template string.
type Engine struct {
	batchSize   int
	perVariable time.Duration
	maxBatch    time.Duration
	log         *zap.Logger
	observer    resolve.Observer
}

// NewEngine constructs an Engine with production defaults.
func NewEngine(options ...Option) *Engine {
	e := &Engine{
		batchSize:   DefaultBatchSize,
		perVariable: DefaultVariableTimeout,
		maxBatch:    DefaultMaxBatchTimeout,
		log:         zap.NewNop(),
		observer:    resolve.NopObserver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Substitute resolves every distinct variable once and replaces all of its
// occurrences, substituting the empty string for anything unresolved.
// Malformed or unmatched brace sequences are left untouched.
func (e *Engine) Substitute(ctx context.Context, template string, fn ResolveFunc) string {
	names := Tokenize(template)
	if len(names) == 0 {
		return template
	}
	resolved := e.resolveAll(ctx, names, fn)
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		return resolved[name]
	})
}

// resolveAll partitions names into fixed-size batches and resolves each batch
// concurrently under its own deadline. Batches run strictly sequentially; a
// batch that misses its deadline is discarded and its in-flight lookups are
// abandoned, never joined.
func (e *Engine) resolveAll(ctx context.Context, names []string, fn ResolveFunc) map[string]string {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make(map[string]string, len(names))
	for index, batch := range partition(names, e.batchSize) {
		e.resolveBatch(ctx, index, batch, fn, out)
	}
	return out
}

func (e *Engine) resolveBatch(ctx context.Context, index int, batch []string, fn ResolveFunc, out map[string]string) {
	timeout := e.perVariable * time.Duration(len(batch))
	if timeout > e.maxBatch {
		timeout = e.maxBatch
	}
	batchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	values := make([]string, len(batch))
	hits := make([]bool, len(batch))
	group, groupCtx := errgroup.WithContext(batchCtx)
	for i, name := range batch {
		i, name := i, name
		group.Go(func() error {
			values[i], hits[i] = fn(groupCtx, name)
			return nil
		})
	}

	settled := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(settled)
	}()

	select {
	case <-settled:
		for i, name := range batch {
			if hits[i] {
				out[name] = values[i]
			}
		}
	case <-batchCtx.Done():
		// The slice results are abandoned without joining the goroutines;
		// resolution is a pure read path with nothing to undo.
		e.observer.ObserveResolution(resolve.Event{
			Kind:  resolve.EventBatchTimeout,
			Batch: index,
		})
		e.log.Error("resolution batch timed out",
			zap.Int("batch", index),
			zap.Duration("timeout", timeout),
			zap.Strings("variables", batch))
	}
}

func partition(names []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]string
	for start := 0; start < len(names); start += size {
		end := start + size
		if end > len(names) {
			end = len(names)
		}
		batches = append(batches, names[start:end])
	}
	return batches
}
