package resolve

import "go.uber.org/zap"

// EventKind tags a resolution decision point.
type EventKind string

const (
	// EventStrategyAttempt fires before each strategy in the chain runs.
	EventStrategyAttempt EventKind = "strategy_attempt"
	// EventStrategyMatch fires when a strategy produces a value.
	EventStrategyMatch EventKind = "strategy_match"
	// EventResolutionMiss fires when the whole chain is exhausted.
	EventResolutionMiss EventKind = "resolution_miss"
	// EventSystemVariable fires when a reserved name is served by the system
	// variable provider instead of the chain.
	EventSystemVariable EventKind = "system_variable"
	// EventBatchTimeout fires when a scheduler batch exceeds its deadline.
	EventBatchTimeout EventKind = "batch_timeout"
)

// Event is one structured resolution decision. Batch indexes and variable
// names let callers reconstruct chain behaviour without parsing log text.
type Event struct {
	Kind     EventKind
	FormID   string
	Variable string
	Strategy string
	Batch    int
}

// Observer receives resolution events. Implementations must be safe for
// concurrent use; batches resolve variables in parallel.
type Observer interface {
	ObserveResolution(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// ObserveResolution implements Observer.
func (f ObserverFunc) ObserveResolution(ev Event) { f(ev) }

// NopObserver returns an observer that discards every event.
func NopObserver() Observer {
	return ObserverFunc(func(Event) {})
}

// ZapObserver returns an observer that logs every event through the provided
// logger at info level, under the "resolve.events" name.
func ZapObserver(logger *zap.Logger) Observer {
	if logger == nil {
		return NopObserver()
	}
	log := logger.Named("resolve.events")
	return ObserverFunc(func(ev Event) {
		log.Info(string(ev.Kind),
			zap.String("form_id", ev.FormID),
			zap.String("variable", ev.Variable),
			zap.String("strategy", ev.Strategy),
			zap.Int("batch", ev.Batch))
	})
}
