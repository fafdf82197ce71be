package cascade

import "time"

// EvalLogEvent describes one predicate evaluation during a cascade.
type EvalLogEvent struct {
	Engine    string
	Element   string
	State     string
	TriggerID string
	Depth     int
	Active    bool
	Duration  time.Duration
	Err       error
}

// EvalLogger records predicate evaluations.
type EvalLogger interface {
	LogEvaluation(EvalLogEvent)
}

// EvalLoggerFunc adapts a function to EvalLogger.
type EvalLoggerFunc func(EvalLogEvent)

// LogEvaluation implements EvalLogger.
func (f EvalLoggerFunc) LogEvaluation(event EvalLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvalLogger struct{}

func (noopEvalLogger) LogEvaluation(EvalLogEvent) {}

// WithEvalLogger attaches an evaluation logger to the engine.
func WithEvalLogger(logger EvalLogger) Option {
	return func(cfg *engineConfig) {
		if logger == nil {
			cfg.logger = noopEvalLogger{}
			return
		}
		cfg.logger = logger
	}
}
