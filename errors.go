package cascade

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTemplate indicates a relationship named a state or modifier
	// that was never registered. Setup aborts before any attachment occurs.
	ErrUnknownTemplate = errors.New("cascade: unknown template")
	// ErrMissingKey indicates the key resolver produced an empty key for a
	// host reference. This is a configuration error, not a runtime condition.
	ErrMissingKey = errors.New("cascade: key resolver produced an empty key")
	// ErrCycleDetected indicates a cascade exceeded the configured depth
	// limit, which in an acyclic graph can only happen through a dependency
	// cycle between elements.
	ErrCycleDetected = errors.New("cascade: dependency cycle detected")
	// ErrNoEvaluator indicates an expression template was registered without
	// an evaluator available.
	ErrNoEvaluator = errors.New("cascade: evaluator not configured")
)

// Cascade phases reported by CascadeError.
const (
	PhaseEvaluate = "evaluate"
	PhaseMutate   = "mutate"
)

// CascadeError captures where inside a cascade a callback failed. Already
// executed mutations are not rolled back.
type CascadeError struct {
	Element string
	Node    string
	Phase   string
	Err     error
}

func (e *CascadeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cascade: %s %q on element %q: %v", e.Phase, e.Node, e.Element, e.Err)
}

func (e *CascadeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError captures evaluator metadata alongside the originating
// error from an expression template.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cascade: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "cascade:") {
		return err
	}
	return fmt.Errorf("cascade: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
