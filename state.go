package cascade

import (
	"time"

	"github.com/goliatone/go-cascade/pkg/activity"
)

// State is a per-element instance of a named predicate template. An instance
// is attached to exactly one element; a template may produce many instances.
type State struct {
	name      string
	engine    string
	owner     *Element
	predicate Predicate

	// subscription order is publish order. Duplicate entries are possible
	// when identical relationships are created repeatedly; see the
	// relationship builder.
	subscribers []*Modifier
}

// Name returns the template name the instance was issued from.
func (s *State) Name() string {
	return s.name
}

// evaluate recomputes activeness against the live host reference.
func (s *State) evaluate(e *Engine, t *trigger) (bool, error) {
	start := time.Now()
	active, err := s.predicate(s.owner.host)
	e.evalLogger().LogEvaluation(EvalLogEvent{
		Engine:    s.engine,
		Element:   s.owner.key,
		State:     s.name,
		TriggerID: t.id,
		Depth:     t.depth,
		Active:    active,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return false, &CascadeError{
			Element: s.owner.key,
			Node:    s.name,
			Phase:   PhaseEvaluate,
			Err:     err,
		}
	}
	return active, nil
}

// publish executes every subscribed modifier in subscription order. The
// caller has already established activeness; publish does not re-check it.
func (s *State) publish(e *Engine, t *trigger) error {
	e.emit(activity.BuildStateActivatedEvent(activity.GraphEventInput{
		TriggerID: t.id,
		Element:   s.owner.key,
		Node:      s.name,
	}))
	for _, mod := range s.subscribers {
		if err := mod.execute(e, t); err != nil {
			return err
		}
	}
	return nil
}
