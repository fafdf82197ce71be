package cascade

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-cascade/pkg/activity"
	"github.com/google/uuid"
)

const defaultMaxCascadeDepth = 64

// Engine owns the template registries and the element graph. Multiple engines
// are fully independent; construct one per form, document or test. The zero
// value is not usable, construct with New.
type Engine struct {
	mu  sync.RWMutex
	cfg engineConfig

	states    *templateRegistry[stateTemplate]
	modifiers *templateRegistry[modifierTemplate]
	elements  map[string]*Element
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        EvalLogger
	keyResolver   KeyResolver
	maxDepth      int
	activityHooks activity.Hooks
}

// New constructs an Engine with the provided options.
func New(opts ...Option) *Engine {
	cfg := engineConfig{maxDepth: defaultMaxCascadeDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = defaultMaxCascadeDepth
	}
	return &Engine{
		cfg:       cfg,
		states:    newTemplateRegistry[stateTemplate](),
		modifiers: newTemplateRegistry[modifierTemplate](),
		elements:  make(map[string]*Element),
	}
}

// WithEvaluator configures the evaluator used by expression templates.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *engineConfig) {
		cfg.evaluator = e
	}
}

// WithKeyResolver sets the resolver used to derive element identity keys.
func WithKeyResolver(fn KeyResolver) Option {
	return func(cfg *engineConfig) {
		cfg.keyResolver = fn
	}
}

// WithMaxCascadeDepth bounds how many cascade hops a single change signal may
// take before the engine reports ErrCycleDetected. Values below one restore
// the default.
func WithMaxCascadeDepth(depth int) Option {
	return func(cfg *engineConfig) {
		cfg.maxDepth = depth
	}
}

// WithActivityHooks attaches activity hooks notified on change signals, state
// activations and modifier executions. Hooks are cloned and nil entries
// dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *engineConfig) {
		cfg.activityHooks = normalized
	}
}

// AddState registers or overwrites a reusable state template under name.
func (e *Engine) AddState(name string, predicate Predicate) error {
	if name == "" {
		return fmt.Errorf("cascade: state name must not be empty")
	}
	if predicate == nil {
		return fmt.Errorf("cascade: state %q predicate is nil", name)
	}
	e.states.add(name, stateTemplate{engine: "go", predicate: predicate})
	return nil
}

// AddModifier registers or overwrites a reusable modifier template under name.
func (e *Engine) AddModifier(name string, mutate Mutation) error {
	if name == "" {
		return fmt.Errorf("cascade: modifier name must not be empty")
	}
	if mutate == nil {
		return fmt.Errorf("cascade: modifier %q mutation is nil", name)
	}
	e.modifiers.add(name, modifierTemplate{engine: "go", mutate: mutate})
	return nil
}

// SetKeyResolver replaces the key resolver for all future resolutions.
// Already resolved elements keep their original key. Passing nil restores the
// default resolver.
func (e *Engine) SetKeyResolver(fn KeyResolver) {
	e.mu.Lock()
	e.cfg.keyResolver = fn
	e.mu.Unlock()
}

// Changed signals that host's relevant input changed, triggering the fan-out
// of its active states and the full synchronous cascade. It returns once the
// cascade has completed; any callback error aborts the cascade and surfaces
// here, with already executed mutations left in place.
func (e *Engine) Changed(host any) error {
	el, err := e.resolve(host)
	if err != nil {
		return err
	}
	return e.trigger(el)
}

// StateActive evaluates the named state against host. Activeness is
// recomputed on every call. Hosts without an attached instance are probed
// with a fresh instance from the template registry.
func (e *Engine) StateActive(host any, name string) (bool, error) {
	el, err := e.resolve(host)
	if err != nil {
		return false, err
	}
	st, ok := el.state(name)
	if !ok {
		st, err = e.instantiateState(name)
		if err != nil {
			return false, err
		}
		st.owner = el
	}
	return st.evaluate(e, &trigger{id: uuid.NewString()})
}

func (e *Engine) trigger(el *Element) error {
	t := &trigger{id: uuid.NewString()}
	e.emit(activity.BuildFieldChangedEvent(activity.GraphEventInput{
		TriggerID: t.id,
		Element:   el.key,
	}))
	return el.fanOut(e, t)
}

// resolve returns the singleton Element for host, creating and wiring it on
// first resolution.
func (e *Engine) resolve(host any) (*Element, error) {
	key, err := e.resolveKey(host)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	el, ok := e.elements[key]
	if !ok {
		el = newElement(key, host)
		e.elements[key] = el
	}
	e.mu.Unlock()
	if ok {
		return el, nil
	}

	if notifier, ok := host.(Notifier); ok {
		notifier.OnFieldChange(func() error {
			return e.trigger(el)
		})
	}
	return el, nil
}

func (e *Engine) resolveKey(host any) (string, error) {
	e.mu.RLock()
	resolver := e.cfg.keyResolver
	e.mu.RUnlock()
	if resolver == nil {
		resolver = defaultKeyResolver
	}
	key, err := resolver(host)
	if err != nil {
		return "", fmt.Errorf("cascade: key resolver: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("%w (host %T)", ErrMissingKey, host)
	}
	return key, nil
}

// defaultKeyResolver reads the identifier off the host reference, preferring
// the Identifiable contract over the snapshot "id" entry.
func defaultKeyResolver(host any) (string, error) {
	if f, ok := host.(Identifiable); ok {
		return f.FieldID(), nil
	}
	if s, ok := host.(Snapshotter); ok {
		if id, ok := s.Snapshot()["id"].(string); ok {
			return id, nil
		}
	}
	return "", nil
}

func (e *Engine) evalLogger() EvalLogger {
	if e.cfg.logger != nil {
		return e.cfg.logger
	}
	return noopEvalLogger{}
}

// emit forwards the event to configured activity hooks. Hook failures never
// abort a cascade.
func (e *Engine) emit(event activity.Event) {
	if !e.cfg.activityHooks.Enabled() {
		return
	}
	_ = e.cfg.activityHooks.Notify(context.Background(), event)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
