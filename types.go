package cascade

import "time"

// Predicate decides whether a named state is active for a host field. It is
// invoked against the live host reference every time activeness is queried;
// results are never cached. Predicates must be side-effect free.
type Predicate func(host any) (bool, error)

// Mutation applies a named modifier's effect to a host field. Mutations must
// not raise the host's change signal themselves; the engine re-enters the
// cascade on the mutated element after every execution.
type Mutation func(host any) error

// KeyResolver derives the identity key for a host reference. The key must be
// stable (same input, same output) and unique per logical field. An empty key
// is a configuration error and surfaces as ErrMissingKey.
type KeyResolver func(host any) (string, error)

// Identifiable hosts expose their identity directly. The default resolver
// prefers it over the snapshot "id" entry.
type Identifiable interface {
	FieldID() string
}

// Snapshotter hosts expose their current values to expression templates.
type Snapshotter interface {
	Snapshot() map[string]any
}

// Mutable hosts accept silent writes from expression-backed modifiers.
type Mutable interface {
	Put(key string, value any)
}

// Notifier hosts own a change-signal mechanism. The engine registers exactly
// one hook per resolved element; the hook must fire at least once per
// relevant value change and carries no payload, the engine re-reads current
// state itself.
type Notifier interface {
	OnFieldChange(fn func() error)
}

// FieldContext carries inputs needed when evaluating an expression template.
type FieldContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx FieldContext) withDefaultNow() FieldContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx FieldContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx FieldContext) withDefaultMaps() FieldContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// Evaluator executes expressions against a field context.
type Evaluator interface {
	Evaluate(ctx FieldContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx FieldContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

func snapshotOf(host any) map[string]any {
	if s, ok := host.(Snapshotter); ok {
		if snapshot := s.Snapshot(); snapshot != nil {
			return snapshot
		}
	}
	return map[string]any{}
}
