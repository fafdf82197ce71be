package cascade

import "fmt"

// AddStateExpr registers a state template whose predicate is an expression
// compiled through the configured evaluator (expr by default). The expression
// is evaluated against the host's snapshot and must yield a bool. Hosts used
// with expression states should implement Snapshotter; others evaluate
// against an empty snapshot.
func (e *Engine) AddStateExpr(name, expression string) error {
	if name == "" {
		return fmt.Errorf("cascade: state name must not be empty")
	}
	rule, engine, err := e.compileRule(expression)
	if err != nil {
		return err
	}
	predicate := func(host any) (bool, error) {
		value, err := rule.Evaluate(FieldContext{Snapshot: snapshotOf(host)})
		if err != nil {
			return false, err
		}
		active, ok := value.(bool)
		if !ok {
			return false, fmt.Errorf("cascade: state %q expression returned %T, want bool", name, value)
		}
		return active, nil
	}
	e.states.add(name, stateTemplate{engine: engine, predicate: predicate})
	return nil
}

// AddModifierExpr registers a modifier template that evaluates an expression
// against the host's snapshot and writes the result to path on the host. The
// host must implement Mutable.
func (e *Engine) AddModifierExpr(name, path, expression string) error {
	if name == "" {
		return fmt.Errorf("cascade: modifier name must not be empty")
	}
	if path == "" {
		return fmt.Errorf("cascade: modifier %q target path must not be empty", name)
	}
	rule, engine, err := e.compileRule(expression)
	if err != nil {
		return err
	}
	mutate := func(host any) error {
		target, ok := host.(Mutable)
		if !ok {
			return fmt.Errorf("cascade: modifier %q requires a Mutable host, got %T", name, host)
		}
		value, err := rule.Evaluate(FieldContext{Snapshot: snapshotOf(host)})
		if err != nil {
			return err
		}
		target.Put(path, value)
		return nil
	}
	e.modifiers.add(name, modifierTemplate{engine: engine, mutate: mutate})
	return nil
}

func (e *Engine) compileRule(expression string) (CompiledRule, string, error) {
	if expression == "" {
		return nil, "", fmt.Errorf("cascade: expression must not be empty")
	}
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return nil, "", err
	}
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, "", wrapEvaluationError(engine, expression, err)
	}
	return rule, engine, nil
}

func (e *Engine) resolveEvaluator() (Evaluator, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cfg.evaluator != nil {
		return e.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := e.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := e.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	e.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*cascade.exprEvaluator":
		return "expr"
	case "*cascade.celEvaluator":
		return "cel"
	case "*cascade.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
