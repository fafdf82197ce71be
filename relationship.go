package cascade

// CreateRelationship wires the named state on the dependency field to the
// named modifier on the dependent field. Whenever the dependency changes and
// the state is active, the modifier runs against the dependent and the
// dependent's own states fan back out (the cascade).
//
// Attachment is lazy and idempotent: an element receives at most one instance
// per template name. Subscription is not deduplicated; repeating an identical
// call appends a duplicate edge, so the modifier fires once per duplicate.
//
// With inheritState set, the builder looks for a modifier of the same name on
// the dependency element and additionally subscribes the dependent's modifier
// to every state that upstream instance subscribes to. This carries an
// upstream stage's activation conditions down a chain of relationships that
// share a modifier name. A dependency without such a modifier makes the step
// a silent no-op.
func (e *Engine) CreateRelationship(dependencyRef any, stateName string, dependentRef any, modifierName string, inheritState bool) error {
	dependency, err := e.resolve(dependencyRef)
	if err != nil {
		return err
	}
	dependent, err := e.resolve(dependentRef)
	if err != nil {
		return err
	}

	// Instantiate before attaching anything so an unknown template aborts
	// setup with both elements untouched.
	st, attached := dependency.state(stateName)
	var freshState *State
	if !attached {
		freshState, err = e.instantiateState(stateName)
		if err != nil {
			return err
		}
	}
	mod, attached := dependent.modifier(modifierName)
	var freshModifier *Modifier
	if !attached {
		freshModifier, err = e.instantiateModifier(modifierName)
		if err != nil {
			return err
		}
	}

	if freshState != nil {
		dependency.attachState(freshState)
		st = freshState
	}
	if freshModifier != nil {
		dependent.attachModifier(freshModifier)
		mod = freshModifier
	}

	subscribe(st, mod)

	if inheritState {
		if upstream, ok := dependency.modifier(modifierName); ok {
			for _, src := range upstream.sources {
				subscribe(src, mod)
			}
		}
	}
	return nil
}
