package cgraph

import "sort"

// AddMethod declares a method mid, owned by constraint cid, reading inputs
// and writing outputs. The owning constraint is created on first use
// (Required defaults to false — every constraint, including the implicit
// stay, competes on strength by default; callers that need a genuinely
// hard constraint must follow up with SetConstraintRequired(cid, true))
// and is dropped once its last method is removed.
//
// AddMethod is idempotent on re-adds of the same mid: a second call with
// the same id is a no-op that returns the original method. It validates
// that every output is distinct (ErrDuplicateOutput) and that no
// non-prior input equals an output (ErrInputEqualsOutput); a rejected
// method is never added.
func (g *Graph) AddMethod(mid, cid string, inputs []MethodInput, outputs []string, fn MethodFunc) (*Method, error) {
	if mid == "" || cid == "" {
		return nil, ErrEmptyID
	}

	seen := make(map[string]struct{}, len(outputs))
	for _, o := range outputs {
		if _, dup := seen[o]; dup {
			return nil, ErrDuplicateOutput
		}
		seen[o] = struct{}{}
	}
	for _, in := range inputs {
		if in.Prior {
			continue
		}
		if _, isOutput := seen[in.Variable]; isOutput {
			return nil, ErrInputEqualsOutput
		}
	}

	g.muRest.Lock()
	defer g.muRest.Unlock()

	if existing, ok := g.methods[mid]; ok {
		return existing, nil
	}

	m := &Method{ID: mid, ConstraintID: cid, Inputs: inputs, Outputs: outputs, Fn: fn}
	g.methods[mid] = m
	g.constraintForMethod[mid] = cid

	c, ok := g.constraints[cid]
	if !ok {
		// New constraints default to Required == false: they compete on
		// strength like everything else. Required is reserved for the rare
		// hard constraint that must hold unconditionally (set explicitly
		// via SetConstraintRequired) — most constraints, including the
		// implicit stay, are ordinary optional participants in the same
		// strength order.
		c = &Constraint{ID: cid, Required: false}
		g.constraints[cid] = c
	}
	c.Methods = append(c.Methods, m)
	g.methodsOfConstraint[cid] = append(g.methodsOfConstraint[cid], mid)

	g.reindexConstraintVarsLocked(cid, c)

	return m, nil
}

// reindexConstraintVarsLocked rebuilds the vid -> {cid} cache entries for
// c's current variable set. Callers must hold muRest.
func (g *Graph) reindexConstraintVarsLocked(cid string, c *Constraint) {
	// Drop stale membership for this cid everywhere, then re-add from the
	// constraint's current (post-mutation) variable union. Cheap because a
	// constraint's variable set is small and bounded.
	for vid, cids := range g.constraintsUsingVar {
		delete(cids, cid)
		if len(cids) == 0 {
			delete(g.constraintsUsingVar, vid)
		}
	}
	for vid := range c.Variables() {
		set, ok := g.constraintsUsingVar[vid]
		if !ok {
			set = make(map[string]struct{})
			g.constraintsUsingVar[vid] = set
		}
		set[cid] = struct{}{}
	}
}

// RemoveMethod deletes mid. If it was the last method of its owning
// constraint, the constraint is dropped too. Removing an unknown mid is a
// silent no-op.
func (g *Graph) RemoveMethod(mid string) {
	if mid == "" {
		return
	}
	g.muRest.Lock()
	defer g.muRest.Unlock()

	m, ok := g.methods[mid]
	if !ok {
		return
	}
	cid := m.ConstraintID
	delete(g.methods, mid)
	delete(g.constraintForMethod, mid)

	c := g.constraints[cid]
	if c == nil {
		return
	}
	filtered := c.Methods[:0]
	for _, cm := range c.Methods {
		if cm.ID != mid {
			filtered = append(filtered, cm)
		}
	}
	c.Methods = filtered

	mids := g.methodsOfConstraint[cid][:0]
	for _, id := range g.methodsOfConstraint[cid] {
		if id != mid {
			mids = append(mids, id)
		}
	}
	g.methodsOfConstraint[cid] = mids

	if len(c.Methods) == 0 {
		delete(g.constraints, cid)
		delete(g.methodsOfConstraint, cid)
		for vid, cids := range g.constraintsUsingVar {
			delete(cids, cid)
			if len(cids) == 0 {
				delete(g.constraintsUsingVar, vid)
			}
		}
		return
	}
	g.reindexConstraintVarsLocked(cid, c)
}

// Method returns the named method and whether it exists.
func (g *Graph) Method(mid string) (*Method, bool) {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	m, ok := g.methods[mid]
	return m, ok
}

// Methods returns every method id, sorted.
func (g *Graph) Methods() []string {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	out := make([]string, 0, len(g.methods))
	for id := range g.methods {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Constraint returns the named constraint and whether it exists.
func (g *Graph) Constraint(cid string) (*Constraint, bool) {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	c, ok := g.constraints[cid]
	return c, ok
}

// Constraints returns every constraint id, sorted.
func (g *Graph) Constraints() []string {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	out := make([]string, 0, len(g.constraints))
	for id := range g.constraints {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MethodsOf returns the ordered method ids declared for cid (declaration
// order, which the planner uses to tie-break equally viable candidates).
// Unknown cid returns an empty slice.
func (g *Graph) MethodsOf(cid string) []string {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	mids := g.methodsOfConstraint[cid]
	out := make([]string, len(mids))
	copy(out, mids)
	return out
}

// ConstraintsWhichUse returns the sorted set of constraint ids that read or
// write vid. Unknown vid returns an empty slice.
func (g *Graph) ConstraintsWhichUse(vid string) []string {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	set := g.constraintsUsingVar[vid]
	out := make([]string, 0, len(set))
	for cid := range set {
		out = append(out, cid)
	}
	sort.Strings(out)
	return out
}

// ConstraintForMethod returns the owning constraint id of mid.
func (g *Graph) ConstraintForMethod(mid string) (string, bool) {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	cid, ok := g.constraintForMethod[mid]
	return cid, ok
}

// InputsFor returns mid's declared inputs, or nil for an unknown mid.
func (g *Graph) InputsFor(mid string) []MethodInput {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	m, ok := g.methods[mid]
	if !ok {
		return nil
	}
	out := make([]MethodInput, len(m.Inputs))
	copy(out, m.Inputs)
	return out
}

// OutputsFor returns mid's declared outputs, or nil for an unknown mid.
func (g *Graph) OutputsFor(mid string) []string {
	g.muRest.RLock()
	defer g.muRest.RUnlock()
	m, ok := g.methods[mid]
	if !ok {
		return nil
	}
	out := make([]string, len(m.Outputs))
	copy(out, m.Outputs)
	return out
}

// SetConstraintLevel sets cid's optional level. Unknown cid is a no-op.
func (g *Graph) SetConstraintLevel(cid string, level Level) {
	g.muRest.Lock()
	defer g.muRest.Unlock()
	if c, ok := g.constraints[cid]; ok {
		c.Level = level
	}
}

// SetConstraintRequired marks cid as required (must be enforced for plan()
// to succeed) or optional. Unknown cid is a no-op.
func (g *Graph) SetConstraintRequired(cid string, required bool) {
	g.muRest.Lock()
	defer g.muRest.Unlock()
	if c, ok := g.constraints[cid]; ok {
		c.Required = required
	}
}

// SetConstraintTouchVariables records cid's touch-variable set. Unknown
// cid is a no-op.
func (g *Graph) SetConstraintTouchVariables(cid string, vars []string) {
	g.muRest.Lock()
	defer g.muRest.Unlock()
	c, ok := g.constraints[cid]
	if !ok {
		return
	}
	set := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		set[v] = struct{}{}
	}
	c.TouchVariables = set
}
