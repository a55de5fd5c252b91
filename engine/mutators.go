package engine

import "github.com/arvandi/propflow/cgraph"

// AddVariable registers vid (creating its implicit stay constraint, placed
// at the strongest end of the strength order for LevelMax and at the
// weakest end otherwise) and marks it
// needing enforcement. Re-adding an existing id is a no-op on the graph,
// per cgraph's idempotence contract.
func (e *Engine) AddVariable(vid string, level cgraph.Level, eq func(a, b interface{}) bool) {
	e.doAddVariable(vid, level, eq)
	e.scheduleUpdate()
}

func (e *Engine) doAddVariable(vid string, level cgraph.Level, eq func(a, b interface{}) bool) {
	if e.cg.HasVariable(vid) {
		return
	}
	e.cg.AddVariable(vid, level, eq)
	if level == cgraph.LevelMax {
		e.pln.SetMaxStrength(cgraph.StayConstraintID(vid))
	} else {
		e.pln.SetMinStrength(cgraph.StayConstraintID(vid))
	}
	e.needEnforcing[cgraph.StayConstraintID(vid)] = true
}

// RemoveVariable removes vid if no constraint still references it
// (structural no-op otherwise, per cgraph.RemoveVariable).
func (e *Engine) RemoveVariable(vid string) error {
	err := e.doRemoveVariable(vid)
	e.scheduleUpdate()
	return err
}

func (e *Engine) doRemoveVariable(vid string) error {
	if err := e.cg.RemoveVariable(vid); err != nil {
		e.log.Warn("remove variable: still in use", "variable", vid)
		return err
	}
	e.pln.RemoveOptional(cgraph.StayConstraintID(vid))
	// Leave the stay marked needing enforcement rather than clearing it here:
	// the next Plan() call includes it in changed, which is what actually
	// retracts the planner's now-dangling selection for it. Clearing the
	// flag immediately would let that selection linger forever, since a
	// removed constraint never reappears in cg.Constraints() to be revisited.
	e.needEnforcing[cgraph.StayConstraintID(vid)] = true
	delete(e.needEvaluating, cgraph.StayConstraintID(vid))
	return nil
}

// AddConstraint declares cid with the given methods, level, and
// requiredness. A freshly declared explicit constraint is registered at
// the strong end of the strength order by default (LevelMin is the only
// way to start it at the weak end) — see DESIGN.md's Open Question
// resolution — and is marked needing enforcement.
func (e *Engine) AddConstraint(cid string, level cgraph.Level, required bool, methods []MethodSpec) error {
	err := e.doAddConstraint(cid, level, required, methods)
	e.scheduleUpdate()
	return err
}

func (e *Engine) doAddConstraint(cid string, level cgraph.Level, required bool, methods []MethodSpec) error {
	for _, m := range methods {
		if _, err := e.cg.AddMethod(m.ID, cid, m.Inputs, m.Outputs, m.Fn); err != nil {
			e.log.Warn("add constraint: invalid method dropped", "constraint", cid, "method", m.ID, "error", err)
			return err
		}
	}
	e.cg.SetConstraintLevel(cid, level)
	e.cg.SetConstraintRequired(cid, required)
	if level == cgraph.LevelMin {
		e.pln.SetMinStrength(cid)
	} else {
		e.pln.SetMaxStrength(cid)
	}
	e.needEnforcing[cid] = true
	return nil
}

// RemoveConstraint drops every method of cid. Removing an
// actively-selected method's constraint defers the replan to the next
// batched update rather than forcing one immediately: this call only
// marks bookkeeping and schedules a tick.
func (e *Engine) RemoveConstraint(cid string) {
	e.doRemoveConstraint(cid)
	e.scheduleUpdate()
}

func (e *Engine) doRemoveConstraint(cid string) {
	for _, mid := range e.cg.MethodsOf(cid) {
		e.cg.RemoveMethod(mid)
	}
	e.pln.RemoveOptional(cid)
	// See doRemoveVariable: cid stays marked needing enforcement so the
	// next Plan() call retracts its now-dangling selection via changed's
	// invalidation closure, instead of leaving a removed constraint
	// "enforced" against a method id that no longer exists.
	e.needEnforcing[cid] = true
	delete(e.needEvaluating, cid)
}

// AddOutput marks vid as a declared output, refcounted so multiple callers
// may independently add/remove the same output.
func (e *Engine) AddOutput(vid string) {
	e.doAddOutput(vid)
	e.scheduleUpdate()
}

func (e *Engine) doAddOutput(vid string) {
	e.outputs[vid]++
}

// RemoveOutput decrements vid's output refcount, dropping it once it
// reaches zero.
func (e *Engine) RemoveOutput(vid string) {
	e.doRemoveOutput(vid)
	e.scheduleUpdate()
}

func (e *Engine) doRemoveOutput(vid string) {
	if e.outputs[vid] == 0 {
		return
	}
	e.outputs[vid]--
	if e.outputs[vid] == 0 {
		delete(e.outputs, vid)
	}
}

// AddTouchDependency records a directed promotion edge: touching `from`
// will transitively promote `to`.
func (e *Engine) AddTouchDependency(from, to string) {
	e.doAddTouchDependency(from, to)
}

func (e *Engine) doAddTouchDependency(from, to string) {
	set, ok := e.touchDeps[from]
	if !ok {
		set = make(map[string]bool)
		e.touchDeps[from] = set
	}
	set[to] = true
}

// RemoveTouchDependency removes a single directed promotion edge.
func (e *Engine) RemoveTouchDependency(from, to string) {
	e.doRemoveTouchDependency(from, to)
}

func (e *Engine) doRemoveTouchDependency(from, to string) {
	if set, ok := e.touchDeps[from]; ok {
		delete(set, to)
		if len(set) == 0 {
			delete(e.touchDeps, from)
		}
	}
}

// AddTouchSet fully connects every pair of ids with a touch dependency, so
// touching any one of them promotes all the others.
func (e *Engine) AddTouchSet(ids []string) {
	for _, from := range ids {
		for _, to := range ids {
			if from != to {
				e.doAddTouchDependency(from, to)
			}
		}
	}
}

// RemoveTouchSet removes every pairwise touch dependency AddTouchSet would
// have installed for ids.
func (e *Engine) RemoveTouchSet(ids []string) {
	for _, from := range ids {
		for _, to := range ids {
			if from != to {
				e.doRemoveTouchDependency(from, to)
			}
		}
	}
}

// SwitchToNewPlanner hot-swaps the planner implementation, carrying the
// strength order across via GetOptionals/SetOptionals and re-marking every
// constraint as needing enforcement. QuickPlanner is currently the only
// implementation, so this mainly resets planning state against a fresh
// *planner.Planner while preserving the strength order.
func (e *Engine) SwitchToNewPlanner(t PlannerType) {
	e.opt.defaultPlannerType = t
	optionals := e.pln.GetOptionals()
	e.pln = newPlannerFor(e.cg, t)
	e.pln.SetOptionals(optionals)
	for _, cid := range e.cg.Constraints() {
		e.needEnforcing[cid] = true
	}
	e.scheduleUpdate()
}
