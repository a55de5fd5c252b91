package engine

import (
	"sort"

	"github.com/arvandi/propflow/cgraph"
)

// TouchVariable promotes vid's stay (and its touch-dependency closure) to
// maximum strength without forcing re-evaluation — the case of an edit
// whose value equals the current one, which should still reassert the
// variable's authority without rerunning anything downstream.
func (e *Engine) TouchVariable(vid string) {
	e.promote(cgraph.StayConstraintID(vid))
	e.scheduleUpdate()
}

// ChangeVariable sets vid to val, promotes its stay (and touch-dependency
// closure) to maximum strength, and marks it needing evaluation.
func (e *Engine) ChangeVariable(vid string, val interface{}) {
	v, ok := e.cg.Variable(vid)
	if !ok {
		return
	}
	v.AttachPromise(cgraph.Resolved(val))

	stayCid := cgraph.StayConstraintID(vid)
	e.promote(stayCid)
	e.needEvaluating[stayCid] = true
	e.scheduleUpdate()
}

// promote runs a breadth-first walk from originCid over the
// touch-dependency graph, collecting each constraint the first time it is
// reached, sorting each BFS generation by current strength descending,
// then calling SetMaxStrength over the REVERSE of the collected order —
// so originCid itself ends up strongest — and marking every visited
// constraint as needing enforcement, since a constraint whose strength
// just changed always needs its selection re-checked.
func (e *Engine) promote(originCid string) {
	visited := map[string]bool{originCid: true}
	collected := []string{originCid}
	frontier := []string{originCid}

	for len(frontier) > 0 {
		var next []string
		for _, cid := range frontier {
			for to := range e.touchDeps[cid] {
				if !visited[to] {
					visited[to] = true
					next = append(next, to)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool {
			return e.pln.Compare(next[i], next[j]) < 0
		})
		collected = append(collected, next...)
		frontier = next
	}

	for i := len(collected) - 1; i >= 0; i-- {
		cid := collected[i]
		e.pln.SetMaxStrength(cid)
		e.needEnforcing[cid] = true
	}
}

// AddComponents registers external Context producers. The contexts are
// drained (ReportUpdates) on the next scheduled update.
func (e *Engine) AddComponents(ctxs ...Context) {
	for i, c := range ctxs {
		id := componentID(len(e.ctxs), i)
		e.ctxs[id] = c
		e.needUpdating[id] = true
	}
	e.scheduleUpdate()
}

// RemoveComponents unregisters previously added Context producers. The
// engine does not retract their past contributions automatically — a
// caller that wants that must explicitly RemoveVariable/RemoveConstraint
// first: the reactive layer is an external producer, not something the
// core reaches into on its own.
func (e *Engine) RemoveComponents(ctxs ...Context) {
	target := make(map[Context]bool, len(ctxs))
	for _, c := range ctxs {
		target[c] = true
	}
	for id, c := range e.ctxs {
		if target[c] {
			delete(e.ctxs, id)
			delete(e.needUpdating, id)
		}
	}
}

func componentID(base, offset int) string {
	return "ctx:" + itoa(base+offset)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// drainContexts asks every registered Context to report its pending
// changes, applies every batch's Removes before any Adds, and clears
// needUpdating.
func (e *Engine) drainContexts() {
	if len(e.needUpdating) == 0 {
		return
	}
	var batches []ComponentChanges
	for id := range e.needUpdating {
		ctx, ok := e.ctxs[id]
		if !ok {
			continue
		}
		changes, err := ctx.ReportUpdates()
		if err != nil {
			e.log.Warn("context reportUpdates failed", "context", id, "error", err)
			continue
		}
		batches = append(batches, changes)
	}
	e.needUpdating = make(map[string]bool)

	for _, b := range batches {
		for _, c := range b.Removes {
			e.applyRemove(c)
		}
	}
	for _, b := range batches {
		for _, c := range b.Adds {
			e.applyAdd(c)
		}
	}
}

func (e *Engine) applyAdd(c ComponentChange) {
	switch c.Kind {
	case ChangeVariable:
		e.doAddVariable(c.VariableID, cgraph.Level(c.Level), c.Equal)
	case ChangeConstraint:
		_ = e.doAddConstraint(c.ConstraintID, cgraph.Level(c.Level), c.Required, c.Methods)
	case ChangeOutput:
		e.doAddOutput(c.VariableID)
	case ChangeTouchDep:
		e.doAddTouchDependency(c.From, c.To)
	}
}

func (e *Engine) applyRemove(c ComponentChange) {
	switch c.Kind {
	case ChangeVariable:
		_ = e.doRemoveVariable(c.VariableID)
	case ChangeConstraint:
		e.doRemoveConstraint(c.ConstraintID)
	case ChangeOutput:
		e.doRemoveOutput(c.VariableID)
	case ChangeTouchDep:
		e.doRemoveTouchDependency(c.From, c.To)
	}
}
