package evaluate

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/planner"
)

// ScheduledEvent is handed to C5 (the enablement analyzer) once per
// method activation, in evaluation order.
type ScheduledEvent struct {
	ConstraintID string
	MethodID     string
	Inputs       []cgraph.MethodInput
	Outputs      []string
}

// Evaluator runs the selected methods downstream of a changed seed set
// (C4). It never blocks on an asynchronous method: Fn may return
// still-pending promises, which settle later and commit themselves via
// Promise.OnSettle.
type Evaluator struct {
	cg  *cgraph.Graph
	log hclog.Logger

	// OnScheduled, if set, is invoked once per method activation, in
	// evaluation order, so the enablement analyzer (C5) can track
	// contribution/relevance.
	OnScheduled func(ScheduledEvent)

	// OnSettle, if set, is invoked (possibly much later, for an
	// asynchronous method) when a variable's attached promise settles and
	// commits — lets the update loop decrement pendingCount and re-check
	// solved.
	OnSettle func(vid string)
}

// New returns an Evaluator over cg. log may be nil, in which case a
// discarding logger is used.
func New(cg *cgraph.Graph, log hclog.Logger) *Evaluator {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Evaluator{cg: cg, log: log}
}

// Evaluate runs the selected methods downstream of cids (constraint ids
// needing evaluation), in the order topoOrder (scheduler.Toposort's
// output) establishes, and reports the method ids it actually ran.
//
// Algorithm:
//  1. map cids to their currently selected method, dropping unselected.
//  2. compute variables downstream of those methods in sg and commit any
//     pre-existing promises on them (initial edit commit).
//  3. compute methods downstream of the same seed set, drop stay methods,
//     intersect with topoOrder to get scheduledMids.
//  4. run each scheduled method in order, attaching output promises.
//  5. commit all downstream variable promises a second time.
func (e *Evaluator) Evaluate(ctx context.Context, cids []string, sg *planner.SGraph, topoOrder []string) []string {
	seedMids := make(map[string]bool)
	for _, cid := range cids {
		mid, ok := sg.MethodFor(cid)
		if !ok {
			continue
		}
		seedMids[mid] = true
	}
	if len(seedMids) == 0 {
		return nil
	}

	downstreamVars := e.downstreamVariables(seedMids, sg)
	for vid := range downstreamVars {
		if v, ok := e.cg.Variable(vid); ok {
			v.CommitPromise()
		}
	}

	downstreamMids := e.downstreamMethods(seedMids, sg)
	scheduledMids := make([]string, 0, len(downstreamMids))
	for _, mid := range topoOrder {
		if !downstreamMids[mid] {
			continue
		}
		m, ok := e.cg.Method(mid)
		if !ok || m.IsStay() {
			continue
		}
		scheduledMids = append(scheduledMids, mid)
	}

	for _, mid := range scheduledMids {
		e.runMethod(ctx, sg, mid)
	}

	for vid := range downstreamVars {
		if v, ok := e.cg.Variable(vid); ok {
			v.CommitPromise()
		}
	}

	return scheduledMids
}

// downstreamVariables walks method -> variable -> method -> variable ...
// from seedMids' outputs, staying inside the solution graph.
func (e *Evaluator) downstreamVariables(seedMids map[string]bool, sg *planner.SGraph) map[string]bool {
	vars := make(map[string]bool)
	queue := make([]string, 0, len(seedMids))
	for mid := range seedMids {
		for _, out := range e.cg.OutputsFor(mid) {
			if !vars[out] {
				vars[out] = true
				queue = append(queue, out)
			}
		}
	}
	for len(queue) > 0 {
		vid := queue[0]
		queue = queue[1:]
		for _, mid := range readersOf(vid, sg, e.cg) {
			for _, out := range e.cg.OutputsFor(mid) {
				if !vars[out] {
					vars[out] = true
					queue = append(queue, out)
				}
			}
		}
	}
	return vars
}

// downstreamMethods walks method -> method via shared variables, starting
// from seedMids themselves (included), staying inside the solution graph.
func (e *Evaluator) downstreamMethods(seedMids map[string]bool, sg *planner.SGraph) map[string]bool {
	mids := make(map[string]bool, len(seedMids))
	queue := make([]string, 0, len(seedMids))
	for mid := range seedMids {
		mids[mid] = true
		queue = append(queue, mid)
	}
	for len(queue) > 0 {
		mid := queue[0]
		queue = queue[1:]
		for _, out := range e.cg.OutputsFor(mid) {
			for _, reader := range readersOf(out, sg, e.cg) {
				if !mids[reader] {
					mids[reader] = true
					queue = append(queue, reader)
				}
			}
		}
	}
	return mids
}

// readersOf returns the selected methods in sg that read vid as a
// (non-prior) input.
func readersOf(vid string, sg *planner.SGraph, cg *cgraph.Graph) []string {
	var out []string
	for _, mid := range sg.Selected {
		for _, in := range cg.InputsFor(mid) {
			if in.Prior {
				continue
			}
			if in.Variable == vid {
				out = append(out, mid)
				break
			}
		}
	}
	return out
}

// runMethod invokes mid's Fn with its currently committed inputs, attaches
// the returned promises to their output variables, and notifies C5.
func (e *Evaluator) runMethod(ctx context.Context, sg *planner.SGraph, mid string) {
	m, ok := e.cg.Method(mid)
	if !ok || m.Fn == nil {
		return
	}
	cid, _ := e.cg.ConstraintForMethod(mid)

	inputs := make(map[string]interface{}, len(m.Inputs))
	for _, in := range m.Inputs {
		if v, ok := e.cg.Variable(in.Variable); ok {
			inputs[in.Variable] = v.Value()
		}
	}

	if e.OnScheduled != nil {
		e.OnScheduled(ScheduledEvent{ConstraintID: cid, MethodID: mid, Inputs: m.Inputs, Outputs: m.Outputs})
	}

	promises := m.Fn(ctx, inputs)
	for _, out := range m.Outputs {
		v, ok := e.cg.Variable(out)
		if !ok {
			continue
		}
		p, ok := promises[out]
		if !ok {
			e.log.Warn("method did not produce a promise for declared output", "method", mid, "variable", out)
			continue
		}
		v.AttachPromise(p)
		vid := out
		p.OnSettle(func(pr *cgraph.Promise) {
			v.CommitPromise()
			if pr.State() == cgraph.StateRejected {
				e.log.Warn("method promise rejected", "method", mid, "variable", vid, "error", pr.Err())
			}
			if e.OnSettle != nil {
				e.OnSettle(vid)
			}
		})
	}
}
