package engine

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/enablement"
	"github.com/arvandi/propflow/evaluate"
	"github.com/arvandi/propflow/planner"
	"github.com/arvandi/propflow/scheduler"
	"github.com/arvandi/propflow/signal"
)

// updateKey coalesces repeated performScheduledUpdate schedules between
// ticks.
const updateKey = "propflow:update"

// Engine is the update loop: the only component with write access to the
// constraint graph and the planner's strength order. It orchestrates
// planning, scheduling, and evaluation, and feeds the enablement analyzer
// from the evaluator's scheduling events.
//
// Engine is single-threaded and not safe for concurrent use from more
// than one goroutine: every mutator and Update() must be called from the
// same logical thread of control. No operation here re-enters itself; the
// only suspension points are the scheduler queue and an asynchronous
// method's not-yet-settled promise.
type Engine struct {
	log hclog.Logger
	opt Options

	cg       *cgraph.Graph
	pln      *planner.Planner
	analyzer *enablement.Analyzer
	eval     *evaluate.Evaluator
	sched    *signal.Scheduler
	solved   *signal.Signal[bool]

	ctxs map[string]Context

	needUpdating   map[string]bool
	needEnforcing  map[string]bool
	needEvaluating map[string]bool

	outputs   map[string]int
	touchDeps map[string]map[string]bool

	updatePending bool
	inUpdate      bool
}

// New returns an Engine with an empty constraint graph, ready to accept
// variables and constraints. The solved signal starts at false.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cg := cgraph.NewGraph()
	e := &Engine{
		log:            hclog.NewNullLogger(),
		opt:            o,
		cg:             cg,
		pln:            planner.New(cg),
		ctxs:           make(map[string]Context),
		needUpdating:   make(map[string]bool),
		needEnforcing:  make(map[string]bool),
		needEvaluating: make(map[string]bool),
		outputs:        make(map[string]int),
		touchDeps:      make(map[string]map[string]bool),
		solved:         signal.NewWithValue(false),
		sched:          signal.NewScheduler(),
	}
	e.wireEvaluator()
	return e
}

func (e *Engine) wireEvaluator() {
	e.analyzer = enablement.New(e.cg)
	e.eval = evaluate.New(e.cg, e.log)
	e.eval.OnScheduled = func(evt evaluate.ScheduledEvent) { e.analyzer.Observe(evt) }
	e.eval.OnSettle = func(vid string) { e.maybeRaiseSolved() }
}

// SetLogger installs a structured logger used for no-solution and
// method-runtime diagnostics. Passing nil restores the discarding
// default.
func (e *Engine) SetLogger(log hclog.Logger) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	e.log = log
	e.wireEvaluator()
}

// Solved returns the scheduled signal that emits on every solved/unsolved
// transition.
func (e *Engine) Solved() *signal.Signal[bool] { return e.solved }

// GetCGraph returns a read-only snapshot of the constraint graph.
func (e *Engine) GetCGraph() cgraph.Snapshot {
	return e.cg.Snapshot()
}

// Graph exposes the underlying *cgraph.Graph for read-only inspection
// tooling (e.g. diagnostics.Incidence). Callers must not mutate it directly;
// all writes belong behind the engine's mutator methods.
func (e *Engine) Graph() *cgraph.Graph {
	return e.cg
}

// GetSGraph returns a read-only copy of the current solution graph.
func (e *Engine) GetSGraph() *planner.SGraph {
	return e.pln.GetSGraph()
}

// StrengthOrder returns the planner's current strength order, strongest
// first — exposed for inspection and testing.
func (e *Engine) StrengthOrder() []string {
	return e.pln.GetOptionals()
}

// Variable exposes direct read access to a variable for inspection (value,
// pending, source, contributing, relevant).
func (e *Engine) Variable(vid string) (*cgraph.Variable, bool) {
	return e.cg.Variable(vid)
}

// pendingCount counts variables whose pending flag is true.
func (e *Engine) pendingCount() int {
	n := 0
	for _, vid := range e.cg.Variables() {
		if v, ok := e.cg.Variable(vid); ok && v.Pending() {
			n++
		}
	}
	return n
}

// maybeRaiseSolved re-emits solved=true iff no update is pending and
// pendingCount is zero.
func (e *Engine) maybeRaiseSolved() {
	if e.inUpdate || e.updatePending || e.sched.Pending() {
		return
	}
	if e.pendingCount() == 0 {
		e.solved.Emit(true)
	}
}

// scheduleUpdate enqueues performScheduledUpdate, coalescing repeated
// calls between ticks, and immediately transitions solved to false on the
// first record change after a prior solved state.
func (e *Engine) scheduleUpdate() {
	e.solved.Emit(false)
	if e.updatePending {
		return
	}
	e.updatePending = true
	e.sched.Schedule(signal.SystemUpdatePriority, updateKey, e.performScheduledUpdate)
}

// Update forces a synchronous update, for tests and deterministic
// drivers: it schedules a tick if anything is pending and drains the
// scheduler immediately.
func (e *Engine) Update() {
	if !e.updatePending && len(e.needUpdating) == 0 && len(e.needEnforcing) == 0 && len(e.needEvaluating) == 0 {
		return
	}
	if !e.updatePending {
		e.updatePending = true
		e.sched.Schedule(signal.SystemUpdatePriority, updateKey, e.performScheduledUpdate)
	}
	e.sched.Drain()
}

// performScheduledUpdate runs one full plan -> schedule -> evaluate ->
// solved cycle. It must not be called re-entrantly; inUpdate guards the
// (non-reentrant-by-construction, but defensive) case where an evaluated
// method's onSettle fires synchronously within this same call.
func (e *Engine) performScheduledUpdate() {
	e.updatePending = false
	e.inUpdate = true
	defer func() { e.inUpdate = false }()

	e.drainContexts()

	if len(e.needEnforcing) > 0 {
		changed := make([]string, 0, len(e.needEnforcing))
		for cid := range e.needEnforcing {
			changed = append(changed, cid)
		}
		prevSources := e.currentSources()

		if !e.pln.Plan(changed) {
			e.log.Warn("no solution: required constraint could not be enforced")
			e.needEvaluating = make(map[string]bool)
			return
		}
		e.needEnforcing = make(map[string]bool)

		sg := e.pln.GetSGraph()
		topoOrder, err := scheduler.Toposort(e.cg, sg, e.pln)
		if err != nil {
			e.log.Warn("topological scheduling failed", "error", err)
			e.needEvaluating = make(map[string]bool)
			return
		}

		e.reprioritize(topoOrder)
		e.refreshSourceFlags(sg, prevSources)
	}

	if len(e.needEvaluating) > 0 {
		sg := e.pln.GetSGraph()
		topoOrder, err := scheduler.Toposort(e.cg, sg, e.pln)
		if err != nil {
			e.log.Warn("topological scheduling failed", "error", err)
		} else {
			cids := make([]string, 0, len(e.needEvaluating))
			for cid := range e.needEvaluating {
				cids = append(cids, cid)
			}
			e.analyzer.Reset(e.sourceVars(sg))
			e.eval.Evaluate(context.Background(), cids, sg, topoOrder)
			e.analyzer.Finalize(sg, e.outputVars())
		}
		e.needEvaluating = make(map[string]bool)
	}

	if e.pendingCount() == 0 && !e.sched.Pending() {
		e.solved.Emit(true)
	}
}

// reprioritize rebuilds the planner's strength order from the evaluation
// order just computed: scanning topoOrder in reverse and collecting each
// method's owning constraint the first time it is seen installs a
// priority snapshot consistent with this round's execution order, which
// the next incremental Plan call tie-breaks against.
func (e *Engine) reprioritize(topoOrder []string) {
	seen := make(map[string]bool, len(topoOrder))
	prioritized := make([]string, 0, len(topoOrder))
	for i := len(topoOrder) - 1; i >= 0; i-- {
		cid, ok := e.cg.ConstraintForMethod(topoOrder[i])
		if !ok || seen[cid] {
			continue
		}
		seen[cid] = true
		prioritized = append(prioritized, cid)
	}
	if len(prioritized) > 0 {
		e.pln.SetOptionals(prioritized)
	}
}

// currentSources returns the set of variable ids currently flagged as
// sources (before this round's plan).
func (e *Engine) currentSources() map[string]bool {
	out := make(map[string]bool)
	for _, vid := range e.cg.Variables() {
		if v, ok := e.cg.Variable(vid); ok && v.Source() {
			out[vid] = true
		}
	}
	return out
}

// sourceVars returns the variable ids whose stay is selected in sg.
func (e *Engine) sourceVars(sg *planner.SGraph) []string {
	var out []string
	for _, vid := range e.cg.Variables() {
		if mid, ok := sg.MethodFor(cgraph.StayConstraintID(vid)); ok && mid == cgraph.StayMethodID(vid) {
			out = append(out, vid)
		}
	}
	return out
}

func (e *Engine) outputVars() map[string]bool {
	out := make(map[string]bool, len(e.outputs))
	for vid := range e.outputs {
		out[vid] = true
	}
	return out
}

// refreshSourceFlags updates each variable's Source() flag to match the
// freshly planned sg, and — if ForwardEmergingSources is enabled —
// forwards a newly-emerged source's current value as a committed promise
// and schedules it for evaluation within this same update.
func (e *Engine) refreshSourceFlags(sg *planner.SGraph, prevSources map[string]bool) {
	for _, vid := range e.cg.Variables() {
		v, ok := e.cg.Variable(vid)
		if !ok {
			continue
		}
		mid, selected := sg.MethodFor(cgraph.StayConstraintID(vid))
		isSource := selected && mid == cgraph.StayMethodID(vid)
		v.SetSource(isSource)

		if isSource && !prevSources[vid] && e.opt.forwardEmergingSources {
			// A variable that just became a source without itself being
			// edited this round (no pending promise yet) gets its current
			// value forwarded as a fresh commit so downstream methods see
			// it as the round's edit. One that was edited this round
			// already carries the real pending promise — commit that
			// instead of clobbering it with a stale synthesized one.
			if !v.HasPromise() {
				v.AttachPromise(cgraph.Resolved(v.Value()))
			}
			v.CommitPromise()
			e.needEvaluating[cgraph.StayConstraintID(vid)] = true
		}
	}
}
