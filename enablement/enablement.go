package enablement

import (
	"sync"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/evaluate"
	"github.com/arvandi/propflow/planner"
)

// Analyzer computes the contributing and relevant fuzzy labels (C5) for
// every variable in cg, with respect to a caller-supplied output set.
type Analyzer struct {
	mu           sync.Mutex
	cg           *cgraph.Graph
	contributing map[string]cgraph.Fuzzy
}

// New returns an Analyzer over cg.
func New(cg *cgraph.Graph) *Analyzer {
	return &Analyzer{cg: cg, contributing: make(map[string]cgraph.Fuzzy)}
}

// Observe folds one methodScheduled event into the running contributing
// map: a method's outputs contribute Yes only if every non-prior input
// already contributes Yes; any non-prior input at Maybe caps the result
// at Maybe; a prior-flagged input whose writer has not contributed this
// round (still at the default No, i.e. "assumed") also caps the result at
// Maybe — this is what makes a method AssumedRelevant: it crosses at
// least one assumed value on its way to producing output.
func (a *Analyzer) Observe(evt evaluate.ScheduledEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	best := cgraph.FuzzyYes
	for _, in := range evt.Inputs {
		c := a.contributing[in.Variable]
		if in.Prior {
			if c != cgraph.FuzzyYes {
				best = min(best, cgraph.FuzzyMaybe)
			}
			continue
		}
		best = min(best, c)
	}
	for _, out := range evt.Outputs {
		a.contributing[out] = best
	}
}

func min(a, b cgraph.Fuzzy) cgraph.Fuzzy {
	if a < b {
		return a
	}
	return b
}

// Reset clears the running contributing map and marks every currently
// selected source variable (v.Source()) as contributing Yes — the
// dataflow roots for this round. Call once at the start of each
// evaluation cycle, before replaying its methodScheduled events through
// Observe.
func (a *Analyzer) Reset(sources []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.contributing = make(map[string]cgraph.Fuzzy, len(sources))
	for _, vid := range sources {
		a.contributing[vid] = cgraph.FuzzyYes
	}
}

// Finalize writes the contributing label and the derived relevant label
// (contribution restricted to variables that can actually reach a
// declared output through the current solution graph, with a structural
// fallback over the full constraint graph when no selection reaches it)
// back onto every variable in cg.
func (a *Analyzer) Finalize(sg *planner.SGraph, outputs map[string]bool) {
	a.mu.Lock()
	contributing := make(map[string]cgraph.Fuzzy, len(a.contributing))
	for k, v := range a.contributing {
		contributing[k] = v
	}
	a.mu.Unlock()

	reaches := forwardReachesOutput(a.cg, sg, outputs)
	structurallyReaches := structuralReachesOutput(a.cg, outputs)

	for _, vid := range a.cg.Variables() {
		v, ok := a.cg.Variable(vid)
		if !ok {
			continue
		}
		contrib := contributing[vid]
		v.SetContributing(contrib)

		relevant := cgraph.FuzzyNo
		if contrib != cgraph.FuzzyNo && reaches[vid] {
			relevant = contrib
		} else if structurallyReaches[vid] {
			relevant = cgraph.FuzzyMaybe
		}
		v.SetRelevant(relevant)
	}
}

// forwardReachesOutput computes, for every variable, whether it can reach
// a declared output variable by following the solution graph's selected
// method input->output edges forward (a recursive depth-first search over
// a var->var adjacency derived from sg, run once per variable with its own
// seen set).
func forwardReachesOutput(cg *cgraph.Graph, sg *planner.SGraph, outputs map[string]bool) map[string]bool {
	adj := make(map[string][]string)
	if sg != nil {
		for _, mid := range sg.Selected {
			outs := cg.OutputsFor(mid)
			for _, in := range cg.InputsFor(mid) {
				if in.Prior {
					continue
				}
				adj[in.Variable] = append(adj[in.Variable], outs...)
			}
		}
	}

	reaches := make(map[string]bool)
	var visit func(vid string, seen map[string]bool) bool
	visit = func(vid string, seen map[string]bool) bool {
		if outputs[vid] {
			return true
		}
		if seen[vid] {
			return false
		}
		seen[vid] = true
		for _, next := range adj[vid] {
			if visit(next, seen) {
				return true
			}
		}
		return false
	}
	for _, vid := range cg.Variables() {
		reaches[vid] = visit(vid, make(map[string]bool))
	}
	return reaches
}

// structuralReachesOutput is the purely-structural fallback: it ignores
// which method each constraint currently has selected and asks only
// whether *some* declared method chain could connect vid to a declared
// output, via a reverse BFS from the outputs over every method's
// output->input edges.
func structuralReachesOutput(cg *cgraph.Graph, outputs map[string]bool) map[string]bool {
	reverseAdj := make(map[string][]string)
	for _, mid := range cg.Methods() {
		m, ok := cg.Method(mid)
		if !ok {
			continue
		}
		for _, out := range m.Outputs {
			for _, in := range m.Inputs {
				reverseAdj[out] = append(reverseAdj[out], in.Variable)
			}
		}
	}

	visited := make(map[string]bool)
	queue := make([]string, 0, len(outputs))
	for vid := range outputs {
		if !visited[vid] {
			visited[vid] = true
			queue = append(queue, vid)
		}
	}
	for len(queue) > 0 {
		vid := queue[0]
		queue = queue[1:]
		for _, prev := range reverseAdj[vid] {
			if !visited[prev] {
				visited[prev] = true
				queue = append(queue, prev)
			}
		}
	}
	return visited
}
