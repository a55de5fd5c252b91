package planner

import (
	"sort"
	"sync"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/strength"
)

// Planner implements QuickPlan over a cgraph.Graph: given a set of just-
// changed constraints, it unselects their invalidation closure and
// greedily picks, in descending strength order, a viable method for each
// affected constraint — one that writes no variable another selected
// method already writes, and that keeps the combined method/variable
// digraph acyclic.
type Planner struct {
	mu      sync.Mutex
	cg      *cgraph.Graph
	order   *strength.Order
	current *SGraph
}

// New returns a Planner over cg with an empty solution graph and strength
// order.
func New(cg *cgraph.Graph) *Planner {
	return &Planner{cg: cg, order: strength.New(), current: &SGraph{Selected: make(map[string]string)}}
}

// GetSGraph returns the last successfully planned solution graph.
func (p *Planner) GetSGraph() *SGraph {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.Clone()
}

// GetOptionals returns the current strength order, strongest first.
func (p *Planner) GetOptionals() []string { return p.order.Snapshot() }

// SetOptionals replaces the strength order wholesale (carried across a
// switchToNewPlanner call).
func (p *Planner) SetOptionals(ids []string) { p.order.Restore(ids) }

// SetMaxStrength promotes cid to the strongest end of the optional order.
func (p *Planner) SetMaxStrength(cid string) { p.order.SetMaxStrength(cid) }

// SetMinStrength demotes cid to the weakest end of the optional order.
func (p *Planner) SetMinStrength(cid string) { p.order.SetMinStrength(cid) }

// RemoveOptional drops cid from the strength order.
func (p *Planner) RemoveOptional(cid string) { p.order.RemoveOptional(cid) }

// Compare reports the relative strength of two constraint ids; see
// strength.Order.Compare.
func (p *Planner) Compare(a, b string) int { return p.order.Compare(a, b) }

// Plan (re)selects a method for every constraint in changed's invalidation
// closure — changed itself, plus every constraint transitively reachable
// from it through a shared variable, since a method choice elsewhere in
// that component may no longer be the best (or even a viable) one once
// the edit is accounted for. Hard-required constraints (SetConstraintRequired)
// are enforced first, in id order, and must all succeed or Plan fails and
// leaves the previous solution untouched. Everything else — including
// ordinary explicit constraints and implicit stays alike — is enforced
// together afterward in a single descending-strength-order pass: stays
// default to the weakest end of the order, so an explicit constraint's
// method is only displaced when a stay has been promoted (touched) above
// it, exactly as in the worked scenarios.
func (p *Planner) Plan(changed []string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	working := p.current.Clone()
	for cid := range p.invalidationClosure(changed) {
		delete(working.Selected, cid)
	}

	var requiredCids, restCids []string
	for _, cid := range p.cg.Constraints() {
		if _, ok := working.Selected[cid]; ok {
			continue
		}
		c, ok := p.cg.Constraint(cid)
		if !ok {
			continue
		}
		if c.Required {
			requiredCids = append(requiredCids, cid)
		} else {
			restCids = append(restCids, cid)
		}
	}
	sort.Strings(requiredCids)
	p.sortByStrengthDesc(restCids)

	for _, cid := range requiredCids {
		if !p.tryEnforce(working, cid) {
			return false
		}
	}
	for _, cid := range restCids {
		p.tryEnforce(working, cid) // unenforced constraints here are fine
	}

	p.current = working
	return true
}

// invalidationClosure returns changed plus every constraint reachable from
// it by repeatedly following "shares a variable with" edges: the set of
// constraints whose current selection might no longer be appropriate once
// the edit is applied.
func (p *Planner) invalidationClosure(changed []string) map[string]bool {
	toUnselect := make(map[string]bool, len(changed))
	varSeed := make(map[string]bool)
	for _, cid := range changed {
		toUnselect[cid] = true
		if c, ok := p.cg.Constraint(cid); ok {
			for v := range c.Variables() {
				varSeed[v] = true
			}
		}
	}

	for growing := true; growing; {
		growing = false
		for v := range varSeed {
			for _, cid := range p.cg.ConstraintsWhichUse(v) {
				if toUnselect[cid] {
					continue
				}
				toUnselect[cid] = true
				growing = true
				if c, ok := p.cg.Constraint(cid); ok {
					for vv := range c.Variables() {
						if !varSeed[vv] {
							varSeed[vv] = true
							growing = true
						}
					}
				}
			}
		}
	}
	return toUnselect
}

// sortByStrengthDesc orders cids strongest-first per the current order,
// placing ids absent from the order after present ones while preserving
// their incoming relative order among themselves (Plan passes them sorted
// by id).
func (p *Planner) sortByStrengthDesc(cids []string) {
	snapshot := p.order.Snapshot()
	rank := make(map[string]int, len(snapshot))
	for i, id := range snapshot {
		rank[id] = i
	}
	sort.SliceStable(cids, func(i, j int) bool {
		ri, oki := rank[cids[i]]
		rj, okj := rank[cids[j]]
		switch {
		case oki && okj:
			return ri < rj
		case oki && !okj:
			return true
		default:
			return false
		}
	})
}

// tryEnforce attempts to select a viable method for cid, trying its
// methods in declaration order and taking the first that writes no
// variable another selected method writes and keeps the digraph acyclic.
func (p *Planner) tryEnforce(working *SGraph, cid string) bool {
	for _, mid := range p.cg.MethodsOf(cid) {
		if p.conflicts(working, cid, mid) {
			continue
		}
		if !acyclicWith(p.cg, working.Selected, cid, mid) {
			continue
		}
		working.Selected[cid] = mid
		return true
	}
	return false
}

// conflicts reports whether mid's outputs overlap with the outputs of any
// method already selected for a different constraint.
func (p *Planner) conflicts(working *SGraph, cid, mid string) bool {
	outputs := p.cg.OutputsFor(mid)
	written := make(map[string]struct{}, len(outputs))
	for _, o := range outputs {
		written[o] = struct{}{}
	}
	for otherCid, otherMid := range working.Selected {
		if otherCid == cid {
			continue
		}
		for _, o := range p.cg.OutputsFor(otherMid) {
			if _, clash := written[o]; clash {
				return true
			}
		}
	}
	return false
}
