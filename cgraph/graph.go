package cgraph

import (
	"context"
	"sort"
	"sync"
)

// Graph is the constraint graph (C1): a thread-safe bipartite graph over
// Variables and Methods, grouped into Constraints. Reverse-adjacency
// queries (ConstraintsWhichUse, MethodsOf) are memoized in-place and kept
// current on every mutation — the same split-lock discipline core.Graph
// uses for its own vertex/edge adjacency, with muVar guarding the variable
// catalog and muRest guarding methods, constraints, and their caches.
type Graph struct {
	muVar sync.RWMutex
	muRest sync.RWMutex

	variables map[string]*Variable

	methods     map[string]*Method
	constraints map[string]*Constraint

	methodsOfConstraint map[string][]string          // cid -> ordered mids
	constraintForMethod map[string]string             // mid -> cid
	constraintsUsingVar map[string]map[string]struct{} // vid -> cid set
}

// NewGraph returns an empty constraint graph.
func NewGraph() *Graph {
	return &Graph{
		variables:           make(map[string]*Variable),
		methods:             make(map[string]*Method),
		constraints:          make(map[string]*Constraint),
		methodsOfConstraint: make(map[string][]string),
		constraintForMethod: make(map[string]string),
		constraintsUsingVar: make(map[string]map[string]struct{}),
	}
}

// StayConstraintID returns the implicit stay constraint id for a variable.
func StayConstraintID(vid string) string { return "stay:" + vid }

// StayMethodID returns the implicit stay method id for a variable.
func StayMethodID(vid string) string { return "stay-method:" + vid }

// AddVariable inserts vid into the variable catalog along with its
// implicit stay constraint (one method, zero inputs, one output: vid
// itself), satisfying the "every variable has exactly one stay" invariant.
// If vid already exists, this is a no-op and the existing *Variable is
// returned.
func (g *Graph) AddVariable(vid string, level Level, eq func(a, b interface{}) bool) *Variable {
	if vid == "" {
		return nil
	}
	g.muVar.Lock()
	if existing, ok := g.variables[vid]; ok {
		g.muVar.Unlock()
		return existing
	}
	v := NewVariable(vid, level, eq)
	g.variables[vid] = v
	g.muVar.Unlock()

	// The stay constraint is always optional (Required == false) so the
	// planner may demote it below any enforced constraint that writes vid.
	_, _ = g.AddMethod(StayMethodID(vid), StayConstraintID(vid), nil, []string{vid}, stayFn(vid))
	g.muRest.Lock()
	if c, ok := g.constraints[StayConstraintID(vid)]; ok {
		c.Stay = true
		c.Required = false
	}
	g.muRest.Unlock()

	return v
}

func stayFn(vid string) MethodFunc {
	return func(_ context.Context, inputs map[string]interface{}) map[string]*Promise {
		return map[string]*Promise{vid: Resolved(inputs[vid])}
	}
}

// HasVariable reports whether vid is registered.
func (g *Graph) HasVariable(vid string) bool {
	g.muVar.RLock()
	defer g.muVar.RUnlock()
	_, ok := g.variables[vid]
	return ok
}

// Variable returns the named variable and whether it exists.
func (g *Graph) Variable(vid string) (*Variable, bool) {
	g.muVar.RLock()
	defer g.muVar.RUnlock()
	v, ok := g.variables[vid]
	return v, ok
}

// Variables returns every registered variable id, sorted.
func (g *Graph) Variables() []string {
	g.muVar.RLock()
	defer g.muVar.RUnlock()
	out := make([]string, 0, len(g.variables))
	for id := range g.variables {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RemoveVariable deletes vid and its implicit stay constraint, provided no
// other constraint still references it. If vid is still in use,
// RemoveVariable is a silent structural no-op and returns ErrVariableInUse
// so the caller may log it; the graph is left unchanged.
func (g *Graph) RemoveVariable(vid string) error {
	if vid == "" {
		return ErrEmptyID
	}
	g.muRest.RLock()
	cids := g.constraintsUsingVar[vid]
	othersInUse := false
	for cid := range cids {
		if cid != StayConstraintID(vid) {
			othersInUse = true
			break
		}
	}
	g.muRest.RUnlock()
	if othersInUse {
		return ErrVariableInUse
	}

	g.RemoveMethod(StayMethodID(vid))

	g.muVar.Lock()
	defer g.muVar.Unlock()
	if _, ok := g.variables[vid]; !ok {
		return nil
	}
	delete(g.variables, vid)
	return nil
}
