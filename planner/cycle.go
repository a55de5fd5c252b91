package planner

import "github.com/arvandi/propflow/cgraph"

// Tri-state visitation markers, matching dfs/cycle.go's White/Gray/Black
// convention.
const (
	white = 0
	gray  = 1
	black = 2
)

// acyclicWith reports whether adding candidateMid (for candidateCid) to
// the working selection produces an acyclic method→variable→method
// digraph. Prior-flagged inputs are deliberately excluded from the edge
// set: a prior input reads last round's settled value and never forces
// its writer to run first in this round, which is exactly how
// mutually-recursive stay-style methods avoid deadlocking each other.
func acyclicWith(cg *cgraph.Graph, selected map[string]string, candidateCid, candidateMid string) bool {
	adj := make(map[string][]string)

	addEdges := func(mid string) {
		m, ok := cg.Method(mid)
		if !ok {
			return
		}
		mNode := "m:" + mid
		for _, in := range m.Inputs {
			if in.Prior {
				continue
			}
			vNode := "v:" + in.Variable
			adj[vNode] = append(adj[vNode], mNode)
		}
		for _, out := range m.Outputs {
			vNode := "v:" + out
			adj[mNode] = append(adj[mNode], vNode)
		}
	}

	for cid, mid := range selected {
		if cid == candidateCid {
			continue
		}
		addEdges(mid)
	}
	addEdges(candidateMid)

	state := make(map[string]int)
	var visit func(node string) bool
	visit = func(node string) bool {
		switch state[node] {
		case gray:
			return false // back-edge: cycle
		case black:
			return true
		}
		state[node] = gray
		for _, next := range adj[node] {
			if !visit(next) {
				return false
			}
		}
		state[node] = black
		return true
	}

	for node := range adj {
		if state[node] == white {
			if !visit(node) {
				return false
			}
		}
	}
	return true
}
