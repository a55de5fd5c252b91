package engine

import (
	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/planner"
)

// newPlannerFor constructs the planner implementation named by t.
// QuickPlanner is currently the only implementation; the switch exists so
// a future second planner has somewhere to slot in without touching
// SwitchToNewPlanner's contract.
func newPlannerFor(cg *cgraph.Graph, t PlannerType) *planner.Planner {
	switch t {
	case QuickPlanner:
		return planner.New(cg)
	default:
		return planner.New(cg)
	}
}
