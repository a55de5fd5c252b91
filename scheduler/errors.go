package scheduler

import "errors"

// ErrCycleDetected indicates the selected methods do not form a DAG. A
// well-formed solution graph from planner.Plan never produces this; it is
// a defensive check against a caller handing Toposort a hand-built or
// stale SGraph.
var ErrCycleDetected = errors.New("scheduler: selected methods contain a cycle")
