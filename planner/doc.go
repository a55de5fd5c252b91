// Package planner implements the planner (C2): QuickPlan, a
// retraction-based incremental planner that chooses exactly one method per
// enforceable constraint so the combined method/variable dataflow stays
// acyclic, preferring higher-strength optional constraints.
//
// Cycle detection reuses dfs/cycle.go's tri-state (White/Gray/Black) DFS
// idiom, adapted to the method→variable→method digraph implied by a
// candidate selection rather than core.Graph's vertex/edge model.
package planner
