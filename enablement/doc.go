// Package enablement implements the enablement analyzer (C5): fuzzy
// Relevant/AssumedRelevant/Irrelevant labeling of every variable with
// respect to the engine's currently declared outputs, driven by the
// methodScheduled events the evaluator (C4) emits during a single
// evaluation pass.
//
// The dataflow reachability walk is a depth-first search over the
// solution graph's method->variable edges; the "purely structural"
// fallback walk is a reverse BFS (queue + visited set) over the full
// constraint graph, ignoring which method each constraint currently has
// selected.
package enablement
