// Package strength implements the planner's strength order: a total order
// over optional constraint ids supporting promotion to either extreme and
// O(1)-amortized comparison.
//
// It is modeled as an indexed ordered container rather than a
// mutated-linked-list: a slice holds the current strongest-to-weakest
// order and a map caches
// each id's position for O(1) Compare. SetMax/SetMin are O(n) (the whole
// slice shifts), which is acceptable at the scale this engine targets —
// lvlath's own core.Graph makes the same simplicity-over-asymptotics
// tradeoff for RemoveVertex (O(deg(v)+M) rather than a specialized index).
package strength
