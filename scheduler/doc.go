// Package scheduler implements the topological method scheduler (C3).
//
// Toposort builds the topograph implied by a solution graph — nodes are
// the selected methods plus the variables they read and write, edges run
// input-variable→method and method→output-variable — and emits the
// selected method ids in an order such that every method appears after
// every method that produces one of its inputs. Ties among methods with
// no remaining dependency are broken by the strength of their owning
// constraints, stronger first, so evaluation order stays stable and
// priority-respecting across replans of an otherwise-unchanged graph.
//
// Toposort uses Kahn's algorithm: a cycle shows up as selected methods
// that never become ready, reported as ErrCycleDetected. The ready-set
// selection reuses dijkstra/dijkstra.go's
// container/heap lazy-priority-queue idiom, ranking by strength instead of
// distance.
package scheduler
