// Package evaluate implements the evaluator (C4): running exactly the
// selected methods downstream of a changed seed set, in the topological
// order scheduler.Toposort establishes, committing promised outputs in two
// passes and tracking how many variables remain pending.
//
// The downstream walk reuses bfs/bfs.go's hookable-queue shape (here over
// variable/method ids rather than core.Graph vertices); the overall
// multi-phase "map seeds -> compute downstream set -> run in order -> commit"
// structure mirrors flow/'s small mutable runner struct driving a
// multi-phase algorithm.
package evaluate
