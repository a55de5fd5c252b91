// Package cgraph implements the constraint graph (C1): a thread-safe,
// bipartite graph over Variables and Methods, grouped into Constraints.
//
// A Graph tracks three catalogs — variables, methods, constraints — plus
// the edges "method m reads/writes variable v" and "method m belongs to
// constraint c". Reverse adjacency (constraints-using-a-variable,
// methods-of-a-constraint) is cached and invalidated on every mutation,
// the same split-lock discipline lvlath's core.Graph uses for its own
// vertex/edge adjacency.
//
// Mutations are idempotent on re-adds of the same id. Removing an unknown
// id, or querying one, is a silent no-op / empty result — callers are not
// expected to track graph membership themselves.
package cgraph
