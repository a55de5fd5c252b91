// Package diagnostics builds read-only inspection views over a *cgraph.Graph
// for tooling and cmd/propflow, without touching engine state.
//
// Incidence mirrors matrix.IncidenceMatrix's sign convention (-1 at a
// method's read, +1 at a method's write) adapted from graph vertex/edge rows
// and columns to property-model variable/method rows and columns.
package diagnostics
