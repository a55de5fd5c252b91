// Package scenarios builds six named worked configurations (tri-chain,
// strength promotion, optional-unenforceable, touch set, async method,
// emerging source) directly on top of package engine, for reuse by tests
// and cmd/propflow.
//
// Each builder mirrors builder.BuildGraph's composition style: construct an
// *engine.Engine, apply a deterministic sequence of AddVariable/AddConstraint
// calls, and return it ready for the caller to drive with ChangeVariable and
// Update.
package scenarios
