package engine

import "github.com/arvandi/propflow/cgraph"

// MethodSpec declares one alternative method of a constraint, as passed to
// AddConstraint or carried inside a ComponentChange.
type MethodSpec struct {
	ID      string
	Inputs  []cgraph.MethodInput
	Outputs []string
	Fn      cgraph.MethodFunc
}
