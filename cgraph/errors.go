package cgraph

import "errors"

// Sentinel errors for constraint-graph mutations. Callers should branch on
// these with errors.Is, never by comparing error strings.
var (
	// ErrEmptyID indicates an empty variable, method, or constraint id.
	ErrEmptyID = errors.New("cgraph: id is empty")

	// ErrDuplicateOutput indicates a method declares the same output
	// variable more than once.
	ErrDuplicateOutput = errors.New("cgraph: method has duplicate output")

	// ErrInputEqualsOutput indicates a method reads a variable as a
	// non-prior input while also writing it, which would make every
	// activation self-conflicting.
	ErrInputEqualsOutput = errors.New("cgraph: non-prior input equals output")

	// ErrVariableInUse is returned by RemoveVariable when the variable is
	// still referenced by at least one constraint.
	ErrVariableInUse = errors.New("cgraph: variable still in use")
)
