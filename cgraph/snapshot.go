package cgraph

// Snapshot is a read-only view of a Graph's current catalogs, used by
// engine.GetCGraph for inspection. It does not observe subsequent
// mutations — mirrors core/view.go's "fresh copy, no side effects on the
// source" contract.
type Snapshot struct {
	Variables   []string
	Constraints []string
	Methods     []string
}

// Snapshot returns a point-in-time copy of g's catalogs.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{
		Variables:   g.Variables(),
		Constraints: g.Constraints(),
		Methods:     g.Methods(),
	}
}
