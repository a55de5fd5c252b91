package scenarios

import (
	"context"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/engine"
)

// Passthrough returns a MethodFunc copying in[from] to out[to] unchanged.
func Passthrough(from, to string) cgraph.MethodFunc {
	return func(_ context.Context, in map[string]interface{}) map[string]*cgraph.Promise {
		return map[string]*cgraph.Promise{to: cgraph.Resolved(in[from])}
	}
}

// Bidi adds a two-method constraint cid to e: forward (a->b) and reverse
// (b->a), both passthrough. Mirrors builder's Cycle/Path/Star pattern of a
// named shape applied to an existing graph. Method ids are auto-generated
// via cgraph.NewMethodID, since nothing about this constraint's two
// alternatives needs a caller-chosen name.
func Bidi(e *engine.Engine, cid, a, b string) error {
	return e.AddConstraint(cid, cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: cgraph.NewMethodID(cid), Inputs: []cgraph.MethodInput{{Variable: a}}, Outputs: []string{b}, Fn: Passthrough(a, b)},
		{ID: cgraph.NewMethodID(cid), Inputs: []cgraph.MethodInput{{Variable: b}}, Outputs: []string{a}, Fn: Passthrough(b, a)},
	})
}

// TriChain builds a tri-chain: variables a-b-c linked by two bidirectional
// constraints C1 (a<->b) and C2 (b<->c). The caller drives it with
// e.ChangeVariable("a", ...) and e.Update().
func TriChain(opts ...engine.Option) (*engine.Engine, error) {
	e := engine.New(opts...)
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	e.AddVariable("c", cgraph.LevelDefault, nil)
	if err := Bidi(e, "C1", "a", "b"); err != nil {
		return nil, err
	}
	if err := Bidi(e, "C2", "b", "c"); err != nil {
		return nil, err
	}
	return e, nil
}

// StrengthPromotion reuses TriChain's shape; the promotion behavior comes
// from editing "c" after "a" has already settled the chain, so this is the
// same graph as TriChain under a distinct name for callers that want to
// document intent.
func StrengthPromotion(opts ...engine.Option) (*engine.Engine, error) {
	return TriChain(opts...)
}

// OptionalUnenforceable builds a single one-method optional constraint C1
// (b->a) alongside independent stays on a and b, so that editing "a"
// directly leaves C1 unenforced (its only method would conflict with the
// stronger stay on a).
func OptionalUnenforceable(opts ...engine.Option) (*engine.Engine, error) {
	e := engine.New(opts...)
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	err := e.AddConstraint("C1", cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "b"}}, Outputs: []string{"a"}, Fn: Passthrough("b", "a")},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// TouchSet builds three variables a, b, c and fully touch-connects the
// constraint ids C1, C2, C3 — none of which are declared as actual
// constraints here, since AddTouchSet only needs ids to wire the promotion
// graph; a caller wanting real constraints under those ids can add them
// separately before touching.
func TouchSet(opts ...engine.Option) *engine.Engine {
	e := engine.New(opts...)
	for _, v := range []string{"a", "b", "c"} {
		e.AddVariable(v, cgraph.LevelDefault, nil)
	}
	e.AddTouchSet([]string{"C1", "C2", "C3"})
	return e
}

// AsyncMethod builds variables a, b and a one-method constraint C1 (a->b)
// whose Fn the caller supplies, so it can return a still-pending
// *cgraph.Promise to exercise the "solved stays false until settled"
// behavior.
func AsyncMethod(fn cgraph.MethodFunc, opts ...engine.Option) (*engine.Engine, error) {
	e := engine.New(opts...)
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	err := e.AddConstraint("C1", cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "a"}}, Outputs: []string{"b"}, Fn: fn},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EmergingSource builds the bidirectional a<->b pair from Bidi; it is meant
// to be constructed with engine.WithForwardEmergingSources(true) so that a
// variable promoted to source mid-run without its own edit still forwards
// its value downstream in the same update.
func EmergingSource(opts ...engine.Option) (*engine.Engine, error) {
	e := engine.New(opts...)
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	if err := Bidi(e, "C1", "a", "b"); err != nil {
		return nil, err
	}
	return e, nil
}
