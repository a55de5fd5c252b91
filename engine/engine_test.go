package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/engine"
)

func doubler(from, to string) cgraph.MethodFunc {
	return func(_ context.Context, in map[string]interface{}) map[string]*cgraph.Promise {
		n, _ := in[from].(int)
		return map[string]*cgraph.Promise{to: cgraph.Resolved(n * 2)}
	}
}

func passthrough(from, to string) cgraph.MethodFunc {
	return func(_ context.Context, in map[string]interface{}) map[string]*cgraph.Promise {
		return map[string]*cgraph.Promise{to: cgraph.Resolved(in[from])}
	}
}

// newBidi declares a two-method constraint cid with forward (a->b) and
// reverse (b->a) methods, both passthrough.
func newBidi(t *testing.T, e *engine.Engine, cid, a, b string) {
	t.Helper()
	err := e.AddConstraint(cid, cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: cid + "_fwd", Inputs: []cgraph.MethodInput{{Variable: a}}, Outputs: []string{b}, Fn: passthrough(a, b)},
		{ID: cid + "_rev", Inputs: []cgraph.MethodInput{{Variable: b}}, Outputs: []string{a}, Fn: passthrough(b, a)},
	})
	require.NoError(t, err)
}

// TestEngine_TriChain builds a tri-chain end to end through the engine.
func TestEngine_TriChain(t *testing.T) {
	e := engine.New()
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	e.AddVariable("c", cgraph.LevelDefault, nil)
	newBidi(t, e, "C1", "a", "b")
	newBidi(t, e, "C2", "b", "c")

	e.ChangeVariable("a", 1)
	e.Update()

	bv, _ := e.Variable("b")
	cv, _ := e.Variable("c")
	assert.Equal(t, 1, bv.Value())
	assert.Equal(t, 1, cv.Value())

	solved, _ := e.Solved().Value()
	assert.True(t, solved)
}

// TestEngine_StrengthPromotion mirrors the "Strength promotion" scenario:
// after editing c, the chain should recompute in reverse.
func TestEngine_StrengthPromotion(t *testing.T) {
	e := engine.New()
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	e.AddVariable("c", cgraph.LevelDefault, nil)
	newBidi(t, e, "C1", "a", "b")
	newBidi(t, e, "C2", "b", "c")

	e.ChangeVariable("a", 1)
	e.Update()

	e.ChangeVariable("c", 9)
	e.Update()

	av, _ := e.Variable("a")
	bv, _ := e.Variable("b")
	assert.Equal(t, 9, bv.Value())
	assert.Equal(t, 9, av.Value())
}

// TestEngine_OptionalUnenforceable mirrors the "Optional unenforceable"
// scenario: a one-method optional constraint left unenforced once a
// stronger edit pins its variable.
func TestEngine_OptionalUnenforceable(t *testing.T) {
	e := engine.New()
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	err := e.AddConstraint("C1", cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "b"}}, Outputs: []string{"a"}, Fn: passthrough("b", "a")},
	})
	require.NoError(t, err)

	e.ChangeVariable("a", 1)
	e.Update()

	sg := e.GetSGraph()
	_, enforced := sg.MethodFor("C1")
	assert.False(t, enforced)
}

// TestEngine_TouchSet mirrors the "Touch set" scenario: touching one
// constraint in a fully-connected touch set promotes the others.
func TestEngine_TouchSet(t *testing.T) {
	e := engine.New()
	for _, v := range []string{"a", "b", "c"} {
		e.AddVariable(v, cgraph.LevelDefault, nil)
	}
	e.AddTouchSet([]string{"C1", "C2", "C3"})

	e.TouchVariable("C1")
	e.Update()

	order := e.StrengthOrder()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	// C1 promoted itself strongest; C2 and C3 were promoted as its
	// touch-dependency closure, both now ahead of anything untouched.
	assert.Equal(t, 0, pos["C1"])
	assert.Contains(t, pos, "C2")
	assert.Contains(t, pos, "C3")
}

// TestEngine_AsyncMethod mirrors the "Async method" scenario: solved stays
// false until the deferred promise resolves.
func TestEngine_AsyncMethod(t *testing.T) {
	e := engine.New()
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)

	deferred := cgraph.NewPromise()
	err := e.AddConstraint("C1", cgraph.LevelDefault, false, []engine.MethodSpec{
		{ID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "a"}}, Outputs: []string{"b"},
			Fn: func(_ context.Context, _ map[string]interface{}) map[string]*cgraph.Promise {
				return map[string]*cgraph.Promise{"b": deferred}
			}},
	})
	require.NoError(t, err)

	e.ChangeVariable("a", 5)
	e.Update()

	solved, _ := e.Solved().Value()
	assert.False(t, solved)

	deferred.Resolve(10)
	solved, _ = e.Solved().Value()
	assert.True(t, solved)

	bv, _ := e.Variable("b")
	assert.Equal(t, 10, bv.Value())
}

// TestEngine_EmergingSource mirrors the "Emerging source" scenario: with
// ForwardEmergingSources enabled, a variable newly selected as source has
// its value forwarded and downstream recomputed in the same update.
func TestEngine_EmergingSource(t *testing.T) {
	e := engine.New(engine.WithForwardEmergingSources(true))
	e.AddVariable("a", cgraph.LevelDefault, nil)
	e.AddVariable("b", cgraph.LevelDefault, nil)
	newBidi(t, e, "C1", "a", "b")

	e.ChangeVariable("a", 7)
	e.Update()
	bv, _ := e.Variable("b")
	assert.Equal(t, 7, bv.Value())

	e.ChangeVariable("b", 3)
	e.Update()

	av, _ := e.Variable("a")
	bv2, _ := e.Variable("b")
	assert.Equal(t, 3, bv2.Value())
	assert.Equal(t, 3, av.Value())
}
