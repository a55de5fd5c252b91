package scenarios_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/engine"
	"github.com/arvandi/propflow/scenarios"
)

func TestTriChain(t *testing.T) {
	e, err := scenarios.TriChain()
	require.NoError(t, err)

	e.ChangeVariable("a", 1)
	e.Update()

	bv, _ := e.Variable("b")
	cv, _ := e.Variable("c")
	assert.Equal(t, 1, bv.Value())
	assert.Equal(t, 1, cv.Value())
}

func TestOptionalUnenforceable(t *testing.T) {
	e, err := scenarios.OptionalUnenforceable()
	require.NoError(t, err)

	e.ChangeVariable("a", 1)
	e.Update()

	sg := e.GetSGraph()
	_, enforced := sg.MethodFor("C1")
	assert.False(t, enforced)
}

func TestTouchSet(t *testing.T) {
	e := scenarios.TouchSet()
	e.TouchVariable("C1")
	e.Update()

	order := e.StrengthOrder()
	assert.Equal(t, "C1", order[0])
}

func TestAsyncMethod(t *testing.T) {
	deferred := cgraph.NewPromise()
	e, err := scenarios.AsyncMethod(func(_ context.Context, _ map[string]interface{}) map[string]*cgraph.Promise {
		return map[string]*cgraph.Promise{"b": deferred}
	})
	require.NoError(t, err)

	e.ChangeVariable("a", 5)
	e.Update()

	solved, _ := e.Solved().Value()
	assert.False(t, solved)

	deferred.Resolve(10)
	solved, _ = e.Solved().Value()
	assert.True(t, solved)
}

func TestEmergingSource(t *testing.T) {
	e, err := scenarios.EmergingSource(engine.WithForwardEmergingSources(true))
	require.NoError(t, err)

	e.ChangeVariable("a", 7)
	e.Update()

	bv, _ := e.Variable("b")
	assert.Equal(t, 7, bv.Value())
}
