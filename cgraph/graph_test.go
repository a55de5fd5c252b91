package cgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvandi/propflow/cgraph"
)

func TestGraph_AddVariableCreatesStay(t *testing.T) {
	g := cgraph.NewGraph()
	v := g.AddVariable("a", cgraph.LevelDefault, nil)
	assert.NotNil(t, v)
	assert.True(t, g.HasVariable("a"))

	cid := cgraph.StayConstraintID("a")
	assert.Contains(t, g.Constraints(), cid)
	mids := g.MethodsOf(cid)
	assert.Equal(t, []string{cgraph.StayMethodID("a")}, mids)

	c, ok := g.Constraint(cid)
	assert.True(t, ok)
	assert.True(t, c.Stay)
	assert.False(t, c.Required)
}

func TestGraph_AddVariableIdempotent(t *testing.T) {
	g := cgraph.NewGraph()
	v1 := g.AddVariable("a", cgraph.LevelDefault, nil)
	v2 := g.AddVariable("a", cgraph.LevelMax, nil)
	assert.Same(t, v1, v2)
	assert.Equal(t, cgraph.LevelDefault, v1.Level())
}

func TestGraph_AddMethodRejectsDuplicateOutput(t *testing.T) {
	g := cgraph.NewGraph()
	_, err := g.AddMethod("m1", "c1", nil, []string{"x", "x"}, nil)
	assert.ErrorIs(t, err, cgraph.ErrDuplicateOutput)
	assert.Empty(t, g.Methods())
}

func TestGraph_AddMethodRejectsInputEqualsOutput(t *testing.T) {
	g := cgraph.NewGraph()
	_, err := g.AddMethod("m1", "c1",
		[]cgraph.MethodInput{{Variable: "x"}}, []string{"x"}, nil)
	assert.ErrorIs(t, err, cgraph.ErrInputEqualsOutput)
}

func TestGraph_AddMethodAllowsPriorInputEqualsOutput(t *testing.T) {
	g := cgraph.NewGraph()
	_, err := g.AddMethod("m1", "c1",
		[]cgraph.MethodInput{{Variable: "x", Prior: true}}, []string{"x"}, nil)
	assert.NoError(t, err)
}

func TestGraph_ConstraintLifecycle(t *testing.T) {
	g := cgraph.NewGraph()
	fn := func(_ context.Context, in map[string]interface{}) map[string]*cgraph.Promise {
		return map[string]*cgraph.Promise{"b": cgraph.Resolved(in["a"])}
	}
	_, err := g.AddMethod("m_ab", "C1", []cgraph.MethodInput{{Variable: "a"}}, []string{"b"}, fn)
	assert.NoError(t, err)

	assert.ElementsMatch(t, []string{"C1"}, g.ConstraintsWhichUse("a"))
	assert.ElementsMatch(t, []string{"C1"}, g.ConstraintsWhichUse("b"))
	cid, ok := g.ConstraintForMethod("m_ab")
	assert.True(t, ok)
	assert.Equal(t, "C1", cid)

	g.RemoveMethod("m_ab")
	assert.Empty(t, g.MethodsOf("C1"))
	_, ok = g.Constraint("C1")
	assert.False(t, ok, "constraint should be dropped once its last method is removed")
	assert.Empty(t, g.ConstraintsWhichUse("a"))
}

func TestGraph_RemoveMethodUnknownIsNoop(t *testing.T) {
	g := cgraph.NewGraph()
	assert.NotPanics(t, func() { g.RemoveMethod("does-not-exist") })
}

func TestGraph_RemoveVariableInUse(t *testing.T) {
	g := cgraph.NewGraph()
	g.AddVariable("a", cgraph.LevelDefault, nil)
	g.AddVariable("b", cgraph.LevelDefault, nil)
	_, err := g.AddMethod("m_ab", "C1", []cgraph.MethodInput{{Variable: "a"}}, []string{"b"}, nil)
	assert.NoError(t, err)

	err = g.RemoveVariable("a")
	assert.ErrorIs(t, err, cgraph.ErrVariableInUse)
	assert.True(t, g.HasVariable("a"), "structural no-op must leave the graph unchanged")

	g.RemoveMethod("m_ab")
	assert.NoError(t, g.RemoveVariable("a"))
	assert.False(t, g.HasVariable("a"))
}

func TestVariable_SetValueSuppressesNoop(t *testing.T) {
	v := cgraph.NewVariable("a", cgraph.LevelDefault, nil)
	assert.True(t, v.SetValue(1))
	assert.False(t, v.SetValue(1), "equal value must not report a change")
	assert.True(t, v.SetValue(2))
}

func TestVariable_CommitPromisePending(t *testing.T) {
	v := cgraph.NewVariable("a", cgraph.LevelDefault, nil)
	p := cgraph.NewPromise()
	v.AttachPromise(p)
	assert.True(t, v.Pending())
	assert.False(t, v.CommitPromise(), "pending promise must not commit")

	p.Resolve(42)
	assert.True(t, v.CommitPromise())
	assert.Equal(t, 42, v.Value())
	assert.False(t, v.Pending())
}

func TestVariable_CommitPromiseRejected(t *testing.T) {
	v := cgraph.NewVariable("a", cgraph.LevelDefault, nil)
	p := cgraph.NewPromise()
	v.AttachPromise(p)
	p.Reject(assertErr)
	assert.True(t, v.CommitPromise())
	assert.ErrorIs(t, v.Err(), assertErr)
}

var assertErr = errTest("method failed")

type errTest string

func (e errTest) Error() string { return string(e) }
