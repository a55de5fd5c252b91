package enablement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/enablement"
	"github.com/arvandi/propflow/evaluate"
	"github.com/arvandi/propflow/planner"
)

func TestAnalyzer_TriChainAllRelevant(t *testing.T) {
	cg := cgraph.NewGraph()
	p := planner.New(cg)
	for _, v := range []string{"a", "b", "c"} {
		cg.AddVariable(v, cgraph.LevelDefault, nil)
	}
	_, err := cg.AddMethod("C1_fwd", "C1", []cgraph.MethodInput{{Variable: "a"}}, []string{"b"}, nil)
	require.NoError(t, err)
	_, err = cg.AddMethod("C2_fwd", "C2", []cgraph.MethodInput{{Variable: "b"}}, []string{"c"}, nil)
	require.NoError(t, err)
	p.SetMaxStrength("C1")
	p.SetMaxStrength("C2")
	p.SetMaxStrength(cgraph.StayConstraintID("a"))
	require.True(t, p.Plan([]string{cgraph.StayConstraintID("a")}))
	sg := p.GetSGraph()

	av, _ := cg.Variable("a")
	av.SetSource(true)

	a := enablement.New(cg)
	a.Reset([]string{"a"})
	a.Observe(evaluate.ScheduledEvent{ConstraintID: "C1", MethodID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "a"}}, Outputs: []string{"b"}})
	a.Observe(evaluate.ScheduledEvent{ConstraintID: "C2", MethodID: "C2_fwd", Inputs: []cgraph.MethodInput{{Variable: "b"}}, Outputs: []string{"c"}})
	a.Finalize(sg, map[string]bool{"c": true})

	bv, _ := cg.Variable("b")
	cv, _ := cg.Variable("c")
	assert.Equal(t, cgraph.FuzzyYes, bv.Relevant())
	assert.Equal(t, cgraph.FuzzyYes, cv.Relevant())
}

func TestAnalyzer_UnreachedBranchIsIrrelevant(t *testing.T) {
	cg := cgraph.NewGraph()
	p := planner.New(cg)
	for _, v := range []string{"a", "b", "d"} {
		cg.AddVariable(v, cgraph.LevelDefault, nil)
	}
	_, err := cg.AddMethod("C1_fwd", "C1", []cgraph.MethodInput{{Variable: "a"}}, []string{"b"}, nil)
	require.NoError(t, err)
	_, err = cg.AddMethod("C3_fwd", "C3", []cgraph.MethodInput{{Variable: "a"}}, []string{"d"}, nil)
	require.NoError(t, err)
	p.SetMaxStrength("C1")
	p.SetMaxStrength("C3")
	p.SetMaxStrength(cgraph.StayConstraintID("a"))
	require.True(t, p.Plan([]string{cgraph.StayConstraintID("a")}))
	sg := p.GetSGraph()

	av, _ := cg.Variable("a")
	av.SetSource(true)

	a := enablement.New(cg)
	a.Reset([]string{"a"})
	a.Observe(evaluate.ScheduledEvent{ConstraintID: "C1", MethodID: "C1_fwd", Inputs: []cgraph.MethodInput{{Variable: "a"}}, Outputs: []string{"b"}})
	a.Observe(evaluate.ScheduledEvent{ConstraintID: "C3", MethodID: "C3_fwd", Inputs: []cgraph.MethodInput{{Variable: "a"}}, Outputs: []string{"d"}})
	// Only b is declared an output; d is computed but not on the path to
	// any output.
	a.Finalize(sg, map[string]bool{"b": true})

	dv, _ := cg.Variable("d")
	assert.Equal(t, cgraph.FuzzyNo, dv.Relevant())
}
