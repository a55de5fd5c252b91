package diagnostics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvandi/propflow/cgraph"
	"github.com/arvandi/propflow/diagnostics"
)

func TestIncidence_ReadsAndWrites(t *testing.T) {
	cg := cgraph.NewGraph()
	cg.AddVariable("a", cgraph.LevelDefault, nil)
	cg.AddVariable("b", cgraph.LevelDefault, nil)

	fn := func(_ context.Context, in map[string]interface{}) map[string]*cgraph.Promise {
		return map[string]*cgraph.Promise{"b": cgraph.Resolved(in["a"])}
	}
	_, err := cg.AddMethod("C1_fwd", "C1", []cgraph.MethodInput{{Variable: "a"}}, []string{"b"}, fn)
	require.NoError(t, err)

	m := diagnostics.Incidence(cg)

	assert.Equal(t, -1.0, m.At("a", "C1_fwd"))
	assert.Equal(t, 1.0, m.At("b", "C1_fwd"))
	assert.Equal(t, 0.0, m.At("a", "nonexistent"))

	// Each variable's own stay method writes only itself.
	assert.Equal(t, 1.0, m.At("a", cgraph.StayMethodID("a")))
	assert.Equal(t, 0.0, m.At("b", cgraph.StayMethodID("a")))
}

func TestIncidence_String(t *testing.T) {
	cg := cgraph.NewGraph()
	cg.AddVariable("a", cgraph.LevelDefault, nil)
	m := diagnostics.Incidence(cg)
	assert.Contains(t, m.String(), "a")
}
