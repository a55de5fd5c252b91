package strength_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvandi/propflow/strength"
)

func TestOrder_SetMaxMovesToFront(t *testing.T) {
	o := strength.New()
	o.SetMinStrength("a")
	o.SetMinStrength("b")
	o.SetMinStrength("c")
	assert.Equal(t, []string{"a", "b", "c"}, o.Snapshot())

	o.SetMaxStrength("c")
	assert.Equal(t, []string{"c", "a", "b"}, o.Snapshot())
}

func TestOrder_CompareAbsentIsWeakest(t *testing.T) {
	o := strength.New()
	o.SetMaxStrength("a")
	assert.Equal(t, -1, o.Compare("a", "ghost"))
	assert.Equal(t, 1, o.Compare("ghost", "a"))
	assert.Equal(t, 0, o.Compare("ghost1", "ghost2"))
}

func TestOrder_SnapshotRestoreRoundTrip(t *testing.T) {
	o := strength.New()
	o.SetMinStrength("x")
	o.SetMaxStrength("y")
	snap := o.Snapshot()

	o2 := strength.New()
	o2.Restore(snap)
	assert.Equal(t, snap, o2.Snapshot())
}

func TestOrder_RemoveOptional(t *testing.T) {
	o := strength.New()
	o.SetMaxStrength("a")
	o.SetMinStrength("b")
	o.RemoveOptional("a")
	assert.False(t, o.Contains("a"))
	assert.Equal(t, []string{"b"}, o.Snapshot())
}
