package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSymmetricLookup(t *testing.T) {
	tbl := NewTable()
	glassSteel := Parameters{SurfaceTension: 0.07, WettingAngle: 0.3}
	tbl.Add("steel", "glass", glassSteel)
	tbl.Add("glass", "glass", Parameters{SurfaceTension: 0.072, WettingAngle: 0.1})

	assert.Equal(t, glassSteel, tbl.Lookup("glass", "steel"))
	assert.Equal(t, glassSteel, tbl.Lookup("steel", "glass"))
	assert.Equal(t, Parameters{SurfaceTension: 0.072, WettingAngle: 0.1}, tbl.Lookup("glass", "glass"))
	assert.Equal(t, 2, tbl.Len())
}

func TestTableLookupMissIsZero(t *testing.T) {
	tbl := NewTable()
	tbl.Add("a", "b", Parameters{SurfaceTension: 1, WettingAngle: 1})

	assert.Equal(t, Parameters{}, tbl.Lookup("a", "c"))
	assert.Equal(t, Parameters{}, tbl.Lookup("b", "b"))

	var empty *Table
	assert.Equal(t, Parameters{}, empty.Lookup("a", "b"))
	assert.Equal(t, 0, empty.Len())
}

func TestTableOverwriteEitherOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Add("b", "a", Parameters{SurfaceTension: 1})
	tbl.Add("a", "b", Parameters{SurfaceTension: 2})

	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 2.0, tbl.Lookup("b", "a").SurfaceTension)
}

func TestTableInsertionOrderIndependent(t *testing.T) {
	pairs := [][2]string{{"x", "y"}, {"y", "z"}, {"z", "x"}, {"x", "x"}}

	forward := NewTable()
	for i, p := range pairs {
		forward.Add(p[0], p[1], Parameters{SurfaceTension: float64(i)})
	}
	backward := NewTable()
	for i := len(pairs) - 1; i >= 0; i-- {
		backward.Add(pairs[i][1], pairs[i][0], Parameters{SurfaceTension: float64(i)})
	}

	for _, p := range pairs {
		assert.Equal(t, forward.Lookup(p[0], p[1]), backward.Lookup(p[1], p[0]))
	}
}

func TestTableKeysDoNotCollideOnSeparators(t *testing.T) {
	tbl := NewTable()
	tbl.Add("a~_~_~b", "c", Parameters{SurfaceTension: 1})
	tbl.Add("a", "b~_~_~c", Parameters{SurfaceTension: 2})

	assert.Equal(t, 1.0, tbl.Lookup("c", "a~_~_~b").SurfaceTension)
	assert.Equal(t, 2.0, tbl.Lookup("b~_~_~c", "a").SurfaceTension)
}
