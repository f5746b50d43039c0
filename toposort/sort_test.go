package toposort_test

import (
	"testing"

	"github.com/stratdsl/compiler/core"
	"github.com/stratdsl/compiler/toposort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

func TestSort_LinearChain(t *testing.T) {
	g := toposort.BuildDependencyGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}},
	)
	order, err := toposort.Sort(g)
	require.NoError(t, err)
	require.Equal(t, 3, len(order))
	assert.Less(t, indexOf(order, "a"), indexOf(order, "b"))
	assert.Less(t, indexOf(order, "b"), indexOf(order, "c"))
}

func TestSort_Diamond(t *testing.T) {
	g := toposort.BuildDependencyGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
	)
	order, err := toposort.Sort(g)
	require.NoError(t, err)
	assert.Less(t, indexOf(order, "a"), indexOf(order, "b"))
	assert.Less(t, indexOf(order, "a"), indexOf(order, "c"))
	assert.Less(t, indexOf(order, "b"), indexOf(order, "d"))
	assert.Less(t, indexOf(order, "c"), indexOf(order, "d"))
}

func TestSort_Cycle(t *testing.T) {
	g := toposort.BuildDependencyGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)
	_, err := toposort.Sort(g)
	require.Error(t, err)
	var cycleErr *toposort.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Remaining)
}

func TestSort_PartialCycle(t *testing.T) {
	// a -> b is fine; c <-> d is a cycle untouched by a/b.
	g := toposort.BuildDependencyGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"c", "d"}, {"d", "c"}},
	)
	_, err := toposort.Sort(g)
	require.Error(t, err)
	var cycleErr *toposort.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"c", "d"}, cycleErr.Remaining)
}

func TestSort_NilGraph(t *testing.T) {
	_, err := toposort.Sort(nil)
	assert.ErrorIs(t, err, toposort.ErrGraphNil)
}

func TestSort_Determinism(t *testing.T) {
	g := toposort.BuildDependencyGraph(
		[]string{"z", "y", "x"},
		nil,
	)
	order1, err := toposort.Sort(g)
	require.NoError(t, err)
	order2, err := toposort.Sort(g)
	require.NoError(t, err)
	assert.Equal(t, order1, order2)
	assert.Equal(t, []string{"x", "y", "z"}, order1)
}
