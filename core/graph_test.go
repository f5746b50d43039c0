// Package core_test verifies core.Graph construction, vertex/edge
// lifecycle, and neighbor queries — the subset of the teacher graph
// primitive's surface that toposort and uigraph actually exercise.
package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stratdsl/compiler/core"
	"github.com/stretchr/testify/require"
)

func TestGraph_Options(t *testing.T) {
	g := core.NewGraph()
	require.False(t, g.Directed(), "default graph is undirected")

	g = core.NewGraph(core.WithDirected(true))
	require.True(t, g.Directed())
}

func TestGraph_AddVertex(t *testing.T) {
	g := core.NewGraph()

	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddVertex("a"), "adding an existing vertex is a no-op")
	require.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)

	require.Equal(t, []string{"a"}, g.Vertices())
}

func TestGraph_Vertices_SortedAscending(t *testing.T) {
	g := core.NewGraph()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, g.AddVertex(id))
	}

	require.Equal(t, []string{"a", "b", "c"}, g.Vertices())
}

func TestGraph_AddEdge_DirectedNeighbors(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))

	eid, err := g.AddEdge("a", "b", 0)
	require.NoError(t, err)
	require.NotEmpty(t, eid)

	neighbors, err := g.Neighbors("a")
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	require.Equal(t, "b", neighbors[0].To)

	// Directed edges are one-way: b has no outgoing neighbors.
	neighbors, err = g.Neighbors("b")
	require.NoError(t, err)
	require.Empty(t, neighbors)
}

func TestGraph_AddEdge_UndirectedMirrorsNeighbors(t *testing.T) {
	g := core.NewGraph()

	_, err := g.AddEdge("a", "b", 0)
	require.NoError(t, err)

	neighborsA, err := g.Neighbors("a")
	require.NoError(t, err)
	require.Len(t, neighborsA, 1)

	neighborsB, err := g.Neighbors("b")
	require.NoError(t, err)
	require.Len(t, neighborsB, 1, "undirected edge must mirror into b's adjacency")
}

func TestGraph_AddEdge_LoopPolicy(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("a", "a", 0)
	require.ErrorIs(t, err, core.ErrLoopNotAllowed)

	g = core.NewGraph(core.WithLoops())
	_, err = g.AddEdge("a", "a", 0)
	require.NoError(t, err)
}

func TestGraph_AddEdge_MultiEdgePolicy(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("a", "b", 0)
	require.NoError(t, err)
	_, err = g.AddEdge("a", "b", 0)
	require.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	g = core.NewGraph(core.WithMultiEdges())
	_, err = g.AddEdge("a", "b", 0)
	require.NoError(t, err)
	_, err = g.AddEdge("a", "b", 0)
	require.NoError(t, err, "multi-edges enabled: duplicate (from,to) is allowed")
}

func TestGraph_Neighbors_UnknownVertex(t *testing.T) {
	g := core.NewGraph()
	_, err := g.Neighbors("missing")
	require.ErrorIs(t, err, core.ErrVertexNotFound)

	_, err = g.Neighbors("")
	require.ErrorIs(t, err, core.ErrEmptyVertexID)
}

// TestGraph_ConcurrentAddEdge ensures concurrent AddEdge calls on a graph
// allowing multi-edges are safe and every neighbor is recorded.
func TestGraph_ConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	const num = 200

	var wg sync.WaitGroup
	wg.Add(num)
	for i := 0; i < num; i++ {
		go func(id int) {
			defer wg.Done()
			_, err := g.AddEdge("x", fmt.Sprintf("v%d", id), 0)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	neighbors, err := g.Neighbors("x")
	require.NoError(t, err)
	require.Len(t, neighbors, num)
}
