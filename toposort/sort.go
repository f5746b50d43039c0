package toposort

import (
	"sort"

	"github.com/stratdsl/compiler/core"
)

// Sort computes a topological ordering of every vertex in g using Kahn's
// algorithm: repeatedly remove a vertex with in-degree zero, decrementing
// the in-degree of its neighbors, until the queue is empty.
//
// If every vertex is eventually removed, the returned order is a valid
// topological ordering (ties among simultaneously-zero-in-degree vertices
// are broken by ascending vertex id, so the result is deterministic across
// runs for the same graph). If one or more vertices are never removed —
// because they participate in, or are reachable only through, a cycle — the
// error is a *CycleError naming every such vertex.
//
// Complexity: O(V + E).
func Sort(g *core.Graph, opts ...Option) ([]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if !g.Directed() {
		return nil, ErrUndirected
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	verts := g.Vertices()
	inDegree := make(map[string]int, len(verts))
	for _, v := range verts {
		inDegree[v] = 0
	}
	for _, v := range verts {
		neighbors, err := g.Neighbors(v)
		if err != nil {
			return nil, err
		}
		for _, e := range neighbors {
			if e.From == v {
				inDegree[e.To]++
			}
		}
	}

	// Seed the queue with every zero-in-degree vertex, sorted for determinism.
	queue := make([]string, 0, len(verts))
	for _, v := range verts {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(verts))
	processed := make(map[string]bool, len(verts))

	for len(queue) > 0 {
		select {
		case <-o.ctx.Done():
			return nil, o.ctx.Err()
		default:
		}

		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		processed[id] = true

		neighbors, err := g.Neighbors(id)
		if err != nil {
			return nil, err
		}
		freed := make([]string, 0, len(neighbors))
		for _, e := range neighbors {
			if e.From != id {
				continue
			}
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				freed = append(freed, e.To)
			}
		}
		sort.Strings(freed)
		queue = append(queue, freed...)
	}

	if len(order) != len(verts) {
		remaining := make([]string, 0, len(verts)-len(order))
		for _, v := range verts {
			if !processed[v] {
				remaining = append(remaining, v)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}

// BuildDependencyGraph constructs a directed core.Graph from a set of node
// ids and a "target depends on source" edge list: each (source, target)
// pair becomes a directed edge source -> target, meaning source must be
// ordered before target. Edges referencing an id not present in nodeIDs are
// ignored (cross-boundary references, e.g. to an external data source, are
// not part of the ordering problem per spec C12).
func BuildDependencyGraph(nodeIDs []string, edges [][2]string) *core.Graph {
	g := core.NewGraph(core.WithDirected(true), core.WithMultiEdges(), core.WithLoops())
	known := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		known[id] = true
		_ = g.AddVertex(id)
	}
	for _, e := range edges {
		src, dst := e[0], e[1]
		if !known[src] || !known[dst] {
			continue
		}
		if _, err := g.AddEdge(src, dst, 0); err != nil {
			// Duplicate dependency edges are benign (multi-edges enabled);
			// any other failure indicates a vertex bookkeeping bug.
			continue
		}
	}
	return g
}
