// Package core provides a small, thread-safe in-memory directed-graph
// primitive used as the dependency graph of IR node ids.
//
// Within this module it backs the node-dependency graphs built by the
// uigraph validator (cycle detection, phase 4) and the toposort package
// (Kahn's algorithm, C12): vertex IDs are algorithm-node or UI-node ids,
// and edges are the "source feeds target" relation induced by declared
// input/output wiring.
//
// The API surface is deliberately narrow: only what toposort and the
// validator's cycle check actually exercise. A vertex catalog
// (muVert-guarded) and an edge/adjacency catalog (muEdgeAdj-guarded) are
// kept under separate locks so concurrent construction of independent
// graphs never contends, and concurrent AddEdge calls on the same graph
// are safe.
//
// Configuration (GraphOption):
//
//	– WithDirected(defaultDirected bool) sets the orientation new edges get.
//	– WithMultiEdges() allows more than one edge between the same pair.
//	– WithLoops() allows self-loops (from == to).
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
package core
