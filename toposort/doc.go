// Package toposort computes a topological ordering of a directed
// node-dependency graph using Kahn's algorithm, with cycle diagnostics.
//
// This implements C12 of the compiler core: both the UI-graph validator
// (uigraph) and the script compiler (scriptcompile, before CSE) drive the
// same algorithm over a core.Graph built from "source feeds target" edges.
//
// Kahn's algorithm was chosen over the teacher's original DFS-postorder
// approach (see _examples/katalvlaran-lvlath/dfs/topological.go) because
// the spec calls for it explicitly and because it reports the *set* of
// still-unprocessed node ids on a cycle in one pass, which a DFS-based
// sort has to reconstruct separately.
package toposort
