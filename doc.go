// Package compiler is the compiler core of a visual/textual trading-strategy
// DSL.
//
// Users describe a trading strategy as either a node-edge graph (UI data) or
// a Python-subset script. This module turns both into one canonical
// intermediate representation: a directed acyclic graph of typed algorithm
// nodes connected by handle-qualified edges, with a single distinguished
// executor sink.
//
// Subpackages, leaves first:
//
//	core/          — thread-safe directed-graph primitive (Vertex/Edge/Graph)
//	toposort/      — Kahn's-algorithm topological sort with cycle diagnostics
//	issue/         — validation issue model and formatter
//	registry/      — read-only component-metadata facade
//	option/        — option value model and metadata-driven coercion
//	timeframe/     — timeframe type, parser, total ordering, session enum
//	ast/           — AST node sum types for the script path
//	fold/          — constant-folding AST pass
//	ir/            — AlgorithmNode / PartialTradeSignalMetaData IR
//	uigraph/       — UI graph types and the 5-phase validator
//	graphcompile/  — UI graph to IR lowering
//	typecheck/     — data-type lattice and cast-node insertion
//	specialparam/  — timeframe/session out-of-band handling
//	scriptcompile/ — AST-directed expression/constructor compiler
//	cse/           — common-subexpression elimination
//
// There is no wire protocol or daemon in the core: callers drive the
// compiler through the in-process entry points of uigraph/graphcompile (UI
// path) or scriptcompile (script path). cmd/epochscriptfmt is a thin
// demonstrative wrapper around the UI path, not part of the core itself.
package compiler
