// Package scriptcompile implements C7 (the expression/constructor compiler),
// wires in C9 (special-parameter handling) and C10 (timeframe resolution),
// and produces the same ir.PartialTradeSignalMetaData shape as graphcompile
// but from a parsed, already-folded script (ast.Module) instead of a UI
// graph.
//
// Grounded on original_source's expression_compiler.h/.cpp (visitor
// dispatch, operator desugaring, literal materialization, id allocation)
// and constructor_parser.cpp (the Call₀(Call₁(...)) constructor-call
// grammar and its option/feed-step split).
package scriptcompile
