// Package graphcompile implements CompileUIData (C4): lowering a validated,
// topologically ordered UI graph into the algorithm IR (ir package),
// binding literal and exposed options, wiring edges into
// "target_handle -> [source#handle]" form, inheriting timeframes across
// edges, and splitting out the single trade_signal_executor node.
//
// Grounded on original_source's src/strategy/ui_graph.cpp for the
// option-hoisting and edge-wiring algorithm.
package graphcompile
