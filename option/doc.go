// Package option defines the tagged-union OptionValue (C2) and the
// registry-driven coercion rules (ParseOption) shared by the UI-graph and
// script compilation paths.
//
// Go has no sum-type sugar, so Value is a single struct carrying a Kind
// discriminant plus one populated field per kind — the same shape the
// teacher's core package uses for Edge (a single struct with a Directed
// flag rather than two parallel Edge/DirectedEdge types). Numeric clamping
// uses a small generic helper over golang.org/x/exp/constraints, grounded
// on smilemakc-mbflow's condition.Number constraint.
package option
