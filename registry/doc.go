// Package registry defines the component-metadata shapes (ComponentMetadata,
// OptionSpec, IOSpec) and a minimal read-only Registry facade over them.
//
// The registry facade is modeled on the teacher's core.Graph read-accessor
// style: Vertices returns a defensive copy rather than the live internal
// map, so callers cannot mutate registry state out from under the compiler.
// MapRegistry applies the same discipline to component lookup.
package registry
