// Package registry is the read-only component-metadata facade (C1).
//
// The registry itself — the mapping from component name to ComponentMetadata
// — is an external collaborator (spec §1): this package defines only the
// shape of that metadata and a minimal, immutable-after-construction facade
// over it, following the teacher's pattern of passing configuration as an
// explicit, immutable value rather than reaching for a global singleton
// (spec §9, "Global singletons (metadata registry)... express as an
// immutable, explicitly-passed context").
package registry

import "strings"

// Kind enumerates the option value types a component's OptionSpec can
// declare (spec §3.1).
type Kind string

const (
	KindInteger          Kind = "Integer"
	KindDecimal          Kind = "Decimal"
	KindBoolean          Kind = "Boolean"
	KindString           Kind = "String"
	KindSelect           Kind = "Select"
	KindNumericList      Kind = "NumericList"
	KindStringList       Kind = "StringList"
	KindTime             Kind = "Time"
	KindSqlStatement     Kind = "SqlStatement"
	KindCardSchema       Kind = "CardSchema"
	KindEventMarkerSchema Kind = "EventMarkerSchema"
)

// DataType enumerates the I/O (handle) types (spec §3.1).
type DataType string

const (
	DataTypeBoolean DataType = "Boolean"
	DataTypeInteger DataType = "Integer"
	DataTypeDecimal DataType = "Decimal"
	DataTypeNumber  DataType = "Number"
	DataTypeString  DataType = "String"
	DataTypeAny     DataType = "Any"
)

// OptionSpec describes one declared option of a component (spec §3.1).
type OptionSpec struct {
	ID           string
	DisplayName  string
	Kind         Kind
	Required     bool
	Default      any
	Min          *float64
	Max          *float64
	Step         *float64
	SelectValues []string
}

// IOSpec describes one declared input or output handle of a component
// (spec §3.1). An Id beginning with "*" names a positional slot: "*"
// canonicalizes to "SLOT", "*N" to "SLOTN" — see CanonicalHandleID.
type IOSpec struct {
	ID            string
	DataType      DataType
	AllowMultiple bool
}

// CanonicalHandleID rewrites a declared handle id's slot shorthand
// ("*" -> "SLOT", "*N" -> "SLOTN") into the form used for wiring and
// lookups. Non-slot ids are returned unchanged.
func CanonicalHandleID(id string) string {
	if !strings.HasPrefix(id, "*") {
		return id
	}
	suffix := strings.TrimPrefix(id, "*")
	return "SLOT" + suffix
}

// ComponentMetadata describes one registered component's full signature
// (spec §3.1).
type ComponentMetadata struct {
	ID                      string
	Name                    string
	Desc                    string
	Tags                    []string
	Options                 []OptionSpec
	Inputs                  []IOSpec
	Outputs                 []IOSpec
	AtLeastOneInputRequired bool
	IsCrossSectional        bool
}

// OptionByID looks up a declared option by exact id. CanonicalHandleID is
// not applied here; options are never slot-named.
func (c ComponentMetadata) OptionByID(id string) (OptionSpec, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return OptionSpec{}, false
}

// InputByID looks up a declared input by its canonical handle id.
func (c ComponentMetadata) InputByID(id string) (IOSpec, bool) {
	for _, in := range c.Inputs {
		if CanonicalHandleID(in.ID) == id {
			return in, true
		}
	}
	return IOSpec{}, false
}

// OutputByID looks up a declared output by its canonical handle id.
func (c ComponentMetadata) OutputByID(id string) (IOSpec, bool) {
	for _, out := range c.Outputs {
		if CanonicalHandleID(out.ID) == id {
			return out, true
		}
	}
	return IOSpec{}, false
}

// DeclaredInputCount returns the number of declared input handles.
func (c ComponentMetadata) DeclaredInputCount() int { return len(c.Inputs) }

// SoleOutput returns the component's only declared output, and false if it
// declares zero or more than one (spec §4.5, "error on >= 2 outputs").
func (c ComponentMetadata) SoleOutput() (IOSpec, bool) {
	if len(c.Outputs) != 1 {
		return IOSpec{}, false
	}
	return c.Outputs[0], true
}

// IsSink reports whether the component declares no outputs at all — the
// only kind of component a bare ExprStmt constructor call may target
// (spec §4.5).
func (c ComponentMetadata) IsSink() bool { return len(c.Outputs) == 0 }
