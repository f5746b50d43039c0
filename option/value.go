package option

import "fmt"

// ValueKind discriminates the populated field of a Value (spec §3.2).
type ValueKind string

const (
	ValueKindNumber     ValueKind = "Number"
	ValueKindBool       ValueKind = "Bool"
	ValueKindText       ValueKind = "Text"
	ValueKindRef        ValueKind = "Ref"
	ValueKindTime       ValueKind = "Time"
	ValueKindSql        ValueKind = "Sql"
	ValueKindCardSchema ValueKind = "CardSchema"
	ValueKindSequence   ValueKind = "Sequence"
)

// TimeOfDay is the parsed form of a Time option ("HH:MM[:SS]").
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// String renders the time as "HH:MM:SS", zero-padded.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Value is the tagged union OptionValue of spec §3.2. Exactly one of the
// fields matching Kind is meaningful; the rest are zero.
type Value struct {
	Kind ValueKind

	Number float64
	Bool   bool
	Text   string
	// Ref names an exposed, hoisted OptionSpec ("node_id#option_id"); Ref
	// values are produced only by the graph compiler (C4), never parsed
	// directly from user input.
	Ref        string
	Time       TimeOfDay
	Sql        string
	CardSchema map[string]any
	Sequence   []Value
}

func NumberValue(f float64) Value              { return Value{Kind: ValueKindNumber, Number: f} }
func BoolValue(b bool) Value                   { return Value{Kind: ValueKindBool, Bool: b} }
func TextValue(s string) Value                 { return Value{Kind: ValueKindText, Text: s} }
func RefValue(name string) Value               { return Value{Kind: ValueKindRef, Ref: name} }
func TimeValue(h, m, s int) Value              { return Value{Kind: ValueKindTime, Time: TimeOfDay{h, m, s}} }
func SqlValue(s string) Value                  { return Value{Kind: ValueKindSql, Sql: s} }
func CardSchemaValue(rec map[string]any) Value { return Value{Kind: ValueKindCardSchema, CardSchema: rec} }
func SequenceValue(vs []Value) Value           { return Value{Kind: ValueKindSequence, Sequence: vs} }

// IsTruthy applies the reference truthiness rules of spec §4.4: false, 0,
// 0.0 and the empty string are falsy; everything else (including an empty
// Sequence) is truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case ValueKindBool:
		return v.Bool
	case ValueKindNumber:
		return v.Number != 0
	case ValueKindText:
		return v.Text != ""
	default:
		return true
	}
}

// Equal implements the equality rules of spec §4.4: equality across
// differing type tags is always false.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueKindNumber:
		return v.Number == other.Number
	case ValueKindBool:
		return v.Bool == other.Bool
	case ValueKindText:
		return v.Text == other.Text
	case ValueKindRef:
		return v.Ref == other.Ref
	case ValueKindTime:
		return v.Time == other.Time
	case ValueKindSql:
		return v.Sql == other.Sql
	case ValueKindSequence:
		if len(v.Sequence) != len(other.Sequence) {
			return false
		}
		for i := range v.Sequence {
			if !v.Sequence[i].Equal(other.Sequence[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
