package option

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stratdsl/compiler/issue"
	"github.com/stratdsl/compiler/registry"
	"golang.org/x/exp/constraints"
)

// Number is the set of types Clamp accepts, grounded on smilemakc-mbflow's
// condition.Number constraint (src/condition/base.go).
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp restricts v to [*min, *max], leaving it untouched where either
// bound is nil.
func Clamp[T Number](v T, min, max *float64) T {
	if min != nil && float64(v) < *min {
		v = T(*min)
	}
	if max != nil && float64(v) > *max {
		v = T(*max)
	}
	return v
}

// FieldError is a single option-coercion failure, identified by the option
// id it concerns so a caller can attach node/component context and render
// it as an issue.Issue.
type FieldError struct {
	OptionID   string
	Code       issue.Code
	Message    string
	Suggestion string
}

func (e *FieldError) Error() string { return e.Message }

var slotRefPattern = regexp.MustCompile(`SLOT(\d*)`)

// ParseOption implements the registry-driven coercion table of spec §4.3:
// parse_option(raw, spec, comp) -> OptionValue | error.
func ParseOption(raw Value, spec registry.OptionSpec, comp registry.ComponentMetadata) (Value, *FieldError) {
	switch spec.Kind {
	case registry.KindInteger, registry.KindDecimal:
		if raw.Kind != ValueKindNumber {
			return Value{}, wrongKind(spec, "a number")
		}
		n := Clamp(raw.Number, spec.Min, spec.Max)
		if spec.Kind == registry.KindInteger {
			n = math.Trunc(n)
		}
		return NumberValue(n), nil

	case registry.KindBoolean:
		if raw.Kind != ValueKindBool {
			return Value{}, wrongKind(spec, "a boolean")
		}
		return raw, nil

	case registry.KindString:
		if raw.Kind != ValueKindText {
			return Value{}, wrongKind(spec, "a string")
		}
		return raw, nil

	case registry.KindSelect:
		if raw.Kind != ValueKindText {
			return Value{}, wrongKind(spec, "a string")
		}
		for _, allowed := range spec.SelectValues {
			if raw.Text == allowed {
				return raw, nil
			}
		}
		return Value{}, &FieldError{
			OptionID: spec.ID,
			Code:     issue.CodeOptionValueOutOfRange,
			Message:  fmt.Sprintf("option %q must be one of %s, got %q", spec.ID, strings.Join(spec.SelectValues, ", "), raw.Text),
		}

	case registry.KindTime:
		if raw.Kind != ValueKindText {
			return Value{}, wrongKind(spec, "a string")
		}
		return parseTime(spec, raw.Text)

	case registry.KindNumericList:
		if raw.Kind != ValueKindSequence {
			return Value{}, wrongKind(spec, "a list")
		}
		for i, el := range raw.Sequence {
			if el.Kind != ValueKindNumber {
				return Value{}, &FieldError{
					OptionID: spec.ID,
					Code:     issue.CodeInvalidOptionCombination,
					Message:  fmt.Sprintf("option %q element %d must be a number", spec.ID, i),
				}
			}
		}
		return raw, nil

	case registry.KindStringList:
		if raw.Kind != ValueKindSequence {
			return Value{}, wrongKind(spec, "a list")
		}
		for i, el := range raw.Sequence {
			if el.Kind != ValueKindText {
				return Value{}, &FieldError{
					OptionID: spec.ID,
					Code:     issue.CodeInvalidOptionCombination,
					Message:  fmt.Sprintf("option %q element %d must be a string", spec.ID, i),
				}
			}
		}
		return raw, nil

	case registry.KindSqlStatement:
		if raw.Kind != ValueKindText {
			return Value{}, wrongKind(spec, "a SQL string")
		}
		if err := validateSlotRefs(spec.ID, raw.Text, len(comp.Outputs)); err != nil {
			return Value{}, err
		}
		return SqlValue(raw.Text), nil

	case registry.KindCardSchema, registry.KindEventMarkerSchema:
		rec, text, err := asSchemaRecord(spec, raw)
		if err != nil {
			return Value{}, err
		}
		if err := validateSlotRefs(spec.ID, text, len(comp.Inputs)); err != nil {
			return Value{}, err
		}
		if sql, ok := rec["sql"].(string); ok {
			if err := validateSlotRefs(spec.ID, sql, len(comp.Outputs)); err != nil {
				return Value{}, err
			}
		}
		return CardSchemaValue(rec), nil

	default:
		return Value{}, &FieldError{
			OptionID: spec.ID,
			Code:     issue.CodeInvalidOptionCombination,
			Message:  fmt.Sprintf("option %q declares unknown kind %q", spec.ID, spec.Kind),
		}
	}
}

func wrongKind(spec registry.OptionSpec, want string) *FieldError {
	return &FieldError{
		OptionID: spec.ID,
		Code:     issue.CodeInvalidOptionCombination,
		Message:  fmt.Sprintf("option %q (%s) expects %s", spec.ID, spec.Kind, want),
	}
}

func parseTime(spec registry.OptionSpec, text string) (Value, *FieldError) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Value{}, &FieldError{
			OptionID: spec.ID,
			Code:     issue.CodeInvalidOptionCombination,
			Message:  fmt.Sprintf("option %q: %q is not HH:MM[:SS]", spec.ID, text),
		}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Value{}, &FieldError{
				OptionID: spec.ID,
				Code:     issue.CodeInvalidOptionCombination,
				Message:  fmt.Sprintf("option %q: %q is not HH:MM[:SS]", spec.ID, text),
			}
		}
		nums[i] = n
	}
	return TimeValue(nums[0], nums[1], nums[2]), nil
}

// asSchemaRecord accepts either a JSON-text Value or an already-parsed
// CardSchema Value, per spec §4.3's "Text (JSON) or pre-parsed record".
// It returns the parsed record and the raw text it came from (for slot-ref
// scanning).
func asSchemaRecord(spec registry.OptionSpec, raw Value) (map[string]any, string, *FieldError) {
	switch raw.Kind {
	case ValueKindCardSchema:
		buf, _ := json.Marshal(raw.CardSchema)
		return raw.CardSchema, string(buf), nil
	case ValueKindText:
		trimmed := strings.TrimSpace(raw.Text)
		var rec map[string]any
		if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
			return nil, "", &FieldError{
				OptionID: spec.ID,
				Code:     issue.CodeInvalidOptionCombination,
				Message:  fmt.Sprintf("option %q: invalid JSON: %v", spec.ID, err),
			}
		}
		return rec, trimmed, nil
	default:
		return nil, "", wrongKind(spec, "JSON text or a pre-parsed record")
	}
}

// validateSlotRefs scans text for "SLOT"/"SLOTN" references and checks each
// named slot index is within [0, declaredCount).
func validateSlotRefs(optionID, text string, declaredCount int) *FieldError {
	for _, m := range slotRefPattern.FindAllStringSubmatch(text, -1) {
		idx := 0
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			idx = n
		}
		if idx >= declaredCount {
			return &FieldError{
				OptionID: optionID,
				Code:     issue.CodeInvalidOptionReference,
				Message:  fmt.Sprintf("option %q references %s, which is out of range (declares %d)", optionID, m[0], declaredCount),
			}
		}
	}
	return nil
}

// defaultValue converts a declared OptionSpec.Default (a plain Go value:
// float64, bool, string, or []any) into a Value of the matching kind.
func defaultValue(spec registry.OptionSpec) (Value, bool) {
	if spec.Default == nil {
		return Value{}, false
	}
	switch d := spec.Default.(type) {
	case float64:
		return NumberValue(d), true
	case int:
		return NumberValue(float64(d)), true
	case bool:
		return BoolValue(d), true
	case string:
		return TextValue(d), true
	case []any:
		seq := make([]Value, 0, len(d))
		for _, el := range d {
			switch v := el.(type) {
			case float64:
				seq = append(seq, NumberValue(v))
			case string:
				seq = append(seq, TextValue(v))
			}
		}
		return SequenceValue(seq), true
	default:
		return Value{}, false
	}
}

// ResolveOptions applies defaults and runs ParseOption over every option
// comp declares, given the raw values supplied by the caller (keyed by
// option id). It returns the resolved options and every coercion failure
// encountered; callers (uigraph, scriptcompile) attach node context and
// convert FieldErrors into issue.Issue.
//
// Unknown supplied ids (not declared by comp, and not "timeframe"/
// "session", which are handled out-of-band by specialparam) are reported
// as InvalidOptionReference. Missing required options with no declared
// default are reported as MissingRequiredOption; defaults are applied
// before validation, per spec §4.3.
func ResolveOptions(supplied map[string]Value, comp registry.ComponentMetadata) (map[string]Value, []*FieldError) {
	resolved := make(map[string]Value, len(comp.Options))
	var errs []*FieldError

	declared := make(map[string]bool, len(comp.Options))
	for _, spec := range comp.Options {
		declared[spec.ID] = true

		raw, ok := supplied[spec.ID]
		if !ok {
			if def, hasDef := defaultValue(spec); hasDef {
				raw, ok = def, true
			}
		}
		if !ok {
			if spec.Required {
				errs = append(errs, &FieldError{
					OptionID: spec.ID,
					Code:     issue.CodeMissingRequiredOption,
					Message:  fmt.Sprintf("missing required option %q", spec.ID),
				})
			}
			continue
		}

		val, err := ParseOption(raw, spec, comp)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved[spec.ID] = val
	}

	for id := range supplied {
		if id == "timeframe" || id == "session" || declared[id] {
			continue
		}
		errs = append(errs, &FieldError{
			OptionID: id,
			Code:     issue.CodeInvalidOptionReference,
			Message:  fmt.Sprintf("unknown option %q", id),
		})
	}

	return resolved, errs
}
