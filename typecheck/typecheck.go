package typecheck

import (
	"fmt"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
)

// operatorShortcut returns the fixed output type the reference implementation
// assigns to a synthetic operator/literal node by its Type alone, without
// consulting the registry (spec §4.7).
func operatorShortcut(nodeType string) (registry.DataType, bool) {
	switch nodeType {
	case "lt", "gt", "lte", "gte", "eq", "neq", "logical_and", "logical_or", "logical_not":
		return registry.DataTypeBoolean, true
	case "add", "sub", "mul", "div", "mod", "pow":
		return registry.DataTypeDecimal, true
	case "number":
		return registry.DataTypeDecimal, true
	case "bool_true", "bool_false":
		return registry.DataTypeBoolean, true
	case "text":
		return registry.DataTypeString, true
	case "null":
		return registry.DataTypeAny, true
	default:
		return "", false
	}
}

// GetNodeOutputType resolves the output type of node's handle, consulting,
// in order: an explicit override (keyed by node id, populated by operators
// and literals that fix their own result type), the fixed operator/literal
// shortcuts above, then the component's declared output type from the
// registry. Unknown falls back to Any.
func GetNodeOutputType(node ir.AlgorithmNode, handle string, reg registry.Registry, overrides map[string]registry.DataType) registry.DataType {
	if t, ok := overrides[node.ID]; ok {
		return t
	}
	if t, ok := operatorShortcut(node.Type); ok {
		return t
	}
	if comp, ok := reg.Lookup(node.Type); ok {
		if out, ok2 := comp.OutputByID(handle); ok2 {
			return out.DataType
		}
	}
	return registry.DataTypeAny
}

func isNumericFamily(t registry.DataType) bool {
	return t == registry.DataTypeNumber || t == registry.DataTypeDecimal || t == registry.DataTypeInteger
}

// IsTypeCompatible implements spec §4.7's is_compatible: tgt == Any ||
// src == Any || src == tgt || both in {Number, Decimal, Integer}.
func IsTypeCompatible(src, tgt registry.DataType) bool {
	if tgt == registry.DataTypeAny || src == registry.DataTypeAny || src == tgt {
		return true
	}
	return isNumericFamily(src) && isNumericFamily(tgt)
}

// CastKind enumerates the cast directions the compiler can synthesize.
type CastKind int

const (
	CastNone CastKind = iota
	CastBoolToNumber
	CastNumberToBool
	CastIncompatible
)

// DetermineCast decides, per spec §4.7, whether src can be used where tgt is
// expected directly (CastNone), needs a synthetic cast (CastBoolToNumber /
// CastNumberToBool), or is simply incompatible.
func DetermineCast(src, tgt registry.DataType) CastKind {
	if IsTypeCompatible(src, tgt) {
		return CastNone
	}
	if src == registry.DataTypeBoolean && isNumericFamily(tgt) {
		return CastBoolToNumber
	}
	if isNumericFamily(src) && tgt == registry.DataTypeBoolean {
		return CastNumberToBool
	}
	return CastIncompatible
}

// resultHandle is the canonical output handle id of every synthetic node
// this package and scriptcompile's literal materialization produce.
const resultHandle = "result"

func numberLiteral(id string, n float64) ir.AlgorithmNode {
	return ir.AlgorithmNode{
		ID:      id,
		Type:    "number",
		Options: map[string]option.Value{"value": option.NumberValue(n)},
	}
}

// InsertCast builds the synthetic node(s) needed to coerce srcRef (a
// "src_id#handle" reference) from one side of a Boolean<->numeric mismatch
// to the other, per spec §4.7's cast-direction table. freshID allocates a
// fresh node id for the given base name (spec §4.5's "base_k" scheme); it is
// owned by the caller (scriptcompile's id allocator) so every synthetic id
// this package mints stays consistent with the rest of a compilation.
//
// It returns the new nodes to append to the algorithm vector (in order),
// the reference to substitute for srcRef at the use site, and the type the
// substituted reference now carries. CastNone/CastIncompatible are caller
// errors: call DetermineCast first.
func InsertCast(kind CastKind, srcRef string, freshID func(base string) string) ([]ir.AlgorithmNode, string, registry.DataType, error) {
	switch kind {
	case CastBoolToNumber:
		trueID := freshID("number")
		falseID := freshID("number")
		castID := freshID("bool_to_num_cast")
		trueNode := numberLiteral(trueID, 1)
		falseNode := numberLiteral(falseID, 0)
		castNode := ir.AlgorithmNode{
			ID:   castID,
			Type: "boolean_select",
			Inputs: map[string][]string{
				"condition": {srcRef},
				"true":      {ir.FormatRef(trueID, resultHandle)},
				"false":     {ir.FormatRef(falseID, resultHandle)},
			},
		}
		return []ir.AlgorithmNode{trueNode, falseNode, castNode}, ir.FormatRef(castID, resultHandle), registry.DataTypeNumber, nil

	case CastNumberToBool:
		zeroID := freshID("number")
		castID := freshID("num_to_bool_cast")
		zeroNode := numberLiteral(zeroID, 0)
		castNode := ir.AlgorithmNode{
			ID:   castID,
			Type: "neq",
			Inputs: map[string][]string{
				"SLOT0": {srcRef},
				"SLOT1": {ir.FormatRef(zeroID, resultHandle)},
			},
		}
		return []ir.AlgorithmNode{zeroNode, castNode}, ir.FormatRef(castID, resultHandle), registry.DataTypeBoolean, nil

	default:
		return nil, "", "", fmt.Errorf("typecheck: no cast available for kind %d", kind)
	}
}
