package typecheck_test

import (
	"testing"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/typecheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypeCompatible(t *testing.T) {
	assert.True(t, typecheck.IsTypeCompatible(registry.DataTypeAny, registry.DataTypeBoolean))
	assert.True(t, typecheck.IsTypeCompatible(registry.DataTypeString, registry.DataTypeAny))
	assert.True(t, typecheck.IsTypeCompatible(registry.DataTypeString, registry.DataTypeString))
	assert.True(t, typecheck.IsTypeCompatible(registry.DataTypeNumber, registry.DataTypeDecimal))
	assert.True(t, typecheck.IsTypeCompatible(registry.DataTypeInteger, registry.DataTypeNumber))
	assert.False(t, typecheck.IsTypeCompatible(registry.DataTypeBoolean, registry.DataTypeString))
	assert.False(t, typecheck.IsTypeCompatible(registry.DataTypeBoolean, registry.DataTypeNumber))
}

func TestDetermineCast(t *testing.T) {
	assert.Equal(t, typecheck.CastNone, typecheck.DetermineCast(registry.DataTypeNumber, registry.DataTypeDecimal))
	assert.Equal(t, typecheck.CastBoolToNumber, typecheck.DetermineCast(registry.DataTypeBoolean, registry.DataTypeNumber))
	assert.Equal(t, typecheck.CastNumberToBool, typecheck.DetermineCast(registry.DataTypeDecimal, registry.DataTypeBoolean))
	assert.Equal(t, typecheck.CastIncompatible, typecheck.DetermineCast(registry.DataTypeBoolean, registry.DataTypeString))
}

func freshIDCounter() func(string) string {
	used := map[string]int{}
	return func(base string) string {
		k := used[base]
		used[base] = k + 1
		return base + "_" + itoa(k)
	}
}

func itoa(k int) string {
	if k == 0 {
		return "0"
	}
	digits := ""
	for k > 0 {
		digits = string(rune('0'+k%10)) + digits
		k /= 10
	}
	return digits
}

func TestInsertCast_BoolToNumber(t *testing.T) {
	fresh := freshIDCounter()
	nodes, ref, resultType, err := typecheck.InsertCast(typecheck.CastBoolToNumber, "cond_0#result", fresh)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "boolean_select", nodes[2].Type)
	assert.Equal(t, registry.DataTypeNumber, resultType)
	assert.Equal(t, "bool_to_num_cast_0#result", ref)
	assert.Equal(t, []string{"cond_0#result"}, nodes[2].Inputs["condition"])
}

func TestInsertCast_NumberToBool(t *testing.T) {
	fresh := freshIDCounter()
	nodes, ref, resultType, err := typecheck.InsertCast(typecheck.CastNumberToBool, "n_0#result", fresh)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "neq", nodes[1].Type)
	assert.Equal(t, registry.DataTypeBoolean, resultType)
	assert.Equal(t, "num_to_bool_cast_0#result", ref)
}

func TestGetNodeOutputType_Shortcuts(t *testing.T) {
	reg := registry.NewMapRegistry(nil)
	n := ir.AlgorithmNode{ID: "add_0", Type: "add"}
	assert.Equal(t, registry.DataTypeDecimal, typecheck.GetNodeOutputType(n, "result", reg, nil))

	n2 := ir.AlgorithmNode{ID: "eq_0", Type: "eq"}
	assert.Equal(t, registry.DataTypeBoolean, typecheck.GetNodeOutputType(n2, "result", reg, nil))
}

func TestGetNodeOutputType_OverrideWins(t *testing.T) {
	reg := registry.NewMapRegistry(nil)
	n := ir.AlgorithmNode{ID: "ternary_0", Type: "boolean_select"}
	overrides := map[string]registry.DataType{"ternary_0": registry.DataTypeString}
	assert.Equal(t, registry.DataTypeString, typecheck.GetNodeOutputType(n, "result", reg, overrides))
}

func TestGetNodeOutputType_RegistryFallback(t *testing.T) {
	reg := registry.NewMapRegistry([]registry.ComponentMetadata{
		{Name: "sma", Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeDecimal}}},
	})
	n := ir.AlgorithmNode{ID: "sma_0", Type: "sma"}
	assert.Equal(t, registry.DataTypeDecimal, typecheck.GetNodeOutputType(n, "out", reg, nil))
}

func TestGetNodeOutputType_UnknownFallsBackToAny(t *testing.T) {
	reg := registry.NewMapRegistry(nil)
	n := ir.AlgorithmNode{ID: "mystery_0", Type: "mystery"}
	assert.Equal(t, registry.DataTypeAny, typecheck.GetNodeOutputType(n, "result", reg, nil))
}
