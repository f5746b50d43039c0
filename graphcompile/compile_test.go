package graphcompile_test

import (
	"testing"

	"github.com/stratdsl/compiler/graphcompile"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/timeframe"
	"github.com/stratdsl/compiler/uigraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() registry.Registry {
	return registry.NewMapRegistry([]registry.ComponentMetadata{
		{Name: "mds", Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeNumber}}},
		{
			Name:    "sma",
			Inputs:  []registry.IOSpec{{ID: "*", DataType: registry.DataTypeNumber, AllowMultiple: true}},
			Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeDecimal}},
			Options: []registry.OptionSpec{{ID: "period", Kind: registry.KindInteger, Required: true, Default: 14.0, Min: floatPtr(1), Max: floatPtr(10000)}},
		},
		{Name: uigraph.ExecutorType, Inputs: []registry.IOSpec{{ID: "signal", DataType: registry.DataTypeAny}}},
	})
}

func floatPtr(f float64) *float64 { return &f }

func TestCompileUIData_LiteralOptionAndWiring(t *testing.T) {
	val := option.NumberValue(21)
	sorted := []uigraph.UiNode{
		{ID: "mds_0", Type: "mds"},
		{ID: "sma_0", Type: "sma", Options: []uigraph.UiOption{{ID: "period", Value: &val}}},
		{ID: "executor_0", Type: uigraph.ExecutorType},
	}
	full := uigraph.UiData{
		Nodes: sorted,
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "mds_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "sma_0", Handle: "SLOT"}},
			{Source: uigraph.UiVertex{NodeID: "sma_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}

	meta, err := graphcompile.CompileUIData(sorted, full, testRegistry())
	require.NoError(t, err)
	require.Len(t, meta.Algorithm, 2)
	require.Empty(t, meta.Options)

	sma, ok := meta.NodeByID("sma_0")
	require.True(t, ok)
	assert.Equal(t, 21.0, sma.Options["period"].Number)
	assert.Equal(t, []string{"mds_0#out"}, sma.Inputs["SLOT"])

	assert.Equal(t, "executor_0", meta.Executor.ID)
	assert.Equal(t, []string{"sma_0#out"}, meta.Executor.Inputs["signal"])
}

func TestCompileUIData_ExposedOptionHoisting(t *testing.T) {
	sorted := []uigraph.UiNode{
		{ID: "sma_0", Type: "sma", Options: []uigraph.UiOption{{ID: "period", Exposed: true, DisplayName: "SMA Period"}}},
		{ID: "executor_0", Type: uigraph.ExecutorType},
	}
	full := uigraph.UiData{
		Nodes: sorted,
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "sma_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}

	meta, err := graphcompile.CompileUIData(sorted, full, testRegistry())
	require.NoError(t, err)
	require.Len(t, meta.Options, 1)
	assert.Equal(t, "sma_0#period", meta.Options[0].ID)
	assert.Equal(t, "SMA Period", meta.Options[0].DisplayName)

	sma, ok := meta.NodeByID("sma_0")
	require.True(t, ok)
	assert.Equal(t, option.ValueKindRef, sma.Options["period"].Kind)
	assert.Equal(t, "sma_0#period", sma.Options["period"].Ref)
}

func TestCompileUIData_DefaultApplied(t *testing.T) {
	sorted := []uigraph.UiNode{
		{ID: "sma_0", Type: "sma"},
		{ID: "executor_0", Type: uigraph.ExecutorType},
	}
	full := uigraph.UiData{
		Nodes: sorted,
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "sma_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}
	meta, err := graphcompile.CompileUIData(sorted, full, testRegistry())
	require.NoError(t, err)
	sma, _ := meta.NodeByID("sma_0")
	assert.Equal(t, 14.0, sma.Options["period"].Number)
}

func TestCompileUIData_TimeframeInheritedAcrossEdge(t *testing.T) {
	tf, _ := timeframe.ParseShorthand("1H")
	sorted := []uigraph.UiNode{
		{ID: "mds_0", Type: "mds", Timeframe: &tf},
		{ID: "sma_0", Type: "sma"},
		{ID: "executor_0", Type: uigraph.ExecutorType},
	}
	full := uigraph.UiData{
		Nodes: sorted,
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "mds_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "sma_0", Handle: "SLOT"}},
			{Source: uigraph.UiVertex{NodeID: "sma_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}
	meta, err := graphcompile.CompileUIData(sorted, full, testRegistry())
	require.NoError(t, err)
	sma, _ := meta.NodeByID("sma_0")
	require.NotNil(t, sma.Timeframe)
	assert.Equal(t, "1H", sma.Timeframe.String())
}
