package uigraph_test

import (
	"testing"

	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/timeframe"
	"github.com/stratdsl/compiler/uigraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() registry.Registry {
	return registry.NewMapRegistry([]registry.ComponentMetadata{
		{
			Name: "mds", Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeNumber}},
		},
		{
			Name:   "sma",
			Inputs: []registry.IOSpec{{ID: "*", DataType: registry.DataTypeNumber, AllowMultiple: true}},
			Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeDecimal}},
			Options: []registry.OptionSpec{{ID: "period", Kind: registry.KindInteger, Required: true, Default: 14.0}},
		},
		{
			Name:   uigraph.ExecutorType,
			Inputs: []registry.IOSpec{{ID: "signal", DataType: registry.DataTypeAny}},
		},
	})
}

func linearGraph() uigraph.UiData {
	return uigraph.UiData{
		Nodes: []uigraph.UiNode{
			{ID: "mds_0", Type: "mds"},
			{ID: "sma_0", Type: "sma"},
			{ID: "executor_0", Type: uigraph.ExecutorType},
		},
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "mds_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "sma_0", Handle: "SLOT"}},
			{Source: uigraph.UiVertex{NodeID: "sma_0", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}
}

func TestValidateUIData_MissingExecutor(t *testing.T) {
	data := linearGraph()
	data.Nodes = data.Nodes[:2] // drop executor
	_, issues := uigraph.ValidateUIData(data, testRegistry())
	require.NotEmpty(t, issues)
	codes := make(map[string]bool)
	for _, i := range issues {
		codes[string(i.Code)] = true
	}
	assert.True(t, codes["MissingExecutor"])
}

func TestValidateUIData_EmptyGraph(t *testing.T) {
	_, issues := uigraph.ValidateUIData(uigraph.UiData{}, testRegistry())
	require.Len(t, issues, 2) // MissingExecutor + EmptyGraph
}

func TestValidateUIData_UnknownNodeType(t *testing.T) {
	data := uigraph.UiData{Nodes: []uigraph.UiNode{{ID: "x", Type: "nonexistent"}}}
	_, issues := uigraph.ValidateUIData(data, testRegistry())
	require.NotEmpty(t, issues)
	assert.Equal(t, "UnknownNodeType", string(issues[0].Code))
}

func TestValidateUIData_Cycle(t *testing.T) {
	data := uigraph.UiData{
		Nodes: []uigraph.UiNode{
			{ID: "a", Type: "sma"},
			{ID: "b", Type: "sma"},
			{ID: "executor_0", Type: uigraph.ExecutorType},
		},
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "a", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "b", Handle: "SLOT"}},
			{Source: uigraph.UiVertex{NodeID: "b", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "a", Handle: "SLOT"}},
		},
	}
	_, issues := uigraph.ValidateUIData(data, testRegistry())
	var sawCycle bool
	for _, i := range issues {
		if i.Code == "CycleDetected" {
			sawCycle = true
		}
	}
	assert.True(t, sawCycle)
}

func TestValidateUIData_Success(t *testing.T) {
	ordered, issues := uigraph.ValidateUIData(linearGraph(), testRegistry())
	require.Empty(t, issues)
	require.Len(t, ordered, 3)
	assert.Equal(t, "mds_0", ordered[0].ID)
	assert.Equal(t, "executor_0", ordered[2].ID)
}

func TestValidateUIData_TimeframeInheritance(t *testing.T) {
	tf, err := timeframe.ParseShorthand("1H")
	require.NoError(t, err)
	data := linearGraph()
	data.Nodes[0].Timeframe = &tf
	ordered, issues := uigraph.ValidateUIData(data, testRegistry())
	require.Empty(t, issues)
	require.NotNil(t, ordered[1].Timeframe)
	assert.Equal(t, "1H", ordered[1].Timeframe.String())
}

func TestValidateUIData_TimeframeMismatch(t *testing.T) {
	tf1, _ := timeframe.ParseShorthand("1H")
	tf2, _ := timeframe.ParseShorthand("1D")
	data := linearGraph()
	data.Nodes[0].Timeframe = &tf1
	data.Nodes[1].Timeframe = &tf2
	_, issues := uigraph.ValidateUIData(data, testRegistry())
	require.NotEmpty(t, issues)
	assert.Equal(t, "TimeframeMismatch", string(issues[0].Code))
}

func TestValidateUIData_InvalidEdgeTypeMismatch(t *testing.T) {
	data := uigraph.UiData{
		Nodes: []uigraph.UiNode{
			{ID: "textsrc", Type: "textsrc"},
			{ID: "executor_0", Type: uigraph.ExecutorType},
		},
		Edges: []uigraph.UiEdge{
			{Source: uigraph.UiVertex{NodeID: "textsrc", Handle: "out"}, Target: uigraph.UiVertex{NodeID: "executor_0", Handle: "signal"}},
		},
	}
	reg := registry.NewMapRegistry([]registry.ComponentMetadata{
		{Name: "textsrc", Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeString}}},
		{Name: uigraph.ExecutorType, Inputs: []registry.IOSpec{{ID: "signal", DataType: registry.DataTypeBoolean}}},
	})
	_, issues := uigraph.ValidateUIData(data, reg)
	require.NotEmpty(t, issues)
	var sawInvalidEdge bool
	for _, i := range issues {
		if i.Code == "InvalidEdge" {
			sawInvalidEdge = true
		}
	}
	assert.True(t, sawInvalidEdge)
}
