package ir_test

import (
	"testing"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParseRef(t *testing.T) {
	ref := ir.FormatRef("sma_0", "out")
	assert.Equal(t, "sma_0#out", ref)

	id, handle, err := ir.ParseRef(ref)
	require.NoError(t, err)
	assert.Equal(t, "sma_0", id)
	assert.Equal(t, "out", handle)
}

func TestParseRef_Malformed(t *testing.T) {
	_, _, err := ir.ParseRef("no-hash-here")
	assert.Error(t, err)
}

func TestInputSourceIDs_Dedup(t *testing.T) {
	n := ir.AlgorithmNode{
		ID: "add_0",
		Inputs: map[string][]string{
			"SLOT0": {"sma_0#out"},
			"SLOT1": {"sma_0#out", "ema_0#out"},
		},
	}
	ids := n.InputSourceIDs()
	assert.ElementsMatch(t, []string{"sma_0", "ema_0"}, ids)
}

func TestPartialTradeSignalMetaData_NodeByID(t *testing.T) {
	meta := ir.PartialTradeSignalMetaData{
		Algorithm: []ir.AlgorithmNode{
			{ID: "sma_0", Options: map[string]option.Value{}},
		},
		Executor: ir.AlgorithmNode{ID: "executor_0"},
	}
	n, ok := meta.NodeByID("sma_0")
	require.True(t, ok)
	assert.Equal(t, "sma_0", n.ID)

	n, ok = meta.NodeByID("executor_0")
	require.True(t, ok)
	assert.Equal(t, "executor_0", n.ID)

	_, ok = meta.NodeByID("missing")
	assert.False(t, ok)

	assert.Len(t, meta.AllNodes(), 2)
}
