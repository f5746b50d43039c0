package registry_test

import (
	"testing"

	"github.com/stratdsl/compiler/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smaMeta() registry.ComponentMetadata {
	return registry.ComponentMetadata{
		ID:   "sma",
		Name: "sma",
		Desc: "simple moving average",
		Options: []registry.OptionSpec{
			{ID: "period", Kind: registry.KindInteger, Required: true},
		},
		Inputs:  []registry.IOSpec{{ID: "*", DataType: registry.DataTypeNumber, AllowMultiple: true}},
		Outputs: []registry.IOSpec{{ID: "out", DataType: registry.DataTypeDecimal}},
	}
}

func executorMeta() registry.ComponentMetadata {
	return registry.ComponentMetadata{
		ID:      "executor",
		Name:    "executor",
		Inputs:  []registry.IOSpec{{ID: "signal", DataType: registry.DataTypeBoolean}},
		Outputs: nil,
	}
}

func TestCanonicalHandleID(t *testing.T) {
	assert.Equal(t, "SLOT", registry.CanonicalHandleID("*"))
	assert.Equal(t, "SLOT1", registry.CanonicalHandleID("*1"))
	assert.Equal(t, "period", registry.CanonicalHandleID("period"))
}

func TestComponentMetadata_Lookups(t *testing.T) {
	sma := smaMeta()

	opt, ok := sma.OptionByID("period")
	require.True(t, ok)
	assert.Equal(t, registry.KindInteger, opt.Kind)

	_, ok = sma.OptionByID("missing")
	assert.False(t, ok)

	in, ok := sma.InputByID("SLOT")
	require.True(t, ok)
	assert.True(t, in.AllowMultiple)

	out, ok := sma.OutputByID("out")
	require.True(t, ok)
	assert.Equal(t, registry.DataTypeDecimal, out.DataType)

	sole, ok := sma.SoleOutput()
	require.True(t, ok)
	assert.Equal(t, "out", sole.ID)
	assert.False(t, sma.IsSink())

	exec := executorMeta()
	assert.True(t, exec.IsSink())
	_, ok = exec.SoleOutput()
	assert.False(t, ok)
}

func TestMapRegistry_LookupAndAll(t *testing.T) {
	reg := registry.NewMapRegistry([]registry.ComponentMetadata{smaMeta(), executorMeta()})

	c, ok := reg.Lookup("sma")
	require.True(t, ok)
	assert.Equal(t, "sma", c.Name)

	_, ok = reg.Lookup("nonexistent")
	assert.False(t, ok)

	all := reg.All()
	assert.Len(t, all, 2)
	assert.Equal(t, 2, reg.Len())

	// All() is a defensive copy: mutating it must not affect the registry.
	all[0].Name = "mutated"
	c2, ok := reg.Lookup("sma")
	require.True(t, ok)
	assert.Equal(t, "sma", c2.Name)
}
