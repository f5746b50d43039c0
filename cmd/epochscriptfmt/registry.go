package main

import "github.com/stratdsl/compiler/registry"

// demoRegistry is a small, fixed component catalog standing in for the
// real metadata registry an embedding host application would supply
// (spec §1: the registry is an external collaborator, never constructed
// by the compiler itself). It exists only so this CLI has something to
// compile against.
func demoRegistry() registry.Registry {
	result := func(dt registry.DataType) []registry.IOSpec {
		return []registry.IOSpec{{ID: "result", DataType: dt}}
	}

	return registry.NewMapRegistry([]registry.ComponentMetadata{
		{
			ID:      "sma",
			Name:    "sma",
			Desc:    "simple moving average",
			Options: []registry.OptionSpec{{ID: "period", Kind: registry.KindInteger, Required: true}},
			Inputs:  []registry.IOSpec{{ID: "*", DataType: registry.DataTypeNumber}},
			Outputs: result(registry.DataTypeDecimal),
		},
		{
			ID:      "ema",
			Name:    "ema",
			Desc:    "exponential moving average",
			Options: []registry.OptionSpec{{ID: "period", Kind: registry.KindInteger, Required: true}},
			Inputs:  []registry.IOSpec{{ID: "*", DataType: registry.DataTypeNumber}},
			Outputs: result(registry.DataTypeDecimal),
		},
		{
			ID:   "gt",
			Name: "gt",
			Desc: "greater than",
			Inputs: []registry.IOSpec{
				{ID: "SLOT0", DataType: registry.DataTypeNumber},
				{ID: "SLOT1", DataType: registry.DataTypeNumber},
			},
			Outputs: result(registry.DataTypeBoolean),
		},
		{
			ID:      "trade_signal_executor",
			Name:    "trade_signal_executor",
			Desc:    "sink: emits the final trade signal",
			Inputs:  []registry.IOSpec{{ID: "signal", DataType: registry.DataTypeBoolean}},
			Outputs: nil,
		},
	})
}
