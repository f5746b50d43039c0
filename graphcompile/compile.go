package graphcompile

import (
	"fmt"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/uigraph"
)

// CompileUIData lowers sortedNodes (the validator's topologically ordered
// output) and full (the original, already-validated graph) into a
// PartialTradeSignalMetaData, per spec §4.2. It assumes every semantic
// error has already been caught by ValidateUIData and surfaces only
// construction-time errors.
func CompileUIData(sortedNodes []uigraph.UiNode, full uigraph.UiData, reg registry.Registry) (*ir.PartialTradeSignalMetaData, error) {
	algNodes := make(map[string]*ir.AlgorithmNode, len(sortedNodes))
	var hoisted []registry.OptionSpec

	for _, n := range sortedNodes {
		comp, ok := reg.Lookup(n.Type)
		if !ok {
			return nil, fmt.Errorf("graphcompile: node %q has unknown type %q (validator should have rejected this)", n.ID, n.Type)
		}

		node := &ir.AlgorithmNode{
			ID:        n.ID,
			Type:      n.Type,
			Options:   make(map[string]option.Value),
			Inputs:    make(map[string][]string),
			Timeframe: n.Timeframe,
		}

		supplied := make(map[string]option.Value)
		for _, o := range n.Options {
			if !o.Exposed && o.Value != nil {
				supplied[o.ID] = *o.Value
			}
		}
		resolved, _ := option.ResolveOptions(supplied, comp)

		for _, spec := range comp.Options {
			uiOpt, has := n.OptionByID(spec.ID)
			if has && uiOpt.Exposed {
				if uiOpt.DisplayName == "" {
					return nil, fmt.Errorf("graphcompile: node %q exposes option %q with no display name", n.ID, spec.ID)
				}
				if n.Type == uigraph.ExecutorType {
					return nil, fmt.Errorf("graphcompile: node %q is the executor and may not expose options", n.ID)
				}
				hoistedID := n.ID + "#" + spec.ID
				hoisted = append(hoisted, registry.OptionSpec{
					ID:           hoistedID,
					DisplayName:  uiOpt.DisplayName,
					Kind:         spec.Kind,
					Required:     spec.Required,
					Default:      spec.Default,
					Min:          spec.Min,
					Max:          spec.Max,
					Step:         spec.Step,
					SelectValues: spec.SelectValues,
				})
				node.Options[spec.ID] = option.RefValue(hoistedID)
				continue
			}
			if v, ok := resolved[spec.ID]; ok {
				node.Options[spec.ID] = v
			}
		}

		algNodes[n.ID] = node
	}

	for _, e := range full.Edges {
		target, ok := algNodes[e.Target.NodeID]
		if !ok {
			return nil, fmt.Errorf("graphcompile: edge targets unknown node %q", e.Target.NodeID)
		}
		source, ok := algNodes[e.Source.NodeID]
		if !ok {
			return nil, fmt.Errorf("graphcompile: edge sources unknown node %q", e.Source.NodeID)
		}
		ref := ir.FormatRef(e.Source.NodeID, e.Source.Handle)
		target.Inputs[e.Target.Handle] = append(target.Inputs[e.Target.Handle], ref)

		if target.Timeframe == nil && source.Timeframe != nil {
			target.Timeframe = source.Timeframe
		}
	}

	var executor *ir.AlgorithmNode
	algorithm := make([]ir.AlgorithmNode, 0, len(sortedNodes))
	for _, n := range sortedNodes {
		node := algNodes[n.ID]
		if n.Type == uigraph.ExecutorType {
			if executor != nil {
				return nil, fmt.Errorf("graphcompile: multiple trade_signal_executor nodes found (%q and %q); validator should have rejected this", executor.ID, node.ID)
			}
			executor = node
			continue
		}
		algorithm = append(algorithm, *node)
	}
	if executor == nil {
		return nil, fmt.Errorf("graphcompile: no trade_signal_executor node found; validator should have rejected this")
	}

	return &ir.PartialTradeSignalMetaData{
		Options:   hoisted,
		Algorithm: algorithm,
		Executor:  *executor,
	}, nil
}
