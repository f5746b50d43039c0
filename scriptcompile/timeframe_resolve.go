package scriptcompile

import (
	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/timeframe"
)

// timeframe resolution states for the memoized walk below.
const (
	tfUnresolved = iota
	tfResolving
	tfResolved
)

// resolveTimeframes fills in AlgorithmNode.Timeframe for every node lacking
// an explicit one, taking the coarsest timeframe among its resolved input
// sources (spec §4.8). Resolution is memoized per node id; a node revisited
// while still resolving (a reference cycle) is treated as having no
// resolved timeframe yet, same as a node with no inputs. base is used when
// a node has no inputs, or none of its inputs resolve to a timeframe; it may
// be nil, in which case such nodes are simply left unset.
func resolveTimeframes(nodes []ir.AlgorithmNode, base *timeframe.TimeFrame) {
	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}
	state := make(map[string]int, len(nodes))

	var resolve func(id string) *timeframe.TimeFrame
	resolve = func(id string) *timeframe.TimeFrame {
		idx, ok := byID[id]
		if !ok {
			return nil
		}
		switch state[id] {
		case tfResolved:
			return nodes[idx].Timeframe
		case tfResolving:
			return nil
		}
		state[id] = tfResolving

		if nodes[idx].Timeframe == nil {
			var coarsest *timeframe.TimeFrame
			for _, srcID := range nodes[idx].InputSourceIDs() {
				src := resolve(srcID)
				if src == nil {
					continue
				}
				if coarsest == nil {
					coarsest = src
				} else {
					combined := timeframe.Max(*coarsest, *src)
					coarsest = &combined
				}
			}
			if coarsest == nil {
				coarsest = base
			}
			nodes[idx].Timeframe = coarsest
		}

		state[id] = tfResolved
		return nodes[idx].Timeframe
	}

	for _, n := range nodes {
		resolve(n.ID)
	}
}
