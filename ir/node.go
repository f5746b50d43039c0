package ir

import (
	"fmt"
	"strings"

	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/timeframe"
)

// AlgorithmNode is one compiled node of the IR: a component instance with
// resolved option values and wired inputs (spec §3.4).
type AlgorithmNode struct {
	ID      string
	Type    string
	Options map[string]option.Value
	// Inputs maps a declared input-handle id to the ordered list of
	// source references ("src_id#src_handle") feeding it.
	Inputs map[string][]string

	Timeframe *timeframe.TimeFrame
	Session   *timeframe.Session
}

// FormatRef renders a source reference in the canonical "src_id#src_handle"
// form used as an Inputs list element.
func FormatRef(srcID, srcHandle string) string {
	return srcID + "#" + srcHandle
}

// ParseRef splits a "src_id#src_handle" reference into its parts.
func ParseRef(ref string) (srcID, srcHandle string, err error) {
	i := strings.IndexByte(ref, '#')
	if i < 0 {
		return "", "", fmt.Errorf("ir: malformed reference %q: missing '#'", ref)
	}
	return ref[:i], ref[i+1:], nil
}

// InputSourceIDs returns the distinct source node ids referenced anywhere in
// n.Inputs, in first-seen order.
func (n AlgorithmNode) InputSourceIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, refs := range n.Inputs {
		for _, ref := range refs {
			srcID, _, err := ParseRef(ref)
			if err != nil {
				continue
			}
			if !seen[srcID] {
				seen[srcID] = true
				ids = append(ids, srcID)
			}
		}
	}
	return ids
}

// PartialTradeSignalMetaData is the full compiled output of either
// compilation path (spec §3.4): the hoisted option specs exposed to the
// host application, the non-executor algorithm nodes in topological order,
// and the single executor node.
type PartialTradeSignalMetaData struct {
	Options   []registry.OptionSpec
	Algorithm []AlgorithmNode
	Executor  AlgorithmNode
}

// AllNodes returns Algorithm with Executor appended, the full node set a
// reference (sk#hk) in any Inputs map may legally target (spec §3.4
// invariant: "each sk is the id of a node in algorithm ∪ {executor}").
func (m PartialTradeSignalMetaData) AllNodes() []AlgorithmNode {
	out := make([]AlgorithmNode, 0, len(m.Algorithm)+1)
	out = append(out, m.Algorithm...)
	out = append(out, m.Executor)
	return out
}

// NodeByID returns the node with the given id among AllNodes, if any.
func (m PartialTradeSignalMetaData) NodeByID(id string) (AlgorithmNode, bool) {
	for _, n := range m.AllNodes() {
		if n.ID == id {
			return n, true
		}
	}
	return AlgorithmNode{}, false
}
