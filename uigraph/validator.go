package uigraph

import (
	"fmt"

	"github.com/stratdsl/compiler/issue"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/timeframe"
	"github.com/stratdsl/compiler/toposort"
	"github.com/stratdsl/compiler/typecheck"
)

// ExecutorType is the component type that marks the graph's single sink
// node (spec §3.4 invariant).
const ExecutorType = "trade_signal_executor"

type options struct {
	enforceOrphanCheck      bool
	enforceExecutorPresence bool
}

func defaultOptions() options {
	return options{enforceOrphanCheck: false, enforceExecutorPresence: true}
}

// Option configures ValidateUIData, mirroring the teacher's functional-option
// convention (core.GraphOption, dfs.TopoOption).
type Option func(*options)

// WithOrphanCheck toggles emitting OrphanedNode for nodes with zero edges in
// either direction (spec §4.1 phase 1, "enforce_orphaned_node_check").
func WithOrphanCheck(enabled bool) Option {
	return func(o *options) { o.enforceOrphanCheck = enabled }
}

// WithExecutorPresence toggles MultipleExecutors enforcement (spec §4.1
// phase 3, "enforce_executor_presence").
func WithExecutorPresence(enabled bool) Option {
	return func(o *options) { o.enforceExecutorPresence = enabled }
}

// nodeCache holds the per-node bookkeeping phase 1 builds for later phases.
type nodeCache struct {
	node     UiNode
	metadata registry.ComponentMetadata
	known    bool
}

// ValidateUIData runs the 5-phase validator of spec §4.1 over data against
// reg. On success it returns the nodes in topological order and a nil issue
// slice; on any detected problem it returns a nil node slice and every
// issue found across all phases. Only the timeframe phase, which needs the
// topological order, is skipped, and only when phase 4 finds an empty graph
// or a cycle.
func ValidateUIData(data UiData, reg registry.Registry, opts ...Option) ([]UiNode, []issue.Issue) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(&cfg)
	}

	var issues []issue.Issue

	// Phase 1: node phase.
	cache := make(map[string]*nodeCache)
	seenIDs := make(map[string]bool)
	inputRefs := make(map[string]map[string][]UiVertex)  // node_id -> handle -> sources
	outputRefs := make(map[string]map[string][]UiVertex) // node_id -> handle -> targets
	hasEdge := make(map[string]bool)

	for _, n := range data.Nodes {
		if n.ID == "" || seenIDs[n.ID] {
			issues = append(issues, issue.New(issue.CodeInvalidNodeID, issue.NodeContext(n.ID),
				fmt.Sprintf("node id %q is empty or duplicated", n.ID), ""))
			continue
		}
		seenIDs[n.ID] = true

		comp, known := reg.Lookup(n.Type)
		if !known {
			issues = append(issues, issue.New(issue.CodeUnknownNodeType, issue.NodeContext(n.ID),
				fmt.Sprintf("node %q has unknown type %q", n.ID, n.Type), ""))
			cache[n.ID] = &nodeCache{node: n, known: false}
			continue
		}
		cache[n.ID] = &nodeCache{node: n, metadata: comp, known: true}
		issues = append(issues, checkOptions(n, comp)...)
	}

	for _, e := range data.Edges {
		hasEdge[e.Source.NodeID] = true
		hasEdge[e.Target.NodeID] = true
		if inputRefs[e.Target.NodeID] == nil {
			inputRefs[e.Target.NodeID] = make(map[string][]UiVertex)
		}
		inputRefs[e.Target.NodeID][e.Target.Handle] = append(inputRefs[e.Target.NodeID][e.Target.Handle], e.Source)
		if outputRefs[e.Source.NodeID] == nil {
			outputRefs[e.Source.NodeID] = make(map[string][]UiVertex)
		}
		outputRefs[e.Source.NodeID][e.Source.Handle] = append(outputRefs[e.Source.NodeID][e.Source.Handle], e.Target)
	}

	for _, c := range cache {
		if !c.known {
			continue
		}
		issues = append(issues, checkConnections(c.node, c.metadata, inputRefs[c.node.ID])...)
		if cfg.enforceOrphanCheck && !hasEdge[c.node.ID] {
			issues = append(issues, issue.New(issue.CodeOrphanedNode, issue.NodeContext(c.node.ID),
				fmt.Sprintf("node %q has no incoming or outgoing edges", c.node.ID), ""))
		}
	}

	// Phase 2: edge phase.
	for _, e := range data.Edges {
		issues = append(issues, checkEdge(e, cache)...)
	}

	// Phase 3: executor presence.
	var executorCount int
	for _, n := range data.Nodes {
		if n.Type == ExecutorType {
			executorCount++
		}
	}
	if executorCount == 0 {
		issues = append(issues, issue.New(issue.CodeMissingExecutor, issue.EmptyContext,
			"no trade_signal_executor node found", ""))
	} else if executorCount > 1 && cfg.enforceExecutorPresence {
		issues = append(issues, issue.New(issue.CodeMultipleExecutors, issue.EmptyContext,
			fmt.Sprintf("found %d trade_signal_executor nodes, expected exactly one", executorCount), ""))
	}

	// Phase 4: acyclicity & topological sort.
	if len(data.Nodes) == 0 {
		issues = append(issues, issue.New(issue.CodeEmptyGraph, issue.EmptyContext, "graph has no nodes", ""))
		return nil, issues
	}

	nodeIDs := make([]string, 0, len(data.Nodes))
	for _, n := range data.Nodes {
		if seenIDs[n.ID] {
			nodeIDs = append(nodeIDs, n.ID)
		}
	}
	edgePairs := make([][2]string, 0, len(data.Edges))
	for _, e := range data.Edges {
		edgePairs = append(edgePairs, [2]string{e.Source.NodeID, e.Target.NodeID})
	}
	depGraph := toposort.BuildDependencyGraph(nodeIDs, edgePairs)
	order, err := toposort.Sort(depGraph)
	if err != nil {
		issues = append(issues, issue.New(issue.CodeCycleDetected, issue.EmptyContext, err.Error(), ""))
		return nil, issues
	}

	// Phase 5: timeframe consistency.
	resolved := make(map[string]*timeframe.TimeFrame, len(order))
	for _, id := range order {
		resolved[id] = cache[id].node.Timeframe
	}
	for _, id := range order {
		srcs := inputRefs[id]
		if len(srcs) == 0 {
			continue
		}
		distinct := make(map[string]*timeframe.TimeFrame)
		for _, verts := range srcs {
			for _, v := range verts {
				tf := resolved[v.NodeID]
				key := "∅"
				if tf != nil {
					key = tf.String()
				}
				distinct[key] = tf
			}
		}
		switch {
		case len(distinct) > 1:
			issues = append(issues, issue.New(issue.CodeTimeframeMismatch, issue.NodeContext(id),
				fmt.Sprintf("node %q has inputs with %d distinct timeframes", id, len(distinct)), ""))
		case len(distinct) == 1:
			var srcTF *timeframe.TimeFrame
			for _, tf := range distinct {
				srcTF = tf
			}
			tgtTF := resolved[id]
			switch {
			case tgtTF == nil && srcTF != nil:
				resolved[id] = srcTF
			case tgtTF != nil && srcTF == nil:
				issues = append(issues, issue.New(issue.CodeTimeframeMismatch, issue.NodeContext(id),
					fmt.Sprintf("node %q has an explicit timeframe but its source has none", id), ""))
			case tgtTF != nil && srcTF != nil && !tgtTF.Equal(*srcTF):
				issues = append(issues, issue.New(issue.CodeTimeframeMismatch, issue.NodeContext(id),
					fmt.Sprintf("node %q timeframe %s conflicts with source timeframe %s", id, tgtTF, srcTF), ""))
			}
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}

	nodesByID := make(map[string]UiNode, len(data.Nodes))
	for _, n := range data.Nodes {
		nodesByID[n.ID] = n
	}
	ordered := make([]UiNode, 0, len(order))
	for _, id := range order {
		n := nodesByID[id]
		n.Timeframe = resolved[id]
		ordered = append(ordered, n)
	}
	return ordered, nil
}

func checkOptions(n UiNode, comp registry.ComponentMetadata) []issue.Issue {
	var issues []issue.Issue
	declared := make(map[string]registry.OptionSpec, len(comp.Options))
	for _, spec := range comp.Options {
		declared[spec.ID] = spec
	}

	for _, o := range n.Options {
		spec, ok := declared[o.ID]
		if !ok {
			issues = append(issues, issue.New(issue.CodeInvalidOptionReference, issue.OptionSpecContext(n.ID, o.ID),
				fmt.Sprintf("node %q has no option %q", n.ID, o.ID), ""))
			continue
		}
		if o.Exposed {
			if o.DisplayName == "" {
				issues = append(issues, issue.New(issue.CodeInvalidOptionCombination, issue.OptionSpecContext(n.ID, o.ID),
					fmt.Sprintf("exposed option %q of node %q must carry a display name", o.ID, n.ID), ""))
			}
			if n.Type == ExecutorType {
				issues = append(issues, issue.New(issue.CodeInvalidOptionCombination, issue.OptionSpecContext(n.ID, o.ID),
					"options may not be exposed on the executor", ""))
			}
		}
		if o.Value != nil {
			if _, err := option.ParseOption(*o.Value, spec, comp); err != nil {
				issues = append(issues, issue.New(err.Code, issue.OptionSpecContext(n.ID, o.ID), err.Message, err.Suggestion))
			}
		}
	}

	for _, spec := range comp.Options {
		if !spec.Required {
			continue
		}
		if _, supplied := findOption(n.Options, spec.ID); supplied {
			continue
		}
		if spec.Default != nil {
			continue
		}
		issues = append(issues, issue.New(issue.CodeMissingRequiredOption, issue.OptionSpecContext(n.ID, spec.ID),
			fmt.Sprintf("node %q missing required option %q", n.ID, spec.ID), ""))
	}
	return issues
}

func findOption(opts []UiOption, id string) (UiOption, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return UiOption{}, false
}

func checkConnections(n UiNode, comp registry.ComponentMetadata, inputs map[string][]UiVertex) []issue.Issue {
	var issues []issue.Issue
	boundCount := len(inputs)

	if comp.AtLeastOneInputRequired && boundCount == 0 {
		issues = append(issues, issue.New(issue.CodeMissingRequiredInput, issue.NodeContext(n.ID),
			fmt.Sprintf("node %q requires at least one bound input", n.ID), ""))
	} else if !comp.AtLeastOneInputRequired && comp.DeclaredInputCount() != boundCount {
		issues = append(issues, issue.New(issue.CodeInvalidNodeConnection, issue.NodeContext(n.ID),
			fmt.Sprintf("node %q declares %d inputs but %d are bound", n.ID, comp.DeclaredInputCount(), boundCount), ""))
	}

	for handle, srcs := range inputs {
		in, ok := comp.InputByID(handle)
		if ok && !in.AllowMultiple && len(srcs) > 1 {
			issues = append(issues, issue.New(issue.CodeInvalidNodeConnection, issue.NodeContext(n.ID),
				fmt.Sprintf("node %q handle %q does not allow multiple incoming edges (%d bound)", n.ID, handle, len(srcs)), ""))
		}
	}
	return issues
}

func checkEdge(e UiEdge, cache map[string]*nodeCache) []issue.Issue {
	var issues []issue.Issue
	src, srcOK := cache[e.Source.NodeID]
	tgt, tgtOK := cache[e.Target.NodeID]

	if !srcOK {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("edge source node %q does not exist", e.Source.NodeID), ""))
	}
	if !tgtOK {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("edge target node %q does not exist", e.Target.NodeID), ""))
	}
	if e.Source.Handle == "" || e.Target.Handle == "" {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			"edge has an empty handle", ""))
	}
	if e.Source.NodeID == e.Target.NodeID {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("node %q has a self-loop edge", e.Source.NodeID), ""))
	}
	if !srcOK || !tgtOK || !src.known || !tgt.known {
		return issues
	}

	out, outOK := src.metadata.OutputByID(e.Source.Handle)
	if !outOK {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("%q is not a declared output of node %q", e.Source.Handle, e.Source.NodeID), ""))
	}
	in, inOK := tgt.metadata.InputByID(e.Target.Handle)
	if !inOK {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("%q is not a declared input of node %q", e.Target.Handle, e.Target.NodeID), ""))
	}
	if outOK && inOK && !typecheck.IsTypeCompatible(out.DataType, in.DataType) {
		issues = append(issues, issue.New(issue.CodeInvalidEdge, issue.EdgeContext(e.Source.NodeID, e.Source.Handle, e.Target.NodeID, e.Target.Handle),
			fmt.Sprintf("%s#%s (%s) is not compatible with %s#%s (%s)",
				e.Source.NodeID, e.Source.Handle, out.DataType, e.Target.NodeID, e.Target.Handle, in.DataType), ""))
	}
	return issues
}
