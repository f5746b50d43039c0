package scriptcompile

import (
	"fmt"

	"github.com/stratdsl/compiler/ast"
	"github.com/stratdsl/compiler/cse"
	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/specialparam"
	"github.com/stratdsl/compiler/timeframe"
	"github.com/stratdsl/compiler/toposort"
	"github.com/stratdsl/compiler/uigraph"
)

// Compile lowers an already-folded script module into a
// PartialTradeSignalMetaData, running the expression/constructor compiler
// (this package), the session-dependency closure (specialparam), the
// timeframe resolver, the topological sorter, and CSE in sequence. Callers
// are expected to have run fold.Fold(module) first. base is the fallback
// timeframe for nodes with no inputs and no explicit timeframe of their
// own; pass nil if the caller has none.
func Compile(module *ast.Module, reg registry.Registry, base *timeframe.TimeFrame) (*ir.PartialTradeSignalMetaData, error) {
	ctx := newContext(reg)
	v := &visitor{ctx: ctx}

	for _, stmt := range module.Body {
		if err := v.visitStmt(stmt); err != nil {
			return nil, err
		}
	}

	if ctx.executorCount == 0 {
		return nil, fmt.Errorf("scriptcompile: no %s node constructed", uigraph.ExecutorType)
	}

	ctx.algorithm = specialparam.VerifySessionDependencies(ctx.algorithm)
	ctx.rebuildIndex()

	resolveTimeframes(ctx.algorithm, base)

	order, err := topoOrder(ctx.algorithm)
	if err != nil {
		return nil, fmt.Errorf("scriptcompile: %w", err)
	}
	sorted := make([]ir.AlgorithmNode, 0, len(order))
	for _, id := range order {
		idx, ok := ctx.nodeByID[id]
		if !ok {
			continue
		}
		sorted = append(sorted, ctx.algorithm[idx])
	}

	deduped := cse.Optimize(sorted, isExecutorType)

	var executor *ir.AlgorithmNode
	algorithm := make([]ir.AlgorithmNode, 0, len(deduped))
	for i := range deduped {
		n := deduped[i]
		if isExecutorType(n.Type) {
			if executor != nil {
				return nil, fmt.Errorf("scriptcompile: internal error: multiple %s nodes in final order", uigraph.ExecutorType)
			}
			e := n
			executor = &e
			continue
		}
		algorithm = append(algorithm, n)
	}
	if executor == nil {
		return nil, fmt.Errorf("scriptcompile: internal error: %s node missing after sort", uigraph.ExecutorType)
	}

	return &ir.PartialTradeSignalMetaData{
		Options:   []registry.OptionSpec{},
		Algorithm: algorithm,
		Executor:  *executor,
	}, nil
}

// isExecutorType reports whether type names an executor component — the
// only type the registry currently declares is trade_signal_executor, but
// the predicate is kept separate from the constant so a registry that adds
// more executor types only needs this function touched.
func isExecutorType(nodeType string) bool {
	return nodeType == uigraph.ExecutorType
}

// topoOrder builds the node-level dependency graph induced by nodes' Inputs
// (C12) and returns a topological order.
func topoOrder(nodes []ir.AlgorithmNode) ([]string, error) {
	ids := make([]string, len(nodes))
	var edges [][2]string
	for i, n := range nodes {
		ids[i] = n.ID
		for _, srcID := range n.InputSourceIDs() {
			edges = append(edges, [2]string{srcID, n.ID})
		}
	}
	g := toposort.BuildDependencyGraph(ids, edges)
	return toposort.Sort(g)
}

// rebuildIndex recomputes nodeByID after a bulk mutation of algorithm (e.g.
// specialparam.VerifySessionDependencies appending synthetic nodes).
func (c *context) rebuildIndex() {
	c.nodeByID = make(map[string]int, len(c.algorithm))
	for i, n := range c.algorithm {
		c.nodeByID[n.ID] = i
		c.usedIDs[n.ID] = true
	}
}

// visitStmt dispatches one top-level statement: an assignment (constructor
// or plain-expression) or a bare sink-component call.
func (v *visitor) visitStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Assign:
		if _, ok := s.Target.(*ast.Attribute); ok {
			return errAt(s.Pos(), "cannot assign to an attribute access")
		}
		if call, ok := s.Value.(*ast.Call); ok && isConstructorCall(call) {
			return v.handleConstructorAssignment(s.Target, call)
		}
		return v.handleNonConstructorAssignment(s.Target, s.Value)

	case *ast.ExprStmt:
		call, ok := s.Value.(*ast.Call)
		if !ok || !isConstructorCall(call) {
			return errAt(s.Pos(), "expression statement must be a sink-component constructor call")
		}
		return v.handleSinkNode(call)

	default:
		return errAt(stmt.Pos(), "unsupported statement type")
	}
}

// handleConstructorAssignment wires `name = ctor(...)(...)` (single node,
// id equal to the target name) and `a, b = ctor(...)(...)` (a synthetic node
// id, with each tuple element bound to one declared output in order).
func (v *visitor) handleConstructorAssignment(target ast.Expr, call *ast.Call) error {
	parsed, err := v.parseConstructorAndFeeds(call)
	if err != nil {
		return err
	}
	comp, ok := v.ctx.reg.Lookup(parsed.ctorName)
	if !ok {
		return errAt(call.Pos(), "unknown component %q", parsed.ctorName)
	}
	if err := v.countExecutor(parsed.ctorName, call.Pos()); err != nil {
		return err
	}

	switch t := target.(type) {
	case *ast.Name:
		if v.ctx.usedIDs[t.ID] {
			return errAt(t.Pos(), "%q is already bound", t.ID)
		}
		node, err := v.buildConstructorNode(t.ID, comp, parsed, call.Pos())
		if err != nil {
			return err
		}
		v.ctx.reserveNode(node)
		if err := v.wireFeedSteps(t.ID, comp, parsed, call.Pos()); err != nil {
			return err
		}
		v.ctx.varToBinding[t.ID] = parsed.ctorName
		return nil

	case *ast.Tuple:
		id := v.ctx.uniqueNodeID(parsed.ctorName)
		node, err := v.buildConstructorNode(id, comp, parsed, call.Pos())
		if err != nil {
			return err
		}
		v.ctx.reserveNode(node)
		if err := v.wireFeedSteps(id, comp, parsed, call.Pos()); err != nil {
			return err
		}
		if len(t.Elts) != len(comp.Outputs) {
			return errAt(t.Pos(), "assignment has %d targets but %q declares %d outputs", len(t.Elts), parsed.ctorName, len(comp.Outputs))
		}
		for i, elt := range t.Elts {
			name, ok := elt.(*ast.Name)
			if !ok {
				return errAt(elt.Pos(), "tuple assignment target must be a plain name")
			}
			if name.ID == "_" {
				continue
			}
			v.ctx.varToBinding[name.ID] = id + "." + comp.Outputs[i].ID
		}
		return nil

	default:
		return errAt(target.Pos(), "assignment target must be a name or tuple of names")
	}
}

// handleNonConstructorAssignment wires `name = <expr>`, binding name to the
// evaluated expression's resolved "node_id.handle".
func (v *visitor) handleNonConstructorAssignment(target ast.Expr, value ast.Expr) error {
	name, ok := target.(*ast.Name)
	if !ok {
		return errAt(target.Pos(), "only a constructor call may be assigned to a tuple target")
	}
	h, err := v.VisitExpr(value)
	if err != nil {
		return err
	}
	v.ctx.varToBinding[name.ID] = h.NodeID + "." + h.Handle
	return nil
}

// handleSinkNode wires a bare `ctor(...)(...)` expression statement; only
// legal when ctor declares no outputs (spec §4.5).
func (v *visitor) handleSinkNode(call *ast.Call) error {
	parsed, err := v.parseConstructorAndFeeds(call)
	if err != nil {
		return err
	}
	comp, ok := v.ctx.reg.Lookup(parsed.ctorName)
	if !ok {
		return errAt(call.Pos(), "unknown component %q", parsed.ctorName)
	}
	if !comp.IsSink() {
		return errAt(call.Pos(), "expression statement result is discarded; assign %q to a variable", parsed.ctorName)
	}
	if err := v.countExecutor(parsed.ctorName, call.Pos()); err != nil {
		return err
	}

	id := v.ctx.uniqueNodeID(parsed.ctorName)
	node, err := v.buildConstructorNode(id, comp, parsed, call.Pos())
	if err != nil {
		return err
	}
	v.ctx.reserveNode(node)
	return v.wireFeedSteps(id, comp, parsed, call.Pos())
}

func (v *visitor) wireFeedSteps(targetID string, comp registry.ComponentMetadata, parsed *constructorParse, pos ast.Position) error {
	for _, step := range parsed.feedSteps {
		if err := v.wireInputs(targetID, comp, step.args, step.kwargs, pos); err != nil {
			return err
		}
	}
	return nil
}

// countExecutor increments the executor counter on every executor-type
// construction and errors if more than one is ever built — a fatal internal
// error since the grammar never permits a second one (mirrors
// graphcompile's defensive "multiple executors" guard).
func (v *visitor) countExecutor(ctorName string, pos ast.Position) error {
	if ctorName != uigraph.ExecutorType {
		return nil
	}
	v.ctx.executorCount++
	if v.ctx.executorCount > 1 {
		return errAt(pos, "internal error: multiple %s nodes constructed", uigraph.ExecutorType)
	}
	return nil
}
