package scriptcompile

import (
	"fmt"

	"github.com/stratdsl/compiler/ast"
	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/typecheck"
)

// visitor walks an ast.Expr and lowers it to algorithm nodes, mutating ctx
// as it goes. Grounded on expression_compiler.cpp's ExpressionCompiler.
type visitor struct {
	ctx *context
}

// resultHandle is the canonical output handle id of every synthetic node
// this package creates (literals, operator desugarings, casts).
const resultHandle = "result"

func (v *visitor) freshID(base string) string { return v.ctx.uniqueNodeID(base) }

// VisitExpr dispatches on the concrete expression type, mirroring
// ExpressionCompiler::VisitExpr's chain of dynamic_cast checks.
func (v *visitor) VisitExpr(e ast.Expr) (ValueHandle, error) {
	switch n := e.(type) {
	case *ast.Call:
		return v.visitCall(n)
	case *ast.Attribute:
		return v.visitAttribute(n)
	case *ast.Name:
		return v.visitName(n)
	case *ast.Constant:
		return v.visitConstant(n)
	case *ast.BinOp:
		return v.visitBinOp(n)
	case *ast.UnaryOp:
		return v.visitUnaryOp(n)
	case *ast.Compare:
		return v.visitCompare(n)
	case *ast.BoolOp:
		return v.visitBoolOp(n)
	case *ast.IfExp:
		return v.visitIfExp(n)
	case *ast.Subscript:
		return v.visitSubscript(n)
	default:
		return ValueHandle{}, errAt(e.Pos(), "unsupported expression type")
	}
}

// visitCall handles an inline constructor call used inside an expression
// (e.g. gt(a, b), ema(period=10)(src.c)). Sink components (no outputs)
// cannot appear here — only at statement level (handleSinkNode).
func (v *visitor) visitCall(call *ast.Call) (ValueHandle, error) {
	parsed, err := v.parseConstructorAndFeeds(call)
	if err != nil {
		return ValueHandle{}, err
	}

	comp, ok := v.ctx.reg.Lookup(parsed.ctorName)
	if !ok {
		return ValueHandle{}, errAt(call.Pos(), "unknown component %q", parsed.ctorName)
	}
	if comp.IsSink() {
		return ValueHandle{}, errAt(call.Pos(), "direct call to component with outputs must be assigned to a variable")
	}

	id := v.ctx.uniqueNodeID(parsed.ctorName)
	node, err := v.buildConstructorNode(id, comp, parsed, call.Pos())
	if err != nil {
		return ValueHandle{}, err
	}
	v.ctx.reserveNode(node)
	v.ctx.varToBinding[id] = parsed.ctorName

	for _, step := range parsed.feedSteps {
		if err := v.wireInputs(id, comp, step.args, step.kwargs, call.Pos()); err != nil {
			return ValueHandle{}, err
		}
	}

	out, ok := comp.SoleOutput()
	if !ok {
		return ValueHandle{}, errAt(call.Pos(), "component %q has %d outputs; must be assigned to a tuple", parsed.ctorName, len(comp.Outputs))
	}
	return ValueHandle{NodeID: id, Handle: out.ID}, nil
}

// visitAttribute handles `value.attr`: a plain `name.handle` is resolved
// directly; any other base expression is evaluated first and its result's
// handle is simply overridden by attr (expression-level attribute access,
// e.g. `call().result`).
func (v *visitor) visitAttribute(attr *ast.Attribute) (ValueHandle, error) {
	if base, ok := attr.Value.(*ast.Name); ok {
		return v.resolveHandle(base.ID, attr.Attr, attr.Pos())
	}
	h, err := v.VisitExpr(attr.Value)
	if err != nil {
		return ValueHandle{}, err
	}
	return ValueHandle{NodeID: h.NodeID, Handle: attr.Attr}, nil
}

func (v *visitor) visitName(n *ast.Name) (ValueHandle, error) {
	ref, ok := v.ctx.varToBinding[n.ID]
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unknown variable %q", n.ID)
	}
	if nodeID, handle, ok := splitBinding(ref); ok {
		return ValueHandle{NodeID: nodeID, Handle: handle}, nil
	}
	compName := ref
	comp, ok := v.ctx.reg.Lookup(compName)
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unknown component %q", compName)
	}
	out, ok := comp.SoleOutput()
	if !ok {
		if comp.IsSink() {
			return ValueHandle{}, errAt(n.Pos(), "component %q has no outputs", compName)
		}
		return ValueHandle{}, errAt(n.Pos(), "ambiguous output for %q", n.ID)
	}
	return ValueHandle{NodeID: n.ID, Handle: out.ID}, nil
}

// splitBinding reports whether ref is already a "node_id.handle" binding
// (produced by handle_non_constructor_assignment or a tuple target), as
// opposed to a bare component-name binding.
func splitBinding(ref string) (nodeID, handle string, ok bool) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == '.' {
			return ref[:i], ref[i+1:], true
		}
	}
	return "", "", false
}

func (v *visitor) visitConstant(c *ast.Constant) (ValueHandle, error) {
	switch c.Kind {
	case ast.ConstInt:
		return v.materializeNumber(float64(c.Int)), nil
	case ast.ConstFloat:
		return v.materializeNumber(c.Float), nil
	case ast.ConstBool:
		return v.materializeBoolean(c.Bool), nil
	case ast.ConstStr:
		return v.materializeText(c.Str), nil
	default:
		return v.materializeNull(), nil
	}
}

var binOpComponent = map[ast.BinOpType]string{
	ast.OpAdd: "add", ast.OpSub: "sub", ast.OpMult: "mul", ast.OpDiv: "div",
	ast.OpLt: "lt", ast.OpGt: "gt", ast.OpLtE: "lte", ast.OpGtE: "gte",
	ast.OpEq: "eq", ast.OpNotEq: "neq", ast.OpAnd: "logical_and", ast.OpOr: "logical_or",
}

var booleanResultOps = map[string]bool{
	"lt": true, "gt": true, "lte": true, "gte": true, "eq": true, "neq": true,
	"logical_and": true, "logical_or": true,
}

var arithmeticResultOps = map[string]bool{"add": true, "sub": true, "mul": true, "div": true}

// visitBinOp lowers an arithmetic or comparison BinOp. A placeholder node is
// reserved before recursing into the operands, giving the operator a lower
// id than its children — the documented exception to child-first ordering
// (see the open-question decision in DESIGN.md).
func (v *visitor) visitBinOp(n *ast.BinOp) (ValueHandle, error) {
	compName, ok := binOpComponent[n.Op]
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unsupported binary operator %q", n.Op)
	}
	comp, ok := v.ctx.reg.Lookup(compName)
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unknown operator component %q", compName)
	}

	nodeID := v.ctx.uniqueNodeID(compName)
	idx := v.ctx.reserveNode(ir.AlgorithmNode{ID: nodeID, Type: compName})

	left, err := v.VisitExpr(n.Left)
	if err != nil {
		return ValueHandle{}, err
	}
	right, err := v.VisitExpr(n.Right)
	if err != nil {
		return ValueHandle{}, err
	}

	inputIDs := declaredInputIDs(comp)
	if len(inputIDs) != 2 {
		return ValueHandle{}, errAt(n.Pos(), "binary operator %q must have exactly 2 inputs, got %d", compName, len(inputIDs))
	}

	left, err = v.coerceTo(left, inputTypeOf(comp, inputIDs[0]), n.Pos(), "left operand of "+nodeID)
	if err != nil {
		return ValueHandle{}, err
	}
	right, err = v.coerceTo(right, inputTypeOf(comp, inputIDs[1]), n.Pos(), "right operand of "+nodeID)
	if err != nil {
		return ValueHandle{}, err
	}

	target := v.ctx.node(idx)
	target.Inputs = map[string][]string{
		inputIDs[0]: {left.Ref()},
		inputIDs[1]: {right.Ref()},
	}

	if booleanResultOps[compName] {
		v.ctx.outputTypeOverride[nodeID] = registry.DataTypeBoolean
	} else if arithmeticResultOps[compName] {
		v.ctx.outputTypeOverride[nodeID] = registry.DataTypeDecimal
	}

	return ValueHandle{NodeID: nodeID, Handle: resultHandleOf(comp)}, nil
}

// visitUnaryOp: `+a` is a no-op, `-a` desugars to `mul(-1, a)`, `not a`
// desugars to `logical_not(a)`.
func (v *visitor) visitUnaryOp(n *ast.UnaryOp) (ValueHandle, error) {
	switch n.Op {
	case ast.UnaryUAdd:
		return v.VisitExpr(n.Operand)

	case ast.UnaryUSub:
		minusOne := v.materializeNumber(-1)
		operand, err := v.VisitExpr(n.Operand)
		if err != nil {
			return ValueHandle{}, err
		}
		nodeID := v.ctx.uniqueNodeID("mul")
		v.ctx.reserveNode(ir.AlgorithmNode{
			ID:   nodeID,
			Type: "mul",
			Inputs: map[string][]string{
				"SLOT0": {minusOne.Ref()},
				"SLOT1": {operand.Ref()},
			},
		})
		v.ctx.outputTypeOverride[nodeID] = registry.DataTypeDecimal
		return ValueHandle{NodeID: nodeID, Handle: resultHandle}, nil

	case ast.UnaryNot:
		const compName = "logical_not"
		comp, ok := v.ctx.reg.Lookup(compName)
		if !ok {
			return ValueHandle{}, errAt(n.Pos(), "unknown operator component %q", compName)
		}
		operand, err := v.VisitExpr(n.Operand)
		if err != nil {
			return ValueHandle{}, err
		}
		nodeID := v.ctx.uniqueNodeID(compName)
		v.ctx.reserveNode(ir.AlgorithmNode{
			ID:     nodeID,
			Type:   compName,
			Inputs: map[string][]string{"SLOT": {operand.Ref()}},
		})
		v.ctx.outputTypeOverride[nodeID] = registry.DataTypeBoolean
		return ValueHandle{NodeID: nodeID, Handle: resultHandleOf(comp)}, nil

	default:
		return ValueHandle{}, errAt(n.Pos(), "unsupported unary operator %q", n.Op)
	}
}

var compareComponent = map[ast.BinOpType]string{
	ast.OpLt: "lt", ast.OpGt: "gt", ast.OpLtE: "lte", ast.OpGtE: "gte", ast.OpEq: "eq", ast.OpNotEq: "neq",
}

// visitCompare lowers a single comparison; chained comparisons are
// unsupported. Per the open-question decision in DESIGN.md, a placeholder
// node is reserved before recursing, matching the binary-operator exception to
// child-first ordering.
func (v *visitor) visitCompare(n *ast.Compare) (ValueHandle, error) {
	if len(n.Ops) != 1 || len(n.Comparators) != 1 {
		return ValueHandle{}, errAt(n.Pos(), "only single comparisons are supported")
	}
	compName, ok := compareComponent[n.Ops[0]]
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unsupported comparison operator %q", n.Ops[0])
	}
	comp, ok := v.ctx.reg.Lookup(compName)
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unknown operator component %q", compName)
	}

	nodeID := v.ctx.uniqueNodeID(compName)
	idx := v.ctx.reserveNode(ir.AlgorithmNode{ID: nodeID, Type: compName})

	left, err := v.VisitExpr(n.Left)
	if err != nil {
		return ValueHandle{}, err
	}
	right, err := v.VisitExpr(n.Comparators[0])
	if err != nil {
		return ValueHandle{}, err
	}

	inputIDs := declaredInputIDs(comp)
	if len(inputIDs) != 2 {
		return ValueHandle{}, errAt(n.Pos(), "comparison operator %q must have exactly 2 inputs, got %d", compName, len(inputIDs))
	}

	left, err = v.coerceTo(left, inputTypeOf(comp, inputIDs[0]), n.Pos(), "left operand of "+nodeID)
	if err != nil {
		return ValueHandle{}, err
	}
	right, err = v.coerceTo(right, inputTypeOf(comp, inputIDs[1]), n.Pos(), "right operand of "+nodeID)
	if err != nil {
		return ValueHandle{}, err
	}

	target := v.ctx.node(idx)
	target.Inputs = map[string][]string{
		inputIDs[0]: {left.Ref()},
		inputIDs[1]: {right.Ref()},
	}
	v.ctx.outputTypeOverride[nodeID] = registry.DataTypeBoolean

	return ValueHandle{NodeID: nodeID, Handle: resultHandleOf(comp)}, nil
}

// visitBoolOp lowers `a and b and c ...` / `a or b or c ...` into nested
// binary logical_and/logical_or nodes: (a and b and c) -> logical_and_0(a,
// logical_and_1(b, c)). Operands are resolved child-first, then the n-1
// nodes are allocated and wired.
func (v *visitor) visitBoolOp(n *ast.BoolOp) (ValueHandle, error) {
	if len(n.Values) < 2 {
		return ValueHandle{}, errAt(n.Pos(), "boolean operation needs at least 2 operands")
	}
	compName := "logical_and"
	if n.Op == ast.OpOr {
		compName = "logical_or"
	}

	handles := make([]ValueHandle, len(n.Values))
	for i, val := range n.Values {
		h, err := v.VisitExpr(val)
		if err != nil {
			return ValueHandle{}, err
		}
		handles[i] = h
	}

	nodeIDs := make([]string, len(handles)-1)
	for i := range nodeIDs {
		id := v.ctx.uniqueNodeID(compName)
		v.ctx.reserveNode(ir.AlgorithmNode{ID: id, Type: compName})
		nodeIDs[i] = id
	}

	if len(handles) == 2 {
		v.ctx.addInput(nodeIDs[0], "SLOT0", handles[0].Ref())
		v.ctx.addInput(nodeIDs[0], "SLOT1", handles[1].Ref())
	} else {
		v.ctx.addInput(nodeIDs[0], "SLOT0", handles[0].Ref())
		v.ctx.addInput(nodeIDs[0], "SLOT1", ir.FormatRef(nodeIDs[1], resultHandle))
		for i := 1; i < len(nodeIDs)-1; i++ {
			v.ctx.addInput(nodeIDs[i], "SLOT0", handles[i].Ref())
			v.ctx.addInput(nodeIDs[i], "SLOT1", ir.FormatRef(nodeIDs[i+1], resultHandle))
		}
		last := len(nodeIDs) - 1
		v.ctx.addInput(nodeIDs[last], "SLOT0", handles[last].Ref())
		v.ctx.addInput(nodeIDs[last], "SLOT1", handles[last+1].Ref())
	}

	for _, id := range nodeIDs {
		v.ctx.outputTypeOverride[id] = registry.DataTypeBoolean
	}

	return ValueHandle{NodeID: nodeIDs[0], Handle: resultHandle}, nil
}

// visitIfExp lowers the ternary `body if test else orelse` to
// boolean_select(condition, true, false), resolving all three branches
// before allocating the node.
func (v *visitor) visitIfExp(n *ast.IfExp) (ValueHandle, error) {
	const compName = "boolean_select"
	comp, ok := v.ctx.reg.Lookup(compName)
	if !ok {
		return ValueHandle{}, errAt(n.Pos(), "unknown component %q", compName)
	}

	condition, err := v.VisitExpr(n.Test)
	if err != nil {
		return ValueHandle{}, err
	}
	trueVal, err := v.VisitExpr(n.Body)
	if err != nil {
		return ValueHandle{}, err
	}
	falseVal, err := v.VisitExpr(n.Orelse)
	if err != nil {
		return ValueHandle{}, err
	}

	nodeID := v.ctx.uniqueNodeID("ifexp")
	v.ctx.reserveNode(ir.AlgorithmNode{
		ID:   nodeID,
		Type: compName,
		Inputs: map[string][]string{
			"condition": {condition.Ref()},
			"true":      {trueVal.Ref()},
			"false":     {falseVal.Ref()},
		},
	})

	return ValueHandle{NodeID: nodeID, Handle: resultHandleOf(comp)}, nil
}

// visitSubscript lowers `expr[k]` (k a constant, possibly negative integer)
// into lag(period=k)(expr); k == 0 is an error.
func (v *visitor) visitSubscript(n *ast.Subscript) (ValueHandle, error) {
	period, err := lagPeriod(n.Slice)
	if err != nil {
		return ValueHandle{}, errAt(n.Pos(), "%s", err.Error())
	}
	if period == 0 {
		return ValueHandle{}, errAt(n.Pos(), "lag period must be a non-zero integer")
	}

	value, err := v.VisitExpr(n.Value)
	if err != nil {
		return ValueHandle{}, err
	}

	nodeID := v.ctx.uniqueNodeID("lag")
	v.ctx.reserveNode(ir.AlgorithmNode{
		ID:      nodeID,
		Type:    "lag",
		Options: map[string]option.Value{"period": option.NumberValue(float64(period))},
		Inputs:  map[string][]string{"SLOT": {value.Ref()}},
	})
	v.ctx.varToBinding[nodeID] = "lag"
	v.ctx.outputTypeOverride[nodeID] = registry.DataTypeDecimal

	return ValueHandle{NodeID: nodeID, Handle: resultHandle}, nil
}

func lagPeriod(slice ast.Expr) (int, error) {
	switch s := slice.(type) {
	case *ast.Constant:
		if s.Kind != ast.ConstInt {
			return 0, fmt.Errorf("subscript index must be an integer")
		}
		return int(s.Int), nil
	case *ast.UnaryOp:
		if s.Op != ast.UnaryUSub {
			return 0, fmt.Errorf("unsupported unary operator in subscript")
		}
		c, ok := s.Operand.(*ast.Constant)
		if !ok || c.Kind != ast.ConstInt {
			return 0, fmt.Errorf("subscript index must be a constant integer")
		}
		return -int(c.Int), nil
	default:
		return 0, fmt.Errorf("subscript index must be a constant integer")
	}
}

// Materialize* create a synthetic literal node for a bare Constant. This is
// the only way a literal value enters the IR (spec §4.5).

func (v *visitor) materializeNumber(value float64) ValueHandle {
	id := v.ctx.uniqueNodeID("number")
	v.ctx.reserveNode(ir.AlgorithmNode{ID: id, Type: "number", Options: map[string]option.Value{"value": option.NumberValue(value)}})
	v.ctx.varToBinding[id] = "number"
	v.ctx.outputTypeOverride[id] = registry.DataTypeDecimal
	return ValueHandle{NodeID: id, Handle: resultHandle}
}

func (v *visitor) materializeBoolean(value bool) ValueHandle {
	nodeType := "bool_false"
	if value {
		nodeType = "bool_true"
	}
	id := v.ctx.uniqueNodeID(nodeType)
	v.ctx.reserveNode(ir.AlgorithmNode{ID: id, Type: nodeType})
	v.ctx.varToBinding[id] = nodeType
	v.ctx.outputTypeOverride[id] = registry.DataTypeBoolean
	return ValueHandle{NodeID: id, Handle: resultHandle}
}

func (v *visitor) materializeText(value string) ValueHandle {
	id := v.ctx.uniqueNodeID("text")
	v.ctx.reserveNode(ir.AlgorithmNode{ID: id, Type: "text", Options: map[string]option.Value{"value": option.TextValue(value)}})
	v.ctx.varToBinding[id] = "text"
	v.ctx.outputTypeOverride[id] = registry.DataTypeString
	return ValueHandle{NodeID: id, Handle: resultHandle}
}

func (v *visitor) materializeNull() ValueHandle {
	id := v.ctx.uniqueNodeID("null")
	v.ctx.reserveNode(ir.AlgorithmNode{ID: id, Type: "null"})
	v.ctx.varToBinding[id] = "null"
	v.ctx.outputTypeOverride[id] = registry.DataTypeAny
	return ValueHandle{NodeID: id, Handle: resultHandle}
}

// resolveHandle validates that handle is a declared input or output of the
// component var is bound to, then returns {var, handle} directly (the
// traditional name.handle attribute-access case). A var naming neither a
// bound script variable nor an already-compiled node is treated as a
// reference into an external data source (e.g. `src.c`): market-data shape
// is explicitly out of scope for this compiler (spec §1), so such a
// reference is accepted unchecked rather than rejected — the same reason
// the topological sorter ignores edges that target an id outside the IR.
func (v *visitor) resolveHandle(varName, handle string, pos ast.Position) (ValueHandle, error) {
	ref, bound := v.ctx.varToBinding[varName]
	var compName string
	if bound {
		if nodeID, h, ok := splitBinding(ref); ok {
			return ValueHandle{}, errAt(pos, "cannot access handle %q on %q which is already bound to %q#%q", handle, varName, nodeID, h)
		}
		compName = ref
	} else if node, ok := v.ctx.lookup(varName); ok {
		compName = node.Type
	} else {
		return ValueHandle{NodeID: varName, Handle: handle}, nil
	}

	comp, ok := v.ctx.reg.Lookup(compName)
	if !ok {
		return ValueHandle{}, errAt(pos, "unknown component %q", compName)
	}
	if !handleDeclared(comp, handle) {
		return ValueHandle{}, errAt(pos, "unknown handle %q on %q", handle, varName)
	}
	return ValueHandle{NodeID: varName, Handle: handle}, nil
}

func handleDeclared(comp registry.ComponentMetadata, handle string) bool {
	if _, ok := comp.OutputByID(handle); ok {
		return true
	}
	_, ok := comp.InputByID(handle)
	return ok
}

func declaredInputIDs(comp registry.ComponentMetadata) []string {
	ids := make([]string, len(comp.Inputs))
	for i, in := range comp.Inputs {
		ids[i] = registry.CanonicalHandleID(in.ID)
	}
	return ids
}

func inputTypeOf(comp registry.ComponentMetadata, canonicalID string) registry.DataType {
	in, ok := comp.InputByID(canonicalID)
	if !ok {
		return registry.DataTypeAny
	}
	return in.DataType
}

func resultHandleOf(comp registry.ComponentMetadata) string {
	if out, ok := comp.SoleOutput(); ok {
		return out.ID
	}
	if len(comp.Outputs) > 0 {
		return comp.Outputs[0].ID
	}
	return resultHandle
}

// coerceTo type-checks src against target, inserting a cast via
// typecheck.InsertCast when one is available, and returns the (possibly
// substituted) handle to wire in its place.
func (v *visitor) coerceTo(src ValueHandle, target registry.DataType, pos ast.Position, what string) (ValueHandle, error) {
	srcNode, ok := v.ctx.lookup(src.NodeID)
	if !ok {
		// src.NodeID names a node outside the IR (an external data-source
		// reference, e.g. "src"): its shape is out of scope, so it is
		// treated as Any and accepted without a cast.
		return src, nil
	}
	sourceType := typecheck.GetNodeOutputType(*srcNode, src.Handle, v.ctx.reg, v.ctx.outputTypeOverride)
	if typecheck.IsTypeCompatible(sourceType, target) {
		return src, nil
	}
	kind := typecheck.DetermineCast(sourceType, target)
	if kind == typecheck.CastIncompatible || kind == typecheck.CastNone {
		return ValueHandle{}, errAt(pos, "type mismatch for %s: expected %s, got %s", what, target, sourceType)
	}
	nodes, ref, resultType, err := typecheck.InsertCast(kind, src.Ref(), v.freshID)
	if err != nil {
		return ValueHandle{}, errAt(pos, "%s", err.Error())
	}
	for _, node := range nodes {
		v.ctx.reserveNode(node)
	}
	nodeID, handle, _ := ir.ParseRef(ref)
	v.ctx.outputTypeOverride[nodeID] = resultType
	return ValueHandle{NodeID: nodeID, Handle: handle}, nil
}
