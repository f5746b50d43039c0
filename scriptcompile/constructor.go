package scriptcompile

import (
	"fmt"

	"github.com/stratdsl/compiler/ast"
	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stratdsl/compiler/specialparam"
)

// namedHandle pairs a keyword-argument name with its resolved ValueHandle,
// preserving source order — feed-step kwargs must wire deterministically
// since casting may mint fresh ids.
type namedHandle struct {
	Name   string
	Handle ValueHandle
}

// feedStep is one `(args..., kwargs...)` call in a constructor chain after
// the options call.
type feedStep struct {
	args   []ValueHandle
	kwargs []namedHandle
}

// constructorParse is the result of parsing a `Call₀(Call₁(...))` chain:
// the component name, its raw (pre-coercion) option values, any special
// parameters, and the feed steps to wire afterward.
type constructorParse struct {
	ctorName     string
	supplied     map[string]option.Value
	timeframeRaw *string
	sessionRaw   *string
	feedSteps    []feedStep
}

// isConstructorCall reports whether expr is a Call chain whose innermost
// callee is a bare Name (a component reference), per
// ConstructorParser::IsConstructorCall.
func isConstructorCall(expr ast.Expr) bool {
	call, ok := expr.(*ast.Call)
	if !ok {
		return false
	}
	var cur ast.Expr = call
	for {
		c, ok := cur.(*ast.Call)
		if !ok {
			break
		}
		cur = c.Func
	}
	_, ok = cur.(*ast.Name)
	return ok
}

// parseConstructorAndFeeds collects every Call in the chain, splits
// Call₀'s keywords into special parameters and regular (raw) option
// values, and resolves every feed step's arguments as expressions.
func (v *visitor) parseConstructorAndFeeds(call *ast.Call) (*constructorParse, error) {
	var calls []*ast.Call
	var cur ast.Expr = call
	for {
		c, ok := cur.(*ast.Call)
		if !ok {
			break
		}
		calls = append(calls, c)
		cur = c.Func
	}
	for i, j := 0, len(calls)-1; i < j; i, j = i+1, j-1 {
		calls[i], calls[j] = calls[j], calls[i]
	}

	nameNode, ok := cur.(*ast.Name)
	if !ok {
		return nil, errAt(call.Pos(), "right-hand side must be a constructor call (e.g., ema(...)(...))")
	}
	ctorName := nameNode.ID

	comp, ok := v.ctx.reg.Lookup(ctorName)
	if !ok {
		return nil, errAt(call.Pos(), "unknown component %q", ctorName)
	}

	supplied := make(map[string]option.Value)
	var timeframeRaw, sessionRaw *string

	for _, kw := range calls[0].Keywords {
		if specialparam.IsSpecialParam(kw.Name) {
			raw, err := extractSpecialParamRaw(kw.Value, kw.Name, calls[0].Pos())
			if err != nil {
				return nil, err
			}
			switch kw.Name {
			case "timeframe":
				timeframeRaw = &raw
			case "session":
				sessionRaw = &raw
			}
			continue
		}
		if _, ok := comp.OptionByID(kw.Name); !ok {
			return nil, errAt(calls[0].Pos(), "unknown option %q for component %q", kw.Name, ctorName)
		}
		val, err := v.extractRawOptionValue(kw.Value)
		if err != nil {
			return nil, err
		}
		supplied[kw.Name] = val
	}

	var feedSteps []feedStep

	if len(calls[0].Args) > 0 {
		if len(comp.Options) == 0 && len(calls) == 1 {
			args := make([]ValueHandle, len(calls[0].Args))
			for i, a := range calls[0].Args {
				h, err := v.VisitExpr(a)
				if err != nil {
					return nil, err
				}
				args[i] = h
			}
			feedSteps = append(feedSteps, feedStep{args: args})
		} else {
			return nil, errAt(calls[0].Pos(), "positional constructor arguments not supported; use keyword args")
		}
	}

	for _, c := range calls[1:] {
		args := make([]ValueHandle, len(c.Args))
		for i, a := range c.Args {
			h, err := v.VisitExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = h
		}
		kwargs := make([]namedHandle, len(c.Keywords))
		for i, kw := range c.Keywords {
			h, err := v.VisitExpr(kw.Value)
			if err != nil {
				return nil, err
			}
			kwargs[i] = namedHandle{Name: kw.Name, Handle: h}
		}
		feedSteps = append(feedSteps, feedStep{args: args, kwargs: kwargs})
	}

	return &constructorParse{
		ctorName:     ctorName,
		supplied:     supplied,
		timeframeRaw: timeframeRaw,
		sessionRaw:   sessionRaw,
		feedSteps:    feedSteps,
	}, nil
}

// extractSpecialParamRaw extracts the raw string value of a `timeframe`/
// `session` keyword: a string constant, or (the documented brittle
// fallback) a bare identifier used as its own name.
func extractSpecialParamRaw(expr ast.Expr, paramName string, pos ast.Position) (string, error) {
	switch e := expr.(type) {
	case *ast.Constant:
		if e.Kind != ast.ConstStr {
			return "", errAt(pos, "parameter %q must be a string", paramName)
		}
		return e.Str, nil
	case *ast.Name:
		return e.ID, nil
	default:
		return "", errAt(pos, "parameter %q must be a string literal", paramName)
	}
}

// extractRawOptionValue extracts a raw (pre-coercion) option.Value from a
// keyword argument expression, per ConstructorParser::ParseLiteralOrPrimitive:
// literal constants convert directly; a Name bound (via a non-constructor
// assignment) to a number/bool_true/bool_false literal node reads that
// node's stored value; a Name bound to any other node's output is an error;
// an unbound Name, or one bound to a constructor's component name, falls
// back to its identifier text (the documented brittle fallback — see
// DESIGN.md's Open Question note).
func (v *visitor) extractRawOptionValue(expr ast.Expr) (option.Value, error) {
	switch e := expr.(type) {
	case *ast.Constant:
		switch e.Kind {
		case ast.ConstInt:
			return option.NumberValue(float64(e.Int)), nil
		case ast.ConstFloat:
			return option.NumberValue(e.Float), nil
		case ast.ConstBool:
			return option.BoolValue(e.Bool), nil
		case ast.ConstStr:
			return option.TextValue(e.Str), nil
		default:
			return option.TextValue(""), nil
		}
	case *ast.Name:
		ref, bound := v.ctx.varToBinding[e.ID]
		if bound {
			if nodeID, _, ok := splitBinding(ref); ok {
				node, ok := v.ctx.lookup(nodeID)
				if !ok {
					return option.Value{}, errAt(e.Pos(), "only literal values supported for options")
				}
				switch node.Type {
				case "number":
					if val, ok := node.Options["value"]; ok {
						return val, nil
					}
					return option.Value{}, errAt(e.Pos(), "number node missing value option")
				case "bool_true":
					return option.BoolValue(true), nil
				case "bool_false":
					return option.BoolValue(false), nil
				default:
					return option.Value{}, errAt(e.Pos(), "only literal values supported for options")
				}
			}
		}
		return option.TextValue(e.ID), nil
	default:
		return option.Value{}, errAt(expr.Pos(), "only literal keyword values supported")
	}
}

// buildConstructorNode resolves parsed's options against comp (applying
// defaults and coercion) and extracts special parameters into the node's
// Timeframe/Session fields rather than its Options map.
func (v *visitor) buildConstructorNode(id string, comp registry.ComponentMetadata, parsed *constructorParse, pos ast.Position) (ir.AlgorithmNode, error) {
	resolved, errs := option.ResolveOptions(parsed.supplied, comp)
	if len(errs) > 0 {
		return ir.AlgorithmNode{}, errAt(pos, "%s", errs[0].Error())
	}

	node := ir.AlgorithmNode{ID: id, Type: parsed.ctorName, Options: resolved}

	if parsed.timeframeRaw != nil {
		tf, err := specialparam.HandleTimeframe(*parsed.timeframeRaw)
		if err != nil {
			return ir.AlgorithmNode{}, errAt(pos, "%s", err.Error())
		}
		node.Timeframe = tf
	}
	if parsed.sessionRaw != nil {
		sess, err := specialparam.HandleSession(*parsed.sessionRaw)
		if err != nil {
			return ir.AlgorithmNode{}, errAt(pos, "%s", err.Error())
		}
		node.Session = sess
	}

	return node, nil
}

// wireInputs wires one feed step's positional and keyword arguments into
// targetID's declared inputs, type-checking (and, where possible, casting)
// each source against its destination's declared type. Keyword arguments
// wire first, in source order, then positional arguments — the last
// declared input absorbs every positional argument past its own slot when
// it allows multiple connections.
func (v *visitor) wireInputs(targetID string, comp registry.ComponentMetadata, args []ValueHandle, kwargs []namedHandle, pos ast.Position) error {
	inputIDs := declaredInputIDs(comp)
	declared := make(map[string]bool, len(inputIDs))
	for _, id := range inputIDs {
		declared[id] = true
	}

	for _, kw := range kwargs {
		if !declared[kw.Name] {
			return errAt(pos, "unknown input handle %q for %q", kw.Name, targetID)
		}
		casted, err := v.coerceTo(kw.Handle, inputTypeOf(comp, kw.Name), pos, fmt.Sprintf("input %q of %q", kw.Name, targetID))
		if err != nil {
			return err
		}
		v.ctx.addInput(targetID, kw.Name, casted.Ref())
	}

	if len(args) == 0 {
		return nil
	}
	if len(inputIDs) == 0 {
		return nil
	}

	lastAllowsMulti := comp.Inputs[len(comp.Inputs)-1].AllowMultiple
	if len(args) > len(inputIDs) && !lastAllowsMulti {
		return errAt(pos, "too many positional inputs for %q", targetID)
	}

	for i, handle := range args {
		slot := i
		if slot >= len(inputIDs) {
			slot = len(inputIDs) - 1
		}
		dst := inputIDs[slot]
		casted, err := v.coerceTo(handle, inputTypeOf(comp, dst), pos, fmt.Sprintf("positional input %d of %q", i, targetID))
		if err != nil {
			return err
		}
		v.ctx.addInput(targetID, dst, casted.Ref())
	}
	return nil
}
