package fold

import (
	"math"

	"github.com/stratdsl/compiler/ast"
)

type constKind int

const (
	constInt constKind = iota
	constFloat
	constBool
	constString
	constNone
)

// constVal is the folder's internal literal representation; it never
// escapes this package (materializing it back into the AST goes through
// toConstantNode).
type constVal struct {
	kind constKind
	i    int64
	f    float64
	b    bool
	s    string
}

func intVal(i int64) constVal    { return constVal{kind: constInt, i: i} }
func floatVal(f float64) constVal { return constVal{kind: constFloat, f: f} }
func boolVal(b bool) constVal    { return constVal{kind: constBool, b: b} }
func stringVal(s string) constVal { return constVal{kind: constString, s: s} }

var noneVal = constVal{kind: constNone}

func constFromLiteral(c *ast.Constant) constVal {
	switch c.Kind {
	case ast.ConstInt:
		return intVal(c.Int)
	case ast.ConstFloat:
		return floatVal(c.Float)
	case ast.ConstStr:
		return stringVal(c.Str)
	case ast.ConstBool:
		return boolVal(c.Bool)
	default:
		return noneVal
	}
}

func toConstantNode(v constVal, pos ast.Position) *ast.Constant {
	c := &ast.Constant{}
	switch v.kind {
	case constInt:
		c.Kind, c.Int = ast.ConstInt, v.i
	case constFloat:
		c.Kind, c.Float = ast.ConstFloat, v.f
	case constBool:
		c.Kind, c.Bool = ast.ConstBool, v.b
	case constString:
		c.Kind, c.Str = ast.ConstStr, v.s
	default:
		c.Kind = ast.ConstNone
	}
	c.Position = pos
	return c
}

// numeric is an int-or-float value produced by toNumeric; bools coerce to
// 0/1 the way Python coerces bool to int.
type numeric struct {
	isInt bool
	i     int64
	f     float64
}

func (n numeric) asFloat() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func toNumeric(v constVal) (numeric, bool) {
	switch v.kind {
	case constInt:
		return numeric{isInt: true, i: v.i}, true
	case constFloat:
		return numeric{f: v.f}, true
	case constBool:
		if v.b {
			return numeric{isInt: true, i: 1}, true
		}
		return numeric{isInt: true, i: 0}, true
	default:
		return numeric{}, false
	}
}

func toBool(v constVal) (bool, bool) {
	switch v.kind {
	case constBool:
		return v.b, true
	case constInt:
		return v.i != 0, true
	case constFloat:
		return v.f != 0, true
	case constString:
		return v.s != "", true
	default:
		return false, false
	}
}

// constEqual reports whether left and right are equal; a mismatched kind is
// a well-defined false/true (per Eq/NotEq below), but two None values are
// not comparable at all (ok is false), matching the reference's fallthrough.
func constEqual(left, right constVal) (eq bool, ok bool) {
	if left.kind != right.kind {
		return false, true
	}
	switch left.kind {
	case constInt:
		return left.i == right.i, true
	case constFloat:
		return left.f == right.f, true
	case constBool:
		return left.b == right.b, true
	case constString:
		return left.s == right.s, true
	default:
		return false, false
	}
}

func evaluateUnaryOp(op ast.UnaryOpType, v constVal) (constVal, bool) {
	switch op {
	case ast.UnaryUAdd:
		n, ok := toNumeric(v)
		if !ok {
			return constVal{}, false
		}
		if n.isInt {
			return intVal(n.i), true
		}
		return floatVal(n.f), true
	case ast.UnaryUSub:
		n, ok := toNumeric(v)
		if !ok {
			return constVal{}, false
		}
		if n.isInt {
			return intVal(-n.i), true
		}
		return floatVal(-n.f), true
	case ast.UnaryNot:
		b, ok := toBool(v)
		if !ok {
			return constVal{}, false
		}
		return boolVal(!b), true
	default:
		return constVal{}, false
	}
}

// evaluateBinOp applies the arithmetic and comparison semantics of spec
// §4.4: int op int stays int for + - *, / always produces a real, % on
// reals is IEEE fmod, and division/modulo by zero fails the fold rather
// than panicking.
func evaluateBinOp(left constVal, op ast.BinOpType, right constVal) (constVal, bool) {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMult:
		ln, lok := toNumeric(left)
		rn, rok := toNumeric(right)
		if !lok || !rok {
			return constVal{}, false
		}
		if ln.isInt && rn.isInt {
			switch op {
			case ast.OpAdd:
				return intVal(ln.i + rn.i), true
			case ast.OpSub:
				return intVal(ln.i - rn.i), true
			default:
				return intVal(ln.i * rn.i), true
			}
		}
		lf, rf := ln.asFloat(), rn.asFloat()
		switch op {
		case ast.OpAdd:
			return floatVal(lf + rf), true
		case ast.OpSub:
			return floatVal(lf - rf), true
		default:
			return floatVal(lf * rf), true
		}
	case ast.OpDiv:
		ln, lok := toNumeric(left)
		rn, rok := toNumeric(right)
		if !lok || !rok {
			return constVal{}, false
		}
		rf := rn.asFloat()
		if rf == 0 {
			return constVal{}, false
		}
		return floatVal(ln.asFloat() / rf), true
	case ast.OpMod:
		ln, lok := toNumeric(left)
		rn, rok := toNumeric(right)
		if !lok || !rok {
			return constVal{}, false
		}
		if ln.isInt && rn.isInt {
			if rn.i == 0 {
				return constVal{}, false
			}
			return intVal(ln.i % rn.i), true
		}
		rf := rn.asFloat()
		if rf == 0 {
			return constVal{}, false
		}
		return floatVal(math.Mod(ln.asFloat(), rf)), true
	case ast.OpLt, ast.OpGt, ast.OpLtE, ast.OpGtE:
		ln, lok := toNumeric(left)
		rn, rok := toNumeric(right)
		if !lok || !rok {
			return constVal{}, false
		}
		lf, rf := ln.asFloat(), rn.asFloat()
		switch op {
		case ast.OpLt:
			return boolVal(lf < rf), true
		case ast.OpGt:
			return boolVal(lf > rf), true
		case ast.OpLtE:
			return boolVal(lf <= rf), true
		default:
			return boolVal(lf >= rf), true
		}
	case ast.OpEq, ast.OpNotEq:
		eq, ok := constEqual(left, right)
		if !ok {
			return constVal{}, false
		}
		if op == ast.OpEq {
			return boolVal(eq), true
		}
		return boolVal(!eq), true
	case ast.OpAnd, ast.OpOr:
		lb, lok := toBool(left)
		rb, rok := toBool(right)
		if !lok || !rok {
			return constVal{}, false
		}
		if op == ast.OpAnd {
			return boolVal(lb && rb), true
		}
		return boolVal(lb || rb), true
	default:
		return constVal{}, false
	}
}

// folder carries the name -> constant-value table accumulated in pass one.
type folder struct {
	constants map[string]constVal
}

// Fold runs the two-pass constant folder over m in place and returns it:
// pass one collects `name = <constant expression>` bindings at the top
// level, pass two rewrites constant Subscript slices into literal
// Constants wherever they occur.
func Fold(m *ast.Module) *ast.Module {
	if m == nil {
		return m
	}
	f := &folder{constants: make(map[string]constVal)}
	f.identifyConstants(m)
	f.foldConstants(m)
	return m
}

func (f *folder) identifyConstants(m *ast.Module) {
	for _, stmt := range m.Body {
		assign, ok := stmt.(*ast.Assign)
		if !ok || assign.Value == nil {
			continue
		}
		if !f.isConstantExpr(assign.Value) {
			continue
		}
		v, ok := f.evaluateConstant(assign.Value)
		if !ok {
			continue
		}
		if name, ok := assign.Target.(*ast.Name); ok {
			f.constants[name.ID] = v
		}
	}
}

func (f *folder) foldConstants(m *ast.Module) {
	for _, stmt := range m.Body {
		switch s := stmt.(type) {
		case *ast.Assign:
			if s.Value != nil {
				s.Value = f.transform(s.Value)
			}
		case *ast.ExprStmt:
			if s.Value != nil {
				s.Value = f.transform(s.Value)
			}
		}
	}
}

// isConstantExpr reports whether e is a constant expression: a literal, a
// reference to an already-folded name, a unary op over a constant, or a
// BinOp, Compare, or BoolOp whose operands are all constant.
func (f *folder) isConstantExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Constant:
		return true
	case *ast.Name:
		_, ok := f.constants[n.ID]
		return ok
	case *ast.UnaryOp:
		return f.isConstantExpr(n.Operand)
	case *ast.BinOp:
		return f.isConstantExpr(n.Left) && f.isConstantExpr(n.Right)
	case *ast.Compare:
		if !f.isConstantExpr(n.Left) {
			return false
		}
		for _, c := range n.Comparators {
			if !f.isConstantExpr(c) {
				return false
			}
		}
		return true
	case *ast.BoolOp:
		for _, v := range n.Values {
			if !f.isConstantExpr(v) {
				return false
			}
		}
		return len(n.Values) > 0
	default:
		return false
	}
}

func (f *folder) evaluateConstant(e ast.Expr) (constVal, bool) {
	switch n := e.(type) {
	case *ast.Constant:
		return constFromLiteral(n), true
	case *ast.Name:
		v, ok := f.constants[n.ID]
		return v, ok
	case *ast.UnaryOp:
		v, ok := f.evaluateConstant(n.Operand)
		if !ok {
			return constVal{}, false
		}
		return evaluateUnaryOp(n.Op, v)
	case *ast.BinOp:
		l, lok := f.evaluateConstant(n.Left)
		r, rok := f.evaluateConstant(n.Right)
		if !lok || !rok {
			return constVal{}, false
		}
		return evaluateBinOp(l, n.Op, r)
	case *ast.Compare:
		if len(n.Ops) != 1 || len(n.Comparators) != 1 {
			return constVal{}, false
		}
		l, lok := f.evaluateConstant(n.Left)
		r, rok := f.evaluateConstant(n.Comparators[0])
		if !lok || !rok {
			return constVal{}, false
		}
		return evaluateBinOp(l, n.Ops[0], r)
	case *ast.BoolOp:
		if len(n.Values) == 0 {
			return constVal{}, false
		}
		result, ok := f.evaluateConstant(n.Values[0])
		if !ok {
			return constVal{}, false
		}
		for _, v := range n.Values[1:] {
			next, ok := f.evaluateConstant(v)
			if !ok {
				return constVal{}, false
			}
			result, ok = evaluateBinOp(result, n.Op, next)
			if !ok {
				return constVal{}, false
			}
		}
		return result, true
	default:
		return constVal{}, false
	}
}

// transform recursively rewrites expr, replacing only constant Subscript
// slices. Bare Name occurrences are left alone even when they resolve to a
// folded constant, to avoid materializing a duplicate literal node for
// every reference to the same name.
func (f *folder) transform(expr ast.Expr) ast.Expr {
	if expr == nil {
		return expr
	}
	switch n := expr.(type) {
	case *ast.Attribute:
		n.Value = f.transform(n.Value)
		return n
	case *ast.Call:
		n.Func = f.transform(n.Func)
		for i, a := range n.Args {
			n.Args[i] = f.transform(a)
		}
		for i, kw := range n.Keywords {
			n.Keywords[i].Value = f.transform(kw.Value)
		}
		return n
	case *ast.BinOp:
		n.Left = f.transform(n.Left)
		n.Right = f.transform(n.Right)
		return n
	case *ast.Compare:
		n.Left = f.transform(n.Left)
		for i, c := range n.Comparators {
			n.Comparators[i] = f.transform(c)
		}
		return n
	case *ast.BoolOp:
		for i, v := range n.Values {
			n.Values[i] = f.transform(v)
		}
		return n
	case *ast.UnaryOp:
		n.Operand = f.transform(n.Operand)
		return n
	case *ast.IfExp:
		n.Test = f.transform(n.Test)
		n.Body = f.transform(n.Body)
		n.Orelse = f.transform(n.Orelse)
		return n
	case *ast.List:
		for i, elt := range n.Elts {
			n.Elts[i] = f.transform(elt)
		}
		return n
	case *ast.Tuple:
		for i, elt := range n.Elts {
			n.Elts[i] = f.transform(elt)
		}
		return n
	case *ast.Dict:
		for i, k := range n.Keys {
			n.Keys[i] = f.transform(k)
		}
		for i, v := range n.Values {
			n.Values[i] = f.transform(v)
		}
		return n
	case *ast.Subscript:
		n.Value = f.transform(n.Value)
		if f.isConstantExpr(n.Slice) {
			if v, ok := f.evaluateConstant(n.Slice); ok {
				n.Slice = toConstantNode(v, n.Slice.Pos())
			} else {
				n.Slice = f.transform(n.Slice)
			}
		} else {
			n.Slice = f.transform(n.Slice)
		}
		return n
	default:
		return expr
	}
}
