package ast

// Inspect traverses tree in depth-first order, calling visit for each node
// before descending into its children; it stops descending beneath a node
// when visit returns false. Modeled on the standard library's go/ast.Inspect,
// the idiomatic shape for a single-pass AST walker.
func Inspect(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Name, *Constant:
		// leaves
	case *Attribute:
		Inspect(n.Value, visit)
	case *Call:
		Inspect(n.Func, visit)
		for _, a := range n.Args {
			Inspect(a, visit)
		}
		for _, kw := range n.Keywords {
			Inspect(kw.Value, visit)
		}
	case *BinOp:
		Inspect(n.Left, visit)
		Inspect(n.Right, visit)
	case *Compare:
		Inspect(n.Left, visit)
		for _, c := range n.Comparators {
			Inspect(c, visit)
		}
	case *BoolOp:
		for _, v := range n.Values {
			Inspect(v, visit)
		}
	case *UnaryOp:
		Inspect(n.Operand, visit)
	case *IfExp:
		Inspect(n.Test, visit)
		Inspect(n.Body, visit)
		Inspect(n.Orelse, visit)
	case *List:
		for _, e := range n.Elts {
			Inspect(e, visit)
		}
	case *Tuple:
		for _, e := range n.Elts {
			Inspect(e, visit)
		}
	case *Dict:
		for _, k := range n.Keys {
			Inspect(k, visit)
		}
		for _, v := range n.Values {
			Inspect(v, visit)
		}
	case *Subscript:
		Inspect(n.Value, visit)
		Inspect(n.Slice, visit)
	case *Assign:
		Inspect(n.Target, visit)
		Inspect(n.Value, visit)
	case *ExprStmt:
		Inspect(n.Value, visit)
	}
}

// InspectModule walks every statement in m in order.
func InspectModule(m *Module, visit func(Node) bool) {
	for _, stmt := range m.Body {
		Inspect(stmt, visit)
	}
}
