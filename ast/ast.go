package ast

// Position is a 1-based line/column pair identifying where a node began in
// the source text.
type Position struct {
	Line int
	Col  int
}

// Node is implemented by every Expr and Stmt.
type Node interface {
	Pos() Position
}

// Expr is implemented by every expression node. The unexported method seals
// the set to this package, the idiomatic Go stand-in for a closed sum type.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// base carries the position every node has and provides Pos(); embed it to
// satisfy Node without repeating the field and method on every node type.
type base struct {
	Position Position
}

func (b base) Pos() Position { return b.Position }

// Name is a bare identifier reference.
type Name struct {
	base
	ID string
}

func (*Name) exprNode() {}

// ConstantKind selects which payload field of a Constant node is
// meaningful: exactly one of Int, Float, Str, Bool, or none of them for
// ConstNone, the Python "None" literal.
type ConstantKind int

const (
	ConstInt ConstantKind = iota
	ConstFloat
	ConstStr
	ConstBool
	ConstNone
)

// Constant is a literal: int, float, string, bool, or None.
type Constant struct {
	base
	Kind  ConstantKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (*Constant) exprNode() {}

// Attribute is `value.attr`.
type Attribute struct {
	base
	Value Expr
	Attr  string
}

func (*Attribute) exprNode() {}

// Keyword is one `name=value` keyword argument of a Call.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is `func(args..., kw=val...)`.
type Call struct {
	base
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (*Call) exprNode() {}

// BinOpType enumerates the binary, comparison, and boolean operators the
// parser can produce.
type BinOpType string

const (
	OpAdd    BinOpType = "Add"
	OpSub    BinOpType = "Sub"
	OpMult   BinOpType = "Mult"
	OpDiv    BinOpType = "Div"
	OpMod    BinOpType = "Mod"
	OpPow    BinOpType = "Pow"
	OpLt     BinOpType = "Lt"
	OpGt     BinOpType = "Gt"
	OpLtE    BinOpType = "LtE"
	OpGtE    BinOpType = "GtE"
	OpEq     BinOpType = "Eq"
	OpNotEq  BinOpType = "NotEq"
	OpAnd    BinOpType = "And"
	OpOr     BinOpType = "Or"
)

// BinOp is `left op right` for arithmetic operators.
type BinOp struct {
	base
	Op    BinOpType
	Left  Expr
	Right Expr
}

func (*BinOp) exprNode() {}

// Compare is a (possibly chained) comparison: `left op0 c0 op1 c1 ...`.
// The grammar this compiler accepts only ever produces a single
// (op, comparator) pair, but the shape allows for chaining.
type Compare struct {
	base
	Left        Expr
	Ops         []BinOpType
	Comparators []Expr
}

func (*Compare) exprNode() {}

// BoolOp is `a and b and c` or `a or b or c`.
type BoolOp struct {
	base
	Op     BinOpType
	Values []Expr
}

func (*BoolOp) exprNode() {}

// UnaryOpType enumerates the unary operators.
type UnaryOpType string

const (
	UnaryNot  UnaryOpType = "Not"
	UnaryUSub UnaryOpType = "USub"
	UnaryUAdd UnaryOpType = "UAdd"
)

// UnaryOp is `op operand`.
type UnaryOp struct {
	base
	Op      UnaryOpType
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// IfExp is the ternary `body if test else orelse`.
type IfExp struct {
	base
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (*IfExp) exprNode() {}

// List is a `[elt, ...]` literal.
type List struct {
	base
	Elts []Expr
}

func (*List) exprNode() {}

// Tuple is a `a, b, ...` literal (also used as Assign's multi-target form).
type Tuple struct {
	base
	Elts []Expr
}

func (*Tuple) exprNode() {}

// Dict is a `{k: v, ...}` literal.
type Dict struct {
	base
	Keys   []Expr
	Values []Expr
}

func (*Dict) exprNode() {}

// Subscript is `value[slice]`, the lag-operator syntax `src.c[1]`.
type Subscript struct {
	base
	Value Expr
	Slice Expr
}

func (*Subscript) exprNode() {}

// Assign is `target = value`, where target is a Name or a Tuple of Names
// for multi-output constructor calls.
type Assign struct {
	base
	Target Expr
	Value  Expr
}

func (*Assign) stmtNode() {}

// ExprStmt is a bare expression statement, used only for sink-component
// constructor calls with no assignment target.
type ExprStmt struct {
	base
	Value Expr
}

func (*ExprStmt) stmtNode() {}

// Module is the top-level parse result: an ordered sequence of statements.
type Module struct {
	Body []Stmt
}

// NewPosition is a convenience constructor for Position literals in tests
// and hand-built trees.
func NewPosition(line, col int) Position { return Position{Line: line, Col: col} }

// At sets the embedded position; used by parser construction helpers to
// keep node literals terse.
func At(line, col int) base { return base{Position: Position{Line: line, Col: col}} }
