// Package ast defines the parsed-source tree (C5) the script compiler
// walks: expressions, statements, and the top-level Module.
//
// The shape mirrors Python's own ast module, as the reference compiler's
// parser does (original_source's parser/ast_nodes.h) — Name, Constant,
// Attribute, Call, BinOp, Compare, BoolOp, UnaryOp, IfExp, List, Tuple,
// Dict, Subscript for expressions; Assign and ExprStmt for statements.
// Every node carries a 1-based line/column, the idiomatic Go convention
// for hand-rolled ASTs (e.g. cuelang/cue's ast package) of giving every
// node a Pos() rather than bolting position tracking on after the fact.
package ast
