package ast_test

import (
	"testing"

	"github.com/stratdsl/compiler/ast"
	"github.com/stretchr/testify/assert"
)

func TestInspect_VisitsAllNodes(t *testing.T) {
	// x = a + b
	tree := &ast.Assign{
		Target: &ast.Name{ID: "x"},
		Value: &ast.BinOp{
			Op:    ast.OpAdd,
			Left:  &ast.Name{ID: "a"},
			Right: &ast.Name{ID: "b"},
		},
	}

	var kinds []string
	ast.Inspect(tree, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Assign:
			kinds = append(kinds, "Assign")
		case *ast.BinOp:
			kinds = append(kinds, "BinOp")
		case *ast.Name:
			kinds = append(kinds, "Name")
		}
		return true
	})

	assert.Equal(t, []string{"Assign", "Name", "BinOp", "Name", "Name"}, kinds)
}

func TestInspect_StopsDescending(t *testing.T) {
	tree := &ast.BinOp{
		Left:  &ast.Name{ID: "a"},
		Right: &ast.Name{ID: "b"},
	}
	var visited int
	ast.Inspect(tree, func(n ast.Node) bool {
		visited++
		_, isBinOp := n.(*ast.BinOp)
		return !isBinOp
	})
	assert.Equal(t, 1, visited)
}

func TestPosition(t *testing.T) {
	n := &ast.Name{}
	n.Position = ast.NewPosition(3, 7)
	assert.Equal(t, ast.Position{Line: 3, Col: 7}, n.Pos())
}
