package scriptcompile

import (
	"fmt"

	"github.com/stratdsl/compiler/ast"
	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/registry"
)

// ValueHandle names an output a compiled expression resolves to: a node id
// plus one of its declared (or synthetic "result") output handles.
type ValueHandle struct {
	NodeID string
	Handle string
}

// Ref renders the "node_id#handle" reference form used in AlgorithmNode.Inputs.
func (h ValueHandle) Ref() string { return ir.FormatRef(h.NodeID, h.Handle) }

// CompileError is a fatal script-compilation failure carrying the AST
// position of the offending statement or expression (spec §7: "script
// compiler throws on the first offending statement").
type CompileError struct {
	Message string
	Line    int
	Col     int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Col)
	}
	return e.Message
}

func errAt(pos ast.Position, format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...), Line: pos.Line, Col: pos.Col}
}

// context is the single mutable CompilationContext of spec §5: the node
// vector, the id->index lookup, the used-id set, the variable binding
// table, and the per-node output-type override table, all owned by one
// Compile call for the duration of one compilation.
type context struct {
	reg registry.Registry

	// varToBinding maps a script-level variable name to either a
	// "node_id.handle" reference (handle_non_constructor_assignment) or a
	// bare component name (single-output constructor assignment, resolved
	// lazily against the component's sole declared output on read).
	varToBinding map[string]string

	algorithm []ir.AlgorithmNode
	nodeByID  map[string]int
	usedIDs   map[string]bool

	// outputTypeOverride fixes the output type of a synthetic node by id,
	// populated by literal materialization and operator desugaring (spec
	// §4.7's "explicit override table").
	outputTypeOverride map[string]registry.DataType

	executorCount int
}

func newContext(reg registry.Registry) *context {
	return &context{
		reg:                 reg,
		varToBinding:        make(map[string]string),
		nodeByID:             make(map[string]int),
		usedIDs:              make(map[string]bool),
		outputTypeOverride:   make(map[string]registry.DataType),
	}
}

// uniqueNodeID allocates "base_k" for the smallest k >= 0 not yet used
// (spec §4.5's O(1)-tracked id allocator).
func (c *context) uniqueNodeID(base string) string {
	idx := 0
	for {
		candidate := fmt.Sprintf("%s_%d", base, idx)
		if !c.usedIDs[candidate] {
			c.usedIDs[candidate] = true
			return candidate
		}
		idx++
	}
}

// reserveNode appends n as a placeholder and returns its stable index,
// which callers use for further mutation (wiring inputs) even if the
// vector grows afterward — never hold a pointer across an append.
func (c *context) reserveNode(n ir.AlgorithmNode) int {
	idx := len(c.algorithm)
	c.algorithm = append(c.algorithm, n)
	c.nodeByID[n.ID] = idx
	c.usedIDs[n.ID] = true
	return idx
}

func (c *context) node(idx int) *ir.AlgorithmNode { return &c.algorithm[idx] }

func (c *context) lookup(id string) (*ir.AlgorithmNode, bool) {
	idx, ok := c.nodeByID[id]
	if !ok {
		return nil, false
	}
	return &c.algorithm[idx], true
}

func (c *context) addInput(nodeID, handle, ref string) {
	n, ok := c.lookup(nodeID)
	if !ok {
		return
	}
	if n.Inputs == nil {
		n.Inputs = make(map[string][]string)
	}
	n.Inputs[handle] = append(n.Inputs[handle], ref)
}
