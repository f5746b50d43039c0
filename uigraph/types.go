package uigraph

import (
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/timeframe"
)

// Point is a 2-D layout coordinate; its only role in compile logic is
// round-tripping through UiNode/UiGroupNode/UiAnnotation metadata.
type Point struct{ X, Y float64 }

// Size is a 2-D layout extent.
type Size struct{ W, H float64 }

// UiOption is one option value attached to a UiNode (spec §3.3).
type UiOption struct {
	ID          string
	Value       *option.Value
	DisplayName string
	Exposed     bool
}

// NodeMetadata carries the layout-only fields of a UiNode (spec §3.3).
type NodeMetadata struct {
	ParentID string
	Pos      Point
	Size     Size
}

// UiNode is one node of the user-assembled graph (spec §3.3).
type UiNode struct {
	ID        string
	Type      string
	Options   []UiOption
	Metadata  NodeMetadata
	Timeframe *timeframe.TimeFrame
}

// OptionByID returns the UiOption with the given id, if present.
func (n UiNode) OptionByID(id string) (UiOption, bool) {
	for _, o := range n.Options {
		if o.ID == id {
			return o, true
		}
	}
	return UiOption{}, false
}

// UiVertex identifies one handle on one node — an edge endpoint.
type UiVertex struct {
	NodeID string
	Handle string
}

// UiEdge connects a source handle to a target handle (spec §3.3).
type UiEdge struct {
	Source UiVertex
	Target UiVertex
}

// UiGroupNode is a layout-only grouping box; it plays no part in compile
// logic (spec §3.3).
type UiGroupNode struct {
	ID       string
	ParentID string
	Pos      Point
	Size     Size
}

// UiAnnotation is a layout-only text annotation; it plays no part in
// compile logic (spec §3.3).
type UiAnnotation struct {
	ID       string
	ParentID string
	Text     string
	Pos      Point
}

// UiData is the full user-assembled graph submitted for validation and
// compilation (spec §3.3).
type UiData struct {
	Nodes       []UiNode
	Edges       []UiEdge
	Groups      []UiGroupNode
	Annotations []UiAnnotation
}
