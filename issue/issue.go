// Package issue defines the batched diagnostic record (C13) produced by the
// UI-graph validator and the metadata-driven option coercion shared by both
// compilation paths.
//
// Unlike a Go error, an Issue is not returned singly and aborted on: a
// validation pass collects every Issue it can find before reporting back to
// the caller (spec §7, "validator collects across phases"). Formatter groups
// and renders them for human consumption.
package issue

import "fmt"

// Code enumerates the fixed set of diagnostic codes a validation pass may
// emit (spec §3.6).
type Code string

// The fixed enumeration of issue codes. Values are the code names verbatim
// so that Formatter output ("[<Code>] ...") matches spec §7 exactly.
const (
	CodeUnknownNodeType           Code = "UnknownNodeType"
	CodeUnknownTransformType      Code = "UnknownTransformType"
	CodeInvalidEdge               Code = "InvalidEdge"
	CodeTimeframeMismatch         Code = "TimeframeMismatch"
	CodeCycleDetected             Code = "CycleDetected"
	CodeMissingExecutor           Code = "MissingExecutor"
	CodeMultipleExecutors         Code = "MultipleExecutors"
	CodeMissingRequiredInput      Code = "MissingRequiredInput"
	CodeMissingRequiredOption     Code = "MissingRequiredOption"
	CodeInvalidOptionReference     Code = "InvalidOptionReference"
	CodeInvalidNodeID             Code = "InvalidNodeId"
	CodeEmptyGraph                Code = "EmptyGraph"
	CodeOrphanedNode              Code = "OrphanedNode"
	CodeInvalidNodeConnection     Code = "InvalidNodeConnection"
	CodeMissingRequiredHandle     Code = "MissingRequiredHandle"
	CodeOptionValueOutOfRange     Code = "OptionValueOutOfRange"
	CodeInvalidOptionCombination  Code = "InvalidOptionCombination"
	CodeNoPathToExecutor          Code = "NoPathToExecutor"
	CodeSecurityViolation         Code = "SecurityViolation"
	CodeResourceLimitExceeded     Code = "ResourceLimitExceeded"
	CodeCircularOptionReference   Code = "CircularOptionReference"
)

// ContextKind discriminates the shape stored in a Context.
type ContextKind string

const (
	ContextEmpty      ContextKind = "empty"
	ContextUiNode     ContextKind = "UiNode"
	ContextUiEdge     ContextKind = "UiEdge"
	ContextUiGroup    ContextKind = "UiGroup"
	ContextAnnotation ContextKind = "UiAnnotation"
	ContextOptionSpec ContextKind = "OptionSpec"
	ContextString     ContextKind = "string"
)

// Context carries the subject of an Issue: spec §3.6 allows it to be empty,
// a reference to one of the UI graph's node/edge/group/annotation kinds, an
// OptionSpec, or a bare string. Go has no tagged-union sugar, so Context
// stores the discriminant explicitly and the payload as a description string
// plus an optional node/edge id for programmatic consumers.
type Context struct {
	Kind ContextKind
	// ID is the node id (UiNode), or
	// "source_id#source_handle->target_id#target_handle" (UiEdge), or
	// "node_id#option_id" (OptionSpec), or empty for ContextEmpty/ContextString.
	ID string
	// Detail is a free-form human-readable rendering of the subject, used by
	// Formatter; for ContextString it is the string itself.
	Detail string
}

// EmptyContext is the zero Context, used for issues with no particular
// subject (e.g. EmptyGraph).
var EmptyContext = Context{Kind: ContextEmpty}

// NodeContext builds a Context referencing a UI node by id.
func NodeContext(id string) Context {
	return Context{Kind: ContextUiNode, ID: id, Detail: fmt.Sprintf("node %q", id)}
}

// EdgeContext builds a Context referencing a UI edge between two vertices,
// rendered as "source_id#source_handle -> target_id#target_handle".
func EdgeContext(sourceID, sourceHandle, targetID, targetHandle string) Context {
	id := fmt.Sprintf("%s#%s->%s#%s", sourceID, sourceHandle, targetID, targetHandle)
	return Context{Kind: ContextUiEdge, ID: id, Detail: "edge " + id}
}

// OptionSpecContext builds a Context referencing an option by node and option id.
func OptionSpecContext(nodeID, optionID string) Context {
	id := nodeID + "#" + optionID
	return Context{Kind: ContextOptionSpec, ID: id, Detail: fmt.Sprintf("option %q of node %q", optionID, nodeID)}
}

// StringContext wraps a bare descriptive string.
func StringContext(s string) Context {
	return Context{Kind: ContextString, Detail: s}
}

// Issue is a single diagnostic: a code, the subject it concerns, a
// human-readable message, and an actionable suggestion.
type Issue struct {
	Code       Code
	Context    Context
	Message    string
	Suggestion string
}

// New constructs an Issue. Suggestion may be empty when there is nothing
// actionable to suggest.
func New(code Code, ctx Context, message, suggestion string) Issue {
	return Issue{Code: code, Context: ctx, Message: message, Suggestion: suggestion}
}

// String renders a single issue as "[<Code>] <message> — <suggestion>",
// matching spec §7's user-visible form. The em-dash separator is omitted
// when there is no suggestion.
func (i Issue) String() string {
	if i.Suggestion == "" {
		return fmt.Sprintf("[%s] %s", i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s — %s", i.Code, i.Message, i.Suggestion)
}
