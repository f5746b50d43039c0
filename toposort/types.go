package toposort

import (
	"context"
	"errors"
)

// ErrGraphNil is returned when a nil *core.Graph is passed to Sort.
var ErrGraphNil = errors.New("toposort: graph is nil")

// ErrUndirected is returned when Sort is given an undirected graph; Kahn's
// algorithm over in-degree only has a meaningful fixed point for directed
// graphs.
var ErrUndirected = errors.New("toposort: graph must be directed")

// CycleError reports that the graph could not be fully ordered: a cycle
// (or a node with no path to a root) left one or more nodes unprocessed.
//
// Remaining lists every node id that Kahn's algorithm never dequeued,
// i.e. every node that is part of, or downstream of, a cycle.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return "toposort: cycle detected, unresolved nodes: " + joinIDs(e.Remaining)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}

// Option configures Sort's optional behavior, following the teacher's
// functional-option idiom (core.GraphOption, dfs.TopoOption).
type Option func(*options)

type options struct {
	ctx context.Context
}

func defaultOptions() options {
	return options{ctx: context.Background()}
}

// WithContext sets a cancellation context for Sort. Passing nil has no
// effect; the default is context.Background().
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
