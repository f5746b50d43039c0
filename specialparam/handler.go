package specialparam

import (
	"fmt"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/timeframe"
)

// SessionsNodeType is the component type the closure scan synthesizes.
const SessionsNodeType = "sessions"

// IsSpecialParam reports whether name is one of the out-of-band keyword
// arguments handled here instead of being stored in AlgorithmNode.Options
// (spec §4.6).
func IsSpecialParam(name string) bool {
	return name == "timeframe" || name == "session"
}

// HandleTimeframe parses a constructor call's `timeframe` keyword value.
// An empty string is silently dropped (returns nil, nil), matching spec
// §4.6.
func HandleTimeframe(raw string) (*timeframe.TimeFrame, error) {
	if raw == "" {
		return nil, nil
	}
	tf, err := timeframe.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("specialparam: invalid timeframe %q: %w", raw, err)
	}
	return &tf, nil
}

// HandleSession validates a constructor call's `session` keyword value
// against the fixed session enumeration (spec §4.6).
func HandleSession(raw string) (*timeframe.Session, error) {
	sess, ok := timeframe.ParseSession(raw)
	if !ok {
		return nil, fmt.Errorf("specialparam: %q is not a recognized session name", raw)
	}
	return &sess, nil
}

// sessionKey identifies a distinct (session, timeframe) observation; empty
// tfKey means "no explicit timeframe".
type sessionKey struct {
	session timeframe.Session
	tfKey   string
}

// VerifySessionDependencies scans nodes for every (session, timeframe?) pair
// observed on a non-"sessions" node, and appends a synthetic "sessions" node
// for any pair with no matching existing "sessions" node, per spec §4.6.
// New ids are "sessions_<counter>", counting from 0 and skipping any id
// already present in nodes.
func VerifySessionDependencies(nodes []ir.AlgorithmNode) []ir.AlgorithmNode {
	var order []sessionKey
	seen := make(map[sessionKey]bool)

	existing := make(map[sessionKey]bool)
	usedIDs := make(map[string]bool)
	for _, n := range nodes {
		usedIDs[n.ID] = true
		if n.Type == SessionsNodeType {
			if v, ok := n.Options["session_type"]; ok && v.Kind == option.ValueKindText {
				existing[sessionKey{session: timeframe.Session(v.Text), tfKey: tfKeyOf(n.Timeframe)}] = true
			}
			continue
		}
		if n.Session == nil {
			continue
		}
		k := sessionKey{session: *n.Session, tfKey: tfKeyOf(n.Timeframe)}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	out := nodes
	counter := 0
	for _, k := range order {
		if existing[k] {
			continue
		}
		var id string
		for {
			id = fmt.Sprintf("sessions_%d", counter)
			counter++
			if !usedIDs[id] {
				break
			}
		}
		usedIDs[id] = true
		node := ir.AlgorithmNode{
			ID:      id,
			Type:    SessionsNodeType,
			Options: map[string]option.Value{"session_type": option.TextValue(string(k.session))},
		}
		if k.tfKey != "" {
			tf, err := timeframe.Parse(k.tfKey)
			if err == nil {
				node.Timeframe = &tf
			}
		}
		out = append(out, node)
	}
	return out
}

func tfKeyOf(tf *timeframe.TimeFrame) string {
	if tf == nil {
		return ""
	}
	return tf.String()
}
