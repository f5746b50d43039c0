package cse

import (
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/stratdsl/compiler/ir"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/timeframe"
)

// scalarTypes are timeframe- and session-agnostic: two literal nodes of the
// same type, options, and inputs are duplicates regardless of their
// timeframe/session (spec §4.9's exception).
var scalarTypes = map[string]bool{
	"number": true, "bool_true": true, "bool_false": true, "text": true, "null": true,
}

// Optimize deduplicates semantically identical nodes in nodes, which must
// already be in a valid topological order. Within each semantic-hash
// bucket, the earliest occurrence is kept as canonical and every later
// duplicate is dropped; every surviving node's "src_id#handle" references
// are rewritten to point at canonical ids. isExecutor reports whether a
// node type has side effects and must never be deduplicated, nor treated as
// a candidate duplicate of anything else.
func Optimize(nodes []ir.AlgorithmNode, isExecutor func(nodeType string) bool) []ir.AlgorithmNode {
	buckets := make(map[uint64][]int)
	remap := make(map[string]string)
	dropped := make(map[int]bool, len(nodes))

	for i, n := range nodes {
		if isExecutor(n.Type) {
			continue
		}
		h := semanticHash(n)
		canonicalIdx := -1
		for _, j := range buckets[h] {
			if semanticEquals(nodes[j], n) {
				canonicalIdx = j
				break
			}
		}
		if canonicalIdx >= 0 {
			remap[n.ID] = nodes[canonicalIdx].ID
			dropped[i] = true
			continue
		}
		buckets[h] = append(buckets[h], i)
	}

	out := make([]ir.AlgorithmNode, 0, len(nodes))
	for i, n := range nodes {
		if dropped[i] {
			continue
		}
		out = append(out, rewriteRefs(n, remap))
	}
	return out
}

// semanticHash combines type, options, inputs, and (for non-scalar types)
// timeframe/session using the fixed hash_combine mixing formula, iterating
// maps in sorted-key order so the result is invariant to Go's randomized
// map iteration.
func semanticHash(n ir.AlgorithmNode) uint64 {
	var seed uint64
	seed = combine(seed, hashString(n.Type))

	optKeys := make([]string, 0, len(n.Options))
	for k := range n.Options {
		optKeys = append(optKeys, k)
	}
	sort.Strings(optKeys)
	for _, k := range optKeys {
		seed = combine(seed, hashString(k))
		seed = combine(seed, hashValue(n.Options[k]))
	}

	inputKeys := make([]string, 0, len(n.Inputs))
	for k := range n.Inputs {
		inputKeys = append(inputKeys, k)
	}
	sort.Strings(inputKeys)
	for _, k := range inputKeys {
		seed = combine(seed, hashString(k))
		for _, ref := range n.Inputs[k] {
			seed = combine(seed, hashString(ref))
		}
	}

	if !scalarTypes[n.Type] {
		if n.Timeframe != nil {
			seed = combine(seed, hashString(n.Timeframe.String()))
		}
		if n.Session != nil {
			seed = combine(seed, hashString(string(*n.Session)))
		}
	}

	return seed
}

// combine is the mixing formula named by spec §4.9:
// seed ^= h + 0x9e3779b9 + (seed << 6) + (seed >> 2).
func combine(seed, h uint64) uint64 {
	seed ^= h + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	return seed
}

func hashString(s string) uint64 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(s))
	return f.Sum64()
}

// hashValue hashes an option.Value's kind-discriminated payload. A
// CardSchema value hashes by its Kind alone: semanticEquals never considers
// two CardSchema values equal (matching option.Value.Equal), so collisions
// here only ever cost a wasted equality check, never a false dedup.
func hashValue(v option.Value) uint64 {
	switch v.Kind {
	case option.ValueKindNumber:
		return combine(hashString(string(v.Kind)), hashString(strconv.FormatFloat(v.Number, 'g', -1, 64)))
	case option.ValueKindBool:
		b := "false"
		if v.Bool {
			b = "true"
		}
		return combine(hashString(string(v.Kind)), hashString(b))
	case option.ValueKindText:
		return combine(hashString(string(v.Kind)), hashString(v.Text))
	case option.ValueKindRef:
		return combine(hashString(string(v.Kind)), hashString(v.Ref))
	case option.ValueKindTime:
		return combine(hashString(string(v.Kind)), hashString(v.Time.String()))
	case option.ValueKindSql:
		return combine(hashString(string(v.Kind)), hashString(v.Sql))
	case option.ValueKindSequence:
		seed := hashString(string(v.Kind))
		for _, e := range v.Sequence {
			seed = combine(seed, hashValue(e))
		}
		return seed
	default:
		return hashString(string(v.Kind))
	}
}

// semanticEquals implements the full structural equality check used to
// confirm a hash-bucket match, excluding id (spec §4.9).
func semanticEquals(a, b ir.AlgorithmNode) bool {
	if a.Type != b.Type {
		return false
	}
	if !optionsEqual(a.Options, b.Options) {
		return false
	}
	if !inputsEqual(a.Inputs, b.Inputs) {
		return false
	}
	if scalarTypes[a.Type] {
		return true
	}
	return timeframeEqual(a.Timeframe, b.Timeframe) && sessionEqual(a.Session, b.Session)
}

func optionsEqual(a, b map[string]option.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func inputsEqual(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, refs := range a {
		oRefs, ok := b[k]
		if !ok || len(refs) != len(oRefs) {
			return false
		}
		for i := range refs {
			if refs[i] != oRefs[i] {
				return false
			}
		}
	}
	return true
}

func timeframeEqual(a, b *timeframe.TimeFrame) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sessionEqual(a, b *timeframe.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// rewriteRefs rewrites every "src_id#handle" input reference whose src_id
// is a dropped duplicate to point at its canonical id instead.
func rewriteRefs(n ir.AlgorithmNode, remap map[string]string) ir.AlgorithmNode {
	if len(remap) == 0 || len(n.Inputs) == 0 {
		return n
	}
	newInputs := make(map[string][]string, len(n.Inputs))
	for handle, refs := range n.Inputs {
		rewritten := make([]string, len(refs))
		for i, ref := range refs {
			srcID, srcHandle, err := ir.ParseRef(ref)
			if err != nil {
				rewritten[i] = ref
				continue
			}
			if canon, ok := remap[srcID]; ok {
				srcID = canon
			}
			rewritten[i] = ir.FormatRef(srcID, srcHandle)
		}
		newInputs[handle] = rewritten
	}
	n.Inputs = newInputs
	return n
}
