package issue

import (
	"fmt"
	"sort"
	"strings"
)

// Formatter renders a batch of issues for human consumption, grouping
// repeated codes as spec §7 requires ("grouping repeated codes").
type Formatter struct{}

// NewFormatter constructs a Formatter. It carries no state; it exists as a
// type (rather than a bare function) to mirror the teacher's convention of
// giving every stateless operation a named type with room to grow options.
func NewFormatter() Formatter { return Formatter{} }

// Format renders issues grouped by Code, each group header followed by its
// member lines, codes and members both in stable (first-seen) order so
// output is deterministic across runs for the same input slice.
func (Formatter) Format(issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}

	var order []Code
	groups := make(map[Code][]Issue)
	for _, iss := range issues {
		if _, seen := groups[iss.Code]; !seen {
			order = append(order, iss.Code)
		}
		groups[iss.Code] = append(groups[iss.Code], iss)
	}

	var b strings.Builder
	for gi, code := range order {
		members := groups[code]
		if gi > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%d):\n", code, len(members))
		for _, m := range members {
			b.WriteString("  ")
			b.WriteString(m.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// GroupByCode partitions issues by Code for programmatic consumers that
// want counts without the rendered text, e.g. a test asserting "exactly one
// MissingExecutor".
func GroupByCode(issues []Issue) map[Code][]Issue {
	groups := make(map[Code][]Issue)
	for _, iss := range issues {
		groups[iss.Code] = append(groups[iss.Code], iss)
	}
	return groups
}

// Codes returns the distinct codes present in issues, sorted lexically.
func Codes(issues []Issue) []Code {
	seen := make(map[Code]bool)
	var out []Code
	for _, iss := range issues {
		if !seen[iss.Code] {
			seen[iss.Code] = true
			out = append(out, iss.Code)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
