package issue_test

import (
	"testing"

	"github.com/stratdsl/compiler/issue"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	i := issue.New(issue.CodeMissingExecutor, issue.EmptyContext, "no executor found", "")
	assert.Equal(t, "[MissingExecutor] no executor found", i.String())

	i2 := issue.New(issue.CodeOptionValueOutOfRange, issue.OptionSpecContext("sma_0", "period"),
		"period out of range", "Change option 'period' of node 'sma_0' to a value between 1 and 10000. Suggested value: 14.")
	assert.Contains(t, i2.String(), "—")
	assert.Contains(t, i2.String(), "Suggested value: 14.")
}

func TestFormatterGroups(t *testing.T) {
	issues := []issue.Issue{
		issue.New(issue.CodeInvalidEdge, issue.EmptyContext, "a", ""),
		issue.New(issue.CodeMissingExecutor, issue.EmptyContext, "b", ""),
		issue.New(issue.CodeInvalidEdge, issue.EmptyContext, "c", ""),
	}
	out := issue.NewFormatter().Format(issues)
	assert.Contains(t, out, "InvalidEdge (2):")
	assert.Contains(t, out, "MissingExecutor (1):")

	grouped := issue.GroupByCode(issues)
	assert.Len(t, grouped[issue.CodeInvalidEdge], 2)
	assert.Len(t, grouped[issue.CodeMissingExecutor], 1)
}

func TestFormatterEmpty(t *testing.T) {
	assert.Equal(t, "", issue.NewFormatter().Format(nil))
}
