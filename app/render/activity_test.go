package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

func testActivitySources() []ActivitySource {
	return []ActivitySource{
		{
			FrontMatter: FrontMatter{
				Title:       "Storage_quotas",
				Status:      "P&S Initiatives in flight",
				IssueURL:    "https://github.com/org/infra/issues/1",
				Repo:        "org/infra",
				IssueNumber: 1,
			},
			LocalLink: "initiative/issue-org-infra-1.md",
			Issue: &roadmap.Issue{
				State:     "OPEN",
				UpdatedAt: "2024-03-01T00:00:00Z",
				Children: []roadmap.ChildRef{
					{Number: 2, Title: "Old child", URL: "https://github.com/org/infra/issues/2", State: "CLOSED", Repo: "org/infra", UpdatedAt: "2024-01-01T00:00:00Z", Kind: roadmap.ChildKindIssue},
					{Number: 3, Title: "Fix [bug]", URL: "https://github.com/org/docs/pull/3", State: "MERGED", Repo: "org/docs", UpdatedAt: "2024-04-01T08:15:00Z", Kind: roadmap.ChildKindPullRequest},
					{Number: 4, Title: "Undated", URL: "https://github.com/org/infra/issues/4", State: "OPEN", Kind: roadmap.ChildKindIssue},
				},
			},
		},
		{
			FrontMatter: FrontMatter{Title: "Upcoming thing", Status: "Upcoming P&S initiatives", Repo: "org/infra", IssueNumber: 9},
			Issue:       &roadmap.Issue{State: "OPEN", UpdatedAt: "2025-01-01T00:00:00Z"},
		},
		{
			FrontMatter: FrontMatter{Title: "In progress elsewhere", Status: "In Progress", Repo: "org/infra", IssueNumber: 5},
			LocalLink:   "initiative/issue-org-infra-5.md",
			Issue:       &roadmap.Issue{State: "OPEN", UpdatedAt: "2024-02-01T00:00:00Z"},
		},
	}
}

func TestIsInProgress(t *testing.T) {
	assert.True(t, IsInProgress("P&S Initiatives in flight"))
	assert.True(t, IsInProgress("In Progress"))
	assert.False(t, IsInProgress("Done"))
	assert.False(t, IsInProgress(""))
}

func TestActivityRows_FlattenedAndSorted(t *testing.T) {
	rows := ActivityRows(testActivitySources())

	require.Len(t, rows, 5)

	var order []int
	for _, row := range rows {
		order = append(order, row.Number)
	}
	assert.Equal(t, []int{3, 1, 5, 2, 4}, order)

	assert.Equal(t, ActivityPullRequest, rows[0].Type)
	assert.Equal(t, "org/docs", rows[0].Repo)
	assert.Equal(t, "Storage_quotas", rows[0].ParentTitle)
	assert.Equal(t, ActivityInitiative, rows[1].Type)
	assert.Equal(t, ActivitySubIssue, rows[4].Type)
}

func TestActivityLogTable(t *testing.T) {
	lines := strings.Split(ActivityLogTable(ActivityRows(testActivitySources())), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "| Last updated | Type | Item | Parent Initiative | State | Issue |", lines[0])
	assert.Equal(t, "|--------------|------|------|-------------------|-------|-------|", lines[1])
	assert.Equal(t,
		`| 2024-04-01 08:15 UTC | Pull request | [#3 – Fix \[bug\]](https://github.com/org/docs/pull/3) | [Storage\_quotas](initiative/issue-org-infra-1.md) | Merged | [org/docs#3](https://github.com/org/docs/pull/3) |`,
		lines[2])
	assert.Equal(t,
		`| 2024-03-01 00:00 UTC | Initiative | [Storage\_quotas](initiative/issue-org-infra-1.md) | — | Open | [org/infra#1](https://github.com/org/infra/issues/1) |`,
		lines[3])
	assert.True(t, strings.HasPrefix(lines[6], "|  | Sub-issue | [#4 – Undated]"), lines[6])
}
