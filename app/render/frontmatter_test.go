package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

func testInitiative() *roadmap.Initiative {
	return &roadmap.Initiative{
		Issue: roadmap.Issue{
			Title:     "[P&S] Platform initiative: storage # quotas",
			Body:      "Give hubs quotas.",
			URL:       "https://github.com/2i2c-org/infrastructure/issues/42",
			UpdatedAt: "2024-05-01T10:00:00Z",
			State:     "OPEN",
			Children: []roadmap.ChildRef{
				{Number: 43, Title: "Add quota_limits", URL: "https://github.com/2i2c-org/infrastructure/issues/43", State: "OPEN", Repo: "2i2c-org/infrastructure", UpdatedAt: "2024-05-02T09:30:00Z", Kind: roadmap.ChildKindIssue},
				{Number: 50, Title: "Enforce quotas", URL: "https://github.com/2i2c-org/infrastructure/pull/50", State: "MERGED", Repo: "2i2c-org/infrastructure", UpdatedAt: "2024-05-03T12:00:00Z", Kind: roadmap.ChildKindPullRequest},
			},
		},
		Status:           "P&S Initiatives in flight",
		Repo:             "2i2c-org/infrastructure",
		Number:           42,
		OriginalTitle:    "[P&S] Platform initiative: storage # quotas",
		DisplayTitle:     "Platform initiative: storage # quotas",
		Filename:         "issue-2i2c-org-infrastructure-42",
		ShortDescription: "Give hubs quotas.",
		FundingLabels:    []string{"Co-funded"},
	}
}

func TestFrontMatter_RoundTrip(t *testing.T) {
	initiative := testInitiative()

	block, err := NewFrontMatter(initiative).Marshal()
	require.NoError(t, err)
	assert.Contains(t, block, "---\ntitle: ")

	parsed, err := ParseFrontMatter([]byte(block + "\n# Body\n"))
	require.NoError(t, err)

	assert.Equal(t, initiative.DisplayTitle, parsed.Title)
	assert.Equal(t, initiative.URL, parsed.IssueURL)
	assert.Equal(t, initiative.Status, parsed.Status)
	assert.Equal(t, 42, parsed.IssueNumber)
	assert.Equal(t, "2024-05-01T10:00:00Z", parsed.UpdatedAt)
	assert.Equal(t, []string{"Co-funded"}, parsed.Funding)
}

func TestParseFrontMatter_LineFallback(t *testing.T) {
	content := `---
title: Platform initiative: storage
issue_url: "https://github.com/org/infra/issues/3"
status: P&S Initiatives in flight
issue_number: 3
---
Body`

	parsed, err := ParseFrontMatter([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "Platform initiative: storage", parsed.Title)
	assert.Equal(t, "https://github.com/org/infra/issues/3", parsed.IssueURL)
	assert.Equal(t, "P&S Initiatives in flight", parsed.Status)
	assert.Equal(t, 3, parsed.IssueNumber)
}

func TestParseFrontMatter_Missing(t *testing.T) {
	_, err := ParseFrontMatter([]byte("# Just a page\n"))
	assert.ErrorIs(t, err, ErrNoFrontMatter)

	_, err = ParseFrontMatter([]byte("---\ntitle: unterminated\n"))
	assert.ErrorIs(t, err, ErrNoFrontMatter)
}

func TestParseIssueURL(t *testing.T) {
	repo, number, err := ParseIssueURL("https://github.com/2i2c-org/infrastructure/issues/42")
	require.NoError(t, err)
	assert.Equal(t, "2i2c-org/infrastructure", repo)
	assert.Equal(t, 42, number)

	repo, number, err = ParseIssueURL("https://github.com/org/docs/issues/7#issuecomment-1")
	require.NoError(t, err)
	assert.Equal(t, "org/docs", repo)
	assert.Equal(t, 7, number)

	for _, bad := range []string{"", "https://github.com/org/repo", "https://github.com/org/repo/issues/abc", "https://github.com/org/repo/issues/0"} {
		_, _, err := ParseIssueURL(bad)
		assert.Error(t, err, bad)
	}
}
