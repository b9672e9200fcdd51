package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

const (
	ActivityInitiative  = "Initiative"
	ActivitySubIssue    = "Sub-issue"
	ActivityPullRequest = "Pull request"
)

// ActivitySource is one previously generated initiative page joined with
// freshly fetched issue details.
type ActivitySource struct {
	FrontMatter
	LocalLink string // initiative/<file>.md, relative to the docs root
	Issue     *roadmap.Issue
}

// ActivityRow is a single line of the activity log. Initiatives and their
// children share one flat list.
type ActivityRow struct {
	Type        string
	Title       string
	Link        string
	Number      int
	Repo        string
	IssueURL    string
	State       string
	UpdatedAt   string
	ParentTitle string
	ParentLink  string
}

func (r ActivityRow) IssueRef() string {
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}

// IsInProgress matches board statuses such as "P&S Initiatives in flight".
func IsInProgress(status string) bool {
	lower := strings.ToLower(status)
	return strings.Contains(lower, "in flight") || strings.Contains(lower, "in progress")
}

// ActivityRows flattens in-progress initiatives and their children into rows
// sorted by last update, newest first. Ties keep discovery order.
func ActivityRows(sources []ActivitySource) []ActivityRow {
	rows := make([]ActivityRow, 0)

	for _, source := range sources {
		if !IsInProgress(source.Status) || source.Issue == nil {
			continue
		}

		title := source.Title
		if title == "" {
			title = roadmap.CleanTitle(source.Issue.Title)
		}

		rows = append(rows, ActivityRow{
			Type:      ActivityInitiative,
			Title:     title,
			Link:      source.LocalLink,
			Number:    source.IssueNumber,
			Repo:      source.Repo,
			IssueURL:  source.IssueURL,
			State:     source.Issue.State,
			UpdatedAt: source.Issue.UpdatedAt,
		})

		for _, child := range source.Issue.Children {
			rowType := ActivitySubIssue
			if child.Kind == roadmap.ChildKindPullRequest {
				rowType = ActivityPullRequest
			}
			repo := child.Repo
			if repo == "" {
				repo = source.Repo
			}

			rows = append(rows, ActivityRow{
				Type:        rowType,
				Title:       child.Title,
				Link:        child.URL,
				Number:      child.Number,
				Repo:        repo,
				IssueURL:    child.URL,
				State:       child.State,
				UpdatedAt:   child.UpdatedAt,
				ParentTitle: title,
				ParentLink:  source.LocalLink,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b ActivityRow) int {
		return roadmap.ParseTimestamp(b.UpdatedAt).Compare(roadmap.ParseTimestamp(a.UpdatedAt))
	})

	return rows
}

func ActivityLogTable(rows []ActivityRow) string {
	lines := []string{
		"| Last updated | Type | Item | Parent Initiative | State | Issue |",
		"|--------------|------|------|-------------------|-------|-------|",
	}

	for _, row := range rows {
		item := fmt.Sprintf("[%s](%s)", EscapeCell(row.Title), row.Link)
		parent := "—"

		if row.Type != ActivityInitiative {
			if row.Number > 0 && row.Link != "" {
				item = fmt.Sprintf("[#%d – %s](%s)", row.Number, EscapeCell(row.Title), row.Link)
			}
			parent = fmt.Sprintf("[%s](%s)", EscapeCell(row.ParentTitle), row.ParentLink)
		}

		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | [%s](%s) |",
			roadmap.FormatDateTime(row.UpdatedAt),
			row.Type,
			item,
			parent,
			EscapeCell(TitleCase(row.State)),
			row.IssueRef(), row.IssueURL,
		))
	}

	return strings.Join(lines, "\n")
}
