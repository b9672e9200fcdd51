package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// Client reads the project board and issue details through a Transport.
type Client struct {
	transport   Transport
	statusField string
}

func NewClient(transport Transport, statusField string) *Client {
	if statusField == "" {
		statusField = roadmap.DefaultStatusField
	}
	return &Client{transport: transport, statusField: statusField}
}

func (c *Client) Verify(ctx context.Context) error {
	return c.transport.Verify(ctx)
}

// FetchProjectItems returns every non-archived issue on the board in board
// order. It never fails: errors are logged and yield an empty result.
func (c *Client) FetchProjectItems(ctx context.Context, org string, number int) []roadmap.BoardItem {
	items := make([]roadmap.BoardItem, 0)
	var cursor string

	for page := 1; ; page++ {
		variables := map[string]any{
			"org":         org,
			"number":      number,
			"statusField": c.statusField,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		raw, err := c.transport.Query(ctx, projectItemsQuery, variables)
		if err != nil {
			slog.Error("Failed to fetch project items", "org", org, "project", number, "page", page, "error", err)
			return make([]roadmap.BoardItem, 0)
		}

		var data projectItemsData
		if err := json.Unmarshal(raw, &data); err != nil {
			slog.Error("Failed to parse project items", "org", org, "project", number, "page", page, "error", err)
			return make([]roadmap.BoardItem, 0)
		}
		if data.Organization == nil || data.Organization.ProjectV2 == nil {
			slog.Error("Project not found", "org", org, "project", number)
			return make([]roadmap.BoardItem, 0)
		}

		connection := data.Organization.ProjectV2.Items
		for _, node := range connection.Nodes {
			if node.IsArchived || node.Content == nil || node.Content.Number == 0 {
				continue
			}

			item := roadmap.BoardItem{
				Title:  node.Content.Title,
				Repo:   node.Content.Repository.NameWithOwner,
				Number: node.Content.Number,
			}
			if node.FieldValueByName != nil {
				item.Status = node.FieldValueByName.Name
			}
			items = append(items, item)
		}

		slog.Debug("Fetched project items page", "page", page, "items", len(connection.Nodes))

		if !connection.PageInfo.HasNextPage || connection.PageInfo.EndCursor == "" {
			break
		}
		cursor = connection.PageInfo.EndCursor
	}

	return items
}

// FetchIssue loads one issue with labels and linked children. Children are
// merged from tracked issues, sub-issues and closing pull requests, in that
// order; the first occurrence of a (repo, number) pair wins.
func (c *Client) FetchIssue(ctx context.Context, repo string, number int) (*roadmap.Issue, error) {
	owner, name, err := roadmap.SplitRepo(repo)
	if err != nil {
		return nil, err
	}

	raw, err := c.transport.Query(ctx, issueQuery, map[string]any{
		"owner":  owner,
		"repo":   name,
		"number": number,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s#%d: %w", repo, number, err)
	}

	var data issueData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s#%d: %w", repo, number, err)
	}
	if data.Repository == nil || data.Repository.Issue == nil {
		return nil, fmt.Errorf("%s#%d: %w", repo, number, ErrIssueNotFound)
	}

	node := data.Repository.Issue
	issue := &roadmap.Issue{
		Title:       node.Title,
		Body:        node.Body,
		URL:         node.URL,
		Labels:      make([]string, 0, len(node.Labels.Nodes)),
		UpdatedAt:   node.UpdatedAt,
		ClosedAt:    node.ClosedAt,
		State:       node.State,
		StateReason: node.StateReason,
	}
	for _, label := range node.Labels.Nodes {
		issue.Labels = append(issue.Labels, label.Name)
	}

	issue.Children = mergeChildren(repo,
		childGroup{roadmap.ChildKindIssue, node.TrackedIssues.Nodes},
		childGroup{roadmap.ChildKindIssue, node.SubIssues.Nodes},
		childGroup{roadmap.ChildKindPullRequest, node.ClosedByPullRequestsReferences.Nodes},
	)

	return issue, nil
}

type childGroup struct {
	kind  roadmap.ChildKind
	nodes []childNode
}

type childKey struct {
	repo   string
	number int
}

func mergeChildren(parentRepo string, groups ...childGroup) []roadmap.ChildRef {
	children := make([]roadmap.ChildRef, 0)
	seen := make(map[childKey]bool)

	for _, group := range groups {
		for _, node := range group.nodes {
			repo := parentRepo
			if node.Repository != nil && node.Repository.NameWithOwner != "" {
				repo = node.Repository.NameWithOwner
			}

			key := childKey{repo: repo, number: node.Number}
			if seen[key] {
				continue
			}
			seen[key] = true

			children = append(children, roadmap.ChildRef{
				Number:    node.Number,
				Title:     node.Title,
				URL:       node.URL,
				State:     node.State,
				Repo:      repo,
				UpdatedAt: node.UpdatedAt,
				Kind:      group.kind,
			})
		}
	}

	return children
}
