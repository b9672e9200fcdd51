package github

import (
	"encoding/json"
)

// GraphQL envelope

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

// Board items

type projectItemsData struct {
	Organization *struct {
		ProjectV2 *struct {
			Items struct {
				PageInfo pageInfo      `json:"pageInfo"`
				Nodes    []projectItem `json:"nodes"`
			} `json:"items"`
		} `json:"projectV2"`
	} `json:"organization"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type projectItem struct {
	IsArchived       bool `json:"isArchived"`
	FieldValueByName *struct {
		Name string `json:"name"`
	} `json:"fieldValueByName"`
	Content *struct {
		Number     int        `json:"number"`
		Title      string     `json:"title"`
		Repository repository `json:"repository"`
	} `json:"content"`
}

type repository struct {
	NameWithOwner string `json:"nameWithOwner"`
}

// Issue details

type issueData struct {
	Repository *struct {
		Issue *issueNode `json:"issue"`
	} `json:"repository"`
}

type issueNode struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	UpdatedAt   string `json:"updatedAt"`
	ClosedAt    string `json:"closedAt"`
	State       string `json:"state"`
	StateReason string `json:"stateReason"`
	Labels      struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	TrackedIssues struct {
		Nodes []childNode `json:"nodes"`
	} `json:"trackedIssues"`
	SubIssues struct {
		Nodes []childNode `json:"nodes"`
	} `json:"subIssues"`
	ClosedByPullRequestsReferences struct {
		Nodes []childNode `json:"nodes"`
	} `json:"closedByPullRequestsReferences"`
}

type childNode struct {
	Number     int         `json:"number"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	State      string      `json:"state"`
	UpdatedAt  string      `json:"updatedAt"`
	Repository *repository `json:"repository"`
}
