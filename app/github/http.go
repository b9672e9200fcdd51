package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v72/github"
)

// HTTPTransport talks to the GraphQL endpoint directly with a token.
type HTTPTransport struct {
	client *gh.Client
}

// NewHTTPTransport builds a token-authenticated transport. apiURL points at
// a GitHub Enterprise REST root such as https://host/api/v3/; empty means
// api.github.com.
func NewHTTPTransport(token, apiURL string) (*HTTPTransport, error) {
	client := gh.NewClient(nil).WithAuthToken(token)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		client.BaseURL = base
	}

	return NewHTTPTransportWithClient(client), nil
}

func NewHTTPTransportWithClient(client *gh.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Verify(ctx context.Context) error {
	user, _, err := t.client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("%w: check GITHUB_TOKEN (%v)", ErrNotAuthenticated, err)
	}
	slog.Debug("Authenticated with GitHub", "login", user.GetLogin())
	return nil
}

func (t *HTTPTransport) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	req, err := t.client.NewRequest("POST", t.graphQLURL(), graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL request: %w", err)
	}

	var response graphQLResponse
	if _, err := t.client.Do(ctx, req, &response); err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}

	return unwrap(response)
}

// graphQLURL maps the REST base onto the GraphQL endpoint. Enterprise
// servers serve it at /api/graphql next to /api/v3/.
func (t *HTTPTransport) graphQLURL() string {
	base := *t.client.BaseURL
	if strings.HasSuffix(base.Path, "/api/v3/") {
		base.Path = strings.TrimSuffix(base.Path, "v3/") + "graphql"
		return base.String()
	}
	return base.String() + "graphql"
}
