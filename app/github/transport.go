package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated with GitHub")
	ErrCLINotFound      = errors.New("gh CLI not found")
	ErrIssueNotFound    = errors.New("issue not found")
)

// Transport executes GraphQL queries against GitHub. Query returns the
// "data" member of the response.
type Transport interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
	Verify(ctx context.Context) error
}

// decodeResponse unwraps a GraphQL envelope. Partial data is returned with a
// warning; errors without data fail the query.
func decodeResponse(body []byte) (json.RawMessage, error) {
	var response graphQLResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}
	return unwrap(response)
}

func unwrap(response graphQLResponse) (json.RawMessage, error) {
	hasData := len(response.Data) > 0 && !bytes.Equal(bytes.TrimSpace(response.Data), []byte("null"))

	if len(response.Errors) > 0 {
		messages := make([]string, 0, len(response.Errors))
		for _, e := range response.Errors {
			messages = append(messages, e.Message)
		}
		joined := strings.Join(messages, "; ")

		if !hasData {
			return nil, fmt.Errorf("GraphQL error: %s", joined)
		}
		slog.Warn("GraphQL partial response", "errors", joined)
	}

	if !hasData {
		return nil, errors.New("GraphQL response has no data")
	}
	return response.Data, nil
}
