package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// CommandRunner runs an external command and returns its stdout and stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CLITransport shells out to the GitHub CLI and reuses its stored credentials.
type CLITransport struct {
	binary string
	run    CommandRunner
}

func NewCLITransport() *CLITransport {
	return &CLITransport{binary: "gh", run: execRunner}
}

// NewCLITransportWithRunner replaces process execution, mainly for tests.
func NewCLITransportWithRunner(binary string, run CommandRunner) *CLITransport {
	return &CLITransport{binary: binary, run: run}
}

func (t *CLITransport) Verify(ctx context.Context) error {
	_, stderr, err := t.run(ctx, t.binary, "auth", "status")
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: install from https://cli.github.com/", ErrCLINotFound)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: run: gh auth login (%s)", ErrNotAuthenticated, strings.TrimSpace(string(stderr)))
	}
	return fmt.Errorf("failed to run %s auth status: %w", t.binary, err)
}

func (t *CLITransport) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	args := append([]string{"api", "graphql", "-f", "query=" + query}, variableArgs(variables)...)

	stdout, stderr, err := t.run(ctx, t.binary, args...)
	if err != nil {
		// gh exits non-zero on GraphQL errors but still prints the body
		if len(bytes.TrimSpace(stdout)) > 0 {
			return decodeResponse(stdout)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: install from https://cli.github.com/", ErrCLINotFound)
		}
		return nil, fmt.Errorf("gh api graphql failed: %w: %s", err, strings.TrimSpace(string(stderr)))
	}

	return decodeResponse(stdout)
}

// variableArgs renders variables as gh flags: -F for typed values, -f for
// raw strings. Nil values are omitted. Keys are sorted for stable commands.
func variableArgs(variables map[string]any) []string {
	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		switch v := variables[k].(type) {
		case nil:
		case string:
			args = append(args, "-f", fmt.Sprintf("%s=%s", k, v))
		default:
			args = append(args, "-F", fmt.Sprintf("%s=%v", k, v))
		}
	}
	return args
}
