package github

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCommand struct {
	name string
	args []string
}

func fakeRunner(stdout, stderr string, err error, recorded *[]recordedCommand) CommandRunner {
	return func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		*recorded = append(*recorded, recordedCommand{name: name, args: args})
		return []byte(stdout), []byte(stderr), err
	}
}

func TestCLITransport_Query(t *testing.T) {
	var recorded []recordedCommand
	transport := NewCLITransportWithRunner("gh", fakeRunner(`{"data":{"viewer":{"login":"octo"}}}`, "", nil, &recorded))

	data, err := transport.Query(context.Background(), "query { viewer { login } }", map[string]any{
		"org":    "2i2c-org",
		"number": 57,
		"after":  nil,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"viewer":{"login":"octo"}}`, string(data))

	require.Len(t, recorded, 1)
	assert.Equal(t, "gh", recorded[0].name)
	assert.Equal(t, []string{
		"api", "graphql",
		"-f", "query=query { viewer { login } }",
		"-F", "number=57",
		"-f", "org=2i2c-org",
	}, recorded[0].args)
}

func TestCLITransport_QueryErrors(t *testing.T) {
	var recorded []recordedCommand

	transport := NewCLITransportWithRunner("gh", fakeRunner(`{"errors":[{"message":"Field 'x' doesn't exist"}]}`, "", errors.New("exit status 1"), &recorded))
	_, err := transport.Query(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field 'x' doesn't exist")

	transport = NewCLITransportWithRunner("gh", fakeRunner("", "HTTP 502", errors.New("exit status 1"), &recorded))
	_, err = transport.Query(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")

	transport = NewCLITransportWithRunner("gh", fakeRunner("not json", "", nil, &recorded))
	_, err = transport.Query(context.Background(), "q", nil)
	assert.Error(t, err)
}

func TestCLITransport_QueryPartialData(t *testing.T) {
	var recorded []recordedCommand
	body := `{"data":{"repository":{"issue":null}},"errors":[{"type":"NOT_FOUND","message":"Could not resolve"}]}`
	transport := NewCLITransportWithRunner("gh", fakeRunner(body, "", errors.New("exit status 1"), &recorded))

	data, err := transport.Query(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"repository":{"issue":null}}`, string(data))
}

func TestCLITransport_Verify(t *testing.T) {
	var recorded []recordedCommand

	ok := NewCLITransportWithRunner("gh", fakeRunner("", "", nil, &recorded))
	assert.NoError(t, ok.Verify(context.Background()))
	assert.Equal(t, []string{"auth", "status"}, recorded[0].args)

	missing := NewCLITransportWithRunner("gh", fakeRunner("", "", &exec.Error{Name: "gh", Err: exec.ErrNotFound}, &recorded))
	err := missing.Verify(context.Background())
	assert.ErrorIs(t, err, ErrCLINotFound)
	assert.Contains(t, err.Error(), "https://cli.github.com/")

	loggedOut := NewCLITransportWithRunner("gh", fakeRunner("", "You are not logged into any GitHub hosts.", &exec.ExitError{}, &recorded))
	err = loggedOut.Verify(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "gh auth login")
}
