package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/demolab/internal/ui/tui"
)

func TestLaunch(t *testing.T) {
	env := setupHandlers(t)

	err := Launch(context.Background(), env.opts())
	require.NoError(t, err)

	require.Len(t, env.deployer.requests, 1)
	req := env.deployer.requests[0]
	assert.True(t, strings.HasPrefix(req.Name, "janeroe-kafka-"), req.Name)
	assert.Equal(t, "demo-key", req.Parameters["KeyName"])
	assert.Equal(t, "2", req.Parameters["TTL"])

	var details map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Parameters["SingleStoreConnDetails"]), &details))
	assert.Contains(t, details, "ws1")
	assert.Contains(t, details, "ws2")
	assert.Equal(t, "S3cret!pw", details["ws1"]["password"])

	out := env.out.String()
	assert.Contains(t, out, "demolab: "+req.Name)
	assert.Contains(t, out, "CREATE_COMPLETE")
	assert.Contains(t, out, req.Name+"-data")
	assert.Contains(t, env.errOut.String(), `"run"`, "JSON logs go to stderr")
}

func TestLaunch_DeployFailurePrintsPartialState(t *testing.T) {
	env := setupHandlers(t)
	env.deployer.err = errors.New("ROLLBACK_COMPLETE")

	err := Launch(context.Background(), env.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch failed")
	assert.Contains(t, err.Error(), "ROLLBACK_COMPLETE")

	out := env.out.String()
	assert.Contains(t, out, "Database")
	assert.Contains(t, out, "ws1")
	assert.NotContains(t, out, "Stack")
}

func TestLaunch_MissingAPIKey(t *testing.T) {
	env := setupHandlers(t)
	t.Setenv("SINGLESTORE_API_KEY", "")

	err := Launch(context.Background(), env.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SINGLESTORE_API_KEY")
	assert.Empty(t, env.api.Requests())
}

func TestLaunch_CloudSetupError(t *testing.T) {
	env := setupHandlers(t)
	env.cloudErr = errors.New("no AWS credentials")

	err := Launch(context.Background(), env.opts())
	require.EqualError(t, err, "no AWS credentials")
	assert.Empty(t, env.api.Requests())
}

func TestLaunch_InvalidConfig(t *testing.T) {
	env := setupHandlers(t)
	path := env.write(t, "bad.yaml", "template:\n  url: x.yaml\n")

	err := Launch(context.Background(), &Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner_email")
}

func TestDatabase(t *testing.T) {
	env := setupHandlers(t)

	err := Database(context.Background(), env.opts())
	require.NoError(t, err)

	assert.Empty(t, env.deployer.requests, "database only never deploys a stack")
	assert.Equal(t, 1, env.api.Count("POST", "/v1/workspaceGroups"))
	assert.Equal(t, 2, env.api.Count("POST", "/v1/workspaces"))
	assert.Contains(t, env.out.String(), "ws2")
}

func TestLaunch_InteractiveUsesTUI(t *testing.T) {
	env := setupHandlers(t)
	isInteractive = func() bool { return true }

	origTUI := runTUI
	t.Cleanup(func() { runTUI = origTUI })

	var gotPhases []string
	runTUI = func(ctx context.Context, _ string, phases []string, fn tui.RunFunc) error {
		gotPhases = phases
		return fn(ctx, tui.NewObserver(discard{}))
	}

	err := Launch(context.Background(), &Options{ConfigPath: env.configPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"credentials", "template", "database", "stack"}, gotPhases)
	require.Len(t, env.deployer.requests, 1)
	assert.Contains(t, env.out.String(), "CREATE_COMPLETE")
}

type discard struct{}

func (discard) Send(tea.Msg) {}
