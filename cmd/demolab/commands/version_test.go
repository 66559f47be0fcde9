package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	cmd := Version()

	require.NotNil(t, cmd)
	assert.Equal(t, "version", cmd.Use)
	assert.Equal(t, "Print version information", cmd.Short)
}

func TestVersion_Output(t *testing.T) {
	// Save original values
	origVersion, origCommit, origDate := version, commit, date
	defer func() {
		version, commit, date = origVersion, origCommit, origDate
	}()

	SetVersionInfo("1.2.3", "abc123", "2026-10-18")

	cmd := Version()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "demolab 1.2.3\n  commit: abc123\n  built:  2026-10-18\n", out.String())
}

func TestVersion_ThroughRoot(t *testing.T) {
	root := Root()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version", "--deadline", "1m"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "demolab "+version)
}
