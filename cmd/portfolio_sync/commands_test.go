package main

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"all", "writings", "writing", "facts", "repositories"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("full"))
}

func TestWritingCmd_RequiresSlug(t *testing.T) {
	_, err := execute(t, "writing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestSyncCmd_RequiresSourceCredentials(t *testing.T) {
	t.Setenv("STORE_TYPE", "in_mem")
	t.Setenv("SEARCH_BACKEND", "bleve")
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := execute(t, "repositories", "--full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTION_API_KEY")
}

func TestNewLogger_JSONWhenNotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	newLogger(f, slog.LevelInfo).Info("synced", "count", 3)

	raw, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"synced"`)
	assert.Contains(t, string(raw), `"count":3`)
}
