package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	db     string
	config string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	return &cli{
		t:      t,
		db:     filepath.Join(dir, "prayz.db"),
		config: filepath.Join(dir, "missing.yaml"),
	}
}

// run executes one command line against the test database and returns
// its output. Flags are reset first since the command tree is shared.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--db", c.db, "--config", c.config, "--log-level", "disabled"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestListLifecycle(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("list", "ls"), "No lists yet")
	assert.Contains(t, c.mustRun("list", "add", "Family"), "Added list 1: Family")
	c.mustRun("list", "add", "Church", "friends")

	out := c.mustRun("list", "ls")
	assert.Contains(t, out, "Family")
	assert.Contains(t, out, "Church friends")

	assert.Contains(t, c.mustRun("list", "exclude", "2"), "excluded from")
	out = c.mustRun("list", "ls")
	lines := strings.Split(out, "\n")
	var churchLine string
	for _, l := range lines {
		if strings.Contains(l, "Church") {
			churchLine = l
		}
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(churchLine), "no"))

	c.mustRun("list", "include", "2")
	c.mustRun("list", "rename", "2", "Church")
	c.mustRun("list", "rm", "1")
	out = c.mustRun("list", "ls")
	assert.NotContains(t, out, "Family")
	assert.Contains(t, out, "Church")
}

func TestTopicAndRequestCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("list", "add", "Family")
	c.mustRun("list", "add", "Work")
	assert.Contains(t, c.mustRun("topic", "add", "1", "Parents"), "Added topic 1: Parents")

	assert.Contains(t, c.mustRun("request", "add", "1", "Mom's", "health", "--priority", "3"),
		"Added request 1: Mom's health")
	c.mustRun("request", "add", "1", "Dad's job")

	out := c.mustRun("request", "ls")
	assert.Contains(t, out, "Mom's health")
	assert.Contains(t, out, "2 requests")

	c.mustRun("request", "priority", "2", "5")
	_, err := c.run("request", "priority", "2", "9")
	assert.Error(t, err)

	assert.Contains(t, c.mustRun("request", "answer", "1", "Recovered"), "Praise!")
	_, err = c.run("request", "answer", "1")
	assert.ErrorContains(t, err, "already answered")

	c.mustRun("request", "archive", "2")
	assert.Contains(t, c.mustRun("request", "ls"), "0 requests")

	out = c.mustRun("request", "ls", "--all")
	assert.Contains(t, out, "answered")
	assert.Contains(t, out, "archived")

	assert.Contains(t, c.mustRun("stats"), "Requests answered")

	c.mustRun("topic", "mv", "1", "2")
	out = c.mustRun("topic", "ls", "--list", "2")
	assert.Contains(t, out, "Parents")
	assert.Contains(t, out, "1 topics")

	c.mustRun("request", "rm", "2")
	c.mustRun("topic", "rm", "1")
	assert.Contains(t, c.mustRun("topic", "ls"), "0 topics")
}

func TestInvalidIDs(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("list", "rm", "abc")
	assert.ErrorContains(t, err, "invalid list id")

	_, err = c.run("list", "rm", "42")
	assert.ErrorContains(t, err, "not found")

	_, err = c.run("topic", "add", "7", "Orphan")
	assert.Error(t, err)
}

func TestSettingsCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("settings")
	assert.Contains(t, out, "60 min")
	assert.Contains(t, out, "shuffle      true")

	c.mustRun("settings", "set", "time", "unlimited")
	c.mustRun("settings", "set", "count", "5")
	out = c.mustRun("settings", "show")
	assert.Contains(t, out, "Unlimited")
	assert.Contains(t, out, "count        5")

	_, err := c.run("settings", "set", "time", "90")
	assert.Error(t, err)
	_, err = c.run("settings", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown setting")
}

func TestStatsReset(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("stats"), "Sessions")
	assert.Contains(t, c.mustRun("stats", "--reset"), "Stats reset.")
}

func TestResetRequiresConfirmation(t *testing.T) {
	c := newCLI(t)
	c.mustRun("list", "add", "Family")

	assert.Contains(t, c.mustRun("reset"), "Aborted.")
	assert.Contains(t, c.mustRun("list", "ls"), "Family")

	assert.Contains(t, c.mustRun("reset", "--yes"), "All prayer data deleted.")
	assert.Contains(t, c.mustRun("list", "ls"), "No lists yet")
}

func TestCleanup(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("cleanup"), "Removed 0 duplicate topic links")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("version"), "prayz (devel)")
}
