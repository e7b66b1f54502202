package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "config.yaml"),
		"--backend", "sqlite",
		"--data-dir", c.dir,
		"--log-level", "error",
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCLI_RequiresLogin(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}

func TestCLI_HistoryRoundTrip(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "u1")
	assert.Equal(t, "u1\n", c.mustRun("whoami"))

	assert.Contains(t, c.mustRun("history", "add", "hello", "world"), "saved")
	assert.Contains(t, c.mustRun("history", "add", "hello", "world"), "(ignored)")
	assert.Contains(t, c.mustRun("history", "add", "second"), "saved")

	out := c.mustRun("history", "list", "-q", "HELLO")
	assert.Contains(t, out, "hello world")
	assert.NotContains(t, out, "second")

	out = c.mustRun("history", "clear")
	assert.Contains(t, out, "cleared 2 items")
	assert.Contains(t, c.mustRun("history", "list"), "(empty)")
}

func TestCLI_CategoriesAreSeededAndReserved(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "u1")

	out := c.mustRun("category", "list")
	assert.Contains(t, out, "general General")
	assert.Contains(t, out, "code Code Fragments")

	out = c.mustRun("category", "delete", "general")
	assert.Contains(t, out, "reserved")
	assert.Contains(t, c.mustRun("category", "list"), "general General")
}

func TestCLI_Snippets(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "u1")

	c.mustRun("snippet", "add", "--name", "status", "--content", "git status -sb", "--category", "code")
	out := c.mustRun("snippet", "list", "--category", "code")
	require.Contains(t, out, "status: git status -sb")

	id := strings.Fields(out)[0]
	c.mustRun("snippet", "edit", id, "--content", "git status")
	assert.Contains(t, c.mustRun("snippet", "list", "-q", "STATUS"), "status: git status\n")

	c.mustRun("snippet", "delete", id)
	assert.Contains(t, c.mustRun("snippet", "list"), "(empty)")
}

func TestCLI_Theme(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "system\n", c.mustRun("theme"))
	c.mustRun("theme", "dark")
	assert.Equal(t, "dark\n", c.mustRun("theme"))
	_, err := c.run("theme", "sepia")
	require.Error(t, err)
}

func TestCLI_BadLogLevel(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("--log-level", "loud", "whoami")
	require.Error(t, err)
}
