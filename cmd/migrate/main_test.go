package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

func sqliteLoader() (*config.DatabaseConfig, error) {
	return &config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil
}

func unusedLoader() (*config.DatabaseConfig, error) {
	return nil, errors.New("database must not be loaded")
}

func run(t *testing.T, load dbLoader, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestCreateAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, unusedLoader, "create", "Add Video Tags", "tags column", "--path", dir)
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "_add_video_tags.up.sql"))
	assert.FileExists(t, lines[1])

	out, err = run(t, unusedLoader, "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "_add_video_tags")
	assert.NotContains(t, out, ".sql")
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, unusedLoader, "list", "--path", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Contains(t, out, "No migrations found")
}

func TestList_RepositoryMigrations(t *testing.T) {
	out, err := run(t, unusedLoader, "list", "--path", filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, out, "000001_create_news_and_ideas")
	assert.Contains(t, out, "000003_create_publishing")
}

func TestSchemaCommands_RejectSQLite(t *testing.T) {
	for _, args := range [][]string{{"up"}, {"down"}, {"version"}, {"step", "1"}, {"goto", "2"}, {"force", "1"}} {
		t.Run(args[0], func(t *testing.T) {
			_, err := run(t, sqliteLoader, append(args, "--path", t.TempDir())...)
			assert.ErrorIs(t, err, errUnsupportedDriver)
		})
	}
}

func TestSchemaCommands_ArgValidation(t *testing.T) {
	_, err := run(t, unusedLoader, "step")
	assert.Error(t, err)

	_, err = run(t, unusedLoader, "create")
	assert.Error(t, err)
}

func TestDrop_RequiresConfirm(t *testing.T) {
	_, err := run(t, unusedLoader, "drop", "--path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--confirm")
}

func TestLoaderError(t *testing.T) {
	_, err := run(t, unusedLoader, "up", "--path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be loaded")
}

func TestResolveMigrationsPath(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveMigrationsPath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = resolveMigrationsPath("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.True(t, strings.HasPrefix(got, wd) || strings.HasSuffix(got, defaultMigrationsPath))
}
