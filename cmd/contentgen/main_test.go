package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/app"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/config"
)

func testOpener(t *testing.T) opener {
	t.Helper()
	storage := t.TempDir()
	return func(ctx context.Context, _ string) (*app.App, error) {
		return app.New(ctx, &config.Config{
			App:      config.AppConfig{Name: "contentgen-cli-test", Env: "test"},
			Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
			Video: config.VideoConfig{
				StoragePath:    storage,
				MaxPollTimeout: time.Second,
				PollInterval:   10 * time.Millisecond,
				DefaultSeconds: 8,
				DefaultSize:    "1280x720",
			},
		}, zap.NewNop())
	}
}

func run(t *testing.T, open opener, stdin string, args ...string) (string, error) {
	t.Helper()
	root, c := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	require.NoError(t, c.close())
	return out.String(), err
}

func failingOpener(context.Context, string) (*app.App, error) {
	return nil, errors.New("opener must not be called")
}

func TestVideoModels(t *testing.T) {
	out, err := run(t, testOpener(t), "", "video", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "sora-2")
	assert.Contains(t, out, "veo-3.1")
}

func TestVideoModels_JSON(t *testing.T) {
	out, err := run(t, testOpener(t), "", "video", "models", "--json")
	require.NoError(t, err)

	var models map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &models))
	assert.NotEmpty(t, models)
}

func TestVideoCreate_RequiresPrompt(t *testing.T) {
	_, err := run(t, failingOpener, "", "video", "create", "--prompt", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--prompt")
}

func TestIdeasGenerate_InvalidArticle(t *testing.T) {
	_, err := run(t, failingOpener, "", "ideas", "generate", "--article", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --article")
}

func TestIdeasGenerate_MissingArticleFlag(t *testing.T) {
	_, err := run(t, failingOpener, "", "ideas", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "article")
}

func TestNewsFetch_UnknownSource(t *testing.T) {
	_, err := run(t, testOpener(t), "", "news", "fetch", "--source", "bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestYouTubeAuth_NotConfigured(t *testing.T) {
	_, err := run(t, testOpener(t), "", "youtube", "auth")
	require.Error(t, err)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeNotConfigured, de.Code)
}

func TestOpenerError(t *testing.T) {
	_, err := run(t, failingOpener, "", "video", "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opener must not be called")
}

func TestReadLine(t *testing.T) {
	line, err := readLine(strings.NewReader("  4/abc-code \nrest"))
	require.NoError(t, err)
	assert.Equal(t, "4/abc-code", line)

	line, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", line)
}
