package video

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	statuses []Status
	calls    atomic.Int32
	err      error
}

func (g *scriptedGenerator) CreateVideo(context.Context, CreateRequest) (*Job, error) {
	return nil, errors.New("not used")
}

func (g *scriptedGenerator) GetVideoStatus(_ context.Context, id string) (*Job, error) {
	if g.err != nil {
		return nil, g.err
	}
	n := int(g.calls.Add(1)) - 1
	if n >= len(g.statuses) {
		n = len(g.statuses) - 1
	}
	return &Job{ID: id, Status: g.statuses[n]}, nil
}

func (g *scriptedGenerator) DownloadVideoContent(context.Context, string, io.Writer, string) (int64, error) {
	return 0, nil
}
func (g *scriptedGenerator) SupportedModels() []string { return nil }
func (g *scriptedGenerator) ServiceName() string       { return "scripted" }

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusSucceeded, StatusFailed, StatusError} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusSucceeded.IsSuccess())
	assert.False(t, StatusError.IsSuccess())
}

func TestPollUntilComplete(t *testing.T) {
	gen := &scriptedGenerator{statuses: []Status{StatusQueued, StatusInProgress, StatusCompleted}}

	job, err := PollUntilComplete(context.Background(), gen, "job-1", time.Second, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, int32(3), gen.calls.Load())
}

func TestPollUntilComplete_Timeout(t *testing.T) {
	gen := &scriptedGenerator{statuses: []Status{StatusInProgress}}

	_, err := PollUntilComplete(context.Background(), gen, "job-1", 20*time.Millisecond, 5*time.Millisecond)

	assert.ErrorIs(t, err, ErrPollTimeout)
}

func TestPollUntilComplete_ParentCancelled(t *testing.T) {
	gen := &scriptedGenerator{statuses: []Status{StatusInProgress}}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	job, err := PollUntilComplete(ctx, gen, "job-1", time.Minute, 5*time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrPollTimeout)
	require.NotNil(t, job)
	assert.Equal(t, StatusInProgress, job.Status)
}

func TestPollUntilComplete_ParentAlreadyDone(t *testing.T) {
	gen := &scriptedGenerator{err: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PollUntilComplete(ctx, gen, "job-1", time.Minute, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollUntilComplete_ProviderError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("boom")}

	_, err := PollUntilComplete(context.Background(), gen, "job-1", time.Second, time.Millisecond)

	assert.EqualError(t, err, "boom")
}

func TestLookupModelAndCost(t *testing.T) {
	info := LookupModel("WAN-2.5")
	assert.Equal(t, "Alibaba (via Kie.ai)", info.Provider)
	assert.Equal(t, "Wan 2.5", info.Name)
	assert.Contains(t, info.Features, "lip-sync")
	assert.Equal(t, "Google (via Kie.ai)", LookupModel(ModelVeo31).Provider)
	assert.Equal(t, []string{"1280x720", "720x1280", "1024x1792", "1792x1024"}, LookupModel(ModelSora2).Resolutions)

	unknown := LookupModel("dall-e")
	assert.Equal(t, UnknownProvider, unknown.Provider)
	assert.Equal(t, "dall-e", unknown.Name)
	assert.Equal(t, "No information available", unknown.Description)

	assert.Equal(t, "0.06", EstimateCost(ModelSora2, 4).StringFixed(2))
	assert.Equal(t, "0.36", EstimateCost(ModelSora2Pro, 12).StringFixed(2))
	assert.Equal(t, "0.00", EstimateCost("unknown", 10).StringFixed(2))
}

func TestGeneration_Apply(t *testing.T) {
	job := NewJob("video_1", ModelSora2)
	job.Seconds = "4"
	g := NewGeneration(job, ProviderSora, "a cat", false)
	assert.Equal(t, StatusQueued, g.Status)
	assert.Nil(t, g.CompletedAt)

	now := time.Now()
	g.Apply(&Job{Status: StatusFailed, Error: &JobError{Message: "moderation"}}, now)
	assert.Equal(t, StatusFailed, g.Status)
	assert.Equal(t, "moderation", g.ErrorMessage)
	assert.Equal(t, ModelSora2, g.Model)
	assert.Equal(t, "4", g.Seconds)
	require.NotNil(t, g.CompletedAt)
}

func TestValidatePrompt(t *testing.T) {
	assert.ErrorIs(t, ValidatePrompt("  "), ErrPromptRequired)
	assert.NoError(t, ValidatePrompt("a dog surfing"))
}
