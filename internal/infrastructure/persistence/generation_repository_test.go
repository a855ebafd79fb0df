package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/video"
)

func TestGormGenerationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormGenerationRepository(newTestDatabase(t).DB)

	queued := video.NewGeneration(&video.Job{ID: "video_1", Model: video.ModelSora2, Status: video.StatusQueued}, video.ProviderSora, "a", false)
	queued.CreatedAt = time.Now().UTC().Add(-time.Minute)
	running := video.NewGeneration(&video.Job{ID: "task_2", Model: "kie-veo-3.1", Status: video.StatusInProgress}, video.ProviderKieVeo, "b", false)
	done := video.NewGeneration(&video.Job{ID: "video_3", Model: video.ModelSora2, Status: video.StatusCompleted}, video.ProviderSora, "c", true)
	done.LocalPath = "videos/video_3.mp4"
	stranded := video.NewGeneration(&video.Job{ID: "task_4", Model: "kie-veo-3.1", Status: video.StatusCompleted}, video.ProviderKieVeo, "d", false)
	failed := video.NewGeneration(&video.Job{ID: "video_5", Model: "kie-veo-3.1", Status: video.StatusFailed}, video.ProviderKieVeo, "e", false)

	for _, g := range []*video.Generation{queued, running, done, stranded, failed} {
		require.NoError(t, repo.Save(ctx, g))
	}

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "video_1", pending[0].ID)
	ids := []string{pending[0].ID, pending[1].ID, pending[2].ID}
	assert.ElementsMatch(t, []string{"video_1", "task_2", "task_4"}, ids)

	items, total, err := repo.List(ctx, video.Filter{Model: video.ModelSora2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	completed := video.StatusCompleted
	items, _, err = repo.List(ctx, video.Filter{Status: &completed, Model: video.ModelSora2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].FellBack)
	assert.NotNil(t, items[0].CompletedAt)

	queued.Apply(&video.Job{Status: video.StatusCompleted, Progress: 100}, time.Now())
	queued.LocalPath = "videos/video_1.mp4"
	require.NoError(t, repo.Save(ctx, queued))

	found, err := repo.FindByID(ctx, "video_1")
	require.NoError(t, err)
	assert.True(t, found.IsDownloaded())
	assert.Equal(t, 100, found.Progress)

	require.NoError(t, repo.Delete(ctx, "video_1"))
	_, err = repo.FindByID(ctx, "video_1")
	assert.ErrorIs(t, err, video.ErrGenerationNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "video_1"), video.ErrGenerationNotFound)
}
