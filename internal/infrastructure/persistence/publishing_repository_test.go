package persistence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/publishing"
)

type reverseCipher struct{}

func (reverseCipher) Encrypt(plain string) (string, error) { return "x:" + reverse(plain), nil }
func (reverseCipher) Decrypt(stored string) (string, error) {
	return reverse(strings.TrimPrefix(stored, "x:")), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func newPublished(t *testing.T, videoID string) *publishing.PublishedVideo {
	t.Helper()
	v, err := publishing.NewPublishedVideo(videoID, publishing.PlatformYouTube, publishing.Metadata{Title: "T", Tags: []string{"x"}}, nil)
	require.NoError(t, err)
	return v
}

func TestGormPublishedVideoRepository_ListDue(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPublishedVideoRepository(newTestDatabase(t).DB)
	now := time.Now().UTC()

	due := newPublished(t, "v1")
	due.Schedule(now.Add(-time.Minute))
	later := newPublished(t, "v2")
	later.Schedule(now.Add(time.Hour))
	draft := newPublished(t, "v3")

	for _, v := range []*publishing.PublishedVideo{due, later, draft} {
		require.NoError(t, repo.Save(ctx, v))
	}

	items, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "v1", items[0].VideoID)
	assert.Equal(t, []string{"x"}, items[0].Tags)
}

func TestGormPublishedVideoRepository_ListForAnalytics(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPublishedVideoRepository(newTestDatabase(t).DB)
	now := time.Now().UTC()

	fresh := newPublished(t, "fresh")
	fresh.MarkPublished("yt1", "u1", now)
	fresh.UpdateAnalytics(publishing.Stats{Views: 1}, now)
	never := newPublished(t, "never")
	never.MarkPublished("yt2", "u2", now)
	failed := newPublished(t, "failed")
	failed.MarkFailed(nil)

	for _, v := range []*publishing.PublishedVideo{fresh, never, failed} {
		require.NoError(t, repo.Save(ctx, v))
	}

	items, err := repo.ListForAnalytics(ctx, publishing.PlatformYouTube, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "never", items[0].VideoID)
}

func TestGormPublishedVideoRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPublishedVideoRepository(newTestDatabase(t).DB)

	a := newPublished(t, "same")
	b := newPublished(t, "same")
	b.MarkFailed(nil)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	failed := publishing.StatusFailed
	items, total, err := repo.List(ctx, publishing.Filter{VideoID: "same", Status: &failed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 1, items[0].RetryCount)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, publishing.ErrPublishedVideoNotFound)
}

func TestGormCredentialRepository_EncryptsAndUpserts(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	repo := NewGormCredentialRepository(db.DB, reverseCipher{})

	c := publishing.NewPlatformCredential(publishing.PlatformYouTube)
	c.UpdateTokens("access", "refresh", nil, time.Now())
	c.ChannelID = "UC1"
	require.NoError(t, repo.Save(ctx, c))

	var raw string
	require.NoError(t, db.DB.Raw("SELECT access_token FROM platform_credentials WHERE platform = ?", "youtube").Scan(&raw).Error)
	assert.Equal(t, "x:"+reverse("access"), raw)

	second := publishing.NewPlatformCredential(publishing.PlatformYouTube)
	second.UpdateTokens("access2", "refresh2", nil, time.Now())
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, c.ID, second.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "access2", all[0].AccessToken)
	assert.Equal(t, "refresh2", all[0].RefreshToken)

	second.Deactivate(time.Now())
	require.NoError(t, repo.Save(ctx, second))

	_, err = repo.FindActive(ctx, publishing.PlatformYouTube)
	assert.ErrorIs(t, err, publishing.ErrCredentialNotFound)

	found, err := repo.FindByPlatform(ctx, publishing.PlatformYouTube)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}
