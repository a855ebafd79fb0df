package publishing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/shared"
)

func newVideo(t *testing.T) *PublishedVideo {
	t.Helper()
	v, err := NewPublishedVideo("video_abc", PlatformYouTube, Metadata{
		Title:       "Breaking",
		Tags:        []string{"news"},
		CategoryID:  "25",
		MadeForKids: true,
		PlaylistIDs: []string{"PL1"},
	}, nil)
	require.NoError(t, err)
	return v
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" YouTube ")
	require.NoError(t, err)
	assert.Equal(t, PlatformYouTube, p)

	_, err = ParsePlatform("myspace")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewPublishedVideo(t *testing.T) {
	tests := []struct {
		name    string
		videoID string
		meta    Metadata
		wantErr bool
	}{
		{"valid", "v1", Metadata{Title: "t"}, false},
		{"missing video id", "", Metadata{Title: "t"}, true},
		{"missing title", "v1", Metadata{}, true},
		{"bad privacy", "v1", Metadata{Title: "t", Privacy: "friends"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewPublishedVideo(tt.videoID, PlatformYouTube, tt.meta, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusDraft, v.Status)
			assert.Equal(t, PrivacyPublic, v.Privacy)
		})
	}
}

func TestPublishedVideo_MetadataRoundTrip(t *testing.T) {
	v := newVideo(t)
	meta := v.Metadata()
	assert.Equal(t, "25", meta.CategoryID)
	assert.True(t, meta.MadeForKids)
	assert.Equal(t, []string{"PL1"}, meta.PlaylistIDs)

	v.PlatformMetadata["playlist_ids"] = []any{"PL2", 3}
	assert.Equal(t, []string{"PL2"}, v.Metadata().PlaylistIDs)
}

func TestPublishedVideo_Transitions(t *testing.T) {
	v := newVideo(t)
	require.NoError(t, v.MarkPublishing())
	assert.Equal(t, StatusPublishing, v.Status)
	assert.False(t, v.CanRetry())

	v.MarkFailed(errors.New("quota exceeded"))
	assert.Equal(t, StatusFailed, v.Status)
	assert.Equal(t, 1, v.RetryCount)
	assert.Equal(t, "quota exceeded", v.ErrorMessage)
	assert.True(t, v.CanRetry())

	now := time.Now()
	v.MarkPublished("yt123", "https://www.youtube.com/watch?v=yt123", now)
	assert.Equal(t, StatusPublished, v.Status)
	assert.Empty(t, v.ErrorMessage)
	require.NotNil(t, v.PublishedAt)

	assert.ErrorIs(t, v.MarkPublishing(), shared.ErrInvalidState)
}

func TestPublishedVideo_Schedule(t *testing.T) {
	v := newVideo(t)
	at := time.Now().Add(time.Hour)
	v.Schedule(at)

	assert.Equal(t, StatusScheduled, v.Status)
	assert.False(t, v.IsDue(time.Now()))
	assert.True(t, v.IsDue(at.Add(time.Second)))
}

func TestPublishedVideo_Analytics(t *testing.T) {
	v := newVideo(t)
	assert.Equal(t, v.UpdatedAt, v.AnalyticsTimestamp())
	assert.Zero(t, v.EngagementRate())

	now := time.Now()
	v.UpdateAnalytics(Stats{Views: 200, Likes: 10, Comments: 6}, now)
	v.Shares = 4

	assert.InDelta(t, 0.1, v.EngagementRate(), 1e-9)
	assert.Equal(t, now.UTC(), v.AnalyticsTimestamp())
}

func TestPlatformCredential_UpdateTokens(t *testing.T) {
	c := NewPlatformCredential(PlatformYouTube)
	c.UpdateTokens("a1", "r1", nil, time.Now())
	c.UpdateTokens("a2", "", nil, time.Now())

	assert.Equal(t, "a2", c.AccessToken)
	assert.Equal(t, "r1", c.RefreshToken)
	assert.True(t, c.HasRefreshToken())

	c.Deactivate(time.Now())
	assert.False(t, c.IsActive)
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, RetryNotAllowedError(StatusPublished), shared.ErrInvalidState)
	assert.EqualError(t, RetryNotAllowedError(StatusPublished), "Can only retry failed videos. Current status: published")
	assert.ErrorIs(t, VideoFileNotFoundError("x"), shared.ErrNotFound)

	cause := errors.New("upload broke")
	err := PublishFailedError(cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "Failed to publish: upload broke")
}
