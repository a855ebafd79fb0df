package publishing

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

const (
	MaxVideoIDLength = 100
	MaxTitleLength   = 200
)

// Metadata is the platform-facing description of an upload
type Metadata struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Tags         []string       `json:"tags"`
	Category     string         `json:"category,omitempty"`
	Privacy      Privacy        `json:"privacy"`
	CategoryID   string         `json:"category_id,omitempty"`
	MadeForKids  bool           `json:"made_for_kids"`
	PlaylistIDs  []string       `json:"playlist_ids,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Stats are engagement counters read from a platform
type Stats struct {
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

// PublishedVideo tracks one upload of a generated video to one platform
type PublishedVideo struct {
	shared.BaseEntity
	VideoID             string
	IdeaID              *uuid.UUID
	Platform            Platform
	PlatformVideoID     string
	Status              Status
	Title               string
	Description         string
	Tags                []string
	Category            string
	Privacy             Privacy
	PlatformMetadata    map[string]any
	PlatformURL         string
	ThumbnailURL        string
	ScheduledAt         *time.Time
	PublishedAt         *time.Time
	Views               int64
	Likes               int64
	Comments            int64
	Shares              int64
	LastAnalyticsUpdate *time.Time
	ErrorMessage        string
	RetryCount          int
}

// NewPublishedVideo builds a draft record from request metadata
func NewPublishedVideo(videoID string, platform Platform, meta Metadata, ideaID *uuid.UUID) (*PublishedVideo, error) {
	if videoID == "" {
		return nil, shared.InvalidInputf("video_id is required")
	}
	if len(videoID) > MaxVideoIDLength {
		return nil, shared.InvalidInputf("video_id exceeds %d characters", MaxVideoIDLength)
	}
	if meta.Title == "" {
		return nil, shared.InvalidInputf("title is required")
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = PrivacyPublic
	}
	if !privacy.IsValid() {
		return nil, shared.InvalidInputf("invalid privacy %q", meta.Privacy)
	}

	return &PublishedVideo{
		BaseEntity:       shared.NewBaseEntity(),
		VideoID:          videoID,
		IdeaID:           ideaID,
		Platform:         platform,
		Status:           StatusDraft,
		Title:            truncateRunes(meta.Title, MaxTitleLength),
		Description:      meta.Description,
		Tags:             append([]string(nil), meta.Tags...),
		Category:         meta.Category,
		Privacy:          privacy,
		PlatformMetadata: platformMetadata(meta),
		ThumbnailURL:     meta.ThumbnailURL,
	}, nil
}

func platformMetadata(meta Metadata) map[string]any {
	m := make(map[string]any, len(meta.Extra)+3)
	for k, v := range meta.Extra {
		m[k] = v
	}
	if meta.CategoryID != "" {
		m["category_id"] = meta.CategoryID
	}
	m["made_for_kids"] = meta.MadeForKids
	if len(meta.PlaylistIDs) > 0 {
		m["playlist_ids"] = meta.PlaylistIDs
	}
	return m
}

// Metadata rebuilds upload metadata from the stored record
func (v *PublishedVideo) Metadata() Metadata {
	meta := Metadata{
		Title:        v.Title,
		Description:  v.Description,
		Tags:         append([]string(nil), v.Tags...),
		Category:     v.Category,
		Privacy:      v.Privacy,
		ThumbnailURL: v.ThumbnailURL,
	}
	if id, ok := v.PlatformMetadata["category_id"].(string); ok {
		meta.CategoryID = id
	}
	if kids, ok := v.PlatformMetadata["made_for_kids"].(bool); ok {
		meta.MadeForKids = kids
	}
	switch ids := v.PlatformMetadata["playlist_ids"].(type) {
	case []string:
		meta.PlaylistIDs = ids
	case []any:
		for _, id := range ids {
			if s, ok := id.(string); ok {
				meta.PlaylistIDs = append(meta.PlaylistIDs, s)
			}
		}
	}
	return meta
}

// Schedule defers the upload until at
func (v *PublishedVideo) Schedule(at time.Time) {
	t := at.UTC()
	v.ScheduledAt = &t
	v.Status = StatusScheduled
	v.Touch(time.Now().UTC())
}

// IsDue reports whether a scheduled record should be uploaded at now
func (v *PublishedVideo) IsDue(now time.Time) bool {
	return v.Status == StatusScheduled && v.ScheduledAt != nil && !v.ScheduledAt.After(now)
}

// MarkPublishing moves the record into the uploading state
func (v *PublishedVideo) MarkPublishing() error {
	if v.Status == StatusPublished || v.Status == StatusDeleted {
		return shared.InvalidStatef("cannot publish a video in status %s", v.Status)
	}
	v.Status = StatusPublishing
	v.ErrorMessage = ""
	v.Touch(time.Now().UTC())
	return nil
}

// MarkPublished records a successful upload
func (v *PublishedVideo) MarkPublished(platformVideoID, url string, now time.Time) {
	t := now.UTC()
	v.PlatformVideoID = platformVideoID
	v.PlatformURL = url
	v.Status = StatusPublished
	v.PublishedAt = &t
	v.ErrorMessage = ""
	v.Touch(t)
}

// MarkFailed records an upload failure and counts the attempt
func (v *PublishedVideo) MarkFailed(err error) {
	v.Status = StatusFailed
	if err != nil {
		v.ErrorMessage = err.Error()
	}
	v.RetryCount++
	v.Touch(time.Now().UTC())
}

// CanRetry is true only for failed records
func (v *PublishedVideo) CanRetry() bool {
	return v.Status == StatusFailed
}

// UpdateAnalytics stores a fresh stats snapshot
func (v *PublishedVideo) UpdateAnalytics(stats Stats, now time.Time) {
	t := now.UTC()
	v.Views = stats.Views
	v.Likes = stats.Likes
	v.Comments = stats.Comments
	if stats.Shares > 0 {
		v.Shares = stats.Shares
	}
	v.LastAnalyticsUpdate = &t
	v.Touch(t)
}

// AnalyticsTimestamp is the time the cached counters refer to
func (v *PublishedVideo) AnalyticsTimestamp() time.Time {
	if v.LastAnalyticsUpdate != nil {
		return *v.LastAnalyticsUpdate
	}
	return v.UpdatedAt
}

// EngagementRate is (likes+comments+shares)/views, or zero without views
func (v *PublishedVideo) EngagementRate() float64 {
	if v.Views <= 0 {
		return 0
	}
	return float64(v.Likes+v.Comments+v.Shares) / float64(v.Views)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
