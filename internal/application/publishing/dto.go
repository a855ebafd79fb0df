package publishing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/publishing"
)

// MetadataInput is the upload metadata supplied by API clients
type MetadataInput struct {
	Title         string   `json:"title" binding:"required,notblank,max=200"`
	Description   string   `json:"description" binding:"max=5000"`
	Tags          []string `json:"tags" binding:"omitempty,max=30,dive,notblank,max=100"`
	Category      string   `json:"category" binding:"max=50"`
	Privacy       string   `json:"privacy" binding:"omitempty,oneof=public unlisted private"`
	CategoryID    string   `json:"category_id" binding:"max=5"`
	MadeForKids   bool     `json:"made_for_kids"`
	PlaylistIDs   []string `json:"playlist_ids"`
	ThumbnailFile string   `json:"thumbnail_file" binding:"max=255"`
}

// ToDomain converts the input to domain metadata
func (m MetadataInput) ToDomain() publishing.Metadata {
	meta := publishing.Metadata{
		Title:       m.Title,
		Description: m.Description,
		Tags:        m.Tags,
		Category:    m.Category,
		Privacy:     publishing.Privacy(m.Privacy),
		CategoryID:  m.CategoryID,
		MadeForKids: m.MadeForKids,
		PlaylistIDs: m.PlaylistIDs,
	}
	if m.ThumbnailFile != "" {
		meta.Extra = map[string]any{thumbnailFileKey: m.ThumbnailFile}
	}
	return meta
}

// MetadataInputFrom rebuilds request metadata from a stored record
func MetadataInputFrom(v *publishing.PublishedVideo) MetadataInput {
	meta := v.Metadata()
	in := MetadataInput{
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        meta.Tags,
		Category:    meta.Category,
		Privacy:     string(meta.Privacy),
		CategoryID:  meta.CategoryID,
		MadeForKids: meta.MadeForKids,
		PlaylistIDs: meta.PlaylistIDs,
	}
	if f, ok := v.PlatformMetadata[thumbnailFileKey].(string); ok {
		in.ThumbnailFile = f
	}
	return in
}

// withOverrides merges platform-specific fields over the base metadata
func (m MetadataInput) withOverrides(overrides map[string]any) (MetadataInput, error) {
	if len(overrides) == 0 {
		return m, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return m, err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return m, err
	}
	for k, v := range overrides {
		merged[k] = v
	}
	if raw, err = json.Marshal(merged); err != nil {
		return m, err
	}
	var out MetadataInput
	if err := json.Unmarshal(raw, &out); err != nil {
		return m, err
	}
	return out, nil
}

// PublishRequest asks for a single-platform upload
type PublishRequest struct {
	VideoID     string        `json:"video_id" binding:"required,max=100"`
	Platform    string        `json:"platform" binding:"required"`
	Metadata    MetadataInput `json:"metadata" binding:"required"`
	ScheduledAt *time.Time    `json:"scheduled_at"`
	IdeaID      *uuid.UUID    `json:"idea_id"`
}

// BulkPublishRequest publishes one video to several platforms
type BulkPublishRequest struct {
	VideoID           string                    `json:"video_id" binding:"required,max=100"`
	Platforms         []string                  `json:"platforms" binding:"required,min=1"`
	Metadata          MetadataInput             `json:"metadata" binding:"required"`
	PlatformOverrides map[string]map[string]any `json:"platform_overrides"`
	ScheduledAt       *time.Time                `json:"scheduled_at"`
}

// PublishListFilter holds list query parameters
type PublishListFilter struct {
	Platform string `form:"platform" binding:"omitempty,oneof=youtube tiktok instagram facebook twitter"`
	Status   string `form:"status" binding:"omitempty,oneof=draft scheduled publishing published failed deleted"`
	VideoID  string `form:"video_id" binding:"omitempty,max=100"`
	IdeaID   string `form:"idea_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// PublishResponse represents a publication record in API responses
type PublishResponse struct {
	ID                  uuid.UUID  `json:"id"`
	VideoID             string     `json:"video_id"`
	IdeaID              *uuid.UUID `json:"idea_id,omitempty"`
	Platform            string     `json:"platform"`
	Status              string     `json:"status"`
	PlatformVideoID     string     `json:"platform_video_id,omitempty"`
	PlatformURL         string     `json:"platform_url,omitempty"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	Tags                []string   `json:"tags"`
	Category            string     `json:"category,omitempty"`
	Privacy             string     `json:"privacy"`
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt         *time.Time `json:"published_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Views               int64      `json:"views"`
	Likes               int64      `json:"likes"`
	Comments            int64      `json:"comments"`
	Shares              int64      `json:"shares"`
	LastAnalyticsUpdate *time.Time `json:"last_analytics_update,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	RetryCount          int        `json:"retry_count"`
}

// DeleteResponse confirms a deleted record
type DeleteResponse struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
}

// AnalyticsSnapshot is the engagement of a published video at Timestamp
type AnalyticsSnapshot struct {
	PublishID       uuid.UUID `json:"publish_id"`
	Platform        string    `json:"platform"`
	PlatformVideoID string    `json:"platform_video_id"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	Shares          int64     `json:"shares"`
	EngagementRate  float64   `json:"engagement_rate"`
	Timestamp       time.Time `json:"timestamp"`
}

// PublishDueResult summarises a scheduled publishing pass
type PublishDueResult struct {
	Due       int `json:"due"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// AnalyticsRefreshResult summarises an analytics refresh pass
type AnalyticsRefreshResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ToPublishResponse converts a domain record
func ToPublishResponse(v *publishing.PublishedVideo) PublishResponse {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return PublishResponse{
		ID:                  v.ID,
		VideoID:             v.VideoID,
		IdeaID:              v.IdeaID,
		Platform:            string(v.Platform),
		Status:              string(v.Status),
		PlatformVideoID:     v.PlatformVideoID,
		PlatformURL:         v.PlatformURL,
		Title:               v.Title,
		Description:         v.Description,
		Tags:                tags,
		Category:            v.Category,
		Privacy:             string(v.Privacy),
		ScheduledAt:         v.ScheduledAt,
		PublishedAt:         v.PublishedAt,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
		Views:               v.Views,
		Likes:               v.Likes,
		Comments:            v.Comments,
		Shares:              v.Shares,
		LastAnalyticsUpdate: v.LastAnalyticsUpdate,
		ErrorMessage:        v.ErrorMessage,
		RetryCount:          v.RetryCount,
	}
}

// ToPublishResponses converts a slice of domain records
func ToPublishResponses(videos []publishing.PublishedVideo) []PublishResponse {
	out := make([]PublishResponse, len(videos))
	for i := range videos {
		out[i] = ToPublishResponse(&videos[i])
	}
	return out
}

// GenerateMetadataRequest asks the language model for upload metadata
type GenerateMetadataRequest struct {
	VideoID        string     `json:"video_id" binding:"required,max=100"`
	IdeaID         *uuid.UUID `json:"idea_id"`
	Prompt         string     `json:"prompt" binding:"max=4000"`
	Platform       string     `json:"platform" binding:"required,oneof=youtube tiktok instagram facebook twitter"`
	TargetAudience string     `json:"target_audience" binding:"max=200"`
	Tone           string     `json:"tone" binding:"max=100"`
}

// BulkMetadataRequest asks for metadata on several platforms at once
type BulkMetadataRequest struct {
	VideoID        string     `json:"video_id" binding:"required,max=100"`
	Platforms      []string   `json:"platforms" binding:"required,min=1,dive,oneof=youtube tiktok instagram facebook twitter"`
	IdeaID         *uuid.UUID `json:"idea_id"`
	Prompt         string     `json:"prompt" binding:"max=4000"`
	TargetAudience string     `json:"target_audience" binding:"max=200"`
	Tone           string     `json:"tone" binding:"max=100"`
}

// YouTubeMetadata carries YouTube-only upload settings
type YouTubeMetadata struct {
	CategoryID  string `json:"category_id"`
	MadeForKids bool   `json:"made_for_kids"`
	Privacy     string `json:"privacy"`
}

// TikTokMetadata carries TikTok-only settings
type TikTokMetadata struct {
	Privacy       string `json:"privacy"`
	AllowDuet     bool   `json:"allow_duet"`
	AllowStitch   bool   `json:"allow_stitch"`
	AllowComments bool   `json:"allow_comments"`
}

// InstagramMetadata carries Instagram Reels settings
type InstagramMetadata struct {
	Privacy       string `json:"privacy"`
	ShareToFeed   bool   `json:"share_to_feed"`
	AllowComments bool   `json:"allow_comments"`
}

// MetadataResponse is generated metadata for one platform
type MetadataResponse struct {
	VideoID     string             `json:"video_id"`
	Platform    string             `json:"platform"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Tags        []string           `json:"tags"`
	Category    string             `json:"category,omitempty"`
	YouTube     *YouTubeMetadata   `json:"youtube_metadata,omitempty"`
	TikTok      *TikTokMetadata    `json:"tiktok_metadata,omitempty"`
	Instagram   *InstagramMetadata `json:"instagram_metadata,omitempty"`
}

// BulkMetadataResponse maps platforms to their generated metadata.
// Platforms that failed are omitted.
type BulkMetadataResponse struct {
	VideoID string                      `json:"video_id"`
	Results map[string]MetadataResponse `json:"results"`
}

// AuthURLResponse is the consent URL for connecting a platform account
type AuthURLResponse struct {
	Platform string `json:"platform"`
	AuthURL  string `json:"auth_url"`
	State    string `json:"state"`
}

// CredentialResponse describes a stored credential without its tokens
type CredentialResponse struct {
	Platform        string     `json:"platform"`
	IsActive        bool       `json:"is_active"`
	ChannelID       string     `json:"channel_id,omitempty"`
	ChannelTitle    string     `json:"channel_title,omitempty"`
	TokenExpiresAt  *time.Time `json:"token_expires_at,omitempty"`
	HasRefreshToken bool       `json:"has_refresh_token"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToCredentialResponse converts a domain credential
func ToCredentialResponse(c *publishing.PlatformCredential) CredentialResponse {
	resp := CredentialResponse{
		Platform:        string(c.Platform),
		IsActive:        c.IsActive,
		ChannelID:       c.ChannelID,
		TokenExpiresAt:  c.TokenExpiresAt,
		HasRefreshToken: c.HasRefreshToken(),
		UpdatedAt:       c.UpdatedAt,
	}
	if title, ok := c.CredentialsJSON[channelTitleKey].(string); ok {
		resp.ChannelTitle = title
	}
	return resp
}
