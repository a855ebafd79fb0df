package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
)

const (
	DefaultCategoryID = "22"
	defaultChunkSize  = 1024 * 1024
	watchURLPrefix    = "https://www.youtube.com/watch?v="
)

// UploadResult identifies an uploaded video
type UploadResult struct {
	VideoID string `json:"video_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Privacy string `json:"privacy"`
}

// VideoStats is an analytics snapshot of one video
type VideoStats struct {
	VideoID     string
	Title       string
	PublishedAt string
	publishing.Stats
}

// Channel summarises a channel owned by the authorised account
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	SubscriberCount uint64 `json:"subscriber_count"`
	VideoCount      uint64 `json:"video_count"`
}

// Client calls the YouTube Data API on behalf of the stored channel token
type Client struct {
	oauth     *oauth2.Config
	store     TokenStore
	logger    *zap.Logger
	chunkSize int
	opts      []option.ClientOption
}

// Option configures a Client
type Option func(*Client)

// WithChunkSize sets the resumable upload chunk size in bytes
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithClientOptions appends API client options, e.g. a custom endpoint
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.opts = append(c.opts, opts...)
	}
}

// NewClient creates a Client. oc may be nil when only stored tokens are
// used, in which case expired tokens cannot be refreshed.
func NewClient(oc *oauth2.Config, store TokenStore, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		oauth:     oc,
		store:     store,
		logger:    logger.Named("youtube"),
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL returns the consent URL for state
func (c *Client) AuthCodeURL(state string) (string, error) {
	if c.oauth == nil {
		return "", ErrNotConfigured
	}
	return AuthCodeURL(c.oauth, state), nil
}

// Exchange trades an authorisation code for a token
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if c.oauth == nil {
		return nil, ErrNotConfigured
	}
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		c.logger.Error("OAuth code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("youtube: exchange code: %w", err)
	}
	return tok, nil
}

// SaveToken persists tok through the token store
func (c *Client) SaveToken(ctx context.Context, tok *oauth2.Token) error {
	return c.store.Save(ctx, tok)
}

// service builds an API service authorised with the stored token
func (c *Client) service(ctx context.Context) (*yt.Service, error) {
	tok, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.serviceFor(ctx, tok)
}

func (c *Client) serviceFor(ctx context.Context, tok *oauth2.Token) (*yt.Service, error) {
	var httpClient *http.Client
	if c.oauth != nil {
		httpClient = oauth2.NewClient(ctx, newPersistingTokenSource(ctx, c.oauth, tok, c.store, c.logger))
	} else {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}
	return svc, nil
}

// UploadVideo uploads the file at path with a resumable upload, then sets
// the thumbnail and playlist memberships. Those follow-ups only log failures.
func (c *Client) UploadVideo(ctx context.Context, path string, meta publishing.Metadata, thumbnailPath string) (*UploadResult, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, shared.NotFoundf("Video file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("youtube: open video: %w", err)
	}
	defer f.Close()

	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	privacy := meta.Privacy
	if privacy == "" {
		privacy = publishing.PrivacyPublic
	}
	body := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        SanitizeTags(meta.Tags),
			CategoryId:  categoryID(meta),
		},
		Status: &yt.VideoStatus{
			PrivacyStatus:           string(privacy),
			SelfDeclaredMadeForKids: meta.MadeForKids,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	c.logger.Info("Uploading video", zap.String("title", meta.Title), zap.String("path", path))
	start := time.Now()
	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, body).
		NotifySubscribers(false).
		Media(f, googleapi.ChunkSize(c.chunkSize), googleapi.ContentType("video/*")).
		ProgressUpdater(func(current, total int64) {
			if total > 0 {
				c.logger.Debug("Upload progress", zap.Int64("percent", current*100/total))
			}
		}).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.Error("YouTube upload failed", zap.Error(err))
		return nil, fmt.Errorf("youtube: upload video: %w", err)
	}

	result := &UploadResult{
		VideoID: resp.Id,
		URL:     watchURLPrefix + resp.Id,
		Title:   meta.Title,
		Privacy: string(privacy),
	}
	c.logger.Info("Video uploaded",
		zap.String("video_id", resp.Id),
		zap.String("url", result.URL),
		zap.Duration("elapsed", time.Since(start)),
	)

	if thumbnailPath != "" {
		if err := c.setThumbnail(ctx, svc, resp.Id, thumbnailPath); err != nil {
			c.logger.Warn("Failed to set thumbnail", zap.String("video_id", resp.Id), zap.Error(err))
		}
	}
	for _, playlistID := range meta.PlaylistIDs {
		if err := c.addToPlaylist(ctx, svc, resp.Id, playlistID); err != nil {
			c.logger.Error("Failed to add video to playlist",
				zap.String("video_id", resp.Id),
				zap.String("playlist_id", playlistID),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

func (c *Client) addToPlaylist(ctx context.Context, svc *yt.Service, videoID, playlistID string) error {
	_, err := svc.PlaylistItems.Insert([]string{"snippet"}, &yt.PlaylistItem{
		Snippet: &yt.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &yt.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}).Context(ctx).Do()
	if err == nil {
		c.logger.Info("Video added to playlist", zap.String("video_id", videoID), zap.String("playlist_id", playlistID))
	}
	return err
}

// UpdateVideo replaces the snippet and status of an uploaded video
func (c *Client) UpdateVideo(ctx context.Context, videoID string, meta publishing.Metadata) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	list, err := svc.Videos.List([]string{"snippet", "status"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		c.logger.Error("Failed to load video for update", zap.String("video_id", videoID), zap.Error(err))
		return fmt.Errorf("youtube: load video: %w", err)
	}
	if len(list.Items) == 0 {
		return shared.NotFoundf("Video %s not found", videoID)
	}

	v := list.Items[0]
	if v.Snippet == nil {
		v.Snippet = &yt.VideoSnippet{}
	}
	if v.Status == nil {
		v.Status = &yt.VideoStatus{}
	}
	v.Snippet.Title = meta.Title
	v.Snippet.Description = meta.Description
	v.Snippet.Tags = SanitizeTags(meta.Tags)
	v.Snippet.CategoryId = categoryID(meta)
	if meta.Privacy != "" {
		v.Status.PrivacyStatus = string(meta.Privacy)
	}
	v.Status.SelfDeclaredMadeForKids = meta.MadeForKids
	v.Status.ForceSendFields = []string{"SelfDeclaredMadeForKids"}

	if _, err := svc.Videos.Update([]string{"snippet", "status"}, v).Context(ctx).Do(); err != nil {
		c.logger.Error("Failed to update video", zap.String("video_id", videoID), zap.Error(err))
		return fmt.Errorf("youtube: update video: %w", err)
	}
	c.logger.Info("Video updated", zap.String("video_id", videoID))
	return nil
}

// DeleteVideo removes a video from the channel
func (c *Client) DeleteVideo(ctx context.Context, videoID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Videos.Delete(videoID).Context(ctx).Do(); err != nil {
		c.logger.Error("Failed to delete video", zap.String("video_id", videoID), zap.Error(err))
		return fmt.Errorf("youtube: delete video: %w", err)
	}
	c.logger.Info("Video deleted", zap.String("video_id", videoID))
	return nil
}

// GetVideoStats reads view, like and comment counters
func (c *Client) GetVideoStats(ctx context.Context, videoID string) (*VideoStats, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Videos.List([]string{"statistics", "snippet", "status"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		c.logger.Error("Failed to get video stats", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("youtube: get video stats: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, shared.NotFoundf("Video %s not found", videoID)
	}

	v := resp.Items[0]
	stats := &VideoStats{VideoID: videoID}
	if v.Snippet != nil {
		stats.Title = v.Snippet.Title
		stats.PublishedAt = v.Snippet.PublishedAt
	}
	if v.Statistics != nil {
		stats.Views = int64(v.Statistics.ViewCount)
		stats.Likes = int64(v.Statistics.LikeCount)
		stats.Comments = int64(v.Statistics.CommentCount)
	}
	return stats, nil
}

// ListChannels lists the channels of the stored account
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	return c.listChannels(ctx, svc)
}

// ListChannelsWithToken lists channels for a token that is not stored
// yet, which verifies a freshly exchanged token
func (c *Client) ListChannelsWithToken(ctx context.Context, tok *oauth2.Token) ([]Channel, error) {
	var httpClient *http.Client
	if c.oauth != nil {
		httpClient = c.oauth.Client(ctx, tok)
	} else {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}
	return c.listChannels(ctx, svc)
}

func (c *Client) listChannels(ctx context.Context, svc *yt.Service) ([]Channel, error) {
	resp, err := svc.Channels.List([]string{"snippet", "contentDetails", "statistics"}).Mine(true).Context(ctx).Do()
	if err != nil {
		c.logger.Error("Failed to list channels", zap.Error(err))
		return nil, fmt.Errorf("youtube: list channels: %w", err)
	}
	channels := make([]Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		ch := Channel{ID: item.Id}
		if item.Snippet != nil {
			ch.Title = item.Snippet.Title
			ch.Description = item.Snippet.Description
		}
		if item.Statistics != nil {
			ch.SubscriberCount = item.Statistics.SubscriberCount
			ch.VideoCount = item.Statistics.VideoCount
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// SetThumbnail uploads a custom JPEG thumbnail
func (c *Client) SetThumbnail(ctx context.Context, videoID, path string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	return c.setThumbnail(ctx, svc, videoID, path)
}

func (c *Client) setThumbnail(ctx context.Context, svc *yt.Service, videoID, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return shared.NotFoundf("Thumbnail not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("youtube: open thumbnail: %w", err)
	}
	defer f.Close()

	if _, err := svc.Thumbnails.Set(videoID).Media(f, googleapi.ContentType("image/jpeg")).Context(ctx).Do(); err != nil {
		return fmt.Errorf("youtube: set thumbnail: %w", err)
	}
	c.logger.Info("Thumbnail uploaded", zap.String("video_id", videoID))
	return nil
}

func categoryID(meta publishing.Metadata) string {
	if meta.CategoryID != "" {
		return meta.CategoryID
	}
	return DefaultCategoryID
}
