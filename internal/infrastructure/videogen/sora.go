package videogen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/video"
)

const (
	SoraDefaultSeconds = "4"
	SoraDefaultSize    = "1280x720"
)

// SoraClient renders videos through the OpenAI videos API
type SoraClient struct {
	apiClient
}

// NewSoraClient creates a Sora client
func NewSoraClient(cfg Config, logger *zap.Logger) *SoraClient {
	return &SoraClient{apiClient: newAPIClient(video.ProviderSora, cfg, defaultOpenAIBaseURL, logger)}
}

// CreateVideo starts a render job
func (c *SoraClient) CreateVideo(ctx context.Context, req video.CreateRequest) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = video.ModelSora2
	}
	seconds := req.Seconds
	if seconds == "" {
		seconds = SoraDefaultSeconds
	}
	size := req.Size
	if size == "" {
		size = SoraDefaultSize
	}

	c.logger.Info("Creating video",
		zap.String("prompt", truncatePrompt(req.Prompt)),
		zap.String("model", model),
		zap.String("seconds", seconds),
		zap.String("size", size),
	)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range [][2]string{{"model", model}, {"prompt", req.Prompt}, {"seconds", seconds}, {"size", size}} {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("sora: build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("sora: build form: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/v1/videos", &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var job video.Job
	if err := c.doJSON(httpReq, &job); err != nil {
		c.logger.Error("Video creation failed", zap.Error(err))
		return nil, err
	}
	if job.Object == "" {
		job.Object = "video"
	}
	if job.CreatedAt == 0 {
		job.CreatedAt = time.Now().Unix()
	}
	c.logger.Info("Video creation started", zap.String("video_id", job.ID), zap.String("status", string(job.Status)))
	return &job, nil
}

// GetVideoStatus retrieves the job state
func (c *SoraClient) GetVideoStatus(ctx context.Context, id string) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	var job video.Job
	if err := c.getJSON(ctx, "/v1/videos/"+url.PathEscape(id), &job); err != nil {
		c.logger.Error("Fetching video status failed", zap.String("video_id", id), zap.Error(err))
		return nil, err
	}
	return &job, nil
}

// DownloadVideoContent streams the rendered asset into w
func (c *SoraClient) DownloadVideoContent(ctx context.Context, id string, w io.Writer, variant string) (int64, error) {
	if err := c.configured(); err != nil {
		return 0, err
	}
	if variant == "" {
		variant = video.DefaultVariant
	}
	path := "/v1/videos/" + url.PathEscape(id) + "/content?variant=" + url.QueryEscape(variant)
	httpReq, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return 0, err
	}
	n, err := c.copyResponse(httpReq, w)
	if err != nil {
		c.logger.Error("Video download failed", zap.String("video_id", id), zap.Error(err))
		return n, err
	}
	c.logger.Info("Video downloaded", zap.String("video_id", id), zap.Int64("bytes", n))
	return n, nil
}

// SupportedModels implements video.Generator
func (c *SoraClient) SupportedModels() []string {
	return []string{video.ModelSora2, video.ModelSora2Pro}
}

// ServiceName implements video.Generator
func (c *SoraClient) ServiceName() string {
	return video.ProviderSora
}

var _ video.Generator = (*SoraClient)(nil)
