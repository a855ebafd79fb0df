package videogen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/video"
)

const (
	veoUpstreamModel = "veo3"
	veoJobModel      = "kie-veo-3.1"
	kieDefaultSecs   = "5"
	kieDefaultRes    = "1080p"
)

// Veo task states reported as successFlag
const (
	veoPending    = 0
	veoSuccess    = 1
	veoFailed     = 2
	veoProcessing = 3
)

// KieVeoClient renders videos with Veo 3.1 through Kie.ai
type KieVeoClient struct {
	apiClient
}

// NewKieVeoClient creates a Kie.ai Veo client
func NewKieVeoClient(cfg Config, logger *zap.Logger) *KieVeoClient {
	return &KieVeoClient{apiClient: newAPIClient(video.ProviderKieVeo, cfg, defaultKieBaseURL, logger)}
}

type veoGenerateRequest struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspectRatio"`
}

type veoRecord struct {
	SuccessFlag  int             `json:"successFlag"`
	ErrorMessage string          `json:"errorMessage"`
	ResultURLs   json.RawMessage `json:"resultUrls"`
	Response     *struct {
		ResultURLs json.RawMessage `json:"resultUrls"`
	} `json:"response"`
	Resolution string `json:"resolution"`
	CreateTime int64  `json:"createTime"`
	UpdateTime int64  `json:"updateTime"`
}

// CreateVideo starts a render job. Veo renders at its own fixed length,
// so Seconds is only echoed back on the job.
func (c *KieVeoClient) CreateVideo(ctx context.Context, req video.CreateRequest) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	seconds := req.Seconds
	if seconds == "" {
		seconds = kieDefaultSecs
	}
	resolution := req.Size
	if resolution == "" {
		resolution = kieDefaultRes
	}

	c.logger.Info("Creating video",
		zap.String("prompt", truncatePrompt(req.Prompt)),
		zap.String("seconds", seconds),
		zap.String("resolution", resolution),
	)

	var resp kieEnvelope[kieTaskCreated]
	err := c.postJSON(ctx, "/api/v1/veo/generate", veoGenerateRequest{
		Prompt:      req.Prompt,
		Model:       veoUpstreamModel,
		AspectRatio: "16:9",
	}, &resp)
	if err == nil {
		err = resp.err(c.name)
	}
	if err == nil && resp.Data.TaskID == "" {
		err = fmt.Errorf("%s: response carried no task id", c.name)
	}
	if err != nil {
		c.logger.Error("Video creation failed", zap.Error(err))
		return nil, err
	}

	job := video.NewJob(resp.Data.TaskID, veoJobModel)
	job.Size = resolution
	job.Seconds = seconds
	c.logger.Info("Video creation started", zap.String("video_id", job.ID))
	return job, nil
}

// GetVideoStatus retrieves the task record
func (c *KieVeoClient) GetVideoStatus(ctx context.Context, id string) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	var resp kieEnvelope[veoRecord]
	err := c.getJSON(ctx, "/api/v1/veo/record-info?taskId="+url.QueryEscape(id), &resp)
	if err == nil {
		err = resp.err(c.name)
	}
	if err != nil {
		c.logger.Error("Fetching video status failed", zap.String("video_id", id), zap.Error(err))
		return nil, err
	}
	return veoJob(id, &resp.Data), nil
}

func veoJob(id string, rec *veoRecord) *video.Job {
	job := &video.Job{
		ID:        id,
		Object:    "video",
		Model:     veoJobModel,
		CreatedAt: rec.CreateTime,
		Size:      rec.Resolution,
		Seconds:   kieDefaultSecs,
	}
	if job.Size == "" {
		job.Size = kieDefaultRes
	}

	switch rec.SuccessFlag {
	case veoSuccess:
		job.Status = video.StatusCompleted
		job.Progress = 100
		if rec.UpdateTime > 0 {
			t := rec.UpdateTime
			job.CompletedAt = &t
		}
		urls := parseResultURLs(rec.ResultURLs)
		if len(urls) == 0 && rec.Response != nil {
			urls = parseResultURLs(rec.Response.ResultURLs)
		}
		if len(urls) > 0 {
			job.VideoURL = urls[0]
		}
	case veoFailed:
		job.Status = video.StatusFailed
		msg := rec.ErrorMessage
		if msg == "" {
			msg = "Video generation failed"
		}
		job.Error = &video.JobError{Message: msg, Type: "kie_api_error"}
	case veoProcessing:
		job.Status = video.StatusInProgress
		job.Progress = 50
	default:
		job.Status = video.StatusQueued
	}
	return job
}

// parseResultURLs accepts either a JSON array or a string holding one
func parseResultURLs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err == nil {
		return urls
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &urls); err != nil {
		return nil
	}
	return urls
}

// DownloadVideoContent fetches the result URL of a completed task
func (c *KieVeoClient) DownloadVideoContent(ctx context.Context, id string, w io.Writer, _ string) (int64, error) {
	return downloadResult(ctx, &c.apiClient, c, id, w)
}

// SupportedModels implements video.Generator
func (c *KieVeoClient) SupportedModels() []string {
	return []string{video.ModelVeo31}
}

// ServiceName implements video.Generator
func (c *KieVeoClient) ServiceName() string {
	return video.ProviderKieVeo
}

// downloadResult resolves the result URL through a status call and copies it
func downloadResult(ctx context.Context, c *apiClient, gen video.Generator, id string, w io.Writer) (int64, error) {
	job, err := gen.GetVideoStatus(ctx, id)
	if err != nil {
		return 0, err
	}
	if job.VideoURL == "" {
		err := fmt.Errorf("%s: no video URL available for %s", c.name, id)
		c.logger.Error("Video download failed", zap.String("video_id", id), zap.Error(err))
		return 0, err
	}
	n, err := c.copyURL(ctx, job.VideoURL, w)
	if err != nil {
		c.logger.Error("Video download failed", zap.String("video_id", id), zap.Error(err))
		return n, err
	}
	c.logger.Info("Video downloaded", zap.String("video_id", id), zap.Int64("bytes", n))
	return n, nil
}

var _ video.Generator = (*KieVeoClient)(nil)
