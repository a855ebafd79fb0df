package videogen

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/video"
)

const (
	wanUpstreamModel = "wan/2-5-image-to-video"
	wanJobModel      = "kie-wan-2.5"
)

// KieWanClient renders videos with Wan 2.5 through Kie.ai
type KieWanClient struct {
	apiClient
}

// NewKieWanClient creates a Kie.ai Wan client
func NewKieWanClient(cfg Config, logger *zap.Logger) *KieWanClient {
	return &KieWanClient{apiClient: newAPIClient(video.ProviderKieWan, cfg, defaultKieBaseURL, logger)}
}

type wanInput struct {
	Prompt                string `json:"prompt"`
	Duration              string `json:"duration"`
	Resolution            string `json:"resolution"`
	EnablePromptExpansion bool   `json:"enable_prompt_expansion"`
	ImageURL              string `json:"image_url,omitempty"`
}

type wanCreateRequest struct {
	Model string   `json:"model"`
	Input wanInput `json:"input"`
}

type wanTask struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Output struct {
		VideoURL      string `json:"video_url"`
		VideoURLCamel string `json:"videoUrl"`
	} `json:"output"`
	Resolution string `json:"resolution"`
	CreateTime int64  `json:"createTime"`
	UpdateTime int64  `json:"updateTime"`
}

// CreateVideo starts a text- or image-to-video task
func (c *KieWanClient) CreateVideo(ctx context.Context, req video.CreateRequest) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	seconds := req.Seconds
	if seconds != "10" {
		seconds = kieDefaultSecs
	}
	resolution := req.Size
	if resolution != "720p" {
		resolution = kieDefaultRes
	}

	c.logger.Info("Creating video",
		zap.String("prompt", truncatePrompt(req.Prompt)),
		zap.String("seconds", seconds),
		zap.String("resolution", resolution),
		zap.Bool("image_to_video", req.ImageURL != ""),
	)

	var resp kieEnvelope[kieTaskCreated]
	err := c.postJSON(ctx, "/api/v1/jobs/createTask", wanCreateRequest{
		Model: wanUpstreamModel,
		Input: wanInput{
			Prompt:                req.Prompt,
			Duration:              seconds,
			Resolution:            resolution,
			EnablePromptExpansion: true,
			ImageURL:              req.ImageURL,
		},
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

	job := video.NewJob(resp.Data.TaskID, wanJobModel)
	job.Size = resolution
	job.Seconds = seconds
	c.logger.Info("Video creation started", zap.String("video_id", job.ID))
	return job, nil
}

// GetVideoStatus retrieves the task state
func (c *KieWanClient) GetVideoStatus(ctx context.Context, id string) (*video.Job, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	var resp kieEnvelope[wanTask]
	err := c.getJSON(ctx, "/api/v1/jobs/getTask/"+url.PathEscape(id), &resp)
	if err == nil {
		err = resp.err(c.name)
	}
	if err != nil {
		c.logger.Error("Fetching video status failed", zap.String("video_id", id), zap.Error(err))
		return nil, err
	}
	return wanJob(id, &resp.Data), nil
}

func wanStatus(raw string) video.Status {
	switch strings.ToLower(raw) {
	case "", "pending":
		return video.StatusQueued
	case "processing":
		return video.StatusInProgress
	case "succeeded", "completed":
		return video.StatusCompleted
	case "failed", "error":
		return video.StatusFailed
	default:
		return video.Status(strings.ToLower(raw))
	}
}

func wanJob(id string, task *wanTask) *video.Job {
	job := &video.Job{
		ID:        id,
		Object:    "video",
		Status:    wanStatus(task.Status),
		Model:     wanJobModel,
		CreatedAt: task.CreateTime,
		Size:      task.Resolution,
		Seconds:   kieDefaultSecs,
		VideoURL:  task.Output.VideoURL,
	}
	if job.Size == "" {
		job.Size = kieDefaultRes
	}
	if job.VideoURL == "" {
		job.VideoURL = task.Output.VideoURLCamel
	}

	switch job.Status {
	case video.StatusCompleted:
		job.Progress = 100
		if task.UpdateTime > 0 {
			t := task.UpdateTime
			job.CompletedAt = &t
		}
	case video.StatusInProgress:
		job.Progress = 50
	case video.StatusFailed:
		msg := task.Error
		if msg == "" {
			msg = "Video generation failed"
		}
		job.Error = &video.JobError{Message: msg, Type: "kie_api_error"}
	}
	return job
}

// DownloadVideoContent fetches the output URL of a completed task
func (c *KieWanClient) DownloadVideoContent(ctx context.Context, id string, w io.Writer, _ string) (int64, error) {
	return downloadResult(ctx, &c.apiClient, c, id, w)
}

// SupportedModels implements video.Generator
func (c *KieWanClient) SupportedModels() []string {
	return []string{video.ModelWan25}
}

// ServiceName implements video.Generator
func (c *KieWanClient) ServiceName() string {
	return video.ProviderKieWan
}

var _ video.Generator = (*KieWanClient)(nil)
