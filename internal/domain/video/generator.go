package video

import (
	"context"
	"io"
	"time"
)

// DefaultVariant is the downloadable asset variant for the rendered clip
const DefaultVariant = "video"

// CreateRequest asks a provider to render a video
type CreateRequest struct {
	Prompt   string
	Model    string
	Seconds  string
	Size     string
	ImageURL string
}

// Generator is implemented by every video generation provider
type Generator interface {
	CreateVideo(ctx context.Context, req CreateRequest) (*Job, error)
	GetVideoStatus(ctx context.Context, id string) (*Job, error)
	DownloadVideoContent(ctx context.Context, id string, w io.Writer, variant string) (int64, error)
	SupportedModels() []string
	ServiceName() string
}

// PollUntilComplete polls gen until the job reaches a terminal status,
// ctx is done, or timeout elapses. It returns ErrPollTimeout only when its
// own timeout expired; when ctx ends first the error is ctx.Err().
func PollUntilComplete(ctx context.Context, gen Generator, id string, timeout, interval time.Duration) (*Job, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	pollCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	stopped := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrPollTimeout
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := gen.GetVideoStatus(pollCtx, id)
		if err != nil {
			if pollCtx.Err() != nil {
				return nil, stopped()
			}
			return nil, err
		}
		if job.Status.IsTerminal() {
			return job, nil
		}

		select {
		case <-pollCtx.Done():
			return job, stopped()
		case <-ticker.C:
		}
	}
}
