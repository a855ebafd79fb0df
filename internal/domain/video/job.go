package video

import "time"

// Status is the lifecycle state reported by a generation provider
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusError      Status = "error"
)

// IsTerminal reports whether polling can stop
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusSucceeded, StatusFailed, StatusError:
		return true
	}
	return false
}

// IsSuccess reports whether the job produced a video
func (s Status) IsSuccess() bool {
	return s == StatusCompleted || s == StatusSucceeded
}

// JobError describes a provider-side failure
type JobError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// Job is a provider-neutral view of a video generation task
type Job struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	Status      Status    `json:"status"`
	Model       string    `json:"model"`
	Progress    int       `json:"progress"`
	CreatedAt   int64     `json:"created_at"`
	CompletedAt *int64    `json:"completed_at,omitempty"`
	ExpiresAt   *int64    `json:"expires_at,omitempty"`
	Size        string    `json:"size,omitempty"`
	Seconds     string    `json:"seconds,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	Error       *JobError `json:"error,omitempty"`
}

// NewJob returns a queued job created now
func NewJob(id, model string) *Job {
	return &Job{
		ID:        id,
		Object:    "video",
		Status:    StatusQueued,
		Model:     model,
		CreatedAt: time.Now().Unix(),
	}
}

// ErrorMessage returns the provider error text, if any
func (j *Job) ErrorMessage() string {
	if j.Error == nil {
		return ""
	}
	return j.Error.Message
}
