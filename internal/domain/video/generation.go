package video

import (
	"context"
	"strings"
	"time"

	"github.com/contentgen/backend/internal/domain/shared"
)

const MaxPromptLength = 4000

// Generation is the persisted record of a video job created through the API
type Generation struct {
	ID           string
	Provider     string
	Model        string
	Prompt       string
	Seconds      string
	Size         string
	Status       Status
	Progress     int
	VideoURL     string
	LocalPath    string
	StorageKey   string
	ErrorMessage string
	FellBack     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// NewGeneration records a freshly created provider job
func NewGeneration(job *Job, provider, prompt string, fellBack bool) *Generation {
	now := time.Now().UTC()
	g := &Generation{
		ID:        job.ID,
		Provider:  provider,
		Prompt:    prompt,
		FellBack:  fellBack,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.Apply(job, now)
	return g
}

// Apply copies provider state onto the record
func (g *Generation) Apply(job *Job, now time.Time) {
	if job.Model != "" {
		g.Model = job.Model
	}
	if job.Seconds != "" {
		g.Seconds = job.Seconds
	}
	if job.Size != "" {
		g.Size = job.Size
	}
	g.Status = job.Status
	g.Progress = job.Progress
	if job.VideoURL != "" {
		g.VideoURL = job.VideoURL
	}
	g.ErrorMessage = job.ErrorMessage()
	if job.Status.IsTerminal() && g.CompletedAt == nil {
		t := now.UTC()
		g.CompletedAt = &t
	}
	g.UpdatedAt = now.UTC()
}

// IsDownloaded reports whether the rendered file is in local storage
func (g *Generation) IsDownloaded() bool {
	return g.LocalPath != ""
}

// ValidatePrompt checks prompt presence and length
func ValidatePrompt(prompt string) error {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return ErrPromptRequired
	}
	if len([]rune(p)) > MaxPromptLength {
		return ErrPromptTooLong
	}
	return nil
}

// Filter narrows generation listings
type Filter struct {
	shared.Pagination
	Status *Status
	Model  string
}

// Repository persists generation records
type Repository interface {
	FindByID(ctx context.Context, id string) (*Generation, error)
	List(ctx context.Context, filter Filter) ([]Generation, int64, error)
	// ListPending returns unfinished generations and completed ones
	// still missing their local file
	ListPending(ctx context.Context, limit int) ([]Generation, error)
	Save(ctx context.Context, g *Generation) error
	Delete(ctx context.Context, id string) error
}
