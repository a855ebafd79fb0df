package video

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contentgen/backend/internal/domain/video"
	"github.com/contentgen/backend/internal/infrastructure/media"
)

// CreateVideoRequest asks for a new generation
type CreateVideoRequest struct {
	Prompt   string `json:"prompt" binding:"required,notblank,max=4000"`
	Model    string `json:"model" binding:"omitempty,oneof=auto sora-2 sora-2-pro veo-3.1 wan-2.5"`
	Seconds  int    `json:"seconds" binding:"omitempty,min=1,max=60"`
	Size     string `json:"size" binding:"omitempty,video_size"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

// VideoListFilter holds list query parameters
type VideoListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=queued in_progress completed succeeded failed error"`
	Model    string `form:"model" binding:"omitempty,max=50"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// VideoResponse represents a tracked generation in API responses
type VideoResponse struct {
	ID           string     `json:"id"`
	Provider     string     `json:"provider"`
	Model        string     `json:"model"`
	Prompt       string     `json:"prompt"`
	Seconds      string     `json:"seconds,omitempty"`
	Size         string     `json:"size,omitempty"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	VideoURL     string     `json:"video_url,omitempty"`
	Downloaded   bool       `json:"downloaded"`
	StorageKey   string     `json:"storage_key,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	FellBack     bool       `json:"fell_back"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CreateVideoResponse carries the provider job and the tracked record
type CreateVideoResponse struct {
	Job   *video.Job    `json:"job"`
	Video VideoResponse `json:"video"`
}

// DownloadResponse reports where a rendered video was stored
type DownloadResponse struct {
	ID         string `json:"id"`
	LocalPath  string `json:"local_path"`
	StorageKey string `json:"storage_key,omitempty"`
}

// PresignedURLResponse is a time-limited link to the mirrored file
type PresignedURLResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ModelInfoResponse is catalog information plus a cost estimate
type ModelInfoResponse struct {
	video.ModelInfo
	Seconds       int             `json:"seconds"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// CompatibilityResponse reports whether a video fits a platform
type CompatibilityResponse struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	*media.Compatibility
}

// SyncResult summarises a SyncPending pass
type SyncResult struct {
	Checked    int `json:"checked"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Downloaded int `json:"downloaded"`
}

// ToVideoResponse converts a generation record
func ToVideoResponse(g *video.Generation) VideoResponse {
	return VideoResponse{
		ID:           g.ID,
		Provider:     g.Provider,
		Model:        g.Model,
		Prompt:       g.Prompt,
		Seconds:      g.Seconds,
		Size:         g.Size,
		Status:       string(g.Status),
		Progress:     g.Progress,
		VideoURL:     g.VideoURL,
		Downloaded:   g.IsDownloaded(),
		StorageKey:   g.StorageKey,
		ErrorMessage: g.ErrorMessage,
		FellBack:     g.FellBack,
		CreatedAt:    g.CreatedAt,
		CompletedAt:  g.CompletedAt,
	}
}

// ToVideoResponses converts a slice of generation records
func ToVideoResponses(gens []video.Generation) []VideoResponse {
	out := make([]VideoResponse, len(gens))
	for i := range gens {
		out[i] = ToVideoResponse(&gens[i])
	}
	return out
}
