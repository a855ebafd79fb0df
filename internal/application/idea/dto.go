package idea

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/idea"
)

// GenerateIdeasRequest asks for ideas based on one article
type GenerateIdeasRequest struct {
	ArticleID uuid.UUID `json:"article_id" binding:"required"`
	NumIdeas  int       `json:"num_ideas" binding:"omitempty,min=1,max=10"`
	Styles    []string  `json:"styles" binding:"omitempty,dive,oneof=comedic dramatic satirical educational action slow_motion documentary meme"`
}

// ApproveIdeaRequest records an approval decision
type ApproveIdeaRequest struct {
	IsApproved bool   `json:"is_approved"`
	ApprovedBy string `json:"approved_by" binding:"max=100"`
}

// IdeaListFilter holds list query parameters
type IdeaListFilter struct {
	ArticleID  string `form:"article_id" binding:"omitempty,uuid"`
	IsApproved *bool  `form:"is_approved"`
	Style      string `form:"style" binding:"omitempty,oneof=comedic dramatic satirical educational action slow_motion documentary meme"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// IdeaResponse represents an idea in API responses
type IdeaResponse struct {
	ID                uuid.UUID  `json:"id"`
	ArticleID         uuid.UUID  `json:"article_id"`
	Title             string     `json:"title"`
	Concept           string     `json:"concept"`
	VideoPrompt       string     `json:"video_prompt"`
	Style             string     `json:"style"`
	EstimatedDuration int        `json:"estimated_duration"`
	IsApproved        bool       `json:"is_approved"`
	ApprovedBy        string     `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// GenerateIdeasResponse reports the stored ideas
type GenerateIdeasResponse struct {
	ArticleID      uuid.UUID      `json:"article_id"`
	IdeasGenerated int            `json:"ideas_generated"`
	Ideas          []IdeaResponse `json:"ideas"`
}

// ToIdeaResponse converts a domain idea
func ToIdeaResponse(i *idea.Idea) IdeaResponse {
	return IdeaResponse{
		ID:                i.ID,
		ArticleID:         i.ArticleID,
		Title:             i.Title,
		Concept:           i.Concept,
		VideoPrompt:       i.VideoPrompt,
		Style:             string(i.Style),
		EstimatedDuration: i.EstimatedDuration,
		IsApproved:        i.IsApproved,
		ApprovedBy:        i.ApprovedBy,
		ApprovedAt:        i.ApprovedAt,
		CreatedAt:         i.CreatedAt,
	}
}

// ToIdeaResponses converts a slice of domain ideas
func ToIdeaResponses(ideas []idea.Idea) []IdeaResponse {
	out := make([]IdeaResponse, len(ideas))
	for i := range ideas {
		out[i] = ToIdeaResponse(&ideas[i])
	}
	return out
}
