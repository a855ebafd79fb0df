package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/application/idea"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/interfaces/http/dto"
)

// IdeaService is what IdeaHandler needs from the idea application service
type IdeaService interface {
	Generate(ctx context.Context, req idea.GenerateIdeasRequest) (*idea.GenerateIdeasResponse, error)
	List(ctx context.Context, filter idea.IdeaListFilter) (*shared.Paginated[idea.IdeaResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*idea.IdeaResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req idea.ApproveIdeaRequest) (*idea.IdeaResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdeaHandler handles video idea endpoints
type IdeaHandler struct {
	BaseHandler
	service IdeaService
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(service IdeaService) *IdeaHandler {
	return &IdeaHandler{service: service}
}

// Generate godoc
// @ID           generateIdeas
// @Summary      Generate video ideas
// @Description  Asks the language model for video concepts based on a stored article
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Param        request body idea.GenerateIdeasRequest true "Generation parameters"
// @Success      200 {object} APIResponse[idea.GenerateIdeasResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /ideas/generate [post]
func (h *IdeaHandler) Generate(c *gin.Context) {
	var req idea.GenerateIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listIdeas
// @Summary      List video ideas
// @Tags         ideas
// @Produce      json
// @Param        article_id  query string false "Source article"
// @Param        is_approved query bool   false "Approval flag"
// @Param        style       query string false "Style"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Param        order_by    query string false "Sort field" default(created_at)
// @Param        order_dir   query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} PageResponse[idea.IdeaResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	var filter idea.IdeaListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Page(c, page)
}

// Get godoc
// @ID           getIdea
// @Summary      Get a video idea
// @Tags         ideas
// @Produce      json
// @Param        id path string true "Idea ID"
// @Success      200 {object} APIResponse[idea.IdeaResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve godoc
// @ID           approveIdea
// @Summary      Approve or reject a video idea
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Idea ID"
// @Param        request body idea.ApproveIdeaRequest true "Decision"
// @Success      200 {object} APIResponse[idea.IdeaResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /ideas/{id}/approve [put]
func (h *IdeaHandler) Approve(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req idea.ApproveIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteIdea
// @Summary      Delete a video idea
// @Tags         ideas
// @Produce      json
// @Param        id path string true "Idea ID"
// @Success      200 {object} APIResponse[dto.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /ideas/{id} [delete]
func (h *IdeaHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.MessageResponse{Message: "Idea deleted successfully", ID: id.String()})
}
