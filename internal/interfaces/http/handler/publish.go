package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/application/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
)

// MetadataService is what PublishHandler needs for metadata generation
type MetadataService interface {
	GenerateMetadata(ctx context.Context, req publishing.GenerateMetadataRequest) (*publishing.MetadataResponse, error)
	GenerateBulkMetadata(ctx context.Context, req publishing.BulkMetadataRequest) (*publishing.BulkMetadataResponse, error)
}

// PublishService is what PublishHandler needs for uploads and records
type PublishService interface {
	PublishYouTube(ctx context.Context, req publishing.PublishRequest) (*publishing.PublishResponse, error)
	BulkPublish(ctx context.Context, req publishing.BulkPublishRequest) ([]publishing.PublishResponse, error)
	List(ctx context.Context, filter publishing.PublishListFilter) (*shared.Paginated[publishing.PublishResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*publishing.PublishResponse, error)
	Delete(ctx context.Context, id uuid.UUID, fromPlatform bool) (*publishing.DeleteResponse, error)
	Analytics(ctx context.Context, id uuid.UUID, refresh bool) (*publishing.AnalyticsSnapshot, error)
	Retry(ctx context.Context, id uuid.UUID) (*publishing.PublishResponse, error)
}

// PublishHandler handles publishing endpoints
type PublishHandler struct {
	BaseHandler
	metadata MetadataService
	publish  PublishService
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(metadata MetadataService, publish PublishService) *PublishHandler {
	return &PublishHandler{metadata: metadata, publish: publish}
}

// GenerateMetadata godoc
// @ID           generatePublishMetadata
// @Summary      Generate upload metadata for one platform
// @Tags         publish
// @Accept       json
// @Produce      json
// @Param        request body publishing.GenerateMetadataRequest true "Metadata request"
// @Success      200 {object} APIResponse[publishing.MetadataResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /publish/metadata [post]
func (h *PublishHandler) GenerateMetadata(c *gin.Context) {
	var req publishing.GenerateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.metadata.GenerateMetadata(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateBulkMetadata godoc
// @ID           generateBulkPublishMetadata
// @Summary      Generate upload metadata for several platforms
// @Description  Platforms whose generation fails are left out of the result
// @Tags         publish
// @Accept       json
// @Produce      json
// @Param        request body publishing.BulkMetadataRequest true "Bulk metadata request"
// @Success      200 {object} APIResponse[publishing.BulkMetadataResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /publish/metadata/bulk [post]
func (h *PublishHandler) GenerateBulkMetadata(c *gin.Context) {
	var req publishing.BulkMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.metadata.GenerateBulkMetadata(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// PublishYouTube godoc
// @ID           publishYouTube
// @Summary      Upload a video to YouTube
// @Description  Uploads immediately, or stores a scheduled record when scheduling is enabled
// @Tags         publish
// @Accept       json
// @Produce      json
// @Param        request body publishing.PublishRequest true "Publish request"
// @Success      200 {object} APIResponse[publishing.PublishResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /publish/youtube [post]
func (h *PublishHandler) PublishYouTube(c *gin.Context) {
	var req publishing.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.publish.PublishYouTube(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// BulkPublish godoc
// @ID           bulkPublish
// @Summary      Publish one video to several platforms
// @Tags         publish
// @Accept       json
// @Produce      json
// @Param        request body publishing.BulkPublishRequest true "Bulk publish request"
// @Success      200 {object} APIResponse[[]publishing.PublishResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /publish/bulk [post]
func (h *PublishHandler) BulkPublish(c *gin.Context) {
	var req publishing.BulkPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.publish.BulkPublish(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listPublished
// @Summary      List publication records
// @Tags         publish
// @Produce      json
// @Param        platform  query string false "Platform"
// @Param        status    query string false "Status"
// @Param        video_id  query string false "Video ID"
// @Param        idea_id   query string false "Idea ID"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        order_by  query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} PageResponse[publishing.PublishResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /publish [get]
func (h *PublishHandler) List(c *gin.Context) {
	var filter publishing.PublishListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.publish.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Page(c, page)
}

// Get godoc
// @ID           getPublished
// @Summary      Get a publication record
// @Tags         publish
// @Produce      json
// @Param        id path string true "Publication ID"
// @Success      200 {object} APIResponse[publishing.PublishResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /publish/{id} [get]
func (h *PublishHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.publish.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deletePublished
// @Summary      Delete a publication record
// @Tags         publish
// @Produce      json
// @Param        id                   path  string true  "Publication ID"
// @Param        delete_from_platform query bool   false "Also delete the platform video"
// @Success      200 {object} APIResponse[publishing.DeleteResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /publish/{id} [delete]
func (h *PublishHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	fromPlatform, ok := h.boolQuery(c, "delete_from_platform")
	if !ok {
		return
	}

	resp, err := h.publish.Delete(c.Request.Context(), id, fromPlatform)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Analytics godoc
// @ID           getPublishedAnalytics
// @Summary      Get engagement analytics
// @Description  Returns stored counters, or fresh platform numbers when refresh is set
// @Tags         publish
// @Produce      json
// @Param        id      path  string true  "Publication ID"
// @Param        refresh query bool   false "Fetch fresh data from the platform"
// @Success      200 {object} APIResponse[publishing.AnalyticsSnapshot]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /publish/{id}/analytics [get]
func (h *PublishHandler) Analytics(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	refresh, ok := h.boolQuery(c, "refresh")
	if !ok {
		return
	}

	resp, err := h.publish.Analytics(c.Request.Context(), id, refresh)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Retry godoc
// @ID           retryPublish
// @Summary      Retry a failed publication
// @Tags         publish
// @Produce      json
// @Param        id path string true "Publication ID"
// @Success      200 {object} APIResponse[publishing.PublishResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /publish/{id}/retry [post]
func (h *PublishHandler) Retry(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.publish.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
