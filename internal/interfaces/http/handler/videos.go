package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/contentgen/backend/internal/application/video"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/interfaces/http/dto"
)

// VideoService is what VideoHandler needs from the video application service
type VideoService interface {
	Create(ctx context.Context, req video.CreateVideoRequest) (*video.CreateVideoResponse, error)
	List(ctx context.Context, filter video.VideoListFilter) (*shared.Paginated[video.VideoResponse], error)
	Status(ctx context.Context, id string) (*video.VideoResponse, error)
	Download(ctx context.Context, id string) (*video.DownloadResponse, error)
	Content(ctx context.Context, id string) (*os.File, error)
	PresignedURL(ctx context.Context, id string) (*video.PresignedURLResponse, error)
	Compatibility(ctx context.Context, id, platform string) (*video.CompatibilityResponse, error)
	Delete(ctx context.Context, id string) error
	AvailableModels() map[string][]string
	ModelInfo(model string, seconds int) *video.ModelInfoResponse
}

// VideoHandler handles video generation endpoints
type VideoHandler struct {
	BaseHandler
	service VideoService
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(service VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// Create godoc
// @ID           createVideo
// @Summary      Start a video generation
// @Description  Routes the prompt to a provider by model and tracks the job
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        request body video.CreateVideoRequest true "Generation parameters"
// @Success      201 {object} APIResponse[video.CreateVideoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	var req video.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listVideos
// @Summary      List tracked video generations
// @Tags         videos
// @Produce      json
// @Param        status    query string false "Status"
// @Param        model     query string false "Model"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        order_by  query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} PageResponse[video.VideoResponse]
// @Router       /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var filter video.VideoListFilter
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

// Models godoc
// @ID           listVideoModels
// @Summary      List available models per provider
// @Tags         videos
// @Produce      json
// @Success      200 {object} APIResponse[map[string][]string]
// @Router       /videos/models [get]
func (h *VideoHandler) Models(c *gin.Context) {
	h.Success(c, h.service.AvailableModels())
}

// ModelInfo godoc
// @ID           getVideoModel
// @Summary      Get model information and cost estimate
// @Tags         videos
// @Produce      json
// @Param        model   path  string true  "Model name"
// @Param        seconds query int    false "Clip length used for the estimate"
// @Success      200 {object} APIResponse[video.ModelInfoResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /videos/models/{model} [get]
func (h *VideoHandler) ModelInfo(c *gin.Context) {
	seconds := 0
	if raw := c.Query("seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "seconds must be a positive integer")
			return
		}
		seconds = n
	}

	h.Success(c, h.service.ModelInfo(c.Param("model"), seconds))
}

// Get godoc
// @ID           getVideo
// @Summary      Get generation status
// @Description  Refreshes the status from the provider unless the job is finished
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} APIResponse[video.VideoResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Download godoc
// @ID           downloadVideo
// @Summary      Download a finished video to local storage
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} APIResponse[video.DownloadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /videos/{id}/download [post]
func (h *VideoHandler) Download(c *gin.Context) {
	resp, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Content godoc
// @ID           streamVideo
// @Summary      Stream the downloaded MP4
// @Tags         videos
// @Produce      video/mp4
// @Param        id path string true "Video ID"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Router       /videos/{id}/content [get]
func (h *VideoHandler) Content(c *gin.Context) {
	id := c.Param("id")
	f, err := h.service.Content(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.InternalError(c, "Failed to read video file")
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), "video/mp4", f, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s"`, video.FileName(id)),
	})
}

// URL godoc
// @ID           getVideoURL
// @Summary      Get a presigned download URL
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} APIResponse[video.PresignedURLResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /videos/{id}/url [get]
func (h *VideoHandler) URL(c *gin.Context) {
	resp, err := h.service.PresignedURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Compatibility godoc
// @ID           checkVideoCompatibility
// @Summary      Check a downloaded video against a platform's limits
// @Tags         videos
// @Produce      json
// @Param        id       path  string true "Video ID"
// @Param        platform query string true "Platform"
// @Success      200 {object} APIResponse[video.CompatibilityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /videos/{id}/compatibility [get]
func (h *VideoHandler) Compatibility(c *gin.Context) {
	platform := c.Query("platform")
	if platform == "" {
		h.BadRequest(c, "platform is required")
		return
	}

	resp, err := h.service.Compatibility(c.Request.Context(), c.Param("id"), platform)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteVideo
// @Summary      Delete a tracked video and its files
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} APIResponse[dto.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.MessageResponse{Message: "Video deleted successfully", ID: id})
}
