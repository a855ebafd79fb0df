package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/application/news"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/interfaces/http/dto"
)

// NewsService is what NewsHandler needs from the news application service
type NewsService interface {
	FetchAndSave(ctx context.Context, req news.FetchNewsRequest) (*news.FetchNewsResponse, error)
	List(ctx context.Context, filter news.ArticleListFilter) (*shared.Paginated[news.ArticleResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*news.ArticleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewsHandler handles news article endpoints
type NewsHandler struct {
	BaseHandler
	service NewsService
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(service NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// Fetch godoc
// @ID           fetchNews
// @Summary      Fetch news articles
// @Description  Fetches headlines from a news source and stores the ones not seen before
// @Tags         news
// @Accept       json
// @Produce      json
// @Param        request body news.FetchNewsRequest true "Fetch parameters"
// @Success      200 {object} APIResponse[news.FetchNewsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /news/fetch [post]
func (h *NewsHandler) Fetch(c *gin.Context) {
	var req news.FetchNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.FetchAndSave(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listNews
// @Summary      List news articles
// @Tags         news
// @Produce      json
// @Param        category     query string false "Category"
// @Param        is_processed query bool   false "Processed flag"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Param        order_by     query string false "Sort field" default(created_at)
// @Param        order_dir    query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} PageResponse[news.ArticleResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	var filter news.ArticleListFilter
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
// @ID           getNews
// @Summary      Get a news article
// @Tags         news
// @Produce      json
// @Param        id path string true "Article ID"
// @Success      200 {object} APIResponse[news.ArticleResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	article, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, article)
}

// Delete godoc
// @ID           deleteNews
// @Summary      Delete a news article
// @Tags         news
// @Produce      json
// @Param        id path string true "Article ID"
// @Success      200 {object} APIResponse[dto.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.MessageResponse{Message: "Article deleted successfully", ID: id.String()})
}
