package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/interfaces/http/dto"
	"github.com/contentgen/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccessAndCreated(t *testing.T) {
	h := &BaseHandler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h.Success(c, map[string]string{"key": "value"})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	h.Created(c, map[string]string{"id": "vid_1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestPage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	page := shared.NewPaginated([]string{"a", "b"}, 45, 2, 20)
	Page(c, &page)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 2)
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.RequestIDKey, "req-123")

	h.BadRequest(c, "bad")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.NotFoundf("Video %s not found", "v1"), http.StatusNotFound, shared.CodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, shared.CodeAlreadyExists},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, shared.CodeInvalidInput},
		{"invalid state", shared.ErrInvalidState, http.StatusBadRequest, shared.CodeInvalidState},
		{"not configured", shared.ErrNotConfigured, http.StatusServiceUnavailable, shared.CodeNotConfigured},
		{"external service", shared.ErrExternalService, http.StatusInternalServerError, shared.CodeExternalService},
		{"wrapped", fmt.Errorf("saving: %w", shared.ErrNotFound), http.StatusNotFound, shared.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleNonDomainError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleDomainError(c, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, shared.CodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}

func TestBaseHandlerBoolQuery(t *testing.T) {
	tests := []struct {
		query string
		value bool
		ok    bool
	}{
		{"", false, true},
		{"?flag=true", true, true},
		{"?flag=0", false, true},
		{"?flag=maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			v, ok := h.boolQuery(c, "flag")
			assert.Equal(t, tt.value, v)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestBaseHandlerBindError(t *testing.T) {
	type request struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	middleware.SetupValidator()

	tests := []struct {
		name   string
		body   string
		limit  int64
		status int
		code   string
	}{
		{"validation", `{}`, 1 << 10, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed", `{"prompt":`, 1 << 10, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"cut off by body limit", `{"prompt":"` + strings.Repeat("x", 64) + `"}`, 16, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := gin.New()
			router.Use(middleware.BodyLimit(tt.limit))
			router.POST("/videos", func(c *gin.Context) {
				var req request
				if err := c.ShouldBindJSON(&req); err != nil {
					h.BindError(c, err)
					return
				}
				h.Success(c, req)
			})

			req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = -1
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}
