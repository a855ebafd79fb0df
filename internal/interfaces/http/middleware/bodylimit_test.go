package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	echo := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "limit %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	}
	router.POST("/videos", echo)
	router.GET("/videos", echo)
	return router
}

func TestBodyLimit(t *testing.T) {
	t.Run("accepts a prompt within the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(`{"prompt":"a cat"}`))
		w := httptest.NewRecorder()
		newBodyLimitRouter(64).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "18", w.Body.String())
	})

	t.Run("rejects a declared length over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		newBodyLimitRouter(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("caps chunked bodies while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newBodyLimitRouter(50).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "limit 50", w.Body.String())
	})

	t.Run("skips requests without a body", func(t *testing.T) {
		w := httptest.NewRecorder()
		newBodyLimitRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-positive limit disables the check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(strings.Repeat("x", 500)))
		w := httptest.NewRecorder()
		newBodyLimitRouter(0).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "500", w.Body.String())
	})
}
