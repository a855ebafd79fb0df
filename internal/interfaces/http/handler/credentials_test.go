package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contentgen/backend/internal/application/publishing"
	pubdomain "github.com/contentgen/backend/internal/domain/publishing"
)

func newCredentialTestRouter(svc CredentialService) *gin.Engine {
	r := newTestEngine()
	h := NewCredentialHandler(svc)
	r.GET("/credentials", h.List)
	r.GET("/credentials/:platform/auth-url", h.AuthURL)
	r.GET("/credentials/:platform/callback", h.Callback)
	r.DELETE("/credentials/:platform", h.Deactivate)
	return r
}

func TestCredentialHandler(t *testing.T) {
	svc := new(mockCredentialService)
	svc.On("List", mock.Anything).Return([]publishing.CredentialResponse{{Platform: "youtube", IsActive: true}}, nil)
	svc.On("AuthURL", mock.Anything, "youtube").
		Return(&publishing.AuthURLResponse{Platform: "youtube", AuthURL: "https://accounts.google.com/o/oauth2/auth?state=s1", State: "s1"}, nil)
	svc.On("AuthURL", mock.Anything, "tiktok").Return(nil, pubdomain.UnsupportedPlatformError(pubdomain.PlatformTikTok))
	svc.On("HandleCallback", mock.Anything, "youtube", "s1", "code-1").
		Return(&publishing.CredentialResponse{Platform: "youtube", IsActive: true, ChannelTitle: "Robots Daily"}, nil)
	svc.On("HandleCallback", mock.Anything, "youtube", "forged", "code-1").Return(nil, pubdomain.ErrInvalidOAuthState)
	svc.On("Deactivate", mock.Anything, "instagram").Return(nil, pubdomain.ErrCredentialNotFound)
	r := newCredentialTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/credentials", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)

	w = doRequest(t, r, http.MethodGet, "/credentials/youtube/auth-url", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", decodeResponse(t, w).Data.(map[string]any)["state"])

	w = doRequest(t, r, http.MethodGet, "/credentials/tiktok/auth-url", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/credentials/youtube/callback?state=s1&code=code-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Robots Daily", decodeResponse(t, w).Data.(map[string]any)["channel_title"])

	w = doRequest(t, r, http.MethodGet, "/credentials/youtube/callback?state=forged&code=code-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/credentials/youtube/callback?error=access_denied", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeResponse(t, w).Error.Message, "access_denied")

	w = doRequest(t, r, http.MethodDelete, "/credentials/instagram", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}
