package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/contentgen/backend/internal/application/publishing"
)

// CredentialService is what CredentialHandler needs to connect accounts
type CredentialService interface {
	List(ctx context.Context) ([]publishing.CredentialResponse, error)
	AuthURL(ctx context.Context, platform string) (*publishing.AuthURLResponse, error)
	HandleCallback(ctx context.Context, platform, state, code string) (*publishing.CredentialResponse, error)
	Deactivate(ctx context.Context, platform string) (*publishing.CredentialResponse, error)
}

// CredentialHandler handles platform account endpoints
type CredentialHandler struct {
	BaseHandler
	service CredentialService
}

// NewCredentialHandler creates a new CredentialHandler
func NewCredentialHandler(service CredentialService) *CredentialHandler {
	return &CredentialHandler{service: service}
}

// List godoc
// @ID           listCredentials
// @Summary      List connected platform accounts
// @Tags         credentials
// @Produce      json
// @Success      200 {object} APIResponse[[]publishing.CredentialResponse]
// @Router       /credentials [get]
func (h *CredentialHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AuthURL godoc
// @ID           getCredentialAuthURL
// @Summary      Get the OAuth consent URL for a platform
// @Tags         credentials
// @Produce      json
// @Param        platform path string true "Platform"
// @Success      200 {object} APIResponse[publishing.AuthURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /credentials/{platform}/auth-url [get]
func (h *CredentialHandler) AuthURL(c *gin.Context) {
	resp, err := h.service.AuthURL(c.Request.Context(), c.Param("platform"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Callback godoc
// @ID           credentialCallback
// @Summary      Complete the OAuth flow
// @Description  Verifies the signed state, exchanges the code and stores the credential
// @Tags         credentials
// @Produce      json
// @Param        platform path  string true "Platform"
// @Param        state    query string true "Signed state"
// @Param        code     query string true "Authorization code"
// @Success      200 {object} APIResponse[publishing.CredentialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /credentials/{platform}/callback [get]
func (h *CredentialHandler) Callback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		h.BadRequest(c, "Authorization was denied: "+errMsg)
		return
	}

	resp, err := h.service.HandleCallback(c.Request.Context(), c.Param("platform"), c.Query("state"), c.Query("code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate godoc
// @ID           deactivateCredential
// @Summary      Disconnect a platform account
// @Tags         credentials
// @Produce      json
// @Param        platform path string true "Platform"
// @Success      200 {object} APIResponse[publishing.CredentialResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /credentials/{platform} [delete]
func (h *CredentialHandler) Deactivate(c *gin.Context) {
	resp, err := h.service.Deactivate(c.Request.Context(), c.Param("platform"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
