// Package youtube wraps the YouTube Data API v3 for uploads, metadata
// updates and channel analytics.
package youtube

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	yt "google.golang.org/api/youtube/v3"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

// Scopes requested on consent
var Scopes = []string{yt.YoutubeUploadScope, yt.YoutubeScope}

// ErrNotConfigured is returned when neither client credentials nor a
// client secrets file are available
var ErrNotConfigured = errors.New("youtube: OAuth client not configured")

// OAuthConfig builds the OAuth2 client configuration. Explicit client id
// and secret win over the Google client secrets file.
func OAuthConfig(cfg config.YouTubeConfig) (*oauth2.Config, error) {
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		return &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}
	if cfg.CredentialsFile == "" {
		return nil, ErrNotConfigured
	}

	raw, err := os.ReadFile(cfg.CredentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("youtube: read client secrets: %w", err)
	}
	oc, err := google.ConfigFromJSON(raw, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("youtube: parse client secrets: %w", err)
	}
	if cfg.RedirectURL != "" {
		oc.RedirectURL = cfg.RedirectURL
	}
	return oc, nil
}

// AuthCodeURL returns the consent URL requesting offline access
func AuthCodeURL(oc *oauth2.Config, state string) string {
	return oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}
