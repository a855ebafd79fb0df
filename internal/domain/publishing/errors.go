package publishing

import (
	"fmt"

	"github.com/contentgen/backend/internal/domain/shared"
)

var (
	ErrPublishedVideoNotFound = shared.NewDomainError(shared.CodeNotFound, "Published video not found")
	ErrCredentialNotFound     = shared.NewDomainError(shared.CodeNotFound, "Platform credential not found")
	ErrUnknownPlatform        = shared.NewDomainError(shared.CodeInvalidInput, "Unknown platform")
	ErrYouTubeOnly            = shared.NewDomainError(shared.CodeInvalidInput, "This endpoint is for YouTube only")
	ErrNotPublishedYet        = shared.NewDomainError(shared.CodeInvalidState, "Video not published to platform yet")
	ErrInvalidOAuthState      = shared.NewDomainError(shared.CodeInvalidInput, "Invalid or expired OAuth state")
)

// PublishFailedError wraps an upload failure. It maps to a 500.
func PublishFailedError(cause error) error {
	return shared.WrapDomainError(shared.CodeInternal, fmt.Sprintf("Failed to publish: %v", cause), cause)
}

// VideoFileNotFoundError reports a missing local render
func VideoFileNotFoundError(videoID string) error {
	return shared.NotFoundf("Video %s not found", videoID)
}

// RetryNotAllowedError reports a retry of a non-failed record
func RetryNotAllowedError(status Status) error {
	return shared.InvalidStatef("Can only retry failed videos. Current status: %s", status)
}

// UnsupportedPlatformError reports a platform with no publisher
func UnsupportedPlatformError(p Platform) error {
	return shared.InvalidInputf("Platform %s not supported", p)
}
