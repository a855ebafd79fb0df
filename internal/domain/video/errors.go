package video

import (
	"fmt"

	"github.com/contentgen/backend/internal/domain/shared"
)

var (
	ErrPollTimeout         = shared.NewDomainError(shared.CodeExternalService, "Video generation did not finish before the polling timeout")
	ErrGenerationNotFound  = shared.NewDomainError(shared.CodeNotFound, "Video generation not found")
	ErrPromptRequired      = shared.NewDomainError(shared.CodeInvalidInput, "prompt is required")
	ErrPromptTooLong       = shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("prompt exceeds %d characters", MaxPromptLength))
	ErrVideoNotReady       = shared.NewDomainError(shared.CodeInvalidState, "Video is not completed yet")
	ErrVideoFileNotFound   = shared.NewDomainError(shared.CodeNotFound, "Video file not found in storage")
	ErrProviderUnavailable = shared.NewDomainError(shared.CodeNotConfigured, "Video provider is not configured")
)

// UnsupportedModelError is returned when no provider serves a model
func UnsupportedModelError(model string) error {
	return shared.InvalidInputf("unsupported model %q", model)
}
