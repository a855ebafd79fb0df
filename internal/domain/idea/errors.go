package idea

import "github.com/contentgen/backend/internal/domain/shared"

var (
	ErrIdeaNotFound    = shared.NewDomainError(shared.CodeNotFound, "Video idea not found")
	ErrInvalidResponse = shared.NewDomainError(shared.CodeInvalidInput, "Language model returned an invalid idea list")
)
