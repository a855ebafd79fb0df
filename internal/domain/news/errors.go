package news

import "github.com/contentgen/backend/internal/domain/shared"

var (
	ErrArticleNotFound = shared.NewDomainError(shared.CodeNotFound, "Article not found")
	ErrUnknownSource   = shared.NewDomainError(shared.CodeInvalidInput, "Unknown news source")
	ErrDuplicateURL    = shared.NewDomainError(shared.CodeAlreadyExists, "Article with this URL already exists")
)
