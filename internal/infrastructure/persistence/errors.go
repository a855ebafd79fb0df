package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/shared"
)

// isDuplicateKey reports whether err is a unique constraint violation.
// The string checks cover connections opened without TranslateError.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, domainErr *shared.DomainError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func paginate(db *gorm.DB, p shared.Pagination) *gorm.DB {
	n := p.Normalize()
	return db.Offset(n.Offset()).Limit(n.PageSize)
}
