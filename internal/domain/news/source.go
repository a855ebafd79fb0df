package news

import "context"

const (
	DefaultCountry  = "us"
	DefaultPageSize = 20
	MaxFetchSize    = 100
)

// FetchRequest describes a top-headlines query against a source
type FetchRequest struct {
	Category Category
	Country  string
	PageSize int
}

// Normalize fills defaults and clamps the page size to the source maximum
func (r FetchRequest) Normalize() FetchRequest {
	if r.Category == "" {
		r.Category = CategoryGeneral
	}
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxFetchSize {
		r.PageSize = MaxFetchSize
	}
	return r
}

// Source fetches headline drafts from an external news provider.
// Implementations return an empty slice rather than an error when the
// provider is unconfigured or unavailable.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req FetchRequest) ([]Draft, error)
}
