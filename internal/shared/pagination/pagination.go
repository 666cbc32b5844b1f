// Package pagination provides offset-based page plumbing shared by the
// bounded contexts' list operations.
package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
)

// PageRequest selects one page of a result set. Page is 1-indexed.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and clamps the limit.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of records to skip for the normalized request.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Page bundles one page of items with the total match count before paging.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// NewPage builds a Page from a normalized request and query results.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	n := req.Normalize()
	return Page[T]{Items: items, Total: total, Page: n.Page, Limit: n.Limit}
}
