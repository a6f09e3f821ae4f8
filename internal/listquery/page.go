// Package listquery builds the WHERE clauses and pagination shared by every
// list endpoint: a typed filter compiled to SQL plus a uniform result page.
package listquery

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized page request. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page and limit to their valid ranges. Zero values take the
// defaults (page 1, limit 10).
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result is one page of items plus the totals of the whole filtered set.
type Result[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// NewResult assembles a Result. Items is never nil so it encodes as [].
func NewResult[T any](items []T, total int64, page Page) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:       items,
		TotalCount:  total,
		TotalPages:  TotalPages(total, page.Limit),
		CurrentPage: page.Page,
	}
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
