// Package pagination provides offset/limit pagination over both database
// queries (as a GORM scope) and in-memory slices (for derived rows such as
// report aggregates that are computed after the database read).
package pagination

import (
	"math"

	"gorm.io/gorm"

	apperrors "spenza/internal/errors"
)

const (
	// DefaultPageSize is applied when a request does not specify page_size.
	DefaultPageSize = 20
	// MaxPageSize bounds server load; larger requests are clamped.
	MaxPageSize = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults normalizes the request: non-positive page becomes 1, missing
// page_size gets the default, and oversized page_size is clamped.
func (p *PageRequest) Defaults() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the SQL OFFSET for the current page. The multiply is
// guarded so an absurdly large page number saturates instead of wrapping
// negative.
func (p *PageRequest) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// Slice paginates an already-ordered in-memory slice. Ordering must be
// established by the caller; Slice never sorts. A page past the end returns
// empty data with correct metadata rather than an error, so stale page links
// on a dashboard degrade gracefully. A non-positive page is treated as page 1.
func Slice[T any](rows []T, page, pageSize int) (PageResponse[T], error) {
	if pageSize <= 0 {
		return PageResponse[T]{}, apperrors.ErrInvalidPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(rows)

	// Pages past the data short-circuit before the offset multiply, which
	// would wrap negative for huge page numbers and panic on the slice below.
	if page-1 > total/pageSize {
		return NewPageResponse([]T{}, page, pageSize, int64(total)), nil
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total || end < 0 {
		end = total
	}

	data := make([]T, end-start)
	copy(data, rows[start:end])

	return NewPageResponse(data, page, pageSize, int64(total)), nil
}
