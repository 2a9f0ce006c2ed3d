package shared

// Page sizes shared by every listing endpoint
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter pages and sorts a listing. OrderBy is a client sort key;
// repositories resolve it against their own column whitelist.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Normalize fills in defaults: page 1, DefaultPageSize, descending. A
// positive maxPageSize caps PageSize.
func (f Filter) Normalize(maxPageSize int) Filter {
	f.Page = max(f.Page, 1)
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 {
		f.PageSize = min(f.PageSize, maxPageSize)
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	return f
}

// Offset is the number of rows before the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a listing plus the numbers needed to render the
// rest; the HTTP layer lifts the counts into the envelope's meta block
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginated wraps items; TotalPages rounds up and is 0 for an empty listing
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	pageSize = max(pageSize, 1)
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
