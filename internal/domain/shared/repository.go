package shared

// Filter is the paging and ordering request handed to repository list
// methods. Page is 1-based; PageSize 0 means unpaged.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter is the first page, newest first
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 6, OrderBy: "created_at", OrderDir: "desc"}
}

func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of T together with the unpaged total
type Paginated[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	return Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}
