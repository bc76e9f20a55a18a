package pagination

// OffsetResult is a page of items together with the totals needed to render
// a pager.
type OffsetResult[T any] struct {
	Results    []T   `json:"results"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

func NewOffsetResult[T any](items []T, total int64, page int, size int) *OffsetResult[T] {
	if items == nil {
		items = []T{}
	}
	return &OffsetResult[T]{
		Results:    items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(total, size),
	}
}

// TotalPages is ceil(total/size). A non-positive size yields 0.
func TotalPages(total int64, size int) int64 {
	if size <= 0 {
		return 0
	}
	s := int64(size)
	return (total + s - 1) / s
}
