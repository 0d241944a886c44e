package model

const (
	DefaultPage  = 1
	DefaultLimit = 10

	DefaultSortField = "timestamp"
	SortAsc          = "asc"
	SortDesc         = "desc"
)

type PageParams struct {
	Page          int
	Limit         int
	SortField     string
	SortDirection string
}

// Normalized coerces out-of-range paging values to the defaults instead of
// rejecting them.
func (p PageParams) Normalized() PageParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.SortField == "" {
		p.SortField = DefaultSortField
	}
	if p.SortDirection != SortAsc {
		p.SortDirection = SortDesc
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
