package types

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	// MaxPage keeps (page-1)*per_page well inside a bigint OFFSET.
	MaxPage = 1000000
)

// CollectionParams are the query parameters accepted by every collection route.
type CollectionParams struct {
	Context string `form:"context" binding:"omitempty,oneof=view edit"`
	Page    *int   `form:"page" binding:"omitempty,min=1,max=1000000"`
	PerPage *int   `form:"per_page" binding:"omitempty,min=1,max=100"`
	Search  string `form:"search"`
}

// PaginationHelper holds resolved paging values.
type PaginationHelper struct {
	Page    int
	PerPage int
	Offset  int
}

// Pagination resolves the optional page values against the defaults.
func (p CollectionParams) Pagination() PaginationHelper {
	page, perPage := DefaultPage, DefaultPerPage
	if p.Page != nil {
		page = *p.Page
	}
	if p.PerPage != nil {
		perPage = *p.PerPage
	}
	return NewPaginationHelper(page, perPage)
}

// NewPaginationHelper clamps page to 1..MaxPage and perPage to 1..MaxPerPage.
func NewPaginationHelper(page, perPage int) PaginationHelper {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PaginationHelper{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// ContextOrDefault returns the requested response context, "view" when unset.
func (p CollectionParams) ContextOrDefault() string {
	if p.Context == "" {
		return "view"
	}
	return p.Context
}
