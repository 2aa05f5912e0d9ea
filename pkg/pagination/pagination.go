package pagination

const (
	// DefaultPage is used when no page is requested.
	DefaultPage = 1
	// DefaultPerPage is the storefront grid size.
	DefaultPerPage = 12
	// MaxPerPage caps how many rows a single page can request.
	MaxPerPage = 100
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps Page and PerPage into their accepted ranges.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Meta is the pagination block returned next to list payloads.
type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewMeta computes page counts for total rows.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	}
	return Meta{
		Page:    n.Page,
		PerPage: n.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: n.Page < pages,
		HasPrev: n.Page > 1,
	}
}
