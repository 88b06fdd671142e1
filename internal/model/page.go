package model

const (
	DefaultPage = 1
	DefaultTake = 10
	MaxTake     = 50
)

// PageOptions describes a requested page
type PageOptions struct {
	Page int
	Take int
}

// Normalize clamps page and take into their allowed ranges
func (p PageOptions) Normalize() PageOptions {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Take < 1 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	return p
}

// Offset is the number of rows to skip
func (p PageOptions) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Take
}

// PageMeta describes the page that was returned
type PageMeta struct {
	Page            int  `json:"page"`
	Take            int  `json:"take"`
	ItemCount       int  `json:"itemCount"`
	PageCount       int  `json:"pageCount"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// NewPageMeta computes page metadata for itemCount total rows
func NewPageMeta(opts PageOptions, itemCount int) PageMeta {
	opts = opts.Normalize()
	pageCount := (itemCount + opts.Take - 1) / opts.Take
	return PageMeta{
		Page:            opts.Page,
		Take:            opts.Take,
		ItemCount:       itemCount,
		PageCount:       pageCount,
		HasPreviousPage: opts.Page > 1,
		HasNextPage:     opts.Page < pageCount,
	}
}

// Page is a slice of results plus metadata
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
