package models

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page int
	Size int
}

func NewPage(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Page: page, Size: size}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Size }

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

type PageResult[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

func NewPageResult[T any](items []T, p Page, total int64) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return PageResult[T]{
		Items: items,
		Meta:  PageMeta{Page: p.Page, Size: p.Size, TotalItems: total, TotalPages: pages},
	}
}
