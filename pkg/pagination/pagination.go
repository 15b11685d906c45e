package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Params{Page: page, PageSize: size}
}

// Meta describes the position of the currently loaded page within the
// remote collection. It is derived from a list response envelope and is
// never mutated independently of a fetch.
type Meta struct {
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
}

// NewMeta computes page metadata from a total record count and the
// requested page/page_size.
func NewMeta(total, page, pageSize int) Meta {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  pages,
		PageSize:    pageSize,
	}
}

// HasNext returns true if there are more pages after the current one.
func (m Meta) HasNext() bool {
	return m.CurrentPage < m.TotalPages
}

// HasPrevious returns true if there are pages before the current one.
func (m Meta) HasPrevious() bool {
	return m.CurrentPage > 1
}

// NextPage returns the page number of the following page, clamped to the
// last page.
func (m Meta) NextPage() int {
	if !m.HasNext() {
		return m.TotalPages
	}
	return m.CurrentPage + 1
}

// PreviousPage returns the page number of the preceding page.
// Returns 1 if the result would go below the first page.
func (m Meta) PreviousPage() int {
	if m.CurrentPage <= 1 {
		return 1
	}
	return m.CurrentPage - 1
}
