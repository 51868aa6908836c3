package service

import (
	"math"

	"github.com/hongminglow/blog-be/internal/storage"
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page         int
	ItemsPerPage int
}

// PageResult is one window of a list. HasMore is true whenever the window is
// full, so a full last page still reports more.
type PageResult[T any] struct {
	Items   []T
	HasMore bool
}

func (p Pagination) window() storage.Page {
	page := max(p.Page, 1)
	perPage := max(p.ItemsPerPage, 1)
	// Pages past the addressable range clamp to an offset no store can reach.
	if page-1 > (math.MaxInt-perPage)/perPage {
		return storage.Page{Offset: math.MaxInt, Limit: perPage}
	}
	return storage.Page{Offset: (page - 1) * perPage, Limit: perPage}
}

func paginate[T any](items []T, p Pagination) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, HasMore: len(items) == p.window().Limit}
}
