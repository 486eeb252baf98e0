package shared

import (
	"context"
	"fmt"
	"math"
)

// Pagination defaults applied when the caller does not provide usable values
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100

	// MaxPage keeps Offset within int for every accepted limit
	MaxPage = math.MaxInt / MaxLimit
)

// PageRequest identifies one page of a list endpoint
type PageRequest struct {
	Page  int
	Limit int
}

// DefaultPageRequest returns the first page with the default size
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, Limit: DefaultLimit}
}

// Offset returns the number of rows to skip for this page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Validate rejects pages and limits that cannot produce a meaningful window
func (p PageRequest) Validate() error {
	var v Violations
	v.Check(p.Page >= 1, "page", "La page doit être supérieure ou égale à 1")
	v.Check(p.Page <= MaxPage, "page", fmt.Sprintf("La page ne peut pas dépasser %d", MaxPage))
	v.Check(p.Limit >= 1, "limit", "La limite doit être supérieure ou égale à 1")
	v.Check(p.Limit <= MaxLimit, "limit", fmt.Sprintf("La limite ne peut pas dépasser %d", MaxLimit))
	return v.Err()
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page PageRequest) Paginated[T] {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int(total) / page.Limit
		if int(total)%page.Limit > 0 {
			totalPages++
		}
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}

// MapPaginated projects every item of a page, keeping the paging metadata
func MapPaginated[T, U any](p Paginated[T], fn func(T) U) Paginated[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Paginated[U]{
		Items:      out,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// TransactionScope runs fn atomically: every repository write issued through the
// provided Repositories commits together or not at all.
type TransactionScope[R any] interface {
	Execute(ctx context.Context, fn func(repos R) error) error
}
