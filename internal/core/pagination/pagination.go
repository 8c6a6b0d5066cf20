// Package pagination splits ordered listings into fixed-size numbered pages.
//
// Pages are 1-based. A missing or non-numeric page number selects the first
// page; a number outside the valid range selects the last page. Counting and
// fetching are pushed down to the caller so the store only returns the rows
// of the requested page.
package pagination

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of items on a listing page.
const DefaultPageSize = 10

// QueryParam is the URL query parameter carrying the page number.
const QueryParam = "page"

// Page is a bounded slice of an ordered listing plus its position.
type Page[T any] struct {
	Items      []T
	Number     int
	NumPages   int
	TotalCount int
	PageSize   int
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether the listing spans more than one page.
func (p *Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

// NextNumber returns the number of the following page.
func (p *Page[T]) NextNumber() int { return p.Number + 1 }

// PreviousNumber returns the number of the preceding page.
func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }

// Range returns every page number, for rendering page links.
func (p *Page[T]) Range() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// StartIndex returns the 1-based position of the first item on the page,
// or 0 for an empty listing.
func (p *Page[T]) StartIndex() int {
	if p.TotalCount == 0 {
		return 0
	}
	return (p.Number-1)*p.PageSize + 1
}

// ParseNumber interprets a raw page parameter. Anything that is not an
// integer yields 1; integers are returned unchanged and clamped later by
// Bounds, once the total count is known.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// NumPages returns the page count for total items. An empty listing still
// has one (empty) page.
func NumPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Bounds resolves a requested page number against the total count and
// returns the effective page number, the page count and the offset/limit to
// fetch.
func Bounds(requested, total, size int) (number, numPages, offset, limit int) {
	numPages = NumPages(total, size)
	number = requested
	if number < 1 || number > numPages {
		number = numPages
	}
	return number, numPages, (number - 1) * size, size
}

// CountFunc returns the total size of a listing.
type CountFunc func(ctx context.Context) (int, error)

// FetchFunc returns up to limit items of a listing starting at offset.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Paginate counts the listing, resolves the requested page and fetches only
// that page's items.
func Paginate[T any](ctx context.Context, requested, size int, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	total, err := count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	number, numPages, offset, limit := Bounds(requested, total, size)

	items := []T{}
	if total > 0 {
		items, err = fetch(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", number, err)
		}
	}

	return &Page[T]{
		Items:      items,
		Number:     number,
		NumPages:   numPages,
		TotalCount: total,
		PageSize:   size,
	}, nil
}

// FromSlice paginates an in-memory slice. It is used where the full
// collection is already loaded.
func FromSlice[T any](all []T, requested, size int) *Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	number, numPages, offset, limit := Bounds(requested, len(all), size)
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	items := []T{}
	if offset < len(all) {
		items = all[offset:end]
	}
	return &Page[T]{
		Items:      items,
		Number:     number,
		NumPages:   numPages,
		TotalCount: len(all),
		PageSize:   size,
	}
}
