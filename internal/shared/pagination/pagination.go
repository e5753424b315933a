package pagination

import "sort"

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Request is a zero-based page request.
type Request struct {
	Page int
	Size int
}

// Normalize applies defaults and bounds.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// Empty reports whether the page holds no items.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}

// Slice cuts the requested page out of items, which must already be ordered.
func Slice[T any](items []T, req Request) Page[T] {
	req = req.Normalize()
	total := len(items)
	page := Page[T]{
		Items:      []T{},
		Number:     req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: (total + req.Size - 1) / req.Size,
	}
	start := req.Page * req.Size
	if start >= total {
		return page
	}
	end := start + req.Size
	if end > total {
		end = total
	}
	page.Items = append(page.Items, items[start:end]...)
	return page
}

// SortByID orders items ascending by the key returned from id.
func SortByID[T any](items []T, id func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Items:      make([]U, 0, len(page.Items)),
		Number:     page.Number,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
	for _, item := range page.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
