// Package paging slices result lists into fixed-size pages.
package paging

// Page is one window over a list.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, after clamping
	Size       int
	TotalPages int
	TotalItems int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// Offset returns the index in the full list of the page's first item.
func (p Page[T]) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns ceil(total/size), never less than 1.
// A non-positive size means everything fits on one page.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp bounds number to [1, TotalPages(total, size)].
func Clamp(number, total, size int) int {
	last := TotalPages(total, size)
	if number < 1 {
		return 1
	}
	if number > last {
		return last
	}
	return number
}

// Slice returns the requested page of items, clamping number into range.
// The returned Items share the backing array of items.
func Slice[T any](items []T, size, number int) Page[T] {
	total := len(items)
	if size <= 0 {
		size = total
	}

	number = Clamp(number, total, size)
	page := Page[T]{
		Number:     number,
		Size:       size,
		TotalPages: TotalPages(total, size),
		TotalItems: total,
	}
	if total == 0 {
		page.Items = []T{}
		return page
	}

	start := (number - 1) * size
	end := min(start+size, total)
	page.Items = items[start:end]
	return page
}
