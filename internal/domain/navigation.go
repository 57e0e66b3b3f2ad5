package domain

// NextPage returns the page after current and whether the reader moved.
// The last page has no successor.
func NextPage(current, last int) (int, bool) {
	if current < last {
		return current + 1, true
	}
	return current, false
}

// PrevPage returns the page before current and whether the reader moved
func PrevPage(current int) (int, bool) {
	if current > 1 {
		return current - 1, true
	}
	return current, false
}

// InRange reports whether page exists in a book of last pages
func InRange(page, last int) bool {
	return page >= 1 && page <= last
}

// AddBookmark appends page unless it is already present
func AddBookmark(bookmarks []int, page int) ([]int, bool) {
	for _, b := range bookmarks {
		if b == page {
			return bookmarks, false
		}
	}
	out := make([]int, 0, len(bookmarks)+1)
	out = append(out, bookmarks...)
	return append(out, page), true
}

// RemoveBookmark returns bookmarks without page, preserving order
func RemoveBookmark(bookmarks []int, page int) []int {
	out := make([]int, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b != page {
			out = append(out, b)
		}
	}
	return out
}
