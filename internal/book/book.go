package book

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultPageSize is the maximum page length in runes
const DefaultPageSize = 1050

// ErrEmptyBook is returned when the source text yields no pages
var ErrEmptyBook = errors.New("book has no pages")

const endSigns = ",.!:;?"

// Book is an immutable, 1-indexed sequence of pages
type Book struct {
	pages []string
}

// Load reads a UTF-8 text file and splits it into pages
func Load(path string, pageSize int) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("book %s is not valid UTF-8", path)
	}
	return Parse(string(data), pageSize)
}

// Parse splits text into pages of at most pageSize runes.
// A page ends after the last punctuation mark in the window that is not
// followed by another one; windows without such a mark are cut hard.
func Parse(text string, pageSize int) (*Book, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	runes := []rune(text)
	var pages []string

	for start := 0; start < len(runes); {
		size := pageLength(runes, start, pageSize)
		page := strings.TrimSpace(string(runes[start : start+size]))
		if page != "" {
			pages = append(pages, page)
		}
		start += size
	}

	if len(pages) == 0 {
		return nil, ErrEmptyBook
	}
	return &Book{pages: pages}, nil
}

// New builds a book from ready-made pages; used by tests and tools
func New(pages ...string) *Book {
	cp := make([]string, len(pages))
	copy(cp, pages)
	return &Book{pages: cp}
}

// pageLength returns how many runes starting at start form the next page
func pageLength(runes []rune, start, pageSize int) int {
	if len(runes)-start <= pageSize {
		return len(runes) - start
	}

	end := start + pageSize
	for i := end - 1; i > start; i-- {
		if isEndSign(runes[i]) && !isEndSign(runes[i+1]) {
			return i + 1 - start
		}
	}
	return pageSize
}

func isEndSign(r rune) bool {
	return strings.ContainsRune(endSigns, r)
}

// Len returns the number of pages, which is also the last page number
func (b *Book) Len() int {
	return len(b.pages)
}

// Page returns the text of page n and whether it exists
func (b *Book) Page(n int) (string, bool) {
	if n < 1 || n > len(b.pages) {
		return "", false
	}
	return b.pages[n-1], true
}

// Preview returns at most limit runes of page n for button labels
func (b *Book) Preview(n, limit int) string {
	text, ok := b.Page(n)
	if !ok {
		return ""
	}
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}
