package testutil

import (
	"fmt"

	"bookbot/internal/book"
	"bookbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, page int, bookmarks ...int) *domain.User {
	if bookmarks == nil {
		bookmarks = []int{}
	}
	return &domain.User{
		UserID:    userID,
		Page:      page,
		Bookmarks: bookmarks,
	}
}

// NewTestBook creates a book whose page n reads "Page n"
func NewTestBook(pages int) *book.Book {
	texts := make([]string, pages)
	for i := range texts {
		texts[i] = fmt.Sprintf("Page %d", i+1)
	}
	return book.New(texts...)
}
