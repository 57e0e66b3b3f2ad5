package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"bookbot/internal/book"
	"bookbot/internal/domain"
	"bookbot/internal/repository"

	"go.uber.org/zap"
)

var (
	// ErrInvalidPageNumber means the reply is not a number at all
	ErrInvalidPageNumber = errors.New("invalid page number")
	// ErrPageOutOfRange means the number is outside 1..last page
	ErrPageOutOfRange = errors.New("page number out of range")
)

var pageNumberPattern = regexp.MustCompile(`^[-+]?[0-9]*$`)

// ReaderService moves readers through the book and manages bookmarks
type ReaderService struct {
	users  repository.UserRepository
	book   *book.Book
	logger *zap.Logger
}

// NewReaderService creates a new reader service
func NewReaderService(users repository.UserRepository, b *book.Book, logger *zap.Logger) *ReaderService {
	return &ReaderService{
		users:  users,
		book:   b,
		logger: logger,
	}
}

// LastPage returns the number of the book's last page
func (s *ReaderService) LastPage() int {
	return s.book.Len()
}

// Preview returns the beginning of page n for bookmark buttons
func (s *ReaderService) Preview(n, limit int) string {
	return s.book.Preview(n, limit)
}

func (s *ReaderService) page(n int) domain.Page {
	text, _ := s.book.Page(n)
	return domain.Page{Number: n, Total: s.book.Len(), Text: text}
}

// load returns the reader, creating the default record for unknown users
func (s *ReaderService) load(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if !domain.InRange(user.Page, s.book.Len()) {
			// the book may have been re-paginated since the page was stored
			user.Page = 1
		}
		return user, nil
	}

	user = domain.NewUser(userID)
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Created reader on first use", zap.Int64("user_id", userID))
	return user, nil
}

// Start resets the reader to page 1 with no bookmarks, creating the record if needed
func (s *ReaderService) Start(ctx context.Context, userID int64) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if user == nil {
		if err := s.users.Upsert(ctx, domain.NewUser(userID)); err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.logger.Info("New reader", zap.Int64("user_id", userID))
		return nil
	}

	if err := s.users.Update(ctx, userID, domain.ResetUpdate()); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	s.logger.Info("Reader restarted", zap.Int64("user_id", userID))
	return nil
}

// Beginning moves the reader to page 1
func (s *ReaderService) Beginning(ctx context.Context, userID int64) (domain.Page, error) {
	if _, err := s.load(ctx, userID); err != nil {
		return domain.Page{}, fmt.Errorf("beginning: %w", err)
	}
	if err := s.users.Update(ctx, userID, domain.SetPage(1)); err != nil {
		return domain.Page{}, fmt.Errorf("beginning: %w", err)
	}
	return s.page(1), nil
}

// Continue returns the page the reader stopped at
func (s *ReaderService) Continue(ctx context.Context, userID int64) (domain.Page, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return domain.Page{}, fmt.Errorf("continue: %w", err)
	}
	return s.page(user.Page), nil
}

// Forward advances one page. moved is false on the last page.
func (s *ReaderService) Forward(ctx context.Context, userID int64) (page domain.Page, moved bool, err error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return domain.Page{}, false, fmt.Errorf("forward: %w", err)
	}

	next, moved := domain.NextPage(user.Page, s.book.Len())
	if !moved {
		return s.page(user.Page), false, nil
	}
	if err := s.users.Update(ctx, userID, domain.SetPage(next)); err != nil {
		return domain.Page{}, false, fmt.Errorf("forward: %w", err)
	}
	return s.page(next), true, nil
}

// Backward goes back one page. moved is false on the first page.
func (s *ReaderService) Backward(ctx context.Context, userID int64) (page domain.Page, moved bool, err error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return domain.Page{}, false, fmt.Errorf("backward: %w", err)
	}

	prev, moved := domain.PrevPage(user.Page)
	if !moved {
		return s.page(user.Page), false, nil
	}
	if err := s.users.Update(ctx, userID, domain.SetPage(prev)); err != nil {
		return domain.Page{}, false, fmt.Errorf("backward: %w", err)
	}
	return s.page(prev), true, nil
}

// ParsePageNumber validates a typed page number against a book of last pages.
// Empty input and a lone sign are rejected as invalid.
func ParsePageNumber(raw string, last int) (int, error) {
	if !pageNumberPattern.MatchString(raw) {
		return 0, ErrInvalidPageNumber
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrPageOutOfRange
		}
		return 0, ErrInvalidPageNumber
	}

	if !domain.InRange(n, last) {
		return 0, ErrPageOutOfRange
	}
	return n, nil
}

// JumpTo moves the reader to the page typed in raw
func (s *ReaderService) JumpTo(ctx context.Context, userID int64, raw string) (domain.Page, error) {
	n, err := ParsePageNumber(raw, s.book.Len())
	if err != nil {
		return domain.Page{}, err
	}
	if _, err := s.load(ctx, userID); err != nil {
		return domain.Page{}, fmt.Errorf("jump: %w", err)
	}
	if err := s.users.Update(ctx, userID, domain.SetPage(n)); err != nil {
		return domain.Page{}, fmt.Errorf("jump: %w", err)
	}
	return s.page(n), nil
}

// AddBookmark bookmarks the reader's current page. added is false when the
// page was already bookmarked.
func (s *ReaderService) AddBookmark(ctx context.Context, userID int64) (added bool, err error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}

	marks, added := domain.AddBookmark(user.Bookmarks, user.Page)
	if !added {
		return false, nil
	}
	if err := s.users.Update(ctx, userID, domain.SetBookmarks(marks)); err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	return true, nil
}

// Bookmarks returns the reader's bookmarks in insertion order; unknown
// readers have none
func (s *ReaderService) Bookmarks(ctx context.Context, userID int64) ([]int, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bookmarks: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return user.Bookmarks, nil
}

// SelectBookmark moves the reader to a bookmarked page
func (s *ReaderService) SelectBookmark(ctx context.Context, userID int64, page int) (domain.Page, error) {
	if !domain.InRange(page, s.book.Len()) {
		return domain.Page{}, ErrPageOutOfRange
	}
	if _, err := s.load(ctx, userID); err != nil {
		return domain.Page{}, fmt.Errorf("select bookmark: %w", err)
	}
	if err := s.users.Update(ctx, userID, domain.SetPage(page)); err != nil {
		return domain.Page{}, fmt.Errorf("select bookmark: %w", err)
	}
	return s.page(page), nil
}

// DeleteBookmark removes page from the reader's bookmarks and returns what is left
func (s *ReaderService) DeleteBookmark(ctx context.Context, userID int64, page int) ([]int, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete bookmark: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	marks := domain.RemoveBookmark(user.Bookmarks, page)
	if len(marks) == len(user.Bookmarks) {
		return marks, nil
	}
	if err := s.users.Update(ctx, userID, domain.SetBookmarks(marks)); err != nil {
		return nil, fmt.Errorf("delete bookmark: %w", err)
	}
	return marks, nil
}

// ReaderCount returns how many readers have started the bot
func (s *ReaderService) ReaderCount(ctx context.Context) (int, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("reader count: %w", err)
	}
	return count, nil
}
