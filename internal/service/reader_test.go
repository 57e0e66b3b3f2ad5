package service

import (
	"context"
	"fmt"
	"testing"

	"bookbot/internal/domain"
	"bookbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = int64(123)

func newTestService(repo *testutil.MockUserRepository, pages int) *ReaderService {
	return NewReaderService(repo, testutil.NewTestBook(pages), testutil.NewTestLogger())
}

func TestReaderService_Start(t *testing.T) {
	tests := []struct {
		name          string
		existing      *domain.User
		getError      error
		expectUpsert  bool
		expectUpdate  bool
		expectedError bool
	}{
		{
			name:         "new reader is created",
			existing:     nil,
			expectUpsert: true,
		},
		{
			name:         "existing reader is reset",
			existing:     testutil.NewTestUser(testUserID, 7, 2, 5),
			expectUpdate: true,
		},
		{
			name:          "database error",
			getError:      fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("Get", mock.Anything, testUserID).Return(tt.existing, tt.getError)
			if tt.expectUpsert {
				repo.On("Upsert", mock.Anything, domain.NewUser(testUserID)).Return(nil)
			}
			if tt.expectUpdate {
				repo.On("Update", mock.Anything, testUserID, domain.ResetUpdate()).Return(nil)
			}

			err := newTestService(repo, 10).Start(context.Background(), testUserID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestReaderService_Forward(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		expectedPage int
		expectedMove bool
	}{
		{name: "middle of the book", page: 4, expectedPage: 5, expectedMove: true},
		{name: "first page", page: 1, expectedPage: 2, expectedMove: true},
		{name: "last page is a no-op", page: 10, expectedPage: 10, expectedMove: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, tt.page), nil)
			if tt.expectedMove {
				repo.On("Update", mock.Anything, testUserID, domain.SetPage(tt.expectedPage)).Return(nil)
			}

			page, moved, err := newTestService(repo, 10).Forward(context.Background(), testUserID)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedMove, moved)
			assert.Equal(t, tt.expectedPage, page.Number)
			assert.Equal(t, 10, page.Total)
			assert.Equal(t, fmt.Sprintf("Page %d", tt.expectedPage), page.Text)
			repo.AssertExpectations(t)
		})
	}
}

func TestReaderService_Backward(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		expectedPage int
		expectedMove bool
	}{
		{name: "middle of the book", page: 4, expectedPage: 3, expectedMove: true},
		{name: "last page", page: 10, expectedPage: 9, expectedMove: true},
		{name: "first page is a no-op", page: 1, expectedPage: 1, expectedMove: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, tt.page), nil)
			if tt.expectedMove {
				repo.On("Update", mock.Anything, testUserID, domain.SetPage(tt.expectedPage)).Return(nil)
			}

			page, moved, err := newTestService(repo, 10).Backward(context.Background(), testUserID)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedMove, moved)
			assert.Equal(t, tt.expectedPage, page.Number)
			repo.AssertExpectations(t)
		})
	}
}

func TestReaderService_ForwardCreatesMissingReader(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("Get", mock.Anything, testUserID).Return(nil, nil)
	repo.On("Upsert", mock.Anything, domain.NewUser(testUserID)).Return(nil)
	repo.On("Update", mock.Anything, testUserID, domain.SetPage(2)).Return(nil)

	page, moved, err := newTestService(repo, 3).Forward(context.Background(), testUserID)

	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, page.Number)
	repo.AssertExpectations(t)
}

func TestReaderService_ContinueClampsStalePage(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, 40), nil)

	page, err := newTestService(repo, 3).Continue(context.Background(), testUserID)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
}

func TestReaderService_Beginning(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, 6), nil)
	repo.On("Update", mock.Anything, testUserID, domain.SetPage(1)).Return(nil)

	page, err := newTestService(repo, 10).Beginning(context.Background(), testUserID)

	require.NoError(t, err)
	assert.Equal(t, domain.Page{Number: 1, Total: 10, Text: "Page 1"}, page)
	repo.AssertExpectations(t)
}

func TestParsePageNumber(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expectedPage  int
		expectedError error
	}{
		{name: "valid number", raw: "5", expectedPage: 5},
		{name: "first page", raw: "1", expectedPage: 1},
		{name: "last page", raw: "10", expectedPage: 10},
		{name: "explicit plus sign", raw: "+7", expectedPage: 7},
		{name: "zero", raw: "0", expectedError: ErrPageOutOfRange},
		{name: "past the end", raw: "11", expectedError: ErrPageOutOfRange},
		{name: "negative", raw: "-3", expectedError: ErrPageOutOfRange},
		{name: "overflowing digits", raw: "99999999999999999999999", expectedError: ErrPageOutOfRange},
		{name: "letters", raw: "abc", expectedError: ErrInvalidPageNumber},
		{name: "mixed", raw: "5a", expectedError: ErrInvalidPageNumber},
		{name: "spaces", raw: " 5", expectedError: ErrInvalidPageNumber},
		{name: "empty", raw: "", expectedError: ErrInvalidPageNumber},
		{name: "lone sign", raw: "-", expectedError: ErrInvalidPageNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ParsePageNumber(tt.raw, 10)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page)
		})
	}
}

func TestReaderService_JumpTo(t *testing.T) {
	t.Run("valid page is persisted", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, 1), nil)
		repo.On("Update", mock.Anything, testUserID, domain.SetPage(5)).Return(nil)

		page, err := newTestService(repo, 10).JumpTo(context.Background(), testUserID, "5")

		require.NoError(t, err)
		assert.Equal(t, 5, page.Number)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input touches nothing", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)

		for _, raw := range []string{"0", "11", "abc", ""} {
			_, err := newTestService(repo, 10).JumpTo(context.Background(), testUserID, raw)
			assert.Error(t, err, raw)
		}
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReaderService_AddBookmark(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		expectedMarks []int
		expectedAdded bool
	}{
		{
			name:          "first bookmark",
			user:          testutil.NewTestUser(testUserID, 3),
			expectedMarks: []int{3},
			expectedAdded: true,
		},
		{
			name:          "appended in insertion order",
			user:          testutil.NewTestUser(testUserID, 2, 8),
			expectedMarks: []int{8, 2},
			expectedAdded: true,
		},
		{
			name:          "already bookmarked",
			user:          testutil.NewTestUser(testUserID, 3, 3),
			expectedAdded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("Get", mock.Anything, testUserID).Return(tt.user, nil)
			if tt.expectedAdded {
				repo.On("Update", mock.Anything, testUserID, domain.SetBookmarks(tt.expectedMarks)).Return(nil)
			}

			added, err := newTestService(repo, 10).AddBookmark(context.Background(), testUserID)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedAdded, added)
			repo.AssertExpectations(t)
		})
	}
}

func TestReaderService_Bookmarks(t *testing.T) {
	t.Run("unknown reader has none", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("Get", mock.Anything, testUserID).Return(nil, nil)

		marks, err := newTestService(repo, 10).Bookmarks(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Empty(t, marks)
	})

	t.Run("database error", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("db error"))

		_, err := newTestService(repo, 10).Bookmarks(context.Background(), testUserID)

		assert.Error(t, err)
	})
}

func TestReaderService_SelectBookmark(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("Get", mock.Anything, testUserID).Return(testutil.NewTestUser(testUserID, 1, 7), nil)
	repo.On("Update", mock.Anything, testUserID, domain.SetPage(7)).Return(nil)
	svc := newTestService(repo, 10)

	page, err := svc.SelectBookmark(context.Background(), testUserID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Number)

	_, err = svc.SelectBookmark(context.Background(), testUserID, 11)
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	repo.AssertExpectations(t)
}

func TestReaderService_DeleteBookmark(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		page          int
		expectUpdate  bool
		expectedMarks []int
	}{
		{
			name:          "remove bookmarked page",
			user:          testutil.NewTestUser(testUserID, 1, 4, 9),
			page:          4,
			expectUpdate:  true,
			expectedMarks: []int{9},
		},
		{
			name:          "remove absent page keeps list",
			user:          testutil.NewTestUser(testUserID, 1, 4, 9),
			page:          5,
			expectedMarks: []int{4, 9},
		},
		{
			name:          "unknown reader",
			user:          nil,
			page:          5,
			expectedMarks: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("Get", mock.Anything, testUserID).Return(tt.user, nil)
			if tt.expectUpdate {
				repo.On("Update", mock.Anything, testUserID, domain.SetBookmarks(tt.expectedMarks)).Return(nil)
			}

			marks, err := newTestService(repo, 10).DeleteBookmark(context.Background(), testUserID, tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedMarks, marks)
			repo.AssertExpectations(t)
		})
	}
}

func TestReaderService_ReaderCount(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("Count", mock.Anything).Return(3, nil)

	count, err := newTestService(repo, 10).ReaderCount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
