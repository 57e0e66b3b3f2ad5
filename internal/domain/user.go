package domain

// User is a reader's persisted state
type User struct {
	UserID    int64
	Page      int
	Bookmarks []int
	UserState bool
	MessageID int
}

// NewUser returns the state every reader starts with
func NewUser(userID int64) *User {
	return &User{
		UserID:    userID,
		Page:      1,
		Bookmarks: []int{},
	}
}

// HasBookmark reports whether page is already bookmarked
func (u *User) HasBookmark(page int) bool {
	for _, b := range u.Bookmarks {
		if b == page {
			return true
		}
	}
	return false
}

// UserUpdate describes a partial update; nil fields are left untouched
type UserUpdate struct {
	Page      *int
	Bookmarks *[]int
	UserState *bool
	MessageID *int
}

// IsEmpty reports whether the update changes nothing
func (u UserUpdate) IsEmpty() bool {
	return u.Page == nil && u.Bookmarks == nil && u.UserState == nil && u.MessageID == nil
}

// SetPage returns an update that only moves the reader to page
func SetPage(page int) UserUpdate {
	return UserUpdate{Page: &page}
}

// SetBookmarks returns an update that only replaces the bookmark list
func SetBookmarks(bookmarks []int) UserUpdate {
	if bookmarks == nil {
		bookmarks = []int{}
	}
	return UserUpdate{Bookmarks: &bookmarks}
}

// ResetUpdate returns the update applied by /start to an existing reader
func ResetUpdate() UserUpdate {
	page := 1
	bookmarks := []int{}
	state := false
	messageID := 0
	return UserUpdate{
		Page:      &page,
		Bookmarks: &bookmarks,
		UserState: &state,
		MessageID: &messageID,
	}
}
