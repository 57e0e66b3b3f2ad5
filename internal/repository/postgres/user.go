package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookbot/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

type userRow struct {
	UserID    int64         `db:"user_id"`
	Page      int           `db:"page"`
	Bookmarks pq.Int64Array `db:"bookmarks"`
	UserState bool          `db:"user_state"`
	MessageID int           `db:"message_id"`
}

func (r userRow) toDomain() *domain.User {
	marks := make([]int, len(r.Bookmarks))
	for i, b := range r.Bookmarks {
		marks[i] = int(b)
	}
	return &domain.User{
		UserID:    r.UserID,
		Page:      r.Page,
		Bookmarks: marks,
		UserState: r.UserState,
		MessageID: r.MessageID,
	}
}

func toArray(bookmarks []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(bookmarks))
	for i, b := range bookmarks {
		arr[i] = int64(b)
	}
	return arr
}

// Get loads a reader by id
func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	var row userRow
	query := `SELECT user_id, page, bookmarks, user_state, message_id FROM users WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)

	if errors.Is(err, sql.ErrNoRows) {
		// User doesn't exist yet
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	return row.toDomain(), nil
}

// Upsert creates the reader or replaces every column of the existing row
func (r *UserRepo) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, page, bookmarks, user_state, message_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET page = EXCLUDED.page,
			bookmarks = EXCLUDED.bookmarks,
			user_state = EXCLUDED.user_state,
			message_id = EXCLUDED.message_id
	`
	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Page, toArray(user.Bookmarks), user.UserState, user.MessageID,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.UserID, err)
	}
	return nil
}

// Update writes only the fields set in upd
func (r *UserRepo) Update(ctx context.Context, userID int64, upd domain.UserUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Page != nil {
		add("page", *upd.Page)
	}
	if upd.Bookmarks != nil {
		add("bookmarks", toArray(*upd.Bookmarks))
	}
	if upd.UserState != nil {
		add("user_state", *upd.UserState)
	}
	if upd.MessageID != nil {
		add("message_id", *upd.MessageID)
	}
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user %d: %w", userID, err)
	}
	return nil
}

// Count returns the number of known readers
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
