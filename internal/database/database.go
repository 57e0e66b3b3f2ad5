package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrWrongPassword is returned when a destructive operation is not confirmed
var ErrWrongPassword = errors.New("root password does not match")

// RetryPolicy controls how Connect waits for PostgreSQL to come up
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry waits up to a minute for the database
var DefaultRetry = RetryPolicy{Attempts: 30, Delay: 2 * time.Second}

// Connect connects to PostgreSQL with retries
func Connect(ctx context.Context, dsn string, policy RetryPolicy, logger *zap.Logger) (*sqlx.DB, error) {
	var err error

	for i := 0; i < policy.Attempts; i++ {
		var db *sqlx.DB
		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
		} else if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
			return db, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", policy.Attempts, err)
}

func newMigrator(db *sqlx.DB, sourceURL string) (*migrate.Migrate, error) {
	driver, err := postgresdb.WithInstance(db.DB, &postgresdb.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending up migrations from sourceURL
func Migrate(db *sqlx.DB, sourceURL string, logger *zap.Logger) error {
	m, err := newMigrator(db, sourceURL)
	if err != nil {
		return err
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("Migrations applied successfully", zap.Uint("version", version))
	return nil
}

// Rollback reverts every migration, dropping the readers table.
// password must equal the configured root password.
func Rollback(db *sqlx.DB, sourceURL, password, rootPass string, logger *zap.Logger) error {
	if rootPass == "" || password != rootPass {
		return ErrWrongPassword
	}

	m, err := newMigrator(db, sourceURL)
	if err != nil {
		return err
	}

	err = m.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("Nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	logger.Warn("All migrations rolled back")
	return nil
}
