package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// maxPageSize keeps a rendered page below Telegram's 4096 character limit
const maxPageSize = 4000

// Config holds all application configuration
type Config struct {
	BotToken string  `envconfig:"BOT_TOKEN" required:"true"`
	AdminIDs []int64 `envconfig:"ADMIN_IDS"`
	PGLink   string  `envconfig:"PG_LINK" required:"true"`
	RootPass string  `envconfig:"ROOT_PASS" required:"true"`

	BookPath       string        `envconfig:"BOOK_PATH" default:"book/book.txt"`
	PageSize       int           `envconfig:"PAGE_SIZE" default:"1050"`
	LexiconPath    string        `envconfig:"LEXICON_PATH"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`
	TransientDelay time.Duration `envconfig:"TRANSIENT_DELAY" default:"4s"`
	PollTimeout    time.Duration `envconfig:"POLL_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags
func (c *Config) Validate() error {
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d, got %d", maxPageSize, c.PageSize)
	}
	if c.TransientDelay < 0 {
		return fmt.Errorf("TRANSIENT_DELAY must not be negative")
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("POLL_TIMEOUT must be positive")
	}
	return nil
}

// IsAdmin reports whether userID is listed in ADMIN_IDS
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
