package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Lexicon holds every user-visible string of the bot
type Lexicon struct {
	Start          string    `yaml:"start"`
	Help           string    `yaml:"help"`
	Bookmarks      string    `yaml:"bookmarks"`
	EditBookmarks  string    `yaml:"edit_bookmarks"`
	NoBookmarks    string    `yaml:"no_bookmarks"`
	Cancel         string    `yaml:"cancel"`
	BookmarkAdded  string    `yaml:"bookmark_added"`
	EnterPage      string    `yaml:"enter_page"`
	PageOutOfRange string    `yaml:"page_out_of_range"`
	InvalidPage    string    `yaml:"invalid_page"`
	Failure        string    `yaml:"failure"`
	Stats          string    `yaml:"stats"`
	Buttons        Buttons   `yaml:"buttons"`
	Commands       []Command `yaml:"commands"`
}

// Buttons holds inline keyboard labels
type Buttons struct {
	Backward      string `yaml:"backward"`
	Forward       string `yaml:"forward"`
	Navigation    string `yaml:"navigation"`
	EditBookmarks string `yaml:"edit_bookmarks"`
	Delete        string `yaml:"delete"`
	Cancel        string `yaml:"cancel"`
}

// Command is an entry of the bot's command menu
type Command struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

// Default returns the built-in lexicon
func Default() *Lexicon {
	var l Lexicon
	if err := yaml.Unmarshal(defaultYAML, &l); err != nil {
		panic(fmt.Sprintf("lexicon: invalid built-in default.yaml: %v", err))
	}
	return &l
}

// Load returns the built-in lexicon overridden by the YAML file at path.
// An empty path yields the defaults.
func Load(path string) (*Lexicon, error) {
	l := Default()
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return l, nil
}

// Validate checks that no text the handlers rely on is blank
func (l *Lexicon) Validate() error {
	required := map[string]string{
		"start":              l.Start,
		"help":               l.Help,
		"bookmarks":          l.Bookmarks,
		"edit_bookmarks":     l.EditBookmarks,
		"no_bookmarks":       l.NoBookmarks,
		"cancel":             l.Cancel,
		"bookmark_added":     l.BookmarkAdded,
		"enter_page":         l.EnterPage,
		"page_out_of_range":  l.PageOutOfRange,
		"invalid_page":       l.InvalidPage,
		"failure":            l.Failure,
		"stats":              l.Stats,
		"buttons.backward":   l.Buttons.Backward,
		"buttons.forward":    l.Buttons.Forward,
		"buttons.navigation": l.Buttons.Navigation,
		"buttons.delete":     l.Buttons.Delete,
		"buttons.cancel":     l.Buttons.Cancel,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%s is empty", key)
		}
	}
	if strings.Count(l.Stats, "%d") != 1 || strings.Contains(fmt.Sprintf(l.Stats, 0), "%!") {
		return fmt.Errorf("stats must contain exactly one %%d and no other verbs")
	}
	for _, c := range l.Commands {
		if c.Command == "" || c.Description == "" {
			return fmt.Errorf("command entry %q is incomplete", c.Command)
		}
	}
	return nil
}

// StatsText renders the admin statistics line
func (l *Lexicon) StatsText(readers int) string {
	return fmt.Sprintf(l.Stats, readers)
}
