package handler

import (
	"regexp"
	"strings"
	"unicode"

	"bookbot/internal/session"

	tele "gopkg.in/telebot.v3"
)

// EventKind tells the router which route handles an update
type EventKind int

const (
	KindUnknown EventKind = iota
	KindStart
	KindHelp
	KindBeginning
	KindContinue
	KindBookmarks
	KindStats
	KindForward
	KindBackward
	KindNavigation
	KindCancel
	KindEditBookmarks
	KindPageIndicator
	KindSelectBookmark
	KindDeleteBookmark
	KindPageNumberReply
)

var kindNames = map[EventKind]string{
	KindUnknown:         "unknown",
	KindStart:           "start",
	KindHelp:            "help",
	KindBeginning:       "beginning",
	KindContinue:        "continue",
	KindBookmarks:       "bookmarks",
	KindStats:           "stats",
	KindForward:         "forward",
	KindBackward:        "backward",
	KindNavigation:      "navigation",
	KindCancel:          "cancel",
	KindEditBookmarks:   "edit_bookmarks",
	KindPageIndicator:   "page_indicator",
	KindSelectBookmark:  "select_bookmark",
	KindDeleteBookmark:  "delete_bookmark",
	KindPageNumberReply: "page_number_reply",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Callback payloads of the static buttons
const (
	DataForward       = "forward"
	DataBackward      = "backward"
	DataNavigation    = "navigation"
	DataCancel        = "cancel"
	DataEditBookmarks = "edit_bookmarks"

	deleteSuffix = "del"
)

var (
	pageIndicatorPattern = regexp.MustCompile(`^[0-9]+/[0-9]+$`)
	digitsPattern        = regexp.MustCompile(`^[0-9]+$`)
	deletePattern        = regexp.MustCompile(`^[0-9]+` + deleteSuffix + `$`)
)

// ReplySink is everything a route may do in answer to an event
type ReplySink interface {
	// Send posts a new message into the event's chat
	Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error)
	// Edit replaces the message the pressed button belongs to
	Edit(text string, markup *tele.ReplyMarkup) error
	// EditMessage replaces an arbitrary earlier message
	EditMessage(target session.Target, text string, markup *tele.ReplyMarkup) error
	// Ack answers a callback query; a no-op for plain messages
	Ack(text string, alert bool) error
	// DeleteIncoming removes the user's message that caused the event
	DeleteIncoming() error
	// MessageID is the id of the incoming message or of the message
	// carrying the pressed button
	MessageID() int
}

// Event is a classified inbound update
type Event struct {
	Kind    EventKind
	UserID  int64
	ChatID  int64
	Payload string
	Reply   ReplySink
}

// ClassifyCallback maps raw callback data to an event kind
func ClassifyCallback(data string) EventKind {
	switch data {
	case DataForward:
		return KindForward
	case DataBackward:
		return KindBackward
	case DataNavigation:
		return KindNavigation
	case DataCancel:
		return KindCancel
	case DataEditBookmarks:
		return KindEditBookmarks
	}

	switch {
	case pageIndicatorPattern.MatchString(data):
		return KindPageIndicator
	case digitsPattern.MatchString(data):
		return KindSelectBookmark
	case deletePattern.MatchString(data):
		return KindDeleteBookmark
	}
	return KindUnknown
}

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}
