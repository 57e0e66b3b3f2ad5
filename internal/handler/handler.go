package handler

import (
	"context"
	"errors"
	"time"

	"bookbot/internal/lexicon"
	"bookbot/internal/middleware"
	"bookbot/internal/service"
	"bookbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const updateTimeout = 30 * time.Second

// Scheduler deletes a message some time later without blocking the caller
type Scheduler interface {
	Schedule(msg tele.Editable)
}

type route func(ctx context.Context, ev *Event) error

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	reader    *service.ReaderService
	sessions  *session.Manager
	transient Scheduler
	texts     *lexicon.Lexicon
	isAdmin   func(userID int64) bool
	logger    *zap.Logger

	routes map[EventKind]route
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	reader *service.ReaderService,
	sessions *session.Manager,
	transient Scheduler,
	texts *lexicon.Lexicon,
	isAdmin func(userID int64) bool,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		bot:       bot,
		reader:    reader,
		sessions:  sessions,
		transient: transient,
		texts:     texts,
		isAdmin:   isAdmin,
		logger:    logger,
	}
	h.routes = map[EventKind]route{
		KindStart:           h.handleStart,
		KindHelp:            h.handleHelp,
		KindBeginning:       h.handleBeginning,
		KindContinue:        h.handleContinue,
		KindBookmarks:       h.handleBookmarks,
		KindStats:           h.handleStats,
		KindForward:         h.handleForward,
		KindBackward:        h.handleBackward,
		KindNavigation:      h.handleNavigation,
		KindCancel:          h.handleCancel,
		KindEditBookmarks:   h.handleEditBookmarks,
		KindPageIndicator:   h.handlePageIndicator,
		KindSelectBookmark:  h.handleSelectBookmark,
		KindDeleteBookmark:  h.handleDeleteBookmark,
		KindPageNumberReply: h.handlePageNumberReply,
	}
	return h
}

// RegisterHandlers registers all bot handlers. ctx bounds every update.
func (h *Handler) RegisterHandlers(ctx context.Context) {
	// Commands
	h.bot.Handle("/start", h.command(ctx, KindStart))
	h.bot.Handle("/help", h.command(ctx, KindHelp))
	h.bot.Handle("/beginning", h.command(ctx, KindBeginning))
	h.bot.Handle("/continue", h.command(ctx, KindContinue))
	h.bot.Handle("/bookmarks", h.command(ctx, KindBookmarks))
	h.bot.Handle("/stats", h.command(ctx, KindStats), middleware.AdminOnly(h.isAdmin, h.logger))

	// Page number replies
	h.bot.Handle(tele.OnText, h.handleText(ctx))

	// Every inline button carries raw data
	h.bot.Handle(tele.OnCallback, h.handleCallback(ctx))
}

// SetCommands publishes the command menu shown by Telegram clients
func (h *Handler) SetCommands() error {
	return h.bot.SetCommands(commandMenu(h.texts.Commands))
}

func (h *Handler) command(ctx context.Context, kind EventKind) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.run(ctx, c, kind, c.Text())
	}
}

func (h *Handler) handleText(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !h.sessions.Awaiting(c.Sender().ID) {
			return nil
		}
		return h.run(ctx, c, KindPageNumberReply, c.Text())
	}
}

func (h *Handler) handleCallback(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		callback := c.Callback()
		if callback == nil {
			h.logger.Warn("handleCallback: callback is nil")
			return nil
		}

		data := cleanCallbackData(callback.Data)
		return h.run(ctx, c, ClassifyCallback(data), data)
	}
}

// run turns a telebot context into an Event and dispatches it
func (h *Handler) run(ctx context.Context, c tele.Context, kind EventKind, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	ev := &Event{
		Kind:    kind,
		UserID:  c.Sender().ID,
		Payload: payload,
		Reply:   newTeleSink(c, h.logger),
	}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	return h.Dispatch(ctx, ev)
}

// Dispatch runs the route registered for the event's kind
func (h *Handler) Dispatch(ctx context.Context, ev *Event) error {
	h.logger.Debug("Dispatching event",
		zap.Stringer("kind", ev.Kind),
		zap.Int64("user_id", ev.UserID),
		zap.String("payload", ev.Payload),
	)

	r, ok := h.routes[ev.Kind]
	if !ok {
		h.logger.Warn("Unhandled event",
			zap.Stringer("kind", ev.Kind),
			zap.Int64("user_id", ev.UserID),
			zap.String("payload", ev.Payload),
		)
		return ev.Reply.Ack("", false)
	}
	return r(ctx, ev)
}

// sendTransient posts a message that disappears after the configured delay
func (h *Handler) sendTransient(ev *Event, text string) error {
	msg, err := ev.Reply.Send(text, nil)
	if err != nil {
		return err
	}
	if msg != nil {
		h.transient.Schedule(msg)
	}
	return nil
}

// ReportError is the bot's OnError hook: it logs the failure and tells the
// user something went wrong
func ReportError(texts *lexicon.Lexicon, logger *zap.Logger) func(error, tele.Context) {
	return func(err error, c tele.Context) {
		if c == nil {
			logger.Error("Bot error", zap.Error(err))
			return
		}

		fields := []zap.Field{zap.Error(err)}
		if sender := c.Sender(); sender != nil {
			fields = append(fields, zap.Int64("user_id", sender.ID))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			fields = append(fields, zap.Duration("timeout", updateTimeout))
		}
		logger.Error("Failed to handle update", fields...)

		var replyErr error
		if c.Callback() != nil {
			replyErr = c.Respond(&tele.CallbackResponse{Text: texts.Failure, ShowAlert: true})
		} else {
			replyErr = c.Send(texts.Failure)
		}
		if replyErr != nil {
			logger.Warn("Failed to report error to user", zap.Error(replyErr))
		}
	}
}
