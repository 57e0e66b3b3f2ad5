package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"bookbot/internal/service"

	"go.uber.org/zap"
)

// handleBookmarks handles /bookmarks command
func (h *Handler) handleBookmarks(ctx context.Context, ev *Event) error {
	marks, err := h.reader.Bookmarks(ctx, ev.UserID)
	if err != nil {
		return err
	}

	if len(marks) == 0 {
		_, err = ev.Reply.Send(h.texts.NoBookmarks, nil)
		return err
	}
	_, err = ev.Reply.Send(h.texts.Bookmarks, bookmarksMarkup(marks, h.reader, h.texts.Buttons))
	return err
}

// handlePageIndicator bookmarks the current page
func (h *Handler) handlePageIndicator(ctx context.Context, ev *Event) error {
	added, err := h.reader.AddBookmark(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if added {
		h.logger.Info("Bookmark added", zap.Int64("user_id", ev.UserID))
	}
	return ev.Reply.Ack(h.texts.BookmarkAdded, false)
}

// handleSelectBookmark opens a bookmarked page in place of the list
func (h *Handler) handleSelectBookmark(ctx context.Context, ev *Event) error {
	n, err := strconv.Atoi(ev.Payload)
	if err != nil {
		return ev.Reply.Ack(h.texts.PageOutOfRange, true)
	}

	page, err := h.reader.SelectBookmark(ctx, ev.UserID, n)
	if errors.Is(err, service.ErrPageOutOfRange) {
		h.logger.Warn("Bookmark outside the book",
			zap.Int64("user_id", ev.UserID),
			zap.Int("page", n),
		)
		return ev.Reply.Ack(h.texts.PageOutOfRange, true)
	}
	if err != nil {
		return err
	}

	if err := h.editPage(ev, page); err != nil {
		return err
	}
	return ev.Reply.Ack("", false)
}

// handleEditBookmarks switches the list to delete buttons
func (h *Handler) handleEditBookmarks(ctx context.Context, ev *Event) error {
	marks, err := h.reader.Bookmarks(ctx, ev.UserID)
	if err != nil {
		return err
	}

	if len(marks) == 0 {
		err = ev.Reply.Edit(h.texts.NoBookmarks, nil)
	} else {
		err = ev.Reply.Edit(h.texts.EditBookmarks, editBookmarksMarkup(marks, h.reader, h.texts.Buttons))
	}
	if err != nil {
		return err
	}
	return ev.Reply.Ack("", false)
}

// handleDeleteBookmark removes one bookmark and redraws the delete list
func (h *Handler) handleDeleteBookmark(ctx context.Context, ev *Event) error {
	n, err := strconv.Atoi(strings.TrimSuffix(ev.Payload, deleteSuffix))
	if err != nil {
		// no such page can be bookmarked, so the list stays as it is
		h.logger.Warn("Bookmark to delete outside the book",
			zap.Int64("user_id", ev.UserID),
			zap.String("payload", ev.Payload),
		)
		return ev.Reply.Ack("", false)
	}

	marks, err := h.reader.DeleteBookmark(ctx, ev.UserID, n)
	if err != nil {
		return err
	}

	if len(marks) == 0 {
		err = ev.Reply.Edit(h.texts.NoBookmarks, nil)
	} else {
		err = ev.Reply.Edit(h.texts.Bookmarks, editBookmarksMarkup(marks, h.reader, h.texts.Buttons))
	}
	if err != nil {
		return err
	}
	return ev.Reply.Ack("", false)
}

// handleCancel closes a bookmark list
func (h *Handler) handleCancel(_ context.Context, ev *Event) error {
	if err := ev.Reply.Edit(h.texts.Cancel, nil); err != nil {
		return err
	}
	return ev.Reply.Ack("", false)
}

// handleStats reports how many readers the bot has; admin only
func (h *Handler) handleStats(ctx context.Context, ev *Event) error {
	count, err := h.reader.ReaderCount(ctx)
	if err != nil {
		return err
	}
	_, err = ev.Reply.Send(h.texts.StatsText(count), nil)
	return err
}
