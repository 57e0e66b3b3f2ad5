package handler

import (
	"context"
	"errors"

	"bookbot/internal/domain"
	"bookbot/internal/service"
	"bookbot/internal/session"

	"go.uber.org/zap"
)

// handleStart handles /start command
func (h *Handler) handleStart(ctx context.Context, ev *Event) error {
	h.logger.Info("User started bot", zap.Int64("user_id", ev.UserID))

	h.sessions.Reset(ev.UserID)
	if _, err := ev.Reply.Send(h.texts.Start, nil); err != nil {
		return err
	}
	return h.reader.Start(ctx, ev.UserID)
}

// handleHelp handles /help command
func (h *Handler) handleHelp(_ context.Context, ev *Event) error {
	_, err := ev.Reply.Send(h.texts.Help, nil)
	return err
}

// handleBeginning sends page 1 as a new message
func (h *Handler) handleBeginning(ctx context.Context, ev *Event) error {
	page, err := h.reader.Beginning(ctx, ev.UserID)
	if err != nil {
		return err
	}
	return h.sendPage(ev, page)
}

// handleContinue sends the page the user stopped at
func (h *Handler) handleContinue(ctx context.Context, ev *Event) error {
	page, err := h.reader.Continue(ctx, ev.UserID)
	if err != nil {
		return err
	}
	return h.sendPage(ev, page)
}

// handleForward turns the page message one page ahead
func (h *Handler) handleForward(ctx context.Context, ev *Event) error {
	page, moved, err := h.reader.Forward(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if moved {
		if err := h.editPage(ev, page); err != nil {
			return err
		}
	}
	return ev.Reply.Ack("", false)
}

// handleBackward turns the page message one page back
func (h *Handler) handleBackward(ctx context.Context, ev *Event) error {
	page, moved, err := h.reader.Backward(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if moved {
		if err := h.editPage(ev, page); err != nil {
			return err
		}
	}
	return ev.Reply.Ack("", false)
}

// handleNavigation remembers the pressed page message and asks for a number
func (h *Handler) handleNavigation(ctx context.Context, ev *Event) error {
	target := session.Target{ChatID: ev.ChatID, MessageID: ev.Reply.MessageID()}
	if err := h.sessions.Begin(ctx, ev.UserID, target); err != nil {
		return err
	}

	if err := h.sendTransient(ev, h.texts.EnterPage); err != nil {
		return err
	}
	return ev.Reply.Ack("", false)
}

// handlePageNumberReply moves the remembered page message to the typed page
func (h *Handler) handlePageNumberReply(ctx context.Context, ev *Event) error {
	target, ok := h.sessions.Finish(ctx, ev.UserID)
	if !ok {
		return nil
	}

	page, err := h.reader.JumpTo(ctx, ev.UserID, ev.Payload)
	switch {
	case errors.Is(err, service.ErrInvalidPageNumber):
		return h.sendTransient(ev, h.texts.InvalidPage)
	case errors.Is(err, service.ErrPageOutOfRange):
		h.deleteIncoming(ev)
		return h.sendTransient(ev, h.texts.PageOutOfRange)
	case err != nil:
		return err
	}

	h.deleteIncoming(ev)
	text, markup := renderPage(page, h.texts.Buttons)
	return ev.Reply.EditMessage(target, text, markup)
}

func (h *Handler) deleteIncoming(ev *Event) {
	if err := ev.Reply.DeleteIncoming(); err != nil {
		h.logger.Warn("Failed to delete user reply", zap.Int64("user_id", ev.UserID), zap.Error(err))
	}
}

func (h *Handler) sendPage(ev *Event, page domain.Page) error {
	text, markup := renderPage(page, h.texts.Buttons)
	_, err := ev.Reply.Send(text, markup)
	return err
}

func (h *Handler) editPage(ev *Event, page domain.Page) error {
	text, markup := renderPage(page, h.texts.Buttons)
	return ev.Reply.Edit(text, markup)
}
