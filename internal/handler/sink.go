package handler

import (
	"errors"
	"strconv"
	"strings"

	"bookbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// teleSink answers through the telebot context of the current update
type teleSink struct {
	c      tele.Context
	logger *zap.Logger
}

func newTeleSink(c tele.Context, logger *zap.Logger) *teleSink {
	return &teleSink{c: c, logger: logger}
}

func sendOptions(markup *tele.ReplyMarkup) []interface{} {
	if markup == nil {
		return nil
	}
	return []interface{}{markup}
}

func (s *teleSink) Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	return s.c.Bot().Send(s.c.Recipient(), text, sendOptions(markup)...)
}

func (s *teleSink) Edit(text string, markup *tele.ReplyMarkup) error {
	return s.notModifiedIsOK(s.c.Edit(text, sendOptions(markup)...))
}

func (s *teleSink) EditMessage(target session.Target, text string, markup *tele.ReplyMarkup) error {
	msg := &tele.StoredMessage{
		MessageID: strconv.Itoa(target.MessageID),
		ChatID:    target.ChatID,
	}
	_, err := s.c.Bot().Edit(msg, text, sendOptions(markup)...)
	return s.notModifiedIsOK(err)
}

func (s *teleSink) Ack(text string, alert bool) error {
	if s.c.Callback() == nil {
		return nil
	}
	if text == "" {
		return s.c.Respond()
	}
	return s.c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
}

func (s *teleSink) DeleteIncoming() error {
	err := s.c.Delete()
	if err != nil && (errors.Is(err, tele.ErrNotFoundToDelete) ||
		strings.Contains(err.Error(), "message to delete not found")) {
		return nil
	}
	return err
}

func (s *teleSink) MessageID() int {
	if msg := s.c.Message(); msg != nil {
		return msg.ID
	}
	return 0
}

// notModifiedIsOK swallows the error Telegram returns when the new content
// equals the old one, e.g. after a double tap on the same button
func (s *teleSink) notModifiedIsOK(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		s.logger.Debug("Message already up to date", zap.Int64("user_id", s.c.Sender().ID))
		return nil
	}
	return err
}
