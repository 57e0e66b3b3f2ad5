package transient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Deleter removes a message; *tele.Bot satisfies it
type Deleter interface {
	Delete(msg tele.Editable) error
}

// Scheduler deletes prompts and error notices after a fixed delay
type Scheduler struct {
	ctx     context.Context
	deleter Deleter
	delay   time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler bound to ctx. Once ctx is done,
// pending deletions run immediately.
func NewScheduler(ctx context.Context, deleter Deleter, delay time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		ctx:     ctx,
		deleter: deleter,
		delay:   delay,
		logger:  logger,
	}
}

// Schedule queues msg for deletion and returns immediately. After
// shutdown has begun the message is deleted right away instead.
func (s *Scheduler) Schedule(msg tele.Editable) {
	if msg == nil {
		return
	}

	s.mu.Lock()
	if s.stopped || s.ctx.Err() != nil {
		s.mu.Unlock()
		s.delete(msg)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-s.ctx.Done():
		}

		s.delete(msg)
	}()
}

func (s *Scheduler) delete(msg tele.Editable) {
	err := s.deleter.Delete(msg)
	if err == nil || isGone(err) {
		return
	}

	messageID, chatID := msg.MessageSig()
	s.logger.Warn("Failed to delete transient message",
		zap.String("message_id", messageID),
		zap.Int64("chat_id", chatID),
		zap.Error(err),
	)
}

// Wait blocks until every scheduled deletion has run. Messages scheduled
// after Wait is called are deleted synchronously.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.wg.Wait()
}

// isGone reports whether the message was already deleted, by the user or
// by an earlier attempt
func isGone(err error) bool {
	if errors.Is(err, tele.ErrNotFoundToDelete) {
		return true
	}
	return strings.Contains(err.Error(), "message to delete not found")
}
