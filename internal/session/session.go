// Package session tracks readers who were asked for a page number and the
// message that the answer should edit.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

const (
	StateIdle         = "idle"
	StateAwaitingPage = "awaiting_page"
)

const (
	EventAwait   = "await_page"
	EventResolve = "resolve"
)

// Target identifies the page message to edit once the number arrives
type Target struct {
	ChatID    int64
	MessageID int
}

type session struct {
	machine *fsm.FSM
	target  Target
}

// Manager holds sessions in memory; they do not survive a restart
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session
	logger   *zap.Logger
}

// NewManager creates an empty session manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[int64]*session),
		logger:   logger,
	}
}

func (m *Manager) newSession(userID int64) *session {
	s := &session{}
	s.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventAwait, Src: []string{StateIdle, StateAwaitingPage}, Dst: StateAwaitingPage},
			{Name: EventResolve, Src: []string{StateAwaitingPage}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_" + StateIdle: func(_ context.Context, _ *fsm.Event) {
				s.target = Target{}
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.logger.Debug("Session state changed",
					zap.Int64("user_id", userID),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
	return s
}

// Begin puts the user into the awaiting-page state. Pressing the
// navigation button again only retargets the pending session.
func (m *Manager) Begin(ctx context.Context, userID int64, target Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = m.newSession(userID)
		m.sessions[userID] = s
	}
	s.target = target

	if err := s.machine.Event(ctx, EventAwait); err != nil && !isNoTransition(err) {
		return err
	}
	return nil
}

// Awaiting reports whether the next text message is a page number
func (m *Manager) Awaiting(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	return ok && s.machine.Is(StateAwaitingPage)
}

// Finish consumes the pending session and returns its target.
// The user is idle afterwards whatever the caller does with the answer;
// the idle machine stays in the map and is reused by the next Begin.
func (m *Manager) Finish(ctx context.Context, userID int64) (Target, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || !s.machine.Is(StateAwaitingPage) {
		return Target{}, false
	}

	target := s.target
	if err := s.machine.Event(ctx, EventResolve); err != nil {
		m.logger.Warn("Failed to resolve session", zap.Int64("user_id", userID), zap.Error(err))
		delete(m.sessions, userID)
	}

	return target, true
}

// State returns the user's session state; users never asked for a page are idle
func (m *Manager) State(userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s.machine.Current()
	}
	return StateIdle
}

// Reset drops any pending session for the user
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func isNoTransition(err error) bool {
	var noTransition fsm.NoTransitionError
	return errors.As(err, &noTransition)
}
