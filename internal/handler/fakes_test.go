package handler

import (
	"context"
	"testing"

	"bookbot/internal/domain"
	"bookbot/internal/lexicon"
	"bookbot/internal/service"
	"bookbot/internal/session"
	"bookbot/internal/testutil"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

type editedMessage struct {
	target session.Target
	text   string
	markup *tele.ReplyMarkup
}

type ack struct {
	text  string
	alert bool
}

// fakeSink records every reply a route makes
type fakeSink struct {
	chatID    int64
	messageID int
	nextID    int

	sent    []sentMessage
	edits   []editedMessage
	acks    []ack
	deleted int
	sendErr error
	editErr error
}

func (s *fakeSink) Send(text string, markup *tele.ReplyMarkup) (*tele.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = append(s.sent, sentMessage{text: text, markup: markup})
	s.nextID++
	return &tele.Message{ID: 1000 + s.nextID, Chat: &tele.Chat{ID: s.chatID}}, nil
}

func (s *fakeSink) Edit(text string, markup *tele.ReplyMarkup) error {
	return s.EditMessage(session.Target{ChatID: s.chatID, MessageID: s.messageID}, text, markup)
}

func (s *fakeSink) EditMessage(target session.Target, text string, markup *tele.ReplyMarkup) error {
	if s.editErr != nil {
		return s.editErr
	}
	s.edits = append(s.edits, editedMessage{target: target, text: text, markup: markup})
	return nil
}

func (s *fakeSink) Ack(text string, alert bool) error {
	s.acks = append(s.acks, ack{text: text, alert: alert})
	return nil
}

func (s *fakeSink) DeleteIncoming() error {
	s.deleted++
	return nil
}

func (s *fakeSink) MessageID() int {
	return s.messageID
}

func (s *fakeSink) lastEdit() editedMessage {
	if len(s.edits) == 0 {
		return editedMessage{}
	}
	return s.edits[len(s.edits)-1]
}

// fakeScheduler records messages queued for deletion
type fakeScheduler struct {
	scheduled []tele.Editable
}

func (f *fakeScheduler) Schedule(msg tele.Editable) {
	f.scheduled = append(f.scheduled, msg)
}

type testEnv struct {
	handler   *Handler
	repo      *testutil.MemoryUserRepository
	sessions  *session.Manager
	scheduler *fakeScheduler
	texts     *lexicon.Lexicon
}

func newTestEnv(t *testing.T, pages int) *testEnv {
	t.Helper()

	logger := testutil.NewTestLogger()
	repo := testutil.NewMemoryUserRepository()
	reader := service.NewReaderService(repo, testutil.NewTestBook(pages), logger)
	sessions := session.NewManager(logger)
	scheduler := &fakeScheduler{}
	texts := lexicon.Default()

	return &testEnv{
		handler:   NewHandler(nil, reader, sessions, scheduler, texts, nil, logger),
		repo:      repo,
		sessions:  sessions,
		scheduler: scheduler,
		texts:     texts,
	}
}

// dispatch sends one event through the router
func (e *testEnv) dispatch(t *testing.T, kind EventKind, payload string, sink *fakeSink) error {
	t.Helper()
	return e.handler.Dispatch(context.Background(), &Event{
		Kind:    kind,
		UserID:  testUserID,
		ChatID:  sink.chatID,
		Payload: payload,
		Reply:   sink,
	})
}

// callback classifies data the way the OnCallback handler does
func (e *testEnv) callback(t *testing.T, data string, sink *fakeSink) error {
	t.Helper()
	return e.dispatch(t, ClassifyCallback(cleanCallbackData(data)), cleanCallbackData(data), sink)
}

func (e *testEnv) user(t *testing.T) *domain.User {
	t.Helper()
	user, err := e.repo.Get(context.Background(), testUserID)
	require.NoError(t, err)
	require.NotNil(t, user, "user %d not stored", testUserID)
	return user
}

func (e *testEnv) page(t *testing.T) int {
	t.Helper()
	return e.user(t).Page
}

func (e *testEnv) bookmarks(t *testing.T) []int {
	t.Helper()
	return e.user(t).Bookmarks
}

const (
	testUserID = int64(555)
	testChatID = int64(555)
)

func newSink() *fakeSink {
	return &fakeSink{chatID: testChatID, messageID: 77}
}
