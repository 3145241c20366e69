package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	model "github.com/zhouzirui/ev-commerce/backend/internal/model/chat"
	chat "github.com/zhouzirui/ev-commerce/backend/internal/service/chat"
)

func newService(t *testing.T, opts ...chat.Option) (*chat.Service, *intent.KnowledgeBase) {
	t.Helper()
	kb := intent.MustDefault()
	return chat.NewService(kb, opts...), kb
}

func TestServiceGetSession(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateClosed, view.State)
	assert.Empty(t, view.Turns)

	got, err := svc.GetSession(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Session.ID, got.ID)
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)

	_, err = svc.Open(ctx, "missing")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)

	_, err = svc.Send(ctx, "missing", "hello")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestOpenSeedsGreetingOnce(t *testing.T) {
	svc, kb := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID

	view, err := svc.Open(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Turns, 1)
	assert.Equal(t, model.SenderBot, view.Turns[0].Sender)
	assert.Equal(t, kb.Greeting, view.Turns[0].Text)
	assert.Equal(t, model.StateOpenWithSuggestions, view.State)
	assert.Equal(t, kb.Suggestions, view.Suggestions)

	_, err = svc.Close(ctx, id)
	require.NoError(t, err)
	view, err = svc.Open(ctx, id)
	require.NoError(t, err)
	assert.Len(t, view.Turns, 1, "reopening must not seed a second greeting")
}

func TestSendAppendsUserThenBotTurn(t *testing.T) {
	svc, kb := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, err := svc.Open(ctx, id)
	require.NoError(t, err)

	turns, err := svc.Send(ctx, id, "  Hello!  ")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, model.SenderUser, turns[0].Sender)
	assert.Equal(t, "Hello!", turns[0].Text)
	assert.Equal(t, model.SenderBot, turns[1].Sender)
	assert.Equal(t, string(intent.TierExact), turns[1].Tier)

	turns, err = svc.Send(ctx, id, "asdkjhasd")
	require.NoError(t, err)
	assert.Equal(t, kb.Fallback, turns[1].Text)
	assert.Equal(t, string(intent.TierNone), turns[1].Tier)

	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	assert.Len(t, view.Turns, 5)
	assert.Equal(t, model.StateOpenConversing, view.State)
	assert.False(t, view.Session.SuggestionsVisible)
	assert.Empty(t, view.Suggestions)
}

func TestSendSuggestionHidesSuggestions(t *testing.T) {
	svc, kb := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)

	_, err := svc.Send(ctx, id, kb.Suggestions[0])
	require.NoError(t, err)

	view, _ = svc.View(ctx, id)
	assert.Equal(t, model.StateOpenConversing, view.State)
}

func TestSendValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID

	_, err := svc.Send(ctx, id, "hello")
	assert.ErrorIs(t, err, chat.ErrSessionClosed)

	_, _ = svc.Open(ctx, id)
	_, err = svc.Send(ctx, id, "   ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestResetReseedsGreeting(t *testing.T) {
	svc, kb := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)
	_, _ = svc.Send(ctx, id, "help")
	_, _ = svc.Close(ctx, id)

	view, err := svc.Reset(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Turns, 1)
	assert.Equal(t, kb.Greeting, view.Turns[0].Text)
	assert.Equal(t, model.StateOpenWithSuggestions, view.State)

	transcript, err := svc.LoadTranscript(ctx, id)
	require.NoError(t, err)
	assert.Len(t, transcript, 1)
}

func TestCloseKeepsTranscript(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)
	_, _ = svc.Send(ctx, id, "thanks")

	view, err := svc.Close(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StateClosed, view.State)
	assert.Len(t, view.Turns, 3)

	view, _ = svc.Open(ctx, id)
	assert.Equal(t, model.StateOpenConversing, view.State)
}

type stubFallback struct {
	answer string
	err    error
	calls  int
}

func (f *stubFallback) Answer(context.Context, string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func TestReplyUsesFallbackOnlyWhenUnmatched(t *testing.T) {
	fb := &stubFallback{answer: "Every vehicle carries an eight year battery warranty."}
	svc, _ := newService(t, chat.WithFallback(fb))
	ctx := context.Background()

	reply := svc.Reply(ctx, "Hello!")
	assert.True(t, reply.Matched)
	assert.Zero(t, fb.calls)

	reply = svc.Reply(ctx, "what is the warranty")
	assert.False(t, reply.Matched)
	assert.Equal(t, chat.TierAssistant, reply.Tier)
	assert.Equal(t, "Every vehicle carries an eight year battery warranty.", reply.Text)
	assert.Equal(t, 1, fb.calls)
}

func TestReplyFallbackErrorUsesCannedText(t *testing.T) {
	fb := &stubFallback{err: errors.New("model offline")}
	svc, kb := newService(t, chat.WithFallback(fb))

	reply := svc.Reply(context.Background(), "asdkjhasd")
	assert.Equal(t, kb.Fallback, reply.Text)
	assert.Equal(t, string(intent.TierNone), reply.Tier)
}

func TestConcurrentSendsKeepPairsTogether(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Send(ctx, id, "range?")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	transcript, err := svc.LoadTranscript(ctx, id)
	require.NoError(t, err)
	require.Len(t, transcript, 41)
	for i := 1; i < len(transcript); i += 2 {
		assert.Equal(t, model.SenderUser, transcript[i].Sender)
		assert.Equal(t, model.SenderBot, transcript[i+1].Sender)
	}
}

type hookFallback struct {
	hook func()
}

func (f *hookFallback) Answer(context.Context, string) (string, error) {
	f.hook()
	return "A late answer.", nil
}

func TestSendDropsPairWhenClosedDuringReply(t *testing.T) {
	fb := &hookFallback{}
	svc, _ := newService(t, chat.WithFallback(fb))
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)
	fb.hook = func() { _, _ = svc.Close(ctx, id) }

	turns, err := svc.Send(ctx, id, "what is the warranty")
	assert.ErrorIs(t, err, chat.ErrSessionClosed)
	assert.Empty(t, turns)

	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StateClosed, view.State)
	assert.Len(t, view.Turns, 1)
}

func TestSendDropsPairWhenResetDuringReply(t *testing.T) {
	fb := &hookFallback{}
	svc, kb := newService(t, chat.WithFallback(fb))
	ctx := context.Background()
	view, _ := svc.CreateSession(ctx)
	id := view.Session.ID
	_, _ = svc.Open(ctx, id)
	fb.hook = func() { _, _ = svc.Reset(ctx, id) }

	_, err := svc.Send(ctx, id, "what is the warranty")
	assert.ErrorIs(t, err, chat.ErrConversationReset)

	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StateOpenWithSuggestions, view.State)
	require.Len(t, view.Turns, 1)
	assert.Equal(t, kb.Greeting, view.Turns[0].Text)

	fb.hook = func() {}
	turns, err := svc.Send(ctx, id, "what is the warranty")
	require.NoError(t, err)
	assert.Equal(t, "A late answer.", turns[1].Text)
}
