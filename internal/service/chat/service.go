package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/chat"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("conversation is closed")
	ErrEmptyMessage      = errors.New("message is required")
	ErrConversationReset = errors.New("conversation was reset")
)

// TierAssistant marks replies produced by the optional LLM fallback.
const TierAssistant = "assistant"

// Fallback answers questions the knowledge base could not match.
type Fallback interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Reply is the bot's answer to one user input.
type Reply struct {
	Text    string `json:"response"`
	Key     string `json:"key,omitempty"`
	Tier    string `json:"tier"`
	Matched bool   `json:"matched"`
}

// Option customises a Service.
type Option func(*Service)

// WithFallback routes unmatched input to f before using the canned fallback text.
func WithFallback(f Fallback) Option {
	return func(s *Service) { s.fallback = f }
}

// WithMetrics records resolutions and turns.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service encapsulates conversation state management.
type Service struct {
	matcher  *intent.Matcher
	kb       *intent.KnowledgeBase
	fallback Fallback
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]chat.Session
	turns    map[string][]chat.Turn

	// bumped by Reset so in-flight sends can detect it
	generations map[string]uint64
}

// NewService bootstraps the in-memory conversation service.
func NewService(kb *intent.KnowledgeBase, opts ...Option) *Service {
	s := &Service{
		matcher:  intent.NewMatcher(kb),
		kb:       kb,
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]chat.Session),
		turns:    make(map[string][]chat.Turn),

		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggestions returns the popular questions offered on an empty conversation.
func (s *Service) Suggestions() []string {
	return append([]string(nil), s.kb.Suggestions...)
}

// Reply answers text without touching any conversation.
func (s *Service) Reply(ctx context.Context, text string) Reply {
	res := s.matcher.Resolve(text)
	if res.Matched() {
		s.metrics.ObserveIntent(string(res.Tier))
		return Reply{Text: res.Response, Key: res.Key, Tier: string(res.Tier), Matched: true}
	}

	if s.fallback != nil {
		answer, err := s.fallback.Answer(ctx, text)
		switch {
		case err != nil:
			s.logger.Warn("assistant fallback failed, using canned reply", zap.Error(err))
		case strings.TrimSpace(answer) != "":
			s.metrics.ObserveIntent(TierAssistant)
			return Reply{Text: answer, Tier: TierAssistant}
		}
	}

	s.metrics.ObserveIntent(string(intent.TierNone))
	return Reply{Text: s.kb.Fallback, Tier: string(intent.TierNone)}
}

// CreateSession provisions a closed conversation with no turns.
func (s *Service) CreateSession(_ context.Context) (chat.View, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.turns[session.ID] = make([]chat.Turn, 0, 16)
	view := s.viewLocked(session)
	s.mu.Unlock()

	return view, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// View returns the renderable state of a conversation.
func (s *Service) View(_ context.Context, sessionID string) (chat.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.View{}, ErrSessionNotFound
	}
	return s.viewLocked(session), nil
}

// Open shows the conversation. An empty conversation is seeded with the
// greeting and shows suggestions.
func (s *Service) Open(_ context.Context, sessionID string) (chat.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.View{}, ErrSessionNotFound
	}

	session.Open = true
	if len(s.turns[sessionID]) == 0 {
		s.seedGreetingLocked(sessionID)
		session.SuggestionsVisible = true
	}
	s.sessions[sessionID] = session

	return s.viewLocked(session), nil
}

// Close hides the conversation and keeps its transcript.
func (s *Service) Close(_ context.Context, sessionID string) (chat.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.View{}, ErrSessionNotFound
	}
	session.Open = false
	s.sessions[sessionID] = session

	return s.viewLocked(session), nil
}

// Reset discards the transcript, reseeds the greeting and shows suggestions.
func (s *Service) Reset(_ context.Context, sessionID string) (chat.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.View{}, ErrSessionNotFound
	}

	s.turns[sessionID] = make([]chat.Turn, 0, 16)
	s.generations[sessionID]++
	s.seedGreetingLocked(sessionID)
	session.Open = true
	session.SuggestionsVisible = true
	s.sessions[sessionID] = session

	return s.viewLocked(session), nil
}

// Send appends the user turn and the bot's reply, then hides suggestions.
// Typed input and suggestion clicks behave the same. The pair is dropped if
// the conversation is closed or reset while the reply is being resolved.
func (s *Service) Send(ctx context.Context, sessionID, text string) ([]chat.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	generation := s.generations[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !session.Open {
		return nil, ErrSessionClosed
	}

	// Resolved outside the lock: the fallback may block on the network.
	reply := s.Reply(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok = s.sessions[sessionID]
	switch {
	case !ok:
		return nil, ErrSessionNotFound
	case !session.Open:
		return nil, ErrSessionClosed
	case s.generations[sessionID] != generation:
		return nil, ErrConversationReset
	}

	now := s.now()
	appended := []chat.Turn{
		{ID: uuid.NewString(), SessionID: sessionID, Sender: chat.SenderUser, Text: text, CreatedAt: now},
		{ID: uuid.NewString(), SessionID: sessionID, Sender: chat.SenderBot, Text: reply.Text, Tier: reply.Tier, CreatedAt: now},
	}
	s.turns[sessionID] = append(s.turns[sessionID], appended...)
	session.SuggestionsVisible = false
	s.sessions[sessionID] = session

	s.metrics.ObserveTurn(string(chat.SenderUser))
	s.metrics.ObserveTurn(string(chat.SenderBot))
	s.logger.Debug("conversation turn",
		zap.String("session", sessionID),
		zap.String("tier", reply.Tier),
		zap.Bool("matched", reply.Matched),
	)

	return append([]chat.Turn(nil), appended...), nil
}

// LoadTranscript returns stored turns for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

func (s *Service) seedGreetingLocked(sessionID string) {
	s.turns[sessionID] = append(s.turns[sessionID], chat.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    chat.SenderBot,
		Text:      s.kb.Greeting,
		CreatedAt: s.now(),
	})
	s.metrics.ObserveTurn(string(chat.SenderBot))
}

func (s *Service) viewLocked(session chat.Session) chat.View {
	turns := s.turns[session.ID]
	view := chat.View{
		Session: session,
		State:   session.State(len(turns)),
		Turns:   append([]chat.Turn{}, turns...),
	}
	if view.State == chat.StateOpenWithSuggestions {
		view.Suggestions = s.Suggestions()
	}
	return view
}
