package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
)

// State is the session lifecycle state.
type State string

const (
	StateIdle           State = "idle"
	StateLoadingHistory State = "loading_history"
	StateReady          State = "ready"
	StateSending        State = "sending"
	StateDeleting       State = "deleting"
	StateError          State = "error"
)

// Dependencies are the collaborators a session needs. Owner may be nil for
// domains without an ownership relation.
type Dependencies struct {
	Store    MessageStore
	Endpoint AssistantEndpoint
	Catalog  citation.SourceCatalog
	Feed     LiveFeed
	Owner    OwnershipChecker
}

// Session is the per-conversation orchestrator, generic over both chat
// domains. It owns the authoritative in-memory message sequence for its
// (domain, sessionKey) pair; all mutation goes through explicit merge rules
// keyed by message id. A session is opened, used, and closed; closing
// releases the live-feed subscription.
type Session struct {
	cfg    chatdomain.Config
	key    uuid.UUID
	userID uuid.UUID
	deps   Dependencies

	// sendMu is the in-flight token: at most one send per session at a time,
	// so two assistant replies can never race onto the same ordering.
	sendMu sync.Mutex

	mu       sync.Mutex
	state    State
	messages []Message
	closed   bool

	unsubscribe UnsubscribeFunc
	feedDone    chan struct{}
}

// Open creates a session for (domain, sessionKey) acting as userID and
// attaches it to the live feed. The caller must Close the session when done.
func Open(domain chatdomain.Domain, sessionKey, userID uuid.UUID, deps Dependencies) (*Session, error) {
	cfg := chatdomain.ConfigFor(domain)

	s := &Session{
		cfg:    cfg,
		key:    sessionKey,
		userID: userID,
		deps:   deps,
		state:  StateIdle,
	}

	if deps.Feed != nil {
		ch, unsub, err := deps.Feed.Subscribe(domain, sessionKey)
		if err != nil {
			return nil, fmt.Errorf("subscribe live feed: %w", err)
		}
		s.unsubscribe = unsub
		s.feedDone = make(chan struct{})
		go s.consumeFeed(ch)
	}

	return s, nil
}

func (s *Session) consumeFeed(ch <-chan Message) {
	defer close(s.feedDone)
	for msg := range ch {
		s.Merge(msg)
	}
}

// Close tears the session down and releases its live-feed subscription.
// Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubscribe
	s.mu.Unlock()

	if unsub != nil {
		unsub()
		<-s.feedDone
	}
}

// Domain returns the session's chat domain.
func (s *Session) Domain() chatdomain.Domain { return s.cfg.Domain }

// Key returns the session key (notebook id or case id).
func (s *Session) Key() uuid.UUID { return s.key }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the session's messages in creation order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// LoadHistory fetches the persisted history, derives structured content for
// assistant messages, and replaces the in-memory sequence. Storage failures
// surface as ErrHistoryUnavailable without retry.
func (s *Session) LoadHistory(ctx context.Context) ([]Message, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	s.setState(StateLoadingHistory)

	stored, err := s.deps.Store.ListBySession(ctx, s.cfg.Domain, s.key)
	if err != nil {
		s.setState(StateError)
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	msgs := make([]Message, 0, len(stored))
	for _, m := range stored {
		msg := *m
		if msg.Role == RoleAssistant && msg.Structured == nil {
			structured := citation.Normalize(ctx, s.deps.Catalog, s.cfg.Domain, msg.Raw)
			msg.Structured = &structured
			msg.Chat = structured.CleanText
		}
		msgs = append(msgs, msg)
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })

	s.mu.Lock()
	s.messages = msgs
	s.state = StateReady
	out := make([]Message, len(msgs))
	copy(out, msgs)
	s.mu.Unlock()

	return out, nil
}

// Send appends the user's message optimistically, invokes the assistant
// endpoint, and merges the structured reply. Sends within one session are
// serialized: a send in flight completes before the next is dispatched.
//
// On endpoint failure the optimistic user message is retained - the user's
// intent to send stays visible - and the caller receives ErrSendFailed so it
// can offer a manual retry.
func (s *Session) Send(ctx context.Context, userText string, opts SendOptions) (user *Message, reply *Message, err error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, nil, ErrEmptyMessage
	}
	if s.isClosed() {
		return nil, nil, ErrSessionClosed
	}

	if err := s.verifyOwnership(ctx); err != nil {
		return nil, nil, err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.setState(StateSending)

	userMsg := Message{
		Id:         uuid.New(),
		SessionKey: s.key,
		Domain:     s.cfg.Domain,
		Role:       RoleUser,
		Chat:       userText,
		CreatedAt:  time.Now(),
	}
	s.Merge(userMsg)

	if err := s.deps.Store.Insert(ctx, &userMsg); err != nil {
		s.setState(StateError)
		return &userMsg, nil, fmt.Errorf("%w: persist user message: %v", ErrSendFailed, err)
	}

	resp, err := s.deps.Endpoint.Ask(ctx, s.cfg.Domain, s.key, userText, opts)
	if err != nil {
		s.setState(StateError)
		return &userMsg, nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	// The caller may have torn the session down while the endpoint call was
	// in flight; the completed result is then discarded.
	if s.isClosed() {
		return &userMsg, nil, ErrSessionClosed
	}

	structured := citation.Normalize(ctx, s.deps.Catalog, s.cfg.Domain, resp.Reply)
	replyMsg := Message{
		Id:         uuid.New(),
		SessionKey: s.key,
		Domain:     s.cfg.Domain,
		Role:       RoleAssistant,
		Chat:       structured.CleanText,
		Raw:        resp.Reply,
		Structured: &structured,
		CreatedAt:  time.Now(),
	}

	if err := s.deps.Store.Insert(ctx, &replyMsg); err != nil {
		s.setState(StateError)
		return &userMsg, nil, fmt.Errorf("%w: persist reply: %v", ErrSendFailed, err)
	}

	s.Merge(replyMsg)
	s.setState(StateReady)
	return &userMsg, &replyMsg, nil
}

// Merge applies one message to the in-memory sequence. Duplicate ids are
// collapsed with last-write-wins on content; ordering stays creation-time
// ascending. Live-feed delivery is at-least-once, so a message that already
// arrived via the send path merges as a no-op overwrite.
func (s *Session) Merge(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for i := range s.messages {
		if s.messages[i].Id == msg.Id {
			s.messages[i] = msg
			return
		}
	}

	pos := sort.Search(len(s.messages), func(i int) bool {
		return s.messages[i].CreatedAt.After(msg.CreatedAt)
	})
	s.messages = append(s.messages, Message{})
	copy(s.messages[pos+1:], s.messages[pos:])
	s.messages[pos] = msg
}

// DeleteHistory clears persisted and in-memory history for the session.
// Deleting an already-empty history succeeds with no effect.
func (s *Session) DeleteHistory(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if err := s.verifyOwnership(ctx); err != nil {
		return err
	}

	s.setState(StateDeleting)

	if err := s.deps.Store.DeleteBySession(ctx, s.cfg.Domain, s.key); err != nil {
		s.setState(StateError)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	s.mu.Lock()
	s.messages = nil
	s.state = StateIdle
	s.mu.Unlock()
	return nil
}

func (s *Session) verifyOwnership(ctx context.Context) error {
	if s.cfg.OwnershipRelation == "" || s.deps.Owner == nil {
		return nil
	}
	return s.deps.Owner.VerifyOwnership(ctx, s.cfg, s.key, s.userID)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
