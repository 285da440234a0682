package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- test doubles ---

type memStore struct {
	mu       sync.Mutex
	messages []Message
	insertEr error
	listErr  error
	delErr   error
}

func (s *memStore) Insert(_ context.Context, msg *Message) error {
	if s.insertEr != nil {
		return s.insertEr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *memStore) ListBySession(_ context.Context, domain chatdomain.Domain, key uuid.UUID) ([]*Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Message
	for i := range s.messages {
		if s.messages[i].Domain == domain && s.messages[i].SessionKey == key {
			m := s.messages[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

func (s *memStore) DeleteBySession(_ context.Context, domain chatdomain.Domain, key uuid.UUID) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.Domain != domain || m.SessionKey != key {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

type stubEndpoint struct {
	mu         sync.Mutex
	delay      time.Duration
	reply      string
	err        error
	dispatches []time.Time
	completes  []time.Time
}

func (e *stubEndpoint) Ask(_ context.Context, _ chatdomain.Domain, _ uuid.UUID, _ string, _ SendOptions) (*EndpointResponse, error) {
	e.mu.Lock()
	e.dispatches = append(e.dispatches, time.Now())
	e.mu.Unlock()

	time.Sleep(e.delay)

	e.mu.Lock()
	e.completes = append(e.completes, time.Now())
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	return &EndpointResponse{Reply: e.reply}, nil
}

type emptyCatalog struct{}

func (emptyCatalog) FindSource(context.Context, chatdomain.Domain, string) (*citation.SourceEntry, error) {
	return nil, nil
}

type stubFeed struct {
	mu     sync.Mutex
	ch     chan Message
	closed bool
}

func newStubFeed() *stubFeed { return &stubFeed{ch: make(chan Message, 8)} }

func (f *stubFeed) Subscribe(chatdomain.Domain, uuid.UUID) (<-chan Message, UnsubscribeFunc, error) {
	return f.ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.closed {
			f.closed = true
			close(f.ch)
		}
	}, nil
}

type denyAllOwner struct{}

func (denyAllOwner) VerifyOwnership(context.Context, chatdomain.Config, uuid.UUID, uuid.UUID) error {
	return ErrUnauthorized
}

func newTestSession(t *testing.T, deps Dependencies) *Session {
	t.Helper()
	if deps.Store == nil {
		deps.Store = &memStore{}
	}
	if deps.Catalog == nil {
		deps.Catalog = emptyCatalog{}
	}
	s, err := Open(chatdomain.DomainNotebook, uuid.New(), uuid.New(), deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// --- tests ---

func TestSendAppendsUserAndReply(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, Dependencies{
		Store:    store,
		Endpoint: &stubEndpoint{reply: "Answer per source(doc42)."},
	})

	user, reply, err := s.Send(context.Background(), "  what about losses?  ", SendOptions{})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "what about losses?", user.Chat)

	require.NotNil(t, reply.Structured)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "Answer per .", reply.Chat)
	require.Len(t, reply.Structured.Citations, 1)
	assert.False(t, reply.Structured.Citations[0].Resolved)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, user.Id, msgs[0].Id)
	assert.Equal(t, reply.Id, msgs[1].Id)
	assert.Equal(t, StateReady, s.State())
}

func TestSendRejectsEmptyText(t *testing.T) {
	s := newTestSession(t, Dependencies{Endpoint: &stubEndpoint{reply: "x"}})

	_, _, err := s.Send(context.Background(), "   \n\t ", SendOptions{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, s.Messages())
}

func TestSendFailureKeepsOptimisticMessage(t *testing.T) {
	s := newTestSession(t, Dependencies{
		Endpoint: &stubEndpoint{err: errors.New("workflow down")},
	})

	user, reply, err := s.Send(context.Background(), "hello", SendOptions{})
	require.ErrorIs(t, err, ErrSendFailed)
	assert.Nil(t, reply)
	require.NotNil(t, user)

	msgs := s.Messages()
	require.Len(t, msgs, 1, "optimistic user message must stay visible")
	assert.Equal(t, user.Id, msgs[0].Id)
	assert.Equal(t, StateError, s.State())

	// Retry transition: a later send is allowed and succeeds.
	s.deps.Endpoint = &stubEndpoint{reply: "recovered"}
	_, _, err = s.Send(context.Background(), "hello again", SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, StateReady, s.State())
}

func TestSendsAreSerializedPerSession(t *testing.T) {
	endpoint := &stubEndpoint{reply: "ok", delay: 60 * time.Millisecond}
	s := newTestSession(t, Dependencies{Endpoint: endpoint})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Send(context.Background(), "concurrent", SendOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, endpoint.dispatches, 2)
	require.Len(t, endpoint.completes, 2)
	assert.False(t, endpoint.dispatches[1].Before(endpoint.completes[0]),
		"second send dispatched at %v before first completed at %v",
		endpoint.dispatches[1], endpoint.completes[0])
}

func TestLoadHistoryDerivesStructuredContent(t *testing.T) {
	key := uuid.New()
	store := &memStore{messages: []Message{
		{
			Id: uuid.New(), SessionKey: key, Domain: chatdomain.DomainNotebook,
			Role: RoleUser, Chat: "question", CreatedAt: time.Unix(10, 0),
		},
		{
			Id: uuid.New(), SessionKey: key, Domain: chatdomain.DomainNotebook,
			Role: RoleAssistant, Raw: "see source(doc42) here", CreatedAt: time.Unix(20, 0),
		},
	}}

	s, err := Open(chatdomain.DomainNotebook, key, uuid.New(), Dependencies{
		Store:    store,
		Catalog:  emptyCatalog{},
		Endpoint: &stubEndpoint{},
	})
	require.NoError(t, err)
	defer s.Close()

	msgs, err := s.LoadHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Nil(t, msgs[0].Structured)
	require.NotNil(t, msgs[1].Structured)
	assert.Equal(t, "see  here", msgs[1].Chat)
	assert.Equal(t, StateReady, s.State())
}

func TestLoadHistoryFailureIsTyped(t *testing.T) {
	s := newTestSession(t, Dependencies{
		Store:    &memStore{listErr: errors.New("db gone")},
		Endpoint: &stubEndpoint{},
	})

	_, err := s.LoadHistory(context.Background())
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
	assert.Equal(t, StateError, s.State())
}

func TestMergeDeduplicatesById(t *testing.T) {
	s := newTestSession(t, Dependencies{Endpoint: &stubEndpoint{reply: "ok"}})

	_, reply, err := s.Send(context.Background(), "hi", SendOptions{})
	require.NoError(t, err)

	// Same message arrives again over the live feed, content updated.
	dup := *reply
	dup.Chat = "ok (edited)"
	s.Merge(dup)

	msgs := s.Messages()
	require.Len(t, msgs, 2, "duplicate id must not grow the list")
	assert.Equal(t, "ok (edited)", msgs[1].Chat, "last write wins")
}

func TestMergeKeepsCreationOrder(t *testing.T) {
	s := newTestSession(t, Dependencies{Endpoint: &stubEndpoint{}})

	late := Message{Id: uuid.New(), Role: RoleAssistant, CreatedAt: time.Unix(30, 0)}
	early := Message{Id: uuid.New(), Role: RoleUser, CreatedAt: time.Unix(10, 0)}
	mid := Message{Id: uuid.New(), Role: RoleAssistant, CreatedAt: time.Unix(20, 0)}

	s.Merge(late)
	s.Merge(early)
	s.Merge(mid)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, early.Id, msgs[0].Id)
	assert.Equal(t, mid.Id, msgs[1].Id)
	assert.Equal(t, late.Id, msgs[2].Id)
}

func TestLiveFeedDeliveryMergesIntoSession(t *testing.T) {
	feed := newStubFeed()
	s := newTestSession(t, Dependencies{Endpoint: &stubEndpoint{}, Feed: feed})

	msg := Message{Id: uuid.New(), Role: RoleAssistant, Chat: "pushed", CreatedAt: time.Now()}
	feed.ch <- msg

	require.Eventually(t, func() bool {
		return len(s.Messages()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, msg.Id, s.Messages()[0].Id)
}

func TestDeleteHistoryIsIdempotent(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, Dependencies{Store: store, Endpoint: &stubEndpoint{reply: "ok"}})

	_, _, err := s.Send(context.Background(), "hi", SendOptions{})
	require.NoError(t, err)

	require.NoError(t, s.DeleteHistory(context.Background()))
	assert.Empty(t, s.Messages())
	assert.Equal(t, StateIdle, s.State())

	// Second delete on empty history succeeds with no effect.
	require.NoError(t, s.DeleteHistory(context.Background()))
}

func TestDeleteHistoryFailureIsTyped(t *testing.T) {
	s := newTestSession(t, Dependencies{
		Store:    &memStore{delErr: errors.New("db gone")},
		Endpoint: &stubEndpoint{},
	})

	err := s.DeleteHistory(context.Background())
	assert.ErrorIs(t, err, ErrDeleteFailed)
}

func TestOwnershipCheckBlocksSendAndDelete(t *testing.T) {
	s, err := Open(chatdomain.DomainLegal, uuid.New(), uuid.New(), Dependencies{
		Store:    &memStore{},
		Catalog:  emptyCatalog{},
		Endpoint: &stubEndpoint{reply: "ok"},
		Owner:    denyAllOwner{},
	})
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.Send(context.Background(), "hi", SendOptions{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, s.Messages(), "unauthorized send must not append anything")

	err = s.DeleteHistory(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	s := newTestSession(t, Dependencies{Endpoint: &stubEndpoint{reply: "ok"}})
	s.Close()

	_, _, err := s.Send(context.Background(), "hi", SendOptions{})
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = s.LoadHistory(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
