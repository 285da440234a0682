package chat

import (
	"context"
	"time"

	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is the unified chat message shape shared by both domains.
// Raw and Structured are set on assistant messages only; Structured is
// derived from Raw and never mutated afterwards.
type Message struct {
	Id         uuid.UUID                  `json:"id"`
	SessionKey uuid.UUID                  `json:"session_key"`
	Domain     chatdomain.Domain          `json:"domain"`
	Role       string                     `json:"role"`
	Chat       string                     `json:"chat"`
	Raw        string                     `json:"raw,omitempty"`
	Structured *citation.StructuredContent `json:"structured,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// SendOptions carries the domain-specific flags forwarded to the assistant
// endpoint, e.g. which citation categories the legal workflow should search.
type SendOptions struct {
	Categories []string `json:"categories,omitempty"`
}

// EndpointCitation is one entry of the domain-shaped citation payload the
// assistant workflow returns alongside its raw reply.
type EndpointCitation struct {
	SourceID string `json:"source_id"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// EndpointResponse is the assistant workflow's answer for one send.
type EndpointResponse struct {
	Reply     string             `json:"reply"`
	Citations []EndpointCitation `json:"citations,omitempty"`
}

// MessageStore is the durable message store collaborator.
// Listing returns messages ordered by creation time ascending.
type MessageStore interface {
	Insert(ctx context.Context, msg *Message) error
	ListBySession(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID) ([]*Message, error)
	DeleteBySession(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID) error
}

// AssistantEndpoint invokes the external AI workflow for a domain.
type AssistantEndpoint interface {
	Ask(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID, userText string, opts SendOptions) (*EndpointResponse, error)
}

// UnsubscribeFunc releases a live-feed subscription.
type UnsubscribeFunc func()

// LiveFeed delivers newly inserted messages for a session asynchronously.
// Delivery is at-least-once; consumers must deduplicate by message id.
type LiveFeed interface {
	Subscribe(domain chatdomain.Domain, sessionKey uuid.UUID) (<-chan Message, UnsubscribeFunc, error)
}

// OwnershipChecker verifies the acting user owns the session's backing row.
// Implementations return an error wrapping ErrUnauthorized on failure.
type OwnershipChecker interface {
	VerifyOwnership(ctx context.Context, cfg chatdomain.Config, sessionKey, userID uuid.UUID) error
}
