package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatMessage is the unified message entity for both chat domains. The
// domain decides which table it lives in; the shape is identical.
type ChatMessage struct {
	Id              uuid.UUID
	SessionKey      uuid.UUID // notebook id or legal case id
	Role            string    // "user" | "assistant"
	Chat            string    // display text (clean text for assistant messages)
	RawChat         *string   // raw annotated text, assistant only
	CitationPayload datatypes.JSON // citation payload as returned by the workflow, assistant only
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
