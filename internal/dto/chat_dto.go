package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	Chat       string   `json:"chat" validate:"required"`
	Categories []string `json:"categories,omitempty" validate:"max=5"`
}

// SegmentDTO is one ordered piece of an assistant reply: plain text or a
// resolved citation.
type SegmentDTO struct {
	Kind     string       `json:"kind"` // "text" | "citation"
	Text     string       `json:"text,omitempty"`
	Citation *CitationDTO `json:"citation,omitempty"`
}

type CitationDTO struct {
	Ordinal  int    `json:"ordinal"`
	SourceId string `json:"source_id"`
	Title    string `json:"title,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Resolved bool   `json:"resolved"`
	Excerpt  string `json:"excerpt,omitempty"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	CleanText string        `json:"clean_text,omitempty"`
	Segments  []SegmentDTO  `json:"segments,omitempty"`
	Citations []CitationDTO `json:"citations,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionKey uuid.UUID        `json:"session_key"`
	Title      string           `json:"title,omitempty"`
	Messages   []ChatMessageDTO `json:"messages"`
}

type SendChatResponse struct {
	SessionKey uuid.UUID       `json:"session_key"`
	Title      string          `json:"title,omitempty"`
	Sent       *ChatMessageDTO `json:"sent"`
	Reply      *ChatMessageDTO `json:"reply"`
}
