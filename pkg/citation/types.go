package citation

import (
	"context"

	"ai-research-chat-be/pkg/chatdomain"
)

// SourceKind classifies a catalog entry. The notebook domain only uses
// KindChunk; the legal domain uses the remaining kinds.
type SourceKind string

const (
	KindChunk        SourceKind = "chunk"
	KindRegulation   SourceKind = "regulation"
	KindRuling       SourceKind = "ruling"
	KindTemplate     SourceKind = "template"
	KindCaseDocument SourceKind = "case_document"
)

// SourceEntry is a catalog record a citation can resolve against.
type SourceEntry struct {
	ID        string            `json:"id"`
	Domain    chatdomain.Domain `json:"domain"`
	Kind      SourceKind        `json:"kind"`
	Title     string            `json:"title"`
	Reference string            `json:"reference,omitempty"` // e.g. statute number, docket, file path
}

// SourceCatalog looks up catalog entries by id, scoped to a domain.
// A missing source returns (nil, nil).
type SourceCatalog interface {
	FindSource(ctx context.Context, domain chatdomain.Domain, sourceID string) (*SourceEntry, error)
}

// Parsed is one citation bound to its ordinal and (when found) catalog entry.
// Ordinals are 1-based and stable within a message: every occurrence of the
// same source id shares one ordinal, assigned in first-occurrence order.
type Parsed struct {
	Ordinal  int               `json:"ordinal"`
	SourceID string            `json:"source_id"`
	Domain   chatdomain.Domain `json:"domain"`
	Resolved bool              `json:"resolved"`
	Source   *SourceEntry      `json:"source,omitempty"`
	Excerpt  string            `json:"excerpt,omitempty"`
}

// SegmentKind tags a segment as literal text or a citation reference.
type SegmentKind string

const (
	SegmentText     SegmentKind = "text"
	SegmentCitation SegmentKind = "citation"
)

// Segment is the atomic renderable unit of an assistant message.
// Text segments render literally; citation segments render as a reference.
type Segment struct {
	Kind     SegmentKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Citation *Parsed     `json:"citation,omitempty"`
}

// StructuredContent is the fully resolved, renderable form of one assistant
// message. CleanText equals the in-order concatenation of all text segments;
// marker syntax never appears in it. Citations holds each distinct cited
// source exactly once, ordered by ordinal.
type StructuredContent struct {
	Segments  []Segment `json:"segments"`
	Citations []Parsed  `json:"citations"`
	CleanText string    `json:"clean_text"`
}
