package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotebookSource is one citable chunk of a notebook's ingested documents.
// SourceKey is the identifier the assistant workflow embeds in its markers.
type NotebookSource struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	SourceKey  string
	Title      string
	Location   string // e.g. page/paragraph locator inside the source document
	CreatedAt  time.Time
}

// LegalSource is one citable legal reference: a regulation, ruling, template
// or case document. CaseId is nil for corpus-wide sources (regulations,
// templates) and set for case-scoped documents.
type LegalSource struct {
	Id        uuid.UUID
	CaseId    *uuid.UUID
	SourceKey string
	Kind      string // "regulation" | "ruling" | "template" | "case_document"
	Title     string
	Reference string // statute number, docket number, file name
	CreatedAt time.Time
}
