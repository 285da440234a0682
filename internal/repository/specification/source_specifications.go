package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySourceKey filters catalog sources by the key cited in assistant markers.
type BySourceKey struct {
	SourceKey string
}

func (s BySourceKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_key = ?", s.SourceKey)
}

// ByNotebookID scopes notebook sources to one notebook.
type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

// ByCaseScope matches legal sources visible to a case: case-scoped documents
// plus the corpus-wide rows (regulations, rulings, templates).
type ByCaseScope struct {
	CaseID uuid.UUID
}

func (s ByCaseScope) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("case_id = ? OR case_id IS NULL", s.CaseID)
}

// ByKind filters legal sources by kind.
type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}
