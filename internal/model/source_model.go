package model

import (
	"time"

	"github.com/google/uuid"
)

type NotebookSource struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceKey  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_notebook_source_key"`
	Title      string    `gorm:"type:text;not null"`
	Location   string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (NotebookSource) TableName() string {
	return "notebook_sources"
}

type LegalSource struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseId    *uuid.UUID `gorm:"type:uuid;index"`
	SourceKey string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_legal_source_key"`
	Kind      string     `gorm:"type:varchar(50);not null"`
	Title     string     `gorm:"type:text;not null"`
	Reference string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (LegalSource) TableName() string {
	return "legal_sources"
}
