package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage is the storage shape shared by both domains. It deliberately
// has no TableName: repositories select the table from the domain config
// (notebook_chat_messages / legal_chat_messages).
type ChatMessage struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionKey      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role            string         `gorm:"type:varchar(50);not null"`
	Chat            string         `gorm:"type:text;not null"`
	RawChat         *string        `gorm:"type:text"`
	CitationPayload datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// NotebookChatMessage and LegalChatMessage exist for migrations only; all
// runtime access goes through the table name in the domain config.
type NotebookChatMessage struct{ ChatMessage }

func (NotebookChatMessage) TableName() string { return "notebook_chat_messages" }

type LegalChatMessage struct{ ChatMessage }

func (LegalChatMessage) TableName() string { return "legal_chat_messages" }
