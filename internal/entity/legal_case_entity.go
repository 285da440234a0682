package entity

import (
	"time"

	"github.com/google/uuid"
)

type LegalCase struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Title      string
	CaseNumber string
	ChatTitle  string // display title of the case chat, set from the first question
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
