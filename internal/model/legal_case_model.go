package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LegalCase struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"type:text;not null"`
	CaseNumber string         `gorm:"type:varchar(100)"`
	ChatTitle  string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (LegalCase) TableName() string {
	return "legal_cases"
}
