package contract

import (
	"context"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LegalCaseRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.LegalCase, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalCase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalCase, error)
	UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) error
}
