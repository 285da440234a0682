package contract

import (
	"context"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.Notebook, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) error
}
