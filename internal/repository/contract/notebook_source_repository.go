package contract

import (
	"context"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"
)

type NotebookSourceRepository interface {
	Create(ctx context.Context, source *entity.NotebookSource) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotebookSource, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotebookSource, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
