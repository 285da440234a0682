package contract

import (
	"context"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"
)

type LegalSourceRepository interface {
	Create(ctx context.Context, source *entity.LegalSource) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalSource, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalSource, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
