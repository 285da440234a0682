package contract

import (
	"context"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository persists chat turns. One instance is bound to a
// single domain table (notebook_chat_messages or legal_chat_messages).
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	Update(ctx context.Context, message *entity.ChatMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionKey(ctx context.Context, sessionKey uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
