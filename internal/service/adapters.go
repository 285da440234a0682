package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/repository/specification"
	"ai-research-chat-be/internal/repository/unitofwork"
	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// gormMessageStore persists chat turns through the repository layer. The
// domain config picks the storage relation, so one store serves both domains.
type gormMessageStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormMessageStore(uowFactory unitofwork.RepositoryFactory) chat.MessageStore {
	return &gormMessageStore{uowFactory: uowFactory}
}

func messageToEntity(msg *chat.Message) (*entity.ChatMessage, error) {
	e := &entity.ChatMessage{
		Id:         msg.Id,
		SessionKey: msg.SessionKey,
		Role:       msg.Role,
		Chat:       msg.Chat,
		CreatedAt:  msg.CreatedAt,
	}
	if msg.Raw != "" {
		raw := msg.Raw
		e.RawChat = &raw
	}
	if msg.Structured != nil {
		payload, err := json.Marshal(msg.Structured)
		if err != nil {
			return nil, fmt.Errorf("marshal citation payload: %w", err)
		}
		e.CitationPayload = datatypes.JSON(payload)
	}
	return e, nil
}

func entityToMessage(e *entity.ChatMessage, domain chatdomain.Domain) *chat.Message {
	msg := &chat.Message{
		Id:         e.Id,
		SessionKey: e.SessionKey,
		Domain:     domain,
		Role:       e.Role,
		Chat:       e.Chat,
		CreatedAt:  e.CreatedAt,
	}
	if e.RawChat != nil {
		msg.Raw = *e.RawChat
	}
	if len(e.CitationPayload) > 0 {
		var structured citation.StructuredContent
		if err := json.Unmarshal(e.CitationPayload, &structured); err == nil {
			msg.Structured = &structured
		}
		// A payload that fails to decode is dropped; the session re-derives
		// it from the raw text on load.
	}
	return msg
}

func (s *gormMessageStore) Insert(ctx context.Context, msg *chat.Message) error {
	cfg := chatdomain.ConfigFor(msg.Domain)
	e, err := messageToEntity(msg)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository(cfg).Create(ctx, e); err != nil {
		return err
	}

	msg.Id = e.Id
	msg.CreatedAt = e.CreatedAt
	return nil
}

func (s *gormMessageStore) ListBySession(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID) ([]*chat.Message, error) {
	cfg := chatdomain.ConfigFor(domain)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entities, err := uow.ChatMessageRepository(cfg).FindAll(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]*chat.Message, len(entities))
	for i, e := range entities {
		messages[i] = entityToMessage(e, domain)
	}
	return messages, nil
}

func (s *gormMessageStore) DeleteBySession(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID) error {
	cfg := chatdomain.ConfigFor(domain)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository(cfg).DeleteBySessionKey(ctx, sessionKey)
}

// gormSourceCatalog resolves cited source keys against the domain's catalog
// tables. A missing key is (nil, nil): the citation stays unresolved but the
// message still renders.
type gormSourceCatalog struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormSourceCatalog(uowFactory unitofwork.RepositoryFactory) citation.SourceCatalog {
	return &gormSourceCatalog{uowFactory: uowFactory}
}

func (c *gormSourceCatalog) FindSource(ctx context.Context, domain chatdomain.Domain, sourceID string) (*citation.SourceEntry, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	switch domain {
	case chatdomain.DomainNotebook:
		src, err := uow.NotebookSourceRepository().FindOne(ctx, specification.BySourceKey{SourceKey: sourceID})
		if err != nil || src == nil {
			return nil, err
		}
		return &citation.SourceEntry{
			ID:        src.SourceKey,
			Domain:    domain,
			Kind:      citation.KindChunk,
			Title:     src.Title,
			Reference: src.Location,
		}, nil

	case chatdomain.DomainLegal:
		src, err := uow.LegalSourceRepository().FindOne(ctx, specification.BySourceKey{SourceKey: sourceID})
		if err != nil || src == nil {
			return nil, err
		}
		return &citation.SourceEntry{
			ID:        src.SourceKey,
			Domain:    domain,
			Kind:      citation.SourceKind(src.Kind),
			Title:     src.Title,
			Reference: src.Reference,
		}, nil
	}

	return nil, nil
}

// gormOwnershipChecker verifies the acting user owns the backing row of the
// conversation. Only domains with an ownership relation configured hit this.
type gormOwnershipChecker struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormOwnershipChecker(uowFactory unitofwork.RepositoryFactory) chat.OwnershipChecker {
	return &gormOwnershipChecker{uowFactory: uowFactory}
}

func (o *gormOwnershipChecker) VerifyOwnership(ctx context.Context, cfg chatdomain.Config, sessionKey, userID uuid.UUID) error {
	uow := o.uowFactory.NewUnitOfWork(ctx)

	switch cfg.Domain {
	case chatdomain.DomainLegal:
		c, err := uow.LegalCaseRepository().FindOne(ctx,
			specification.ByID{ID: sessionKey},
			specification.UserOwnedBy{UserID: userID},
		)
		if err != nil {
			return fmt.Errorf("%w: %v", chat.ErrUnauthorized, err)
		}
		if c == nil {
			return fmt.Errorf("%w: case %s", chat.ErrUnauthorized, sessionKey)
		}
		return nil

	case chatdomain.DomainNotebook:
		n, err := uow.NotebookRepository().FindOne(ctx,
			specification.ByID{ID: sessionKey},
			specification.UserOwnedBy{UserID: userID},
		)
		if err != nil {
			return fmt.Errorf("%w: %v", chat.ErrUnauthorized, err)
		}
		if n == nil {
			return fmt.Errorf("%w: notebook %s", chat.ErrUnauthorized, sessionKey)
		}
		return nil
	}

	return nil
}
