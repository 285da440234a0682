package service

import (
	"context"

	"ai-research-chat-be/internal/dto"
	"ai-research-chat-be/internal/repository/specification"
	"ai-research-chat-be/internal/repository/unitofwork"
	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
)

// ISourceService exposes the citable catalog behind a conversation, so the
// client can render a source panel next to the chat.
type ISourceService interface {
	GetSources(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) (*dto.GetSourcesResponse, error)
}

type sourceService struct {
	uowFactory unitofwork.RepositoryFactory
	owner      chat.OwnershipChecker
}

func NewSourceService(uowFactory unitofwork.RepositoryFactory) ISourceService {
	return &sourceService{
		uowFactory: uowFactory,
		owner:      NewGormOwnershipChecker(uowFactory),
	}
}

func (ss *sourceService) GetSources(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) (*dto.GetSourcesResponse, error) {
	cfg := chatdomain.ConfigFor(domain)
	if cfg.OwnershipRelation != "" {
		if err := ss.owner.VerifyOwnership(ctx, cfg, sessionKey, userId); err != nil {
			return nil, err
		}
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	sources := []dto.SourceDTO{}

	switch domain {
	case chatdomain.DomainNotebook:
		rows, err := uow.NotebookSourceRepository().FindAll(ctx,
			specification.ByNotebookID{NotebookID: sessionKey},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			sources = append(sources, dto.SourceDTO{
				Id:        r.Id,
				SourceKey: r.SourceKey,
				Kind:      string(citation.KindChunk),
				Title:     r.Title,
				Reference: r.Location,
				CreatedAt: r.CreatedAt,
			})
		}

	case chatdomain.DomainLegal:
		rows, err := uow.LegalSourceRepository().FindAll(ctx,
			specification.ByCaseScope{CaseID: sessionKey},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			sources = append(sources, dto.SourceDTO{
				Id:        r.Id,
				SourceKey: r.SourceKey,
				Kind:      r.Kind,
				Title:     r.Title,
				Reference: r.Reference,
				CreatedAt: r.CreatedAt,
			})
		}
	}

	return &dto.GetSourcesResponse{
		SessionKey: sessionKey,
		Sources:    sources,
	}, nil
}
