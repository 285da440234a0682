package unitofwork

import (
	"context"

	"ai-research-chat-be/internal/repository/contract"
	"ai-research-chat-be/pkg/chatdomain"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatMessageRepository(cfg chatdomain.Config) contract.ChatMessageRepository
	NotebookRepository() contract.NotebookRepository
	LegalCaseRepository() contract.LegalCaseRepository
	NotebookSourceRepository() contract.NotebookSourceRepository
	LegalSourceRepository() contract.LegalSourceRepository
}
