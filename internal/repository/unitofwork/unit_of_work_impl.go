package unitofwork

import (
	"context"
	"fmt"

	"ai-research-chat-be/internal/repository/contract"
	"ai-research-chat-be/internal/repository/implementation"
	"ai-research-chat-be/pkg/chatdomain"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) ChatMessageRepository(cfg chatdomain.Config) contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB(), cfg)
}

func (u *UnitOfWorkImpl) NotebookRepository() contract.NotebookRepository {
	return implementation.NewNotebookRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LegalCaseRepository() contract.LegalCaseRepository {
	return implementation.NewLegalCaseRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotebookSourceRepository() contract.NotebookSourceRepository {
	return implementation.NewNotebookSourceRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LegalSourceRepository() contract.LegalSourceRepository {
	return implementation.NewLegalSourceRepository(u.getDB())
}
