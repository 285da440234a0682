package implementation

import (
	"context"
	"errors"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/model"
	"ai-research-chat-be/internal/repository/contract"
	"ai-research-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotebookRepositoryImpl struct {
	db *gorm.DB
}

func NewNotebookRepository(db *gorm.DB) contract.NotebookRepository {
	return &NotebookRepositoryImpl{db: db}
}

func (r *NotebookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func notebookToEntity(m *model.Notebook) *entity.Notebook {
	if m == nil {
		return nil
	}
	return &entity.Notebook{
		Id:        m.Id,
		Name:      m.Name,
		UserId:    m.UserId,
		ChatTitle: m.ChatTitle,
		CreatedAt: m.CreatedAt,
		UpdatedAt: &m.UpdatedAt,
	}
}

func (r *NotebookRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Notebook, error) {
	return r.FindOne(ctx, specification.ByID{ID: id})
}

func (r *NotebookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	var m model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notebookToEntity(&m), nil
}

func (r *NotebookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	var models []*model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Notebook, len(models))
	for i, m := range models {
		entities[i] = notebookToEntity(m)
	}
	return entities, nil
}

func (r *NotebookRepositoryImpl) UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notebook{}).
		Where("id = ?", id).
		Update("chat_title", title).Error
}
