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

type LegalCaseRepositoryImpl struct {
	db *gorm.DB
}

func NewLegalCaseRepository(db *gorm.DB) contract.LegalCaseRepository {
	return &LegalCaseRepositoryImpl{db: db}
}

func (r *LegalCaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func legalCaseToEntity(m *model.LegalCase) *entity.LegalCase {
	if m == nil {
		return nil
	}
	return &entity.LegalCase{
		Id:         m.Id,
		UserId:     m.UserId,
		Title:      m.Title,
		CaseNumber: m.CaseNumber,
		ChatTitle:  m.ChatTitle,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  &m.UpdatedAt,
	}
}

func (r *LegalCaseRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.LegalCase, error) {
	return r.FindOne(ctx, specification.ByID{ID: id})
}

func (r *LegalCaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalCase, error) {
	var m model.LegalCase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return legalCaseToEntity(&m), nil
}

func (r *LegalCaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalCase, error) {
	var models []*model.LegalCase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LegalCase, len(models))
	for i, m := range models {
		entities[i] = legalCaseToEntity(m)
	}
	return entities, nil
}

func (r *LegalCaseRepositoryImpl) UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).
		Model(&model.LegalCase{}).
		Where("id = ?", id).
		Update("chat_title", title).Error
}
