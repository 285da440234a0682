package implementation

import (
	"context"
	"errors"

	"ai-research-chat-be/internal/entity"
	"ai-research-chat-be/internal/model"
	"ai-research-chat-be/internal/repository/contract"
	"ai-research-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LegalSourceRepositoryImpl struct {
	db *gorm.DB
}

func NewLegalSourceRepository(db *gorm.DB) contract.LegalSourceRepository {
	return &LegalSourceRepositoryImpl{db: db}
}

func (r *LegalSourceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func legalSourceToEntity(m *model.LegalSource) *entity.LegalSource {
	if m == nil {
		return nil
	}
	return &entity.LegalSource{
		Id:        m.Id,
		CaseId:    m.CaseId,
		SourceKey: m.SourceKey,
		Kind:      m.Kind,
		Title:     m.Title,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

func (r *LegalSourceRepositoryImpl) Create(ctx context.Context, source *entity.LegalSource) error {
	m := &model.LegalSource{
		Id:        source.Id,
		CaseId:    source.CaseId,
		SourceKey: source.SourceKey,
		Kind:      source.Kind,
		Title:     source.Title,
		Reference: source.Reference,
		CreatedAt: source.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*source = *legalSourceToEntity(m)
	return nil
}

func (r *LegalSourceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalSource, error) {
	var m model.LegalSource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return legalSourceToEntity(&m), nil
}

func (r *LegalSourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalSource, error) {
	var models []*model.LegalSource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LegalSource, len(models))
	for i, m := range models {
		entities[i] = legalSourceToEntity(m)
	}
	return entities, nil
}

func (r *LegalSourceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LegalSource{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
