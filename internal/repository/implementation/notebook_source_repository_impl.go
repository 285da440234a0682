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

type NotebookSourceRepositoryImpl struct {
	db *gorm.DB
}

func NewNotebookSourceRepository(db *gorm.DB) contract.NotebookSourceRepository {
	return &NotebookSourceRepositoryImpl{db: db}
}

func (r *NotebookSourceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func notebookSourceToEntity(m *model.NotebookSource) *entity.NotebookSource {
	if m == nil {
		return nil
	}
	return &entity.NotebookSource{
		Id:         m.Id,
		NotebookId: m.NotebookId,
		SourceKey:  m.SourceKey,
		Title:      m.Title,
		Location:   m.Location,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *NotebookSourceRepositoryImpl) Create(ctx context.Context, source *entity.NotebookSource) error {
	m := &model.NotebookSource{
		Id:         source.Id,
		NotebookId: source.NotebookId,
		SourceKey:  source.SourceKey,
		Title:      source.Title,
		Location:   source.Location,
		CreatedAt:  source.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*source = *notebookSourceToEntity(m)
	return nil
}

func (r *NotebookSourceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotebookSource, error) {
	var m model.NotebookSource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notebookSourceToEntity(&m), nil
}

func (r *NotebookSourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotebookSource, error) {
	var models []*model.NotebookSource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.NotebookSource, len(models))
	for i, m := range models {
		entities[i] = notebookSourceToEntity(m)
	}
	return entities, nil
}

func (r *NotebookSourceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.NotebookSource{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
