package implementation

import (
	"context"
	"errors"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndexProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexProfileMapper
}

func NewIndexProfileRepository(db *gorm.DB) contract.IndexProfileRepository {
	return &IndexProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexProfileMapper(),
	}
}

func (r *IndexProfileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IndexProfileRepositoryImpl) Create(ctx context.Context, profile *entity.IndexProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *IndexProfileRepositoryImpl) Update(ctx context.Context, profile *entity.IndexProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *IndexProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IndexProfile, error) {
	var m model.IndexProfile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IndexProfileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexProfile, error) {
	var models []*model.IndexProfile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *IndexProfileRepositoryImpl) AdvanceWatermark(ctx context.Context, id uuid.UUID, lastTaskId int64) error {
	// The guard keeps the watermark monotonic even if two runs race past the
	// distributed lock (e.g. after a lock TTL expiry).
	return r.db.WithContext(ctx).
		Model(&model.IndexProfile{}).
		Where("id = ? AND last_task_id < ?", id, lastTaskId).
		Update("last_task_id", lastTaskId).Error
}
