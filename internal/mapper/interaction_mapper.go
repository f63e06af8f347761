package mapper

import (
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"gorm.io/gorm"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}

	var deletedAt *time.Time
	if i.DeletedAt.Valid {
		t := i.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Interaction{
		Id:        i.Id,
		UserId:    i.UserId,
		Title:     i.Title,
		TopN:      i.TopN,
		CreatedAt: i.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: i.DeletedAt.Valid,
	}
}

func (m *InteractionMapper) ToModel(e *entity.Interaction) *model.Interaction {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Interaction{
		Id:        e.Id,
		UserId:    e.UserId,
		Title:     e.Title,
		TopN:      e.TopN,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
