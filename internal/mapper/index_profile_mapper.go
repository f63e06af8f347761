package mapper

import (
	"encoding/json"
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IndexProfileMapper struct{}

func NewIndexProfileMapper() *IndexProfileMapper {
	return &IndexProfileMapper{}
}

func (m *IndexProfileMapper) ToEntity(p *model.IndexProfile) *entity.IndexProfile {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var settings map[string]interface{}
	if len(p.Settings) > 0 {
		// Malformed settings are treated as absent, not fatal.
		_ = json.Unmarshal(p.Settings, &settings)
	}

	return &entity.IndexProfile{
		Id:         p.Id,
		Name:       p.Name,
		Provider:   p.Provider,
		IndexName:  p.IndexName,
		Type:       p.Type,
		LastTaskId: p.LastTaskId,
		Settings:   settings,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  p.DeletedAt.Valid,
	}
}

func (m *IndexProfileMapper) ToModel(e *entity.IndexProfile) *model.IndexProfile {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var settings datatypes.JSON
	if e.Settings != nil {
		if raw, err := json.Marshal(e.Settings); err == nil {
			settings = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.IndexProfile{
		Id:         e.Id,
		Name:       e.Name,
		Provider:   e.Provider,
		IndexName:  e.IndexName,
		Type:       e.Type,
		LastTaskId: e.LastTaskId,
		Settings:   settings,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *IndexProfileMapper) ToEntities(profiles []*model.IndexProfile) []*entity.IndexProfile {
	entities := make([]*entity.IndexProfile, len(profiles))
	for i, p := range profiles {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
