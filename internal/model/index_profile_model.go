package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IndexProfile struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string         `gorm:"type:varchar(255);uniqueIndex"`
	Provider   string         `gorm:"type:varchar(64);not null"`
	IndexName  string         `gorm:"type:varchar(255);not null"`
	Type       string         `gorm:"type:varchar(64);not null;index"`
	LastTaskId int64          `gorm:"default:0"` // watermark
	Settings   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (IndexProfile) TableName() string {
	return "index_profiles"
}
