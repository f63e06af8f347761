package model

import (
	"time"

	"github.com/google/uuid"
)

// IndexingTask rows are append-only. The bigserial id provides the strictly
// increasing ordering the watermark protocol depends on.
type IndexingTask struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	RecordId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(16);not null"`
	RecordType string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (IndexingTask) TableName() string {
	return "indexing_tasks"
}
