package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Interaction struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255)"`
	TopN      int       `gorm:"default:0"` // 0 = use settings default
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Interaction) TableName() string {
	return "interactions"
}
