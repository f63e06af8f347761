package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInteractionRequest struct {
	Title string `json:"title" validate:"required"`
	TopN  int    `json:"top_n" validate:"omitempty,min=1,max=20"`
}

type CreateInteractionResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowInteractionResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	TopN          int        `json:"top_n"`
	DocumentCount int64      `json:"document_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

type UpdateInteractionRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
	TopN  int    `json:"top_n" validate:"omitempty,min=1,max=20"`
}

type UpdateInteractionResponse struct {
	Id uuid.UUID `json:"id"`
}
