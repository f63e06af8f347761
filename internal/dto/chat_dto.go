package dto

import "github.com/google/uuid"

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type AskRequest struct {
	InteractionId uuid.UUID     `json:"-"`
	Question      string        `json:"question" validate:"required"`
	History       []ChatMessage `json:"history" validate:"omitempty,dive"`
}

type AskResponse struct {
	Answer   string `json:"answer"`
	Grounded bool   `json:"grounded"` // true when document context backed the answer
}
