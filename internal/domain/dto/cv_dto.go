package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CvRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Summary string `json:"summary" binding:"max=3000"`
}

type ComponentCreateRequest struct {
	Type string          `json:"type" binding:"required"`
	Data json.RawMessage `json:"data" binding:"required"`
}

type ComponentUpdateRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

type ReorderRequest struct {
	ComponentIDs []uuid.UUID `json:"component_ids" binding:"required,min=1"`
}
