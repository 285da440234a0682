package dto

import (
	"time"

	"github.com/google/uuid"
)

type SourceDTO struct {
	Id        uuid.UUID `json:"id"`
	SourceKey string    `json:"source_key"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GetSourcesResponse struct {
	SessionKey uuid.UUID   `json:"session_key"`
	Sources    []SourceDTO `json:"sources"`
}
