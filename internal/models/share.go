package models

import (
	"time"

	"github.com/google/uuid"
)

// Share is a persistent share token for a diagram. The diagram data at the
// time of sharing is snapshotted so the link keeps working even if the
// diagram is later deleted.
type Share struct {
	Token       string       `json:"token"`
	DiagramID   uuid.UUID    `json:"diagram_id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	DiagramData *DiagramData `json:"diagram_data,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	IsActive    bool         `json:"is_active"`
}

// Expired reports whether the share has an expiry in the past.
func (s *Share) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
