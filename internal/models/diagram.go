package models

import (
	"time"

	"github.com/google/uuid"
)

// Diagram matches the diagrams table. DiagramData is stored as JSONB and
// carries the `{classes, associations}` payload; a nil pointer maps to a
// NULL column.
type Diagram struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"project_id"`
	Data      *DiagramData `json:"diagram_data"`
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (d *Diagram) Prepare() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Version == 0 {
		d.Version = 1
	}
}
