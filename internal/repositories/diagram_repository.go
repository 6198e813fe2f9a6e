package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"umlforge/internal/models"
)

type DiagramRepository struct {
	pool *pgxpool.Pool
}

func NewDiagramRepository(pool *pgxpool.Pool) *DiagramRepository {
	return &DiagramRepository{pool: pool}
}

func (r *DiagramRepository) Create(diagram *models.Diagram) error {
	ctx := context.Background()

	diagram.Prepare()

	query := `
		INSERT INTO diagrams (id, project_id, diagram_data, version)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		diagram.ID,
		diagram.ProjectID,
		diagram.Data,
		diagram.Version,
	).Scan(&diagram.CreatedAt, &diagram.UpdatedAt)
}

func (r *DiagramRepository) GetByID(id uuid.UUID) (*models.Diagram, error) {
	ctx := context.Background()

	query := `
		SELECT id, project_id, diagram_data, version, created_at, updated_at
		FROM diagrams WHERE id = $1
	`

	var diagram models.Diagram
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&diagram.ID,
		&diagram.ProjectID,
		&diagram.Data,
		&diagram.Version,
		&diagram.CreatedAt,
		&diagram.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &diagram, nil
}

func (r *DiagramRepository) GetByProjectID(projectID uuid.UUID) ([]models.Diagram, error) {
	ctx := context.Background()

	query := `
		SELECT id, project_id, diagram_data, version, created_at, updated_at
		FROM diagrams WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diagrams []models.Diagram
	for rows.Next() {
		var diagram models.Diagram
		err := rows.Scan(
			&diagram.ID,
			&diagram.ProjectID,
			&diagram.Data,
			&diagram.Version,
			&diagram.CreatedAt,
			&diagram.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		diagrams = append(diagrams, diagram)
	}

	return diagrams, rows.Err()
}

// UpdateData replaces the payload and bumps the version in one statement so
// concurrent writers cannot produce the same version twice.
func (r *DiagramRepository) UpdateData(diagram *models.Diagram) error {
	ctx := context.Background()

	query := `
		UPDATE diagrams SET diagram_data = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING version, updated_at
	`

	return r.pool.QueryRow(ctx, query, diagram.ID, diagram.Data).Scan(
		&diagram.Version,
		&diagram.UpdatedAt,
	)
}

func (r *DiagramRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	query := `DELETE FROM diagrams WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
