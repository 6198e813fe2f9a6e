package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"umlforge/internal/models"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(project *models.Project) error {
	ctx := context.Background()

	project.Prepare()

	query := `
		INSERT INTO projects (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
}

func (r *ProjectRepository) GetByID(id uuid.UUID) (*models.Project, error) {
	ctx := context.Background()

	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM projects WHERE id = $1
	`

	var project models.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetByOwnerID(ownerID uuid.UUID) ([]models.Project, error) {
	ctx := context.Background()

	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM projects WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Update(project *models.Project) error {
	ctx := context.Background()

	query := `
		UPDATE projects SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.pool.QueryRow(ctx, query, project.ID, project.Name).Scan(&project.UpdatedAt)
}

func (r *ProjectRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
