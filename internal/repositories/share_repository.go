package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"umlforge/internal/models"
)

type ShareRepository struct {
	pool *pgxpool.Pool
}

func NewShareRepository(pool *pgxpool.Pool) *ShareRepository {
	return &ShareRepository{pool: pool}
}

func (r *ShareRepository) Create(share *models.Share) error {
	ctx := context.Background()

	query := `
		INSERT INTO shares (token, diagram_id, owner_id, diagram_data, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return r.pool.QueryRow(ctx, query,
		share.Token,
		share.DiagramID,
		share.OwnerID,
		share.DiagramData,
		share.ExpiresAt,
		share.IsActive,
	).Scan(&share.CreatedAt)
}

func (r *ShareRepository) GetByToken(token string) (*models.Share, error) {
	ctx := context.Background()

	query := `
		SELECT token, diagram_id, owner_id, diagram_data, created_at, expires_at, is_active
		FROM shares WHERE token = $1
	`

	var share models.Share
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&share.Token,
		&share.DiagramID,
		&share.OwnerID,
		&share.DiagramData,
		&share.CreatedAt,
		&share.ExpiresAt,
		&share.IsActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

func (r *ShareRepository) GetByOwnerID(ownerID uuid.UUID) ([]models.Share, error) {
	ctx := context.Background()

	query := `
		SELECT token, diagram_id, owner_id, diagram_data, created_at, expires_at, is_active
		FROM shares WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		err := rows.Scan(
			&share.Token,
			&share.DiagramID,
			&share.OwnerID,
			&share.DiagramData,
			&share.CreatedAt,
			&share.ExpiresAt,
			&share.IsActive,
		)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	return shares, rows.Err()
}

func (r *ShareRepository) Deactivate(token string) error {
	ctx := context.Background()

	query := `UPDATE shares SET is_active = FALSE WHERE token = $1`
	result, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return errors.New("share not found")
	}

	return nil
}

func (r *ShareRepository) Delete(token string) error {
	ctx := context.Background()

	query := `DELETE FROM shares WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}
