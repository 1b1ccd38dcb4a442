package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const locationColumns = `
	id, client_id, name, address, description, client_type, active, created_at, updated_at
`

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) Create(ctx context.Context, location models.Location) error {
	const query = `
		INSERT INTO locations (
			id, client_id, name, address, description, client_type, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		location.ID,
		location.ClientID,
		location.Name,
		location.Address,
		location.Description,
		location.ClientType,
		location.Active,
	)
	return err
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (models.Location, error) {
	const query = `
		SELECT` + locationColumns + `FROM locations WHERE id = $1
	`
	return scanLocation(r.pool.QueryRow(ctx, query, id))
}

// List returns locations, optionally filtered to one client. Non-admin
// callers always pass their own client id.
func (r *LocationRepository) List(ctx context.Context, clientID *string, activeOnly bool) ([]models.Location, error) {
	query := `
		SELECT` + locationColumns + `FROM locations
		WHERE ($1::text IS NULL OR client_id = $1)
	`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) Update(ctx context.Context, location models.Location) error {
	const query = `
		UPDATE locations SET
			client_id = $2, name = $3, address = $4, description = $5,
			client_type = $6, active = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		location.ID,
		location.ClientID,
		location.Name,
		location.Address,
		location.Description,
		location.ClientType,
		location.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM locations WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func scanLocation(row pgx.Row) (models.Location, error) {
	var location models.Location
	if err := row.Scan(
		&location.ID,
		&location.ClientID,
		&location.Name,
		&location.Address,
		&location.Description,
		&location.ClientType,
		&location.Active,
		&location.CreatedAt,
		&location.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Location{}, ErrLocationNotFound
		}
		return models.Location{}, err
	}
	return location, nil
}
