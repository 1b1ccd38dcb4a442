package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const clientColumns = `
	id, name, cnpj, contact_person, email, phone, address, active, created_at, updated_at
`

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Create(ctx context.Context, client models.Client) error {
	const query = `
		INSERT INTO clients (
			id, name, cnpj, contact_person, email, phone, address, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		client.ID,
		client.Name,
		client.CNPJ,
		client.ContactPerson,
		client.Email,
		client.Phone,
		client.Address,
		client.Active,
	)
	return err
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (models.Client, error) {
	const query = `
		SELECT` + clientColumns + `FROM clients WHERE id = $1
	`
	return scanClient(r.pool.QueryRow(ctx, query, id))
}

func (r *ClientRepository) List(ctx context.Context, activeOnly bool) ([]models.Client, error) {
	query := `
		SELECT` + clientColumns + `FROM clients
	`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, client models.Client) error {
	const query = `
		UPDATE clients SET
			name = $2, cnpj = $3, contact_person = $4, email = $5,
			phone = $6, address = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		client.ID,
		client.Name,
		client.CNPJ,
		client.ContactPerson,
		client.Email,
		client.Phone,
		client.Address,
		client.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM clients WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (models.Client, error) {
	var client models.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.CNPJ,
		&client.ContactPerson,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.Active,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Client{}, ErrClientNotFound
		}
		return models.Client{}, err
	}
	return client, nil
}
