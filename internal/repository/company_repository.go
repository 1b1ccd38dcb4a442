package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) Create(ctx context.Context, company models.Company) error {
	const query = `
		INSERT INTO companies (id, name, cnpj, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, company.ID, company.Name, company.CNPJ, company.Status)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (models.Company, error) {
	const query = `
		SELECT id, name, cnpj, status, created_at
		FROM companies WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var company models.Company
	if err := row.Scan(
		&company.ID,
		&company.Name,
		&company.CNPJ,
		&company.Status,
		&company.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, err
	}
	return company, nil
}

// GetStatus fetches only the status column, for the per-request company gate.
func (r *CompanyRepository) GetStatus(ctx context.Context, id string) (models.CompanyStatus, error) {
	const query = `SELECT status FROM companies WHERE id = $1`

	var status models.CompanyStatus
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrCompanyNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *CompanyRepository) List(ctx context.Context, activeOnly bool) ([]models.Company, error) {
	query := `
		SELECT id, name, cnpj, status, created_at
		FROM companies
	`
	if activeOnly {
		query += ` WHERE status = 'ativo'`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.CNPJ,
			&company.Status,
			&company.CreatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) Update(ctx context.Context, company models.Company) error {
	const query = `
		UPDATE companies SET name = $2, cnpj = $3, status = $4 WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, company.ID, company.Name, company.CNPJ, company.Status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
