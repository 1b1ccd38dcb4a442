package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const memberColumns = `
	id, location_id, name, cpf, role, status, training_frequency_months,
	last_training, next_training, active, created_at, updated_at
`

type BrigadeRepository struct {
	pool *pgxpool.Pool
}

func NewBrigadeRepository(pool *pgxpool.Pool) *BrigadeRepository {
	return &BrigadeRepository{pool: pool}
}

func (r *BrigadeRepository) Create(ctx context.Context, member models.BrigadeMember) error {
	const query = `
		INSERT INTO brigade_members (
			id, location_id, name, cpf, role, status, training_frequency_months,
			last_training, next_training, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		member.ID, member.LocationID, member.Name, member.CPF, member.Role,
		member.Status, member.TrainingFrequencyMonths,
		member.LastTraining, member.NextTraining, member.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *BrigadeRepository) GetByID(ctx context.Context, id string) (models.BrigadeMember, error) {
	const query = `
		SELECT` + memberColumns + `FROM brigade_members WHERE id = $1
	`
	return scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *BrigadeRepository) ListByLocation(ctx context.Context, locationID string) ([]models.BrigadeMember, error) {
	const query = `
		SELECT` + memberColumns + `FROM brigade_members
		WHERE location_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.BrigadeMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *BrigadeRepository) Update(ctx context.Context, member models.BrigadeMember) error {
	const query = `
		UPDATE brigade_members SET
			name = $2, cpf = $3, role = $4, status = $5,
			training_frequency_months = $6, last_training = $7,
			next_training = $8, active = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		member.ID, member.Name, member.CPF, member.Role, member.Status,
		member.TrainingFrequencyMonths, member.LastTraining,
		member.NextTraining, member.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *BrigadeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM brigade_members WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (models.BrigadeMember, error) {
	var member models.BrigadeMember
	if err := row.Scan(
		&member.ID,
		&member.LocationID,
		&member.Name,
		&member.CPF,
		&member.Role,
		&member.Status,
		&member.TrainingFrequencyMonths,
		&member.LastTraining,
		&member.NextTraining,
		&member.Active,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BrigadeMember{}, ErrMemberNotFound
		}
		return models.BrigadeMember{}, err
	}
	return member, nil
}
