package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const profileColumns = `
	id, user_id, full_name, email, phone, role, client_id, company_id, active, created_at, updated_at
`

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create inserts a new profile. user_id carries a unique constraint; a lost
// race against a concurrent provisioning attempt surfaces as ErrDuplicate.
func (r *ProfileRepository) Create(ctx context.Context, profile models.Profile) error {
	const query = `
		INSERT INTO profiles (
			id, user_id, full_name, email, phone, role, client_id, company_id, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.FullName,
		profile.Email,
		profile.Phone,
		profile.Role,
		profile.ClientID,
		profile.CompanyID,
		profile.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Upsert writes the profile keyed by user_id, preserving role and active flag
// for an existing row (those are managed by user administration, not signup).
func (r *ProfileRepository) Upsert(ctx context.Context, profile models.Profile) error {
	const query = `
		INSERT INTO profiles (
			id, user_id, full_name, email, phone, role, client_id, company_id, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
		ON CONFLICT (user_id)
		DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			company_id = COALESCE(profiles.company_id, EXCLUDED.company_id),
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.FullName,
		profile.Email,
		profile.Phone,
		profile.Role,
		profile.ClientID,
		profile.CompanyID,
		profile.Active,
	)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (models.Profile, error) {
	const query = `
		SELECT` + profileColumns + `FROM profiles WHERE user_id = $1
	`
	return scanProfile(r.pool.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	const query = `
		SELECT` + profileColumns + `FROM profiles WHERE id = $1
	`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *ProfileRepository) List(ctx context.Context, limit int, offset int) ([]models.Profile, error) {
	const query = `
		SELECT` + profileColumns + `FROM profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

type ProfileUpdate struct {
	FullName  *string
	Phone     *string
	Role      *models.Role
	ClientID  *string
	CompanyID *string
	Active    *bool
}

// Update patches administrative fields. Profiles are never hard-deleted;
// deactivation flips active to false.
func (r *ProfileRepository) Update(ctx context.Context, id string, update ProfileUpdate) error {
	const query = `
		UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			role = COALESCE($4, role),
			client_id = COALESCE($5, client_id),
			company_id = COALESCE($6, company_id),
			active = COALESCE($7, active),
			updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		id,
		update.FullName,
		update.Phone,
		update.Role,
		update.ClientID,
		update.CompanyID,
		update.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var profile models.Profile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Email,
		&profile.Phone,
		&profile.Role,
		&profile.ClientID,
		&profile.CompanyID,
		&profile.Active,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	return profile, nil
}
