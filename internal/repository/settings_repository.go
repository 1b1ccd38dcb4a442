package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

// Settings is a single branding row with id 1.
const settingsRowID = 1

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	const query = `
		SELECT id, company_name, logo_url, primary_color, updated_at
		FROM settings WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, settingsRowID)
	var settings models.Settings
	if err := row.Scan(
		&settings.ID,
		&settings.CompanyName,
		&settings.LogoURL,
		&settings.PrimaryColor,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Settings{ID: settingsRowID}, nil
		}
		return models.Settings{}, err
	}
	return settings, nil
}

type SettingsUpdate struct {
	CompanyName  *string
	LogoURL      *string
	PrimaryColor *string
}

func (r *SettingsRepository) Upsert(ctx context.Context, update SettingsUpdate) (models.Settings, error) {
	const query = `
		INSERT INTO settings (id, company_name, logo_url, primary_color, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			company_name = COALESCE(EXCLUDED.company_name, settings.company_name),
			logo_url = COALESCE(EXCLUDED.logo_url, settings.logo_url),
			primary_color = COALESCE(EXCLUDED.primary_color, settings.primary_color),
			updated_at = NOW()
		RETURNING id, company_name, logo_url, primary_color, updated_at
	`

	row := r.pool.QueryRow(ctx, query, settingsRowID, update.CompanyName, update.LogoURL, update.PrimaryColor)
	var settings models.Settings
	if err := row.Scan(
		&settings.ID,
		&settings.CompanyName,
		&settings.LogoURL,
		&settings.PrimaryColor,
		&settings.UpdatedAt,
	); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}
