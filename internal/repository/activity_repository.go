package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const activityColumns = `
	id, location_id, title, description, scheduled_date, start_time, end_time,
	status, created_by, created_at, updated_at
`

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, activity models.Activity) error {
	const query = `
		INSERT INTO activities (
			id, location_id, title, description, scheduled_date, start_time, end_time,
			status, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID, activity.LocationID, activity.Title, activity.Description,
		activity.ScheduledDate, activity.StartTime, activity.EndTime,
		activity.Status, activity.CreatedBy,
	)
	return err
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (models.Activity, error) {
	const query = `
		SELECT` + activityColumns + `FROM activities WHERE id = $1
	`
	return scanActivity(r.pool.QueryRow(ctx, query, id))
}

// ListByDateRange returns activities scheduled inside [start, end], optionally
// scoped to one client's locations.
func (r *ActivityRepository) ListByDateRange(ctx context.Context, start time.Time, end time.Time, clientID *string) ([]models.Activity, error) {
	const query = `
		SELECT a.id, a.location_id, a.title, a.description, a.scheduled_date,
			a.start_time, a.end_time, a.status, a.created_by, a.created_at, a.updated_at
		FROM activities a
		JOIN locations l ON l.id = a.location_id
		WHERE a.scheduled_date BETWEEN $1 AND $2
		  AND ($3::text IS NULL OR l.client_id = $3)
		ORDER BY a.scheduled_date, a.start_time
	`

	rows, err := r.pool.Query(ctx, query, start, end, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (r *ActivityRepository) Update(ctx context.Context, activity models.Activity) error {
	const query = `
		UPDATE activities SET
			location_id = $2, title = $3, description = $4, scheduled_date = $5,
			start_time = $6, end_time = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		activity.ID, activity.LocationID, activity.Title, activity.Description,
		activity.ScheduledDate, activity.StartTime, activity.EndTime, activity.Status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM activities WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func scanActivity(row pgx.Row) (models.Activity, error) {
	var activity models.Activity
	if err := row.Scan(
		&activity.ID,
		&activity.LocationID,
		&activity.Title,
		&activity.Description,
		&activity.ScheduledDate,
		&activity.StartTime,
		&activity.EndTime,
		&activity.Status,
		&activity.CreatedBy,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}
	return activity, nil
}
