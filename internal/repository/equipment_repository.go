package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"firetrack/api/internal/models"
)

const equipmentColumns = `
	id, kind, location_id, serial_number, type, status, number, placement,
	responsible, observations, pressure_rating, zone,
	maintenance_frequency_months, last_maintenance, next_maintenance,
	created_at, updated_at
`

type EquipmentRepository struct {
	pool *pgxpool.Pool
}

func NewEquipmentRepository(pool *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{pool: pool}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq models.Equipment) error {
	const query = `
		INSERT INTO equipment (
			id, kind, location_id, serial_number, type, status, number, placement,
			responsible, observations, pressure_rating, zone,
			maintenance_frequency_months, last_maintenance, next_maintenance,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		eq.ID, eq.Kind, eq.LocationID, eq.SerialNumber, eq.Type, eq.Status,
		eq.Number, eq.Placement, eq.Responsible, eq.Observations,
		eq.PressureRating, eq.Zone,
		eq.MaintenanceFrequencyMonths, eq.LastMaintenance, eq.NextMaintenance,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (models.Equipment, error) {
	const query = `
		SELECT` + equipmentColumns + `FROM equipment WHERE id = $1
	`
	return scanEquipment(r.pool.QueryRow(ctx, query, id))
}

// ListByLocation returns equipment of one location, optionally one kind.
func (r *EquipmentRepository) ListByLocation(ctx context.Context, locationID string, kind *models.EquipmentKind) ([]models.Equipment, error) {
	const query = `
		SELECT` + equipmentColumns + `FROM equipment
		WHERE location_id = $1 AND ($2::text IS NULL OR kind = $2)
		ORDER BY kind, serial_number
	`

	rows, err := r.pool.Query(ctx, query, locationID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

// ListByClient returns equipment across every location of a client, used for
// the client-scoped dashboard.
func (r *EquipmentRepository) ListByClient(ctx context.Context, clientID string) ([]models.Equipment, error) {
	const query = `
		SELECT e.id, e.kind, e.location_id, e.serial_number, e.type, e.status,
			e.number, e.placement, e.responsible, e.observations,
			e.pressure_rating, e.zone,
			e.maintenance_frequency_months, e.last_maintenance, e.next_maintenance,
			e.created_at, e.updated_at
		FROM equipment e
		JOIN locations l ON l.id = e.location_id
		WHERE l.client_id = $1
		ORDER BY e.kind, e.serial_number
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

func (r *EquipmentRepository) Update(ctx context.Context, eq models.Equipment) error {
	const query = `
		UPDATE equipment SET
			serial_number = $2, type = $3, status = $4, number = $5,
			placement = $6, responsible = $7, observations = $8,
			pressure_rating = $9, zone = $10,
			maintenance_frequency_months = $11, last_maintenance = $12,
			next_maintenance = $13, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		eq.ID, eq.SerialNumber, eq.Type, eq.Status, eq.Number,
		eq.Placement, eq.Responsible, eq.Observations,
		eq.PressureRating, eq.Zone,
		eq.MaintenanceFrequencyMonths, eq.LastMaintenance, eq.NextMaintenance,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM equipment WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

// MarkOverdueExpired flips equipment whose next maintenance date has passed
// to expired. Returns the number of rows changed; run by the daily sweep.
func (r *EquipmentRepository) MarkOverdueExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		UPDATE equipment
		SET status = 'expired', updated_at = NOW()
		WHERE next_maintenance IS NOT NULL
		  AND next_maintenance < $1
		  AND status <> 'expired'
	`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ReportFilter narrows report rows. A nil field means "any". ClientID doubles
// as the scoping mechanism for cliente callers.
type ReportFilter struct {
	Start      time.Time
	End        time.Time
	ClientID   *string
	LocationID *string
	Status     *models.EquipmentStatus
	Kind       *models.EquipmentKind
}

// ReportRow is a joined equipment row with its location and client names.
type ReportRow struct {
	EquipmentID     string
	Kind            models.EquipmentKind
	SerialNumber    string
	ClientName      string
	LocationName    string
	LocationAddress string
	Status          models.EquipmentStatus
	LastMaintenance *time.Time
	NextMaintenance *time.Time
	Responsible     *string
	Observations    *string
}

func (r *EquipmentRepository) Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error) {
	const query = `
		SELECT e.id, e.kind, e.serial_number, c.name, l.name, l.address,
			e.status, e.last_maintenance, e.next_maintenance,
			e.responsible, e.observations
		FROM equipment e
		JOIN locations l ON l.id = e.location_id
		JOIN clients c ON c.id = l.client_id
		WHERE (e.next_maintenance IS NULL OR e.next_maintenance BETWEEN $1 AND $2)
		  AND ($3::text IS NULL OR l.client_id = $3)
		  AND ($4::text IS NULL OR e.location_id = $4)
		  AND ($5::text IS NULL OR e.status = $5)
		  AND ($6::text IS NULL OR e.kind = $6)
		ORDER BY c.name, l.name, e.kind, e.serial_number
	`

	rows, err := r.pool.Query(ctx, query,
		filter.Start, filter.End,
		filter.ClientID, filter.LocationID, filter.Status, filter.Kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(
			&row.EquipmentID,
			&row.Kind,
			&row.SerialNumber,
			&row.ClientName,
			&row.LocationName,
			&row.LocationAddress,
			&row.Status,
			&row.LastMaintenance,
			&row.NextMaintenance,
			&row.Responsible,
			&row.Observations,
		); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func collectEquipment(rows pgx.Rows) ([]models.Equipment, error) {
	var items []models.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, eq)
	}
	return items, rows.Err()
}

func scanEquipment(row pgx.Row) (models.Equipment, error) {
	var eq models.Equipment
	if err := row.Scan(
		&eq.ID,
		&eq.Kind,
		&eq.LocationID,
		&eq.SerialNumber,
		&eq.Type,
		&eq.Status,
		&eq.Number,
		&eq.Placement,
		&eq.Responsible,
		&eq.Observations,
		&eq.PressureRating,
		&eq.Zone,
		&eq.MaintenanceFrequencyMonths,
		&eq.LastMaintenance,
		&eq.NextMaintenance,
		&eq.CreatedAt,
		&eq.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Equipment{}, ErrEquipmentNotFound
		}
		return models.Equipment{}, err
	}
	return eq, nil
}
