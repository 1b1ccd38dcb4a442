package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/ids"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
	"firetrack/api/internal/storage"
)

var ErrReportRangeRequired = errors.New("report start and end dates required")

type ReportStore interface {
	Report(ctx context.Context, filter repository.ReportFilter) ([]repository.ReportRow, error)
}

type ReportService struct {
	equipment ReportStore
	store     *storage.ObjectStore
	log       zerolog.Logger
}

func NewReportService(equipment ReportStore, store *storage.ObjectStore, log zerolog.Logger) *ReportService {
	return &ReportService{
		equipment: equipment,
		store:     store,
		log:       log,
	}
}

// Generate returns report rows for the filter. Non-admin callers are forced
// onto their own client scope regardless of the requested filter.
func (s *ReportService) Generate(ctx context.Context, profile *models.Profile, filter repository.ReportFilter) ([]repository.ReportRow, error) {
	if filter.Start.IsZero() || filter.End.IsZero() {
		return nil, ErrReportRangeRequired
	}

	if !authz.CanSeeAllClients(profile) {
		if profile == nil || profile.ClientID == nil {
			return nil, nil
		}
		filter.ClientID = profile.ClientID
	}

	return s.equipment.Report(ctx, filter)
}

// Export generates the report, writes it as CSV to the object store and
// returns the download URL together with the row count.
func (s *ReportService) Export(ctx context.Context, profile *models.Profile, filter repository.ReportFilter) (string, int, error) {
	rows, err := s.Generate(ctx, profile, filter)
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"equipment_id", "kind", "serial_number", "client", "location",
		"address", "status", "last_maintenance", "next_maintenance",
		"responsible", "observations",
	}
	if err := w.Write(header); err != nil {
		return "", 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.EquipmentID,
			string(row.Kind),
			row.SerialNumber,
			row.ClientName,
			row.LocationName,
			row.LocationAddress,
			string(row.Status),
			formatDate(row.LastMaintenance),
			formatDate(row.NextMaintenance),
			deref(row.Responsible),
			deref(row.Observations),
		}
		if err := w.Write(record); err != nil {
			return "", 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, fmt.Errorf("flush csv: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.csv", time.Now().Format("2006-01-02"), ids.New())
	url, err := s.store.PutReport(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv")
	if err != nil {
		return "", 0, err
	}

	s.log.Info().Str("key", key).Int("rows", len(rows)).Msg("report exported")
	return url, len(rows), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
