package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type fakeReportStore struct {
	lastFilter repository.ReportFilter
	rows       []repository.ReportRow
	calls      int
}

func (f *fakeReportStore) Report(_ context.Context, filter repository.ReportFilter) ([]repository.ReportRow, error) {
	f.calls++
	f.lastFilter = filter
	return f.rows, nil
}

func reportRange() (time.Time, time.Time) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func TestGenerateRequiresRange(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, nil, zerolog.Nop())
	admin := &models.Profile{Role: models.RoleAdmin, Active: true}

	_, err := svc.Generate(context.Background(), admin, repository.ReportFilter{})
	if !errors.Is(err, ErrReportRangeRequired) {
		t.Fatalf("expected ErrReportRangeRequired, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store queried despite missing range")
	}
}

func TestGenerateAdminKeepsRequestedClient(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, nil, zerolog.Nop())
	admin := &models.Profile{Role: models.RoleAdmin, Active: true}

	start, end := reportRange()
	requested := "client-42"
	if _, err := svc.Generate(context.Background(), admin, repository.ReportFilter{
		Start: start, End: end, ClientID: &requested,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if store.lastFilter.ClientID == nil || *store.lastFilter.ClientID != requested {
		t.Fatalf("admin client filter changed: %v", store.lastFilter.ClientID)
	}
}

func TestGenerateClientePinnedToOwnClient(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, nil, zerolog.Nop())

	own := "client-own"
	cliente := &models.Profile{Role: models.RoleCliente, Active: true, ClientID: &own}

	start, end := reportRange()
	foreign := "client-other"
	if _, err := svc.Generate(context.Background(), cliente, repository.ReportFilter{
		Start: start, End: end, ClientID: &foreign,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if store.lastFilter.ClientID == nil || *store.lastFilter.ClientID != own {
		t.Fatalf("cliente not pinned to own client: %v", store.lastFilter.ClientID)
	}
}

func TestGenerateClienteWithoutClientSeesNothing(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, nil, zerolog.Nop())
	cliente := &models.Profile{Role: models.RoleCliente, Active: true}

	start, end := reportRange()
	rows, err := svc.Generate(context.Background(), cliente, repository.ReportFilter{Start: start, End: end})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if store.calls != 0 {
		t.Fatalf("store queried for unassigned cliente")
	}
}
