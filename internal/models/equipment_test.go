package models

import (
	"testing"
	"time"
)

func TestNextMaintenanceFrom(t *testing.T) {
	eq := Equipment{MaintenanceFrequencyMonths: 6}
	last := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	got := eq.NextMaintenanceFrom(last)
	want := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("next maintenance = %v, want %v", got, want)
	}
}

func TestStatusForDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	cases := []struct {
		name     string
		deadline *time.Time
		want     EquipmentStatus
	}{
		{"never serviced", nil, EquipmentStatusOK},
		{"far out", ptrTime(now.Add(90 * day)), EquipmentStatusOK},
		{"inside a month", ptrTime(now.Add(20 * day)), EquipmentStatusWarning},
		{"inside a week", ptrTime(now.Add(3 * day)), EquipmentStatusDanger},
		{"past due", ptrTime(now.Add(-1 * day)), EquipmentStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusForDeadline(tc.deadline, now); got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
