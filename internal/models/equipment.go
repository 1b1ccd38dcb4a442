package models

import "time"

type EquipmentStatus string

const (
	EquipmentStatusOK      EquipmentStatus = "ok"
	EquipmentStatusWarning EquipmentStatus = "warning"
	EquipmentStatusDanger  EquipmentStatus = "danger"
	EquipmentStatusExpired EquipmentStatus = "expired"
)

type EquipmentKind string

const (
	EquipmentExtinguisher EquipmentKind = "extintores"
	EquipmentHydrant      EquipmentKind = "hidrantes"
	EquipmentSprinkler    EquipmentKind = "sprinklers"
	EquipmentAlarm        EquipmentKind = "alarmes"
	EquipmentLighting     EquipmentKind = "iluminacao"
)

type ExtinguisherType string

const (
	ExtinguisherBC  ExtinguisherType = "BC"
	ExtinguisherABC ExtinguisherType = "ABC"
	ExtinguisherCO2 ExtinguisherType = "CO2"
)

// Equipment is the shared shape of every trackable item (extinguishers,
// hydrants, sprinklers, alarms, emergency lighting). Kind-specific fields are
// optional pointers; a kind column discriminates rows in the shared table.
type Equipment struct {
	ID           string
	Kind         EquipmentKind
	LocationID   string
	SerialNumber string
	Type         string
	Status       EquipmentStatus

	// Extinguisher numbering and notes from the legacy registry.
	Number       *int
	Placement    *string
	Responsible  *string
	Observations *string

	// Hydrants only.
	PressureRating *string
	// Sprinklers, alarms and lighting carry a zone.
	Zone *string

	MaintenanceFrequencyMonths int
	LastMaintenance            *time.Time
	NextMaintenance            *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// NextMaintenanceFrom derives the next maintenance date as a fixed offset of
// MaintenanceFrequencyMonths from the given last maintenance date.
func (e Equipment) NextMaintenanceFrom(last time.Time) time.Time {
	return last.AddDate(0, e.MaintenanceFrequencyMonths, 0)
}

// StatusForDeadline grades how close a maintenance or training deadline is:
// past due is expired, under a week is danger, under thirty days is warning.
// A nil deadline means the item was never serviced and reads as ok.
func StatusForDeadline(deadline *time.Time, now time.Time) EquipmentStatus {
	if deadline == nil {
		return EquipmentStatusOK
	}
	switch remaining := deadline.Sub(now); {
	case remaining < 0:
		return EquipmentStatusExpired
	case remaining < 7*24*time.Hour:
		return EquipmentStatusDanger
	case remaining < 30*24*time.Hour:
		return EquipmentStatusWarning
	default:
		return EquipmentStatusOK
	}
}

type BrigadeMember struct {
	ID                      string
	LocationID              string
	Name                    string
	CPF                     string
	Role                    string
	Status                  EquipmentStatus
	TrainingFrequencyMonths int
	LastTraining            *time.Time
	NextTraining            *time.Time
	Active                  bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
