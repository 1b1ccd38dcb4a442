package models

import "time"

type ActivityStatus string

const (
	ActivityStatusScheduled ActivityStatus = "agendada"
	ActivityStatusDone      ActivityStatus = "concluida"
	ActivityStatusCanceled  ActivityStatus = "cancelada"
)

type Activity struct {
	ID            string
	LocationID    string
	Title         string
	Description   *string
	ScheduledDate time.Time
	StartTime     *string
	EndTime       *string
	Status        ActivityStatus
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Settings is a singleton branding row (id is always 1).
type Settings struct {
	ID           int
	CompanyName  *string
	LogoURL      *string
	PrimaryColor *string
	UpdatedAt    *time.Time
}
