package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCliente Role = "cliente"
	// RoleTecnico still exists in stored profiles but carries no route grants.
	RoleTecnico Role = "tecnico"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// Account is the authentication identity: credentials plus the signup
// metadata used when a profile is auto-provisioned on first login.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	FullName     string
	CompanyID    *string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the application-level identity record. It is auto-created with
// role cliente the first time an account with no profile is seen.
type Profile struct {
	ID        string
	UserID    string
	FullName  string
	Email     string
	Phone     *string
	Role      Role
	ClientID  *string
	CompanyID *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Session struct {
	ID               string
	UserID           string
	DeviceID         string
	DeviceName       string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
