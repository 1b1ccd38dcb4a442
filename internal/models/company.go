package models

import "time"

type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "ativo"
	CompanyStatusInactive CompanyStatus = "inativo"
)

// Company ("empresa") is a tenant organization cliente profiles belong to.
// Only active companies may have members sign in or keep a session.
type Company struct {
	ID        string
	Name      string
	CNPJ      *string
	Status    CompanyStatus
	CreatedAt time.Time
}

type Client struct {
	ID            string
	Name          string
	CNPJ          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ClientType string

const (
	ClientTypeResidential ClientType = "residencial"
	ClientTypeCommercial  ClientType = "comercial"
	ClientTypeIndustrial  ClientType = "industria"
)

type Location struct {
	ID          string
	ClientID    string
	Name        string
	Address     string
	Description *string
	ClientType  *ClientType
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
