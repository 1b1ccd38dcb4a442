package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrCompanyNotFound   = errors.New("company not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrLocationNotFound  = errors.New("location not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrMemberNotFound    = errors.New("brigade member not found")
	ErrActivityNotFound  = errors.New("activity not found")

	// ErrDuplicate maps unique-constraint violations so callers can treat a
	// lost insert race as "already exists" instead of a failure.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
