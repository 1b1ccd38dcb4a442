package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"firetrack/api/internal/config"
	"firetrack/api/internal/ids"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
	"firetrack/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrProfileInactive    = errors.New("profile deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrCompanyInactive is the tenant-validation error: raised before any
	// account creation so a rejected signup never leaves an orphan account.
	ErrCompanyInactive = errors.New("company not registered or inactive")
	ErrSessionInvalid  = errors.New("session invalid")
)

// Store interfaces are satisfied by the pgx repositories; tests substitute
// in-memory fakes.

type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
}

type ProfileStore interface {
	Create(ctx context.Context, profile models.Profile) error
	Upsert(ctx context.Context, profile models.Profile) error
	GetByUserID(ctx context.Context, userID string) (models.Profile, error)
}

type CompanyStore interface {
	GetStatus(ctx context.Context, id string) (models.CompanyStatus, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	FindByRefreshHash(ctx context.Context, userID string, refreshHash []byte) (models.Session, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteOldestSessions(ctx context.Context, userID string, keepLatest int) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByDevice(ctx context.Context, userID string, deviceID string) error
	DeleteByUser(ctx context.Context, userID string) error
	Touch(ctx context.Context, sessionID string, ip string, userAgent string) error
}

// AuthService owns the session lifecycle: sign-in, sign-up with the tenant
// gate, sign-out, refresh, profile resolution and the company status check.
// It is the only writer of session and profile provisioning state.
type AuthService struct {
	accounts  AccountStore
	profiles  ProfileStore
	companies CompanyStore
	sessions  SessionStore
	cfg       *config.AppConfig
	log       zerolog.Logger
}

func NewAuthService(
	accounts AccountStore,
	profiles ProfileStore,
	companies CompanyStore,
	sessions SessionStore,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		profiles:  profiles,
		companies: companies,
		sessions:  sessions,
		cfg:       cfg,
		log:       log,
	}
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Profile      models.Profile
	DeviceID     string
}

// ResolveProfile returns the profile for an account, creating one with role
// cliente on first login. Resolution is idempotent: a unique violation from a
// concurrent creation is treated as "fetch the existing record", and at most
// one creation write happens per unresolved identity.
func (s *AuthService) ResolveProfile(ctx context.Context, account models.Account) (models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, account.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return models.Profile{}, err
	}

	fullName := account.FullName
	if fullName == "" {
		fullName = account.Email
	}

	profile = models.Profile{
		ID:        ids.New(),
		UserID:    account.ID,
		FullName:  fullName,
		Email:     account.Email,
		Role:      models.RoleCliente,
		CompanyID: account.CompanyID,
		Active:    true,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.profiles.GetByUserID(ctx, account.ID)
		}
		return models.Profile{}, err
	}

	s.log.Info().Str("user_id", account.ID).Msg("profile auto-provisioned")
	return profile, nil
}

// Authenticate validates access claims against the stored session and
// resolves the profile. Every authenticated request enters through here;
// there is no second path that can produce a profile from a token.
func (s *AuthService) Authenticate(ctx context.Context, claims *security.AccessClaims, ip string, userAgent string) (models.Profile, error) {
	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return models.Profile{}, ErrSessionInvalid
	}
	if session.UserID != claims.UserID || session.DeviceID != claims.DeviceID {
		return models.Profile{}, ErrSessionInvalid
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return models.Profile{}, ErrSessionInvalid
	}

	account, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return models.Profile{}, ErrSessionInvalid
	}
	if account.Status != models.AccountStatusActive {
		return models.Profile{}, ErrAccountSuspended
	}

	profile, err := s.ResolveProfile(ctx, account)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", account.ID).Msg("profile resolution failed")
		return models.Profile{}, ErrSessionInvalid
	}
	if !profile.Active {
		return models.Profile{}, ErrProfileInactive
	}

	_ = s.sessions.Touch(ctx, session.ID, ip, userAgent)
	return profile, nil
}

type LoginInput struct {
	Email      string
	Password   string
	DeviceID   string
	DeviceName string
	IPAddress  string
	UserAgent  string
}

// Login verifies credentials, resolves the profile through the same path the
// request guard uses, gates on company status and opens a session. On any
// failure the caller stays unauthenticated; no partial session is written.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	account, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if account.Status != models.AccountStatusActive {
		return AuthResult{}, ErrAccountSuspended
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	profile, err := s.ResolveProfile(ctx, account)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", account.ID).Msg("profile resolution failed")
		return AuthResult{}, ErrInvalidCredentials
	}

	if !profile.Active {
		return AuthResult{}, ErrProfileInactive
	}

	if !s.CheckCompanyStatus(ctx, &profile) {
		return AuthResult{}, ErrCompanyInactive
	}

	deviceID := input.DeviceID
	if deviceID == "" {
		deviceID = ids.New()
	}
	deviceName := input.DeviceName
	if deviceName == "" {
		deviceName = "Unknown Device"
	}

	return s.createSession(ctx, profile, deviceID, deviceName, input.IPAddress, input.UserAgent)
}

type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	CompanyID  string
	DeviceName string
	IPAddress  string
	UserAgent  string
}

// Register validates the tenant before anything else: signup against a
// missing or inactive company short-circuits with ErrCompanyInactive and no
// account is created. The profile write is an upsert so it stays idempotent
// with the auto-provisioning in ResolveProfile.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" || input.CompanyID == "" {
		return AuthResult{}, errors.New("email, password and company required")
	}

	status, err := s.companies.GetStatus(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return AuthResult{}, ErrCompanyInactive
		}
		return AuthResult{}, err
	}
	if status != models.CompanyStatusActive {
		return AuthResult{}, ErrCompanyInactive
	}

	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	companyID := input.CompanyID
	account := models.Account{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FullName:     input.FullName,
		CompanyID:    &companyID,
		Status:       models.AccountStatusActive,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	profile := models.Profile{
		ID:        ids.New(),
		UserID:    account.ID,
		FullName:  input.FullName,
		Email:     input.Email,
		Role:      models.RoleCliente,
		CompanyID: &companyID,
		Active:    true,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		// The account exists; first login will provision the profile.
		s.log.Error().Err(err).Str("user_id", account.ID).Msg("signup profile upsert failed")
	}

	resolved, err := s.ResolveProfile(ctx, account)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", account.ID).Msg("profile resolution failed after signup")
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.createSession(ctx, resolved, ids.New(), firstNonEmpty(input.DeviceName, "New Device"), input.IPAddress, input.UserAgent)
}

// Logout revokes the session immediately and unconditionally. Failures are
// logged, never surfaced: a sign-out must always leave the caller signed out.
func (s *AuthService) Logout(ctx context.Context, userID string, deviceID string) {
	if err := s.sessions.DeleteByDevice(ctx, userID, deviceID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Str("device_id", deviceID).Msg("session delete failed")
	}
}

// SetAccountSuspended mirrors profile deactivation onto the auth identity so
// a disabled user cannot refresh into a fresh session. Suspension also
// revokes every session the user holds.
func (s *AuthService) SetAccountSuspended(ctx context.Context, userID string, suspended bool) error {
	status := models.AccountStatusActive
	if suspended {
		status = models.AccountStatusSuspended
	}
	if err := s.accounts.UpdateStatus(ctx, userID, status); err != nil {
		return err
	}
	if suspended {
		s.RevokeAllSessions(ctx, userID)
	}
	return nil
}

// RevokeAllSessions forces a user out everywhere, used when a company is
// deactivated or a profile is disabled mid-session.
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID string) {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("session revocation failed")
	}
}

type RefreshInput struct {
	UserID       string
	RefreshToken string
	DeviceID     string
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (AuthResult, error) {
	account, err := s.accounts.GetByID(ctx, input.UserID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if account.Status != models.AccountStatusActive {
		return AuthResult{}, ErrAccountSuspended
	}

	refreshHash := security.HashRefreshToken(input.RefreshToken)
	session, err := s.sessions.FindByRefreshHash(ctx, input.UserID, refreshHash)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if session.DeviceID != input.DeviceID {
		return AuthResult{}, ErrInvalidCredentials
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return AuthResult{}, ErrInvalidCredentials
	}

	profile, err := s.ResolveProfile(ctx, account)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !profile.Active {
		return AuthResult{}, ErrProfileInactive
	}
	if !s.CheckCompanyStatus(ctx, &profile) {
		s.RevokeAllSessions(ctx, account.ID)
		return AuthResult{}, ErrCompanyInactive
	}

	return s.createSession(ctx, profile, session.DeviceID, session.DeviceName, session.IPAddress, session.UserAgent)
}

// CheckCompanyStatus reports whether the profile's company allows access.
// Profiles without a company (admins) always pass. Lookup errors fail closed.
func (s *AuthService) CheckCompanyStatus(ctx context.Context, profile *models.Profile) bool {
	if profile == nil || profile.CompanyID == nil || *profile.CompanyID == "" {
		return true
	}

	status, err := s.companies.GetStatus(ctx, *profile.CompanyID)
	if err != nil {
		s.log.Error().Err(err).Str("company_id", *profile.CompanyID).Msg("company status check failed")
		return false
	}
	return status == models.CompanyStatusActive
}

func (s *AuthService) createSession(
	ctx context.Context,
	profile models.Profile,
	deviceID string,
	deviceName string,
	ipAddress string,
	userAgent string,
) (AuthResult, error) {
	refreshToken, refreshHash, err := security.GenerateRefreshToken(64)
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		UserID:           profile.UserID,
		DeviceID:         deviceID,
		DeviceName:       deviceName,
		RefreshTokenHash: refreshHash,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		ExpiresAt:        time.Now().Add(s.cfg.Security.JWTRefreshTTL),
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		profile.UserID,
		session.ID,
		deviceID,
		string(profile.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, profile.UserID); err != nil {
		s.log.Warn().Err(err).Str("user_id", profile.UserID).Msg("enforce session limit failed")
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
		DeviceID:     deviceID,
	}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= s.cfg.Security.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, userID, s.cfg.Security.MaxSessions)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
