package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"firetrack/api/internal/config"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
	"firetrack/api/internal/security"
)

type fakeAccounts struct {
	byEmail map[string]models.Account
	byID    map[string]models.Account
	creates int
}

func (f *fakeAccounts) Create(_ context.Context, account models.Account) error {
	if _, ok := f.byEmail[account.Email]; ok {
		return repository.ErrDuplicate
	}
	if f.byEmail == nil {
		f.byEmail = map[string]models.Account{}
	}
	if f.byID == nil {
		f.byID = map[string]models.Account{}
	}
	f.byEmail[account.Email] = account
	f.byID[account.ID] = account
	f.creates++
	return nil
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (models.Account, error) {
	if account, ok := f.byEmail[email]; ok {
		return account, nil
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (models.Account, error) {
	if account, ok := f.byID[id]; ok {
		return account, nil
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (f *fakeAccounts) UpdateStatus(_ context.Context, id string, status models.AccountStatus) error {
	account, ok := f.byID[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.Status = status
	f.byID[id] = account
	f.byEmail[account.Email] = account
	return nil
}

type fakeProfiles struct {
	byUserID  map[string]models.Profile
	creates   int
	duplicate bool // force Create to lose a provisioning race
	missFirst bool // first lookup misses even when the row exists
}

func (f *fakeProfiles) Create(_ context.Context, profile models.Profile) error {
	f.creates++
	if f.duplicate {
		return repository.ErrDuplicate
	}
	if _, ok := f.byUserID[profile.UserID]; ok {
		return repository.ErrDuplicate
	}
	if f.byUserID == nil {
		f.byUserID = map[string]models.Profile{}
	}
	f.byUserID[profile.UserID] = profile
	return nil
}

func (f *fakeProfiles) Upsert(_ context.Context, profile models.Profile) error {
	if f.byUserID == nil {
		f.byUserID = map[string]models.Profile{}
	}
	if existing, ok := f.byUserID[profile.UserID]; ok {
		existing.FullName = profile.FullName
		existing.Email = profile.Email
		f.byUserID[profile.UserID] = existing
		return nil
	}
	f.byUserID[profile.UserID] = profile
	return nil
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (models.Profile, error) {
	if f.missFirst {
		f.missFirst = false
		return models.Profile{}, repository.ErrProfileNotFound
	}
	if profile, ok := f.byUserID[userID]; ok {
		return profile, nil
	}
	return models.Profile{}, repository.ErrProfileNotFound
}

type fakeCompanies struct {
	statuses map[string]models.CompanyStatus
	err      error
}

func (f *fakeCompanies) GetStatus(_ context.Context, id string) (models.CompanyStatus, error) {
	if f.err != nil {
		return "", f.err
	}
	if status, ok := f.statuses[id]; ok {
		return status, nil
	}
	return "", repository.ErrCompanyNotFound
}

type fakeSessions struct {
	byID      map[string]models.Session
	deleteErr error
	revoked   []string
}

func (f *fakeSessions) Create(_ context.Context, session models.Session) error {
	if f.byID == nil {
		f.byID = map[string]models.Session{}
	}
	// Mirrors the (user_id, device_id) upsert of the real store.
	for id, existing := range f.byID {
		if existing.UserID == session.UserID && existing.DeviceID == session.DeviceID {
			delete(f.byID, id)
		}
	}
	f.byID[session.ID] = session
	return nil
}

func (f *fakeSessions) GetByID(_ context.Context, id string) (models.Session, error) {
	if session, ok := f.byID[id]; ok {
		return session, nil
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (f *fakeSessions) FindByRefreshHash(_ context.Context, userID string, hash []byte) (models.Session, error) {
	for _, session := range f.byID {
		if session.UserID == userID && string(session.RefreshTokenHash) == string(hash) {
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (f *fakeSessions) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, session := range f.byID {
		if session.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSessions) DeleteOldestSessions(_ context.Context, _ string, _ int) error { return nil }

func (f *fakeSessions) DeleteByID(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) DeleteByDevice(_ context.Context, userID string, deviceID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for id, session := range f.byID {
		if session.UserID == userID && session.DeviceID == deviceID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeSessions) DeleteByUser(_ context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	for id, session := range f.byID {
		if session.UserID == userID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeSessions) Touch(_ context.Context, _ string, _ string, _ string) error { return nil }

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    15 * time.Minute,
			JWTRefreshTTL:   24 * time.Hour,
			MaxSessions:     5,
		},
	}
}

func newTestService(accounts *fakeAccounts, profiles *fakeProfiles, companies *fakeCompanies, sessions *fakeSessions) *AuthService {
	return NewAuthService(accounts, profiles, companies, sessions, testConfig(), zerolog.New(io.Discard))
}

func seedAccount(t *testing.T, accounts *fakeAccounts, email string, password string, companyID *string) models.Account {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account := models.Account{
		ID:           "acc-" + email,
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		CompanyID:    companyID,
		Status:       models.AccountStatusActive,
	}
	if accounts.byEmail == nil {
		accounts.byEmail = map[string]models.Account{}
		accounts.byID = map[string]models.Account{}
	}
	accounts.byEmail[email] = account
	accounts.byID[account.ID] = account
	return account
}

func TestResolveProfileProvisionsOnce(t *testing.T) {
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{}
	svc := newTestService(accounts, profiles, &fakeCompanies{}, &fakeSessions{})

	account := seedAccount(t, accounts, "new@example.com", "secret123", nil)

	first, err := svc.ResolveProfile(context.Background(), account)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if first.Role != models.RoleCliente || !first.Active {
		t.Errorf("provisioned profile = %+v, want active cliente", first)
	}

	second, err := svc.ResolveProfile(context.Background(), account)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second resolve returned different profile: %s vs %s", second.ID, first.ID)
	}
	if profiles.creates != 1 {
		t.Errorf("creates = %d, want 1", profiles.creates)
	}
}

func TestResolveProfileLostRaceFetchesExisting(t *testing.T) {
	accounts := &fakeAccounts{}
	existing := models.Profile{ID: "p-existing", UserID: "acc-race@example.com", Role: models.RoleCliente, Active: true}
	profiles := &fakeProfiles{duplicate: true, byUserID: map[string]models.Profile{}}
	svc := newTestService(accounts, profiles, &fakeCompanies{}, &fakeSessions{})

	account := seedAccount(t, accounts, "race@example.com", "secret123", nil)

	// A concurrent provisioner commits between our lookup and our insert:
	// the first lookup misses, the insert hits the unique constraint, and
	// the resolver must fall back to fetching the winner's row.
	profiles.byUserID[account.ID] = existing
	profiles.missFirst = true

	profile, err := svc.ResolveProfile(context.Background(), account)
	if err != nil {
		t.Fatalf("resolve after lost race: %v", err)
	}
	if profile.ID != existing.ID {
		t.Errorf("profile.ID = %s, want %s", profile.ID, existing.ID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	accounts := &fakeAccounts{}
	sessions := &fakeSessions{}
	svc := newTestService(accounts, &fakeProfiles{}, &fakeCompanies{}, sessions)

	seedAccount(t, accounts, "user@example.com", "right-password", nil)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "user@example.com", "wrong"},
		{"unknown email", "bad@x.com", "wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), LoginInput{Email: tc.email, Password: tc.password})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
	if len(sessions.byID) != 0 {
		t.Errorf("sessions created on failed login: %d", len(sessions.byID))
	}
}

func TestLoginInactiveProfileDenied(t *testing.T) {
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{byUserID: map[string]models.Profile{}}
	svc := newTestService(accounts, profiles, &fakeCompanies{}, &fakeSessions{})

	account := seedAccount(t, accounts, "off@example.com", "secret123", nil)
	profiles.byUserID[account.ID] = models.Profile{
		ID: "p1", UserID: account.ID, Role: models.RoleAdmin, Active: false,
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "off@example.com", Password: "secret123"})
	if !errors.Is(err, ErrProfileInactive) {
		t.Errorf("err = %v, want ErrProfileInactive", err)
	}
}

func TestLoginCompanyGate(t *testing.T) {
	companyID := "emp-1"
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{byUserID: map[string]models.Profile{}}
	companies := &fakeCompanies{statuses: map[string]models.CompanyStatus{companyID: models.CompanyStatusInactive}}
	svc := newTestService(accounts, profiles, companies, &fakeSessions{})

	account := seedAccount(t, accounts, "cliente@example.com", "secret123", &companyID)
	profiles.byUserID[account.ID] = models.Profile{
		ID: "p1", UserID: account.ID, Role: models.RoleCliente, CompanyID: &companyID, Active: true,
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "cliente@example.com", Password: "secret123"})
	if !errors.Is(err, ErrCompanyInactive) {
		t.Errorf("err = %v, want ErrCompanyInactive", err)
	}

	companies.statuses[companyID] = models.CompanyStatusActive
	result, err := svc.Login(context.Background(), LoginInput{Email: "cliente@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login with active company: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("login returned empty tokens")
	}
}

func TestRegisterTenantGateShortCircuits(t *testing.T) {
	accounts := &fakeAccounts{}
	companies := &fakeCompanies{statuses: map[string]models.CompanyStatus{
		"emp-inactive": models.CompanyStatusInactive,
	}}
	svc := newTestService(accounts, &fakeProfiles{}, companies, &fakeSessions{})

	for _, companyID := range []string{"emp-inactive", "emp-missing"} {
		_, err := svc.Register(context.Background(), RegisterInput{
			Email:     "novo@example.com",
			Password:  "secret123",
			FullName:  "Novo Usuario",
			CompanyID: companyID,
		})
		if !errors.Is(err, ErrCompanyInactive) {
			t.Errorf("company %s: err = %v, want ErrCompanyInactive", companyID, err)
		}
	}
	if accounts.creates != 0 {
		t.Errorf("accounts created for rejected tenant: %d", accounts.creates)
	}
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{}
	companies := &fakeCompanies{statuses: map[string]models.CompanyStatus{
		"emp-1": models.CompanyStatusActive,
	}}
	svc := newTestService(accounts, profiles, companies, &fakeSessions{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Nova@Example.com",
		Password:  "secret123",
		FullName:  "Nova Pessoa",
		CompanyID: "emp-1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if result.Profile.Role != models.RoleCliente {
		t.Errorf("profile role = %s, want cliente", result.Profile.Role)
	}
	if result.Profile.CompanyID == nil || *result.Profile.CompanyID != "emp-1" {
		t.Errorf("profile company = %v, want emp-1", result.Profile.CompanyID)
	}
	if result.Profile.Email != "nova@example.com" {
		t.Errorf("email not normalized: %s", result.Profile.Email)
	}

	// Registering again must fail without touching the stores further.
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:     "nova@example.com",
		Password:  "secret123",
		FullName:  "Nova Pessoa",
		CompanyID: "emp-1",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register err = %v, want ErrEmailTaken", err)
	}
}

func TestLogoutClearsSessionDespiteStoreError(t *testing.T) {
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{}
	sessions := &fakeSessions{}
	svc := newTestService(accounts, profiles, &fakeCompanies{}, sessions)

	account := seedAccount(t, accounts, "out@example.com", "secret123", nil)
	result, err := svc.Login(context.Background(), LoginInput{Email: "out@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.Logout(context.Background(), account.ID, result.DeviceID)
	if count, _ := sessions.CountByUser(context.Background(), account.ID); count != 0 {
		t.Errorf("sessions after logout = %d, want 0", count)
	}

	// A failing store must not surface: logout never errors to the caller.
	sessions.deleteErr = errors.New("backend unavailable")
	svc.Logout(context.Background(), account.ID, "other-device")
}

func TestCheckCompanyStatus(t *testing.T) {
	companyID := "emp-1"
	companies := &fakeCompanies{statuses: map[string]models.CompanyStatus{
		companyID: models.CompanyStatusActive,
	}}
	svc := newTestService(&fakeAccounts{}, &fakeProfiles{}, companies, &fakeSessions{})
	ctx := context.Background()

	admin := &models.Profile{Role: models.RoleAdmin, Active: true}
	if !svc.CheckCompanyStatus(ctx, admin) {
		t.Error("profile without company denied")
	}

	cliente := &models.Profile{Role: models.RoleCliente, CompanyID: &companyID, Active: true}
	if !svc.CheckCompanyStatus(ctx, cliente) {
		t.Error("active company denied")
	}

	companies.statuses[companyID] = models.CompanyStatusInactive
	if svc.CheckCompanyStatus(ctx, cliente) {
		t.Error("inactive company allowed")
	}

	companies.err = errors.New("backend unreachable")
	if svc.CheckCompanyStatus(ctx, cliente) {
		t.Error("lookup error did not fail closed")
	}
}

func TestRefreshRevokesOnCompanyDeactivation(t *testing.T) {
	companyID := "emp-1"
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{byUserID: map[string]models.Profile{}}
	companies := &fakeCompanies{statuses: map[string]models.CompanyStatus{companyID: models.CompanyStatusActive}}
	sessions := &fakeSessions{}
	svc := newTestService(accounts, profiles, companies, sessions)

	account := seedAccount(t, accounts, "cliente@example.com", "secret123", &companyID)
	profiles.byUserID[account.ID] = models.Profile{
		ID: "p1", UserID: account.ID, Role: models.RoleCliente, CompanyID: &companyID, Active: true,
	}

	result, err := svc.Login(context.Background(), LoginInput{Email: "cliente@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	companies.statuses[companyID] = models.CompanyStatusInactive

	_, err = svc.Refresh(context.Background(), RefreshInput{
		UserID:       account.ID,
		RefreshToken: result.RefreshToken,
		DeviceID:     result.DeviceID,
	})
	if !errors.Is(err, ErrCompanyInactive) {
		t.Fatalf("refresh err = %v, want ErrCompanyInactive", err)
	}
	if count, _ := sessions.CountByUser(context.Background(), account.ID); count != 0 {
		t.Errorf("sessions after company deactivation = %d, want 0", count)
	}
	if len(sessions.revoked) == 0 {
		t.Error("DeleteByUser never called")
	}
}

func TestSetAccountSuspendedRevokesAndBlocksLogin(t *testing.T) {
	accounts := &fakeAccounts{}
	profiles := &fakeProfiles{byUserID: map[string]models.Profile{}}
	sessions := &fakeSessions{}
	svc := newTestService(accounts, profiles, &fakeCompanies{}, sessions)

	account := seedAccount(t, accounts, "suspend@example.com", "secret123", nil)
	profiles.byUserID[account.ID] = models.Profile{
		ID: "p1", UserID: account.ID, Role: models.RoleCliente, Active: true,
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "suspend@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.SetAccountSuspended(context.Background(), account.ID, true); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if got := accounts.byID[account.ID].Status; got != models.AccountStatusSuspended {
		t.Errorf("account status = %s, want suspended", got)
	}
	if len(sessions.revoked) == 0 {
		t.Error("sessions not revoked on suspension")
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "suspend@example.com", Password: "secret123"}); !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("login err = %v, want ErrAccountSuspended", err)
	}

	revokedBefore := len(sessions.revoked)
	if err := svc.SetAccountSuspended(context.Background(), account.ID, false); err != nil {
		t.Fatalf("reinstate: %v", err)
	}
	if got := accounts.byID[account.ID].Status; got != models.AccountStatusActive {
		t.Errorf("account status = %s, want active", got)
	}
	if len(sessions.revoked) != revokedBefore {
		t.Error("reinstating revoked sessions")
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "suspend@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login after reinstate: %v", err)
	}
}
