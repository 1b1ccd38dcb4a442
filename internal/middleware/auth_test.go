package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/config"
	"firetrack/api/internal/models"
	"firetrack/api/internal/security"
	"firetrack/api/internal/service"
)

type fakeAuthenticator struct {
	profile models.Profile
	err     error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _ *security.AccessClaims, _ string, _ string) (models.Profile, error) {
	return f.profile, f.err
}

func anonymousConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{JWTAccessSecret: "test-secret"},
	}
}

func anonymousRequest(t *testing.T, cfg *config.AppConfig, auth Authenticator, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.POST("/login",
		Anonymous(cfg, auth),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousPassesWithoutToken(t *testing.T) {
	rec := anonymousRequest(t, anonymousConfig(), &fakeAuthenticator{}, "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAnonymousRedirectsAuthenticated(t *testing.T) {
	cfg := anonymousConfig()
	token, err := security.GenerateAccessToken(cfg.Security.JWTAccessSecret, "u1", "s1", "d1", "cliente", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	auth := &fakeAuthenticator{profile: models.Profile{ID: "p1", UserID: "u1", Role: models.RoleCliente, Active: true}}
	rec := anonymousRequest(t, cfg, auth, token)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if got := redirectOf(t, rec); got != authz.RouteDashboard {
		t.Errorf("redirect = %s, want %s", got, authz.RouteDashboard)
	}
}

func TestAnonymousPassesWithDeadSession(t *testing.T) {
	cfg := anonymousConfig()
	token, err := security.GenerateAccessToken(cfg.Security.JWTAccessSecret, "u1", "s1", "d1", "cliente", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// A syntactically valid token for a revoked session must not block
	// signing in again.
	rec := anonymousRequest(t, cfg, &fakeAuthenticator{err: service.ErrSessionInvalid}, token)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAnonymousPassesWithGarbageToken(t *testing.T) {
	rec := anonymousRequest(t, anonymousConfig(), &fakeAuthenticator{}, "not-a-jwt")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}
