package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/models"
)

type fakeGate struct {
	companyActive bool
	revoked       []string
}

func (f *fakeGate) CheckCompanyStatus(_ context.Context, _ *models.Profile) bool {
	return f.companyActive
}

func (f *fakeGate) RevokeAllSessions(_ context.Context, userID string) {
	f.revoked = append(f.revoked, userID)
}

func guardRequest(t *testing.T, profile *models.Profile, gate CompanyGate, route string, allowedRoles ...models.Role) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/probe",
		func(c *gin.Context) {
			if profile != nil {
				c.Set(profileKey, *profile)
			}
		},
		Guard(gate, route, allowedRoles...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Redirect
}

func TestGuardAnonymousRedirectsToAuth(t *testing.T) {
	rec := guardRequest(t, nil, &fakeGate{companyActive: true}, authz.RouteDashboard)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got := redirectOf(t, rec); got != authz.RouteAuth {
		t.Errorf("redirect = %s, want %s", got, authz.RouteAuth)
	}
}

func TestGuardClienteDeniedAdminRoute(t *testing.T) {
	profile := &models.Profile{ID: "p1", UserID: "u1", Role: models.RoleCliente, Active: true}

	rec := guardRequest(t, profile, &fakeGate{companyActive: true}, authz.RouteUsers, models.RoleAdmin)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if got := redirectOf(t, rec); got != authz.RouteDashboard {
		t.Errorf("redirect = %s, want %s", got, authz.RouteDashboard)
	}
}

func TestGuardAdminAllowedWithoutExplicitRoles(t *testing.T) {
	profile := &models.Profile{ID: "p1", UserID: "u1", Role: models.RoleAdmin, Active: true}

	rec := guardRequest(t, profile, &fakeGate{companyActive: true}, authz.RouteUsers)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestGuardRouteTableDeniesClienteEvenWithoutRoleList(t *testing.T) {
	profile := &models.Profile{ID: "p1", UserID: "u1", Role: models.RoleCliente, Active: true}

	rec := guardRequest(t, profile, &fakeGate{companyActive: true}, authz.RouteUsers)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if got := redirectOf(t, rec); got != authz.RouteDashboard {
		t.Errorf("redirect = %s, want %s", got, authz.RouteDashboard)
	}
}

func TestGuardInactiveProfileDenied(t *testing.T) {
	profile := &models.Profile{ID: "p1", UserID: "u1", Role: models.RoleAdmin, Active: false}

	rec := guardRequest(t, profile, &fakeGate{companyActive: true}, authz.RouteDashboard)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGuardCompanyDeactivationForcesExit(t *testing.T) {
	companyID := "emp-1"
	profile := &models.Profile{
		ID: "p1", UserID: "u1", Role: models.RoleCliente,
		CompanyID: &companyID, Active: true,
	}
	gate := &fakeGate{companyActive: false}

	rec := guardRequest(t, profile, gate, authz.RouteDashboard)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got := redirectOf(t, rec); got != authz.RouteAuth {
		t.Errorf("redirect = %s, want %s", got, authz.RouteAuth)
	}
	if len(gate.revoked) != 1 || gate.revoked[0] != "u1" {
		t.Errorf("revoked = %v, want [u1]", gate.revoked)
	}
}

func TestGuardClienteAllowedOnOwnRoutes(t *testing.T) {
	companyID := "emp-1"
	profile := &models.Profile{
		ID: "p1", UserID: "u1", Role: models.RoleCliente,
		CompanyID: &companyID, Active: true,
	}
	gate := &fakeGate{companyActive: true}

	for _, route := range []string{authz.RouteDashboard, authz.RouteCalendar, authz.RouteReports} {
		rec := guardRequest(t, profile, gate, route)
		if rec.Code != http.StatusOK {
			t.Errorf("route %s: status = %d, want 200", route, rec.Code)
		}
	}
}

func TestGuardUnknownRoleDeniedEverything(t *testing.T) {
	profile := &models.Profile{ID: "p1", UserID: "u1", Role: "superuser", Active: true}

	rec := guardRequest(t, profile, &fakeGate{companyActive: true}, authz.RouteDashboard)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
