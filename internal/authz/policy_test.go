package authz

import (
	"testing"

	"firetrack/api/internal/models"
)

func activeProfile(role models.Role) *models.Profile {
	return &models.Profile{ID: "p1", UserID: "u1", Role: role, Active: true}
}

var allRoutes = []string{
	RouteDashboard, RouteCalendar, RouteReports, RouteClients,
	RouteCompanies, RouteLocations, RouteUsers, RouteSettings,
}

func TestCanAccessRouteAdmin(t *testing.T) {
	admin := activeProfile(models.RoleAdmin)
	for _, route := range allRoutes {
		if !CanAccessRoute(admin, route) {
			t.Errorf("admin denied %s", route)
		}
	}
}

func TestCanAccessRouteCliente(t *testing.T) {
	cliente := activeProfile(models.RoleCliente)

	allowed := map[string]bool{
		RouteDashboard: true,
		RouteCalendar:  true,
		RouteReports:   true,
	}
	for _, route := range allRoutes {
		got := CanAccessRoute(cliente, route)
		if got != allowed[route] {
			t.Errorf("cliente access to %s = %v, want %v", route, got, allowed[route])
		}
	}
}

func TestCanAccessRouteDenyByDefault(t *testing.T) {
	for _, role := range []models.Role{models.RoleTecnico, "manager", "superadmin", ""} {
		profile := activeProfile(role)
		for _, route := range allRoutes {
			if CanAccessRoute(profile, route) {
				t.Errorf("role %q unexpectedly allowed on %s", role, route)
			}
		}
	}
}

func TestCanAccessRouteNilOrInactive(t *testing.T) {
	if CanAccessRoute(nil, RouteDashboard) {
		t.Error("nil profile allowed")
	}

	inactive := activeProfile(models.RoleAdmin)
	inactive.Active = false
	for _, route := range allRoutes {
		if CanAccessRoute(inactive, route) {
			t.Errorf("inactive admin allowed on %s", route)
		}
	}
}

func TestDenyFallbackReachable(t *testing.T) {
	// Every role with a non-empty grant must be able to land on the deny
	// fallback route, otherwise a denial would redirect in a loop.
	for _, role := range []models.Role{models.RoleAdmin, models.RoleCliente} {
		if !CanAccessRoute(activeProfile(role), RouteAfterDeny) {
			t.Errorf("role %s cannot reach %s", role, RouteAfterDeny)
		}
	}
}

func TestHasRole(t *testing.T) {
	cliente := activeProfile(models.RoleCliente)

	if !HasRole(cliente, models.RoleAdmin, models.RoleCliente) {
		t.Error("cliente not matched in set containing cliente")
	}
	if HasRole(cliente, models.RoleAdmin) {
		t.Error("cliente matched admin-only set")
	}
	if HasRole(nil, models.RoleAdmin) {
		t.Error("nil profile matched")
	}
}

func TestConvenienceChecks(t *testing.T) {
	admin := activeProfile(models.RoleAdmin)
	cliente := activeProfile(models.RoleCliente)

	if !IsAdmin(admin) || IsAdmin(cliente) || IsAdmin(nil) {
		t.Error("IsAdmin misclassified")
	}
	if !IsCliente(cliente) || IsCliente(admin) {
		t.Error("IsCliente misclassified")
	}
	if !CanManageUsers(admin) || CanManageUsers(cliente) {
		t.Error("CanManageUsers misclassified")
	}
	if !CanSeeAllClients(admin) || CanSeeAllClients(cliente) {
		t.Error("CanSeeAllClients misclassified")
	}
}

func TestRoutesFor(t *testing.T) {
	if routes := RoutesFor(nil); routes != nil {
		t.Errorf("nil profile got routes %v", routes)
	}

	inactive := activeProfile(models.RoleAdmin)
	inactive.Active = false
	if routes := RoutesFor(inactive); routes != nil {
		t.Errorf("inactive profile got routes %v", routes)
	}

	cliente := RoutesFor(activeProfile(models.RoleCliente))
	if len(cliente) != 3 {
		t.Fatalf("cliente routes = %v", cliente)
	}
	for i, route := range []string{RouteDashboard, RouteCalendar, RouteReports} {
		if cliente[i] != route {
			t.Errorf("cliente routes[%d] = %s, want %s", i, cliente[i], route)
		}
	}

	if routes := RoutesFor(activeProfile(models.RoleTecnico)); len(routes) != 0 {
		t.Errorf("tecnico routes = %v, want empty", routes)
	}
}
