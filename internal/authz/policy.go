// Package authz holds the pure route-access policy: the closed role set, the
// single role→route table, and the decision functions consumed by the request
// guard, the handlers and the navigation endpoint. It performs no I/O.
package authz

import "firetrack/api/internal/models"

// Route identifiers, stable across the application.
const (
	RouteDashboard    = "/dashboard"
	RouteCalendar     = "/calendario"
	RouteReports      = "/relatorios"
	RouteClients      = "/clientes"
	RouteCompanies    = "/empresas"
	RouteLocations    = "/locais"
	RouteUsers        = "/usuarios"
	RouteSettings     = "/configuracoes"
	RouteAuth         = "/auth"
	RouteAfterDeny    = RouteDashboard
	RouteAfterSignOut = RouteAuth
)

// routesByRole is the only role→route mapping in the codebase. Every
// supported role has an explicit entry; an absent or unknown role is denied
// everything. Each role's fallback route (RouteAfterDeny) must be a member of
// its own set so a denial can never loop.
var routesByRole = map[models.Role][]string{
	models.RoleAdmin: {
		RouteDashboard,
		RouteCalendar,
		RouteReports,
		RouteClients,
		RouteCompanies,
		RouteLocations,
		RouteUsers,
		RouteSettings,
	},
	models.RoleCliente: {
		RouteDashboard,
		RouteCalendar,
		RouteReports,
	},
	// Deprecated role, kept in the enum because stored profiles still carry
	// it. It is granted nothing until product decides otherwise.
	models.RoleTecnico: {},
}

// HasRole reports whether the profile is present and its role is one of roles.
func HasRole(profile *models.Profile, roles ...models.Role) bool {
	if profile == nil {
		return false
	}
	for _, role := range roles {
		if profile.Role == role {
			return true
		}
	}
	return false
}

func IsAdmin(profile *models.Profile) bool {
	return HasRole(profile, models.RoleAdmin)
}

func IsCliente(profile *models.Profile) bool {
	return HasRole(profile, models.RoleCliente)
}

// CanAccessRoute decides route access. A nil or deactivated profile is denied
// everything; so is any role without an entry in the table.
func CanAccessRoute(profile *models.Profile, route string) bool {
	if profile == nil || !profile.Active {
		return false
	}
	routes, ok := routesByRole[profile.Role]
	if !ok {
		return false
	}
	for _, r := range routes {
		if r == route {
			return true
		}
	}
	return false
}

// RoutesFor returns the routes granted to the profile, in table order. Used by
// the navigation endpoint so menus cannot drift from enforcement.
func RoutesFor(profile *models.Profile) []string {
	if profile == nil || !profile.Active {
		return nil
	}
	routes := routesByRole[profile.Role]
	out := make([]string, len(routes))
	copy(out, routes)
	return out
}

// CanManageUsers limits the user-administration screens to admins.
func CanManageUsers(profile *models.Profile) bool {
	return IsAdmin(profile)
}

// CanSeeAllClients distinguishes the admin view from the client-scoped view.
// Non-admin data access must be filtered to the profile's own client/company.
func CanSeeAllClients(profile *models.Profile) bool {
	return IsAdmin(profile)
}
