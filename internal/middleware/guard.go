package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/models"
)

// CompanyGate re-validates tenant status mid-session and revokes sessions
// when it fails; satisfied by service.AuthService.
type CompanyGate interface {
	CheckCompanyStatus(ctx context.Context, profile *models.Profile) bool
	RevokeAllSessions(ctx context.Context, userID string)
}

type denial struct {
	status   int
	code     string
	redirect string
}

// decide applies the role and route policy. The company gate is handled
// separately because it needs I/O.
func decide(profile *models.Profile, route string, allowedRoles []models.Role) *denial {
	if profile == nil {
		return &denial{http.StatusUnauthorized, "unauthenticated", authz.RouteAuth}
	}
	if len(allowedRoles) > 0 && !authz.HasRole(profile, allowedRoles...) {
		return &denial{http.StatusForbidden, "forbidden", authz.RouteAfterDeny}
	}
	if !authz.CanAccessRoute(profile, route) {
		return &denial{http.StatusForbidden, "forbidden", authz.RouteAfterDeny}
	}
	return nil
}

// Guard protects a route group. It runs after Auth, checks the role set and
// the route table, and re-checks company status on every request for
// company-scoped profiles. A deactivated company forces the caller out: the
// sessions are revoked and the response points at the sign-in route.
func Guard(gate CompanyGate, route string, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)

		if d := decide(profile, route, allowedRoles); d != nil {
			abortRedirect(c, d.status, d.code, d.redirect)
			return
		}

		if authz.IsCliente(profile) && profile.CompanyID != nil {
			if !gate.CheckCompanyStatus(c.Request.Context(), profile) {
				gate.RevokeAllSessions(c.Request.Context(), profile.UserID)
				abortRedirect(c, http.StatusUnauthorized, "company_inactive", authz.RouteAuth)
				return
			}
		}

		c.Next()
	}
}
