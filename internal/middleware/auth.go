package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/config"
	"firetrack/api/internal/models"
	"firetrack/api/internal/security"
	"firetrack/api/internal/service"
)

const (
	profileKey = "profile"
	claimsKey  = "access_claims"
)

// Authenticator is the single entry point from a bearer token into an
// authenticated profile; satisfied by service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, claims *security.AccessClaims, ip string, userAgent string) (models.Profile, error)
}

// Auth resolves the caller's profile from the bearer token. Anything short of
// a valid session with an active account and profile ends the request here.
func Auth(cfg *config.AppConfig, auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, cfg)
		if !ok {
			abortRedirect(c, http.StatusUnauthorized, "invalid_token", authz.RouteAuth)
			return
		}

		profile, err := auth.Authenticate(c.Request.Context(), claims, c.ClientIP(), c.GetHeader("User-Agent"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAccountSuspended), errors.Is(err, service.ErrProfileInactive):
				abortRedirect(c, http.StatusForbidden, "account_disabled", authz.RouteAuth)
			default:
				abortRedirect(c, http.StatusUnauthorized, "session_invalid", authz.RouteAuth)
			}
			return
		}

		c.Set(claimsKey, *claims)
		c.Set(profileKey, profile)

		c.Next()
	}
}

// Anonymous gates the public auth endpoints: an already-authenticated caller
// is pointed back at the dashboard instead of signing in twice.
func Anonymous(cfg *config.AppConfig, auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, cfg)
		if !ok {
			c.Next()
			return
		}

		if _, err := auth.Authenticate(c.Request.Context(), claims, c.ClientIP(), c.GetHeader("User-Agent")); err == nil {
			abortRedirect(c, http.StatusConflict, "already_authenticated", authz.RouteDashboard)
			return
		}

		c.Next()
	}
}

func bearerClaims(c *gin.Context, cfg *config.AppConfig) (*security.AccessClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTAccessSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// CurrentProfile returns the authenticated profile set by Auth, or nil.
func CurrentProfile(c *gin.Context) *models.Profile {
	value, exists := c.Get(profileKey)
	if !exists {
		return nil
	}
	profile, ok := value.(models.Profile)
	if !ok {
		return nil
	}
	return &profile
}

// CurrentClaims returns the parsed access claims set by Auth.
func CurrentClaims(c *gin.Context) (security.AccessClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := value.(security.AccessClaims)
	return claims, ok
}

func abortRedirect(c *gin.Context, status int, code string, redirect string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":    code,
		"redirect": redirect,
	})
}
