package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

// scopedClientID narrows data access for non-admin callers. Admins may pass
// any client id (or none); everyone else is pinned to their own client. A
// non-admin without a client assignment sees nothing.
func scopedClientID(profile *models.Profile, requested string) (*string, bool) {
	if authz.CanSeeAllClients(profile) {
		if requested == "" {
			return nil, true
		}
		return &requested, true
	}
	if profile == nil || profile.ClientID == nil || *profile.ClientID == "" {
		return nil, false
	}
	return profile.ClientID, true
}

// canTouchLocation reports whether the caller may read or write data under
// the given location. Non-admins must own the location through their client.
func (h HandlerSet) canTouchLocation(c *gin.Context, profile *models.Profile, locationID string) (models.Location, bool) {
	location, err := h.locations.GetByID(c.Request.Context(), locationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return models.Location{}, false
	}

	if authz.CanSeeAllClients(profile) {
		return location, true
	}
	if profile == nil || profile.ClientID == nil || *profile.ClientID != location.ClientID {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return models.Location{}, false
	}
	return location, true
}

func respondNotFoundOr500(c *gin.Context, err error, sentinel error, msg string) {
	if errors.Is(err, sentinel) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDateField(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
