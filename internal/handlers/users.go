package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	profiles, err := h.profiles.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]profileResponse, 0, len(profiles))
	for _, profile := range profiles {
		resp = append(resp, toProfileResponse(profile))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type userUpdateRequest struct {
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin cliente tecnico"`
	ClientID  *string `json:"clientId"`
	CompanyID *string `json:"companyId"`
	Active    *bool   `json:"active"`
}

// UpdateUser patches a profile's administrative fields. Deactivating or
// demoting a user revokes every session they hold, so the change takes effect
// immediately rather than on token expiry.
func (h HandlerSet) UpdateUser(c *gin.Context) {
	current := middleware.CurrentProfile(c)

	target, err := h.profiles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrProfileNotFound, "user not found")
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deactivating := req.Active != nil && !*req.Active
	demoting := req.Role != nil && models.Role(*req.Role) != target.Role

	if current != nil && current.ID == target.ID && (deactivating || demoting) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change own role or deactivate own profile"})
		return
	}

	update := repository.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		ClientID:  req.ClientID,
		CompanyID: req.CompanyID,
		Active:    req.Active,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		update.Role = &role
	}

	if err := h.profiles.Update(c.Request.Context(), target.ID, update); err != nil {
		respondNotFoundOr500(c, err, repository.ErrProfileNotFound, "user not found")
		return
	}

	// Activation changes are mirrored onto the account so a disabled user
	// cannot refresh back in; suspension revokes their sessions too.
	if req.Active != nil {
		if err := h.auth.SetAccountSuspended(c.Request.Context(), target.UserID, !*req.Active); err != nil {
			h.log.Error().Err(err).Str("user_id", target.UserID).Msg("account status update failed")
		}
	}
	if demoting {
		h.auth.RevokeAllSessions(c.Request.Context(), target.UserID)
	}

	updated, err := h.profiles.GetByID(c.Request.Context(), target.ID)
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrProfileNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toProfileResponse(updated)})
}
