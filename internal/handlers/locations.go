package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/ids"
	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type locationResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"clientId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description"`
	ClientType  *string `json:"clientType"`
	Active      bool    `json:"active"`
}

func toLocationResponse(location models.Location) locationResponse {
	var clientType *string
	if location.ClientType != nil {
		t := string(*location.ClientType)
		clientType = &t
	}
	return locationResponse{
		ID:          location.ID,
		ClientID:    location.ClientID,
		Name:        location.Name,
		Address:     location.Address,
		Description: location.Description,
		ClientType:  clientType,
		Active:      location.Active,
	}
}

func (h HandlerSet) ListLocations(c *gin.Context) {
	var clientID *string
	if raw := c.Query("clientId"); raw != "" {
		clientID = &raw
	}

	locations, err := h.locations.List(c.Request.Context(), clientID, c.Query("active") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendLocationList(c, locations)
}

// DashboardLocations is the location picker for the dashboard and calendar
// screens: cliente callers only ever see their own client's active locations.
func (h HandlerSet) DashboardLocations(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	clientID, ok := scopedClientID(profile, c.Query("clientId"))
	if !ok {
		sendLocationList(c, nil)
		return
	}

	locations, err := h.locations.List(c.Request.Context(), clientID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendLocationList(c, locations)
}

func sendLocationList(c *gin.Context, locations []models.Location) {
	resp := make([]locationResponse, 0, len(locations))
	for _, location := range locations {
		resp = append(resp, toLocationResponse(location))
	}
	c.JSON(http.StatusOK, gin.H{"locations": resp})
}

type locationRequest struct {
	ClientID    string  `json:"clientId" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	Description *string `json:"description"`
	ClientType  *string `json:"clientType" binding:"omitempty,oneof=residencial comercial industria"`
	Active      *bool   `json:"active"`
}

func (h HandlerSet) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.clients.GetByID(c.Request.Context(), req.ClientID); err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}

	location := models.Location{
		ID:          ids.New(),
		ClientID:    req.ClientID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Active:      true,
	}
	if req.ClientType != nil {
		t := models.ClientType(*req.ClientType)
		location.ClientType = &t
	}
	if req.Active != nil {
		location.Active = *req.Active
	}

	if err := h.locations.Create(c.Request.Context(), location); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": toLocationResponse(location)})
}

func (h HandlerSet) GetLocation(c *gin.Context) {
	location, err := h.locations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrLocationNotFound, "location not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": toLocationResponse(location)})
}

func (h HandlerSet) UpdateLocation(c *gin.Context) {
	location, err := h.locations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrLocationNotFound, "location not found")
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location.Name = req.Name
	location.Address = req.Address
	location.Description = req.Description
	location.ClientType = nil
	if req.ClientType != nil {
		t := models.ClientType(*req.ClientType)
		location.ClientType = &t
	}
	if req.Active != nil {
		location.Active = *req.Active
	}

	if err := h.locations.Update(c.Request.Context(), location); err != nil {
		respondNotFoundOr500(c, err, repository.ErrLocationNotFound, "location not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": toLocationResponse(location)})
}

func (h HandlerSet) DeleteLocation(c *gin.Context) {
	if err := h.locations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondNotFoundOr500(c, err, repository.ErrLocationNotFound, "location not found")
		return
	}
	c.Status(http.StatusNoContent)
}
