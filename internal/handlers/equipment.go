package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/ids"
	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type equipmentResponse struct {
	ID                         string     `json:"id"`
	Kind                       string     `json:"kind"`
	LocationID                 string     `json:"locationId"`
	SerialNumber               string     `json:"serialNumber"`
	Type                       string     `json:"type"`
	Status                     string     `json:"status"`
	Number                     *int       `json:"number,omitempty"`
	Placement                  *string    `json:"placement,omitempty"`
	Responsible                *string    `json:"responsible,omitempty"`
	Observations               *string    `json:"observations,omitempty"`
	PressureRating             *string    `json:"pressureRating,omitempty"`
	Zone                       *string    `json:"zone,omitempty"`
	MaintenanceFrequencyMonths int        `json:"maintenanceFrequencyMonths"`
	LastMaintenance            *time.Time `json:"lastMaintenance"`
	NextMaintenance            *time.Time `json:"nextMaintenance"`
}

func toEquipmentResponse(eq models.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:                         eq.ID,
		Kind:                       string(eq.Kind),
		LocationID:                 eq.LocationID,
		SerialNumber:               eq.SerialNumber,
		Type:                       eq.Type,
		Status:                     string(eq.Status),
		Number:                     eq.Number,
		Placement:                  eq.Placement,
		Responsible:                eq.Responsible,
		Observations:               eq.Observations,
		PressureRating:             eq.PressureRating,
		Zone:                       eq.Zone,
		MaintenanceFrequencyMonths: eq.MaintenanceFrequencyMonths,
		LastMaintenance:            eq.LastMaintenance,
		NextMaintenance:            eq.NextMaintenance,
	}
}

// ListEquipment serves the dashboard listing. Admins may scope by any client
// or location; cliente callers only ever see their own client's equipment.
func (h HandlerSet) ListEquipment(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	if locationID := c.Query("locationId"); locationID != "" {
		if _, ok := h.canTouchLocation(c, profile, locationID); !ok {
			return
		}
		var kind *models.EquipmentKind
		if raw := c.Query("kind"); raw != "" {
			k := models.EquipmentKind(raw)
			kind = &k
		}
		items, err := h.equipment.ListByLocation(c.Request.Context(), locationID, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sendEquipmentList(c, items)
		return
	}

	clientID, ok := scopedClientID(profile, c.Query("clientId"))
	if !ok {
		sendEquipmentList(c, nil)
		return
	}
	if clientID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId or locationId required"})
		return
	}

	items, err := h.equipment.ListByClient(c.Request.Context(), *clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendEquipmentList(c, items)
}

func sendEquipmentList(c *gin.Context, items []models.Equipment) {
	resp := make([]equipmentResponse, 0, len(items))
	for _, eq := range items {
		resp = append(resp, toEquipmentResponse(eq))
	}
	c.JSON(http.StatusOK, gin.H{"equipment": resp})
}

type equipmentRequest struct {
	Kind                       string  `json:"kind" binding:"required"`
	SerialNumber               string  `json:"serialNumber" binding:"required"`
	Type                       string  `json:"type"`
	Number                     *int    `json:"number"`
	Placement                  *string `json:"placement"`
	Responsible                *string `json:"responsible"`
	Observations               *string `json:"observations"`
	PressureRating             *string `json:"pressureRating"`
	Zone                       *string `json:"zone"`
	MaintenanceFrequencyMonths int     `json:"maintenanceFrequencyMonths" binding:"required,min=1"`
	LastMaintenance            string  `json:"lastMaintenance"`
}

var equipmentKinds = map[models.EquipmentKind]bool{
	models.EquipmentExtinguisher: true,
	models.EquipmentHydrant:      true,
	models.EquipmentSprinkler:    true,
	models.EquipmentAlarm:        true,
	models.EquipmentLighting:     true,
}

func (h HandlerSet) CreateEquipment(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	location, ok := h.canTouchLocation(c, profile, c.Param("locationId"))
	if !ok {
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := models.EquipmentKind(req.Kind)
	if !equipmentKinds[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown equipment kind"})
		return
	}
	last, err := parseDateField(req.LastMaintenance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lastMaintenance must be YYYY-MM-DD"})
		return
	}

	eq := models.Equipment{
		ID:                         ids.New(),
		Kind:                       kind,
		LocationID:                 location.ID,
		SerialNumber:               req.SerialNumber,
		Type:                       req.Type,
		Number:                     req.Number,
		Placement:                  req.Placement,
		Responsible:                req.Responsible,
		Observations:               req.Observations,
		PressureRating:             req.PressureRating,
		Zone:                       req.Zone,
		MaintenanceFrequencyMonths: req.MaintenanceFrequencyMonths,
		LastMaintenance:            last,
	}
	if last != nil {
		next := eq.NextMaintenanceFrom(*last)
		eq.NextMaintenance = &next
	}
	eq.Status = models.StatusForDeadline(eq.NextMaintenance, time.Now())

	if err := h.equipment.Create(c.Request.Context(), eq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"equipment": toEquipmentResponse(eq)})
}

func (h HandlerSet) UpdateEquipment(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	eq, err := h.equipment.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrEquipmentNotFound, "equipment not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, eq.LocationID); !ok {
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	last, err := parseDateField(req.LastMaintenance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lastMaintenance must be YYYY-MM-DD"})
		return
	}

	eq.SerialNumber = req.SerialNumber
	eq.Type = req.Type
	eq.Number = req.Number
	eq.Placement = req.Placement
	eq.Responsible = req.Responsible
	eq.Observations = req.Observations
	eq.PressureRating = req.PressureRating
	eq.Zone = req.Zone
	eq.MaintenanceFrequencyMonths = req.MaintenanceFrequencyMonths
	eq.LastMaintenance = last
	eq.NextMaintenance = nil
	if last != nil {
		next := eq.NextMaintenanceFrom(*last)
		eq.NextMaintenance = &next
	}
	eq.Status = models.StatusForDeadline(eq.NextMaintenance, time.Now())

	if err := h.equipment.Update(c.Request.Context(), eq); err != nil {
		respondNotFoundOr500(c, err, repository.ErrEquipmentNotFound, "equipment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": toEquipmentResponse(eq)})
}

func (h HandlerSet) DeleteEquipment(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	eq, err := h.equipment.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrEquipmentNotFound, "equipment not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, eq.LocationID); !ok {
		return
	}

	if err := h.equipment.Delete(c.Request.Context(), eq.ID); err != nil {
		respondNotFoundOr500(c, err, repository.ErrEquipmentNotFound, "equipment not found")
		return
	}
	c.Status(http.StatusNoContent)
}
