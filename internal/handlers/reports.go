package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

func (h HandlerSet) reportFilterFromQuery(c *gin.Context) (repository.ReportFilter, bool) {
	start, okStart := parseDateParam(c, "start")
	end, okEnd := parseDateParam(c, "end")
	if !okStart || !okEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required as YYYY-MM-DD"})
		return repository.ReportFilter{}, false
	}

	filter := repository.ReportFilter{
		Start: start,
		End:   end.AddDate(0, 0, 1),
	}
	if raw := c.Query("clientId"); raw != "" {
		filter.ClientID = &raw
	}
	if raw := c.Query("locationId"); raw != "" {
		filter.LocationID = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.EquipmentStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("kind"); raw != "" {
		kind := models.EquipmentKind(raw)
		filter.Kind = &kind
	}
	return filter, true
}

type reportRowResponse struct {
	EquipmentID     string     `json:"equipmentId"`
	Kind            string     `json:"kind"`
	SerialNumber    string     `json:"serialNumber"`
	ClientName      string     `json:"clientName"`
	LocationName    string     `json:"locationName"`
	LocationAddress string     `json:"locationAddress"`
	Status          string     `json:"status"`
	LastMaintenance *time.Time `json:"lastMaintenance"`
	NextMaintenance *time.Time `json:"nextMaintenance"`
	Responsible     *string    `json:"responsible"`
	Observations    *string    `json:"observations"`
}

func (h HandlerSet) GenerateReport(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	filter, ok := h.reportFilterFromQuery(c)
	if !ok {
		return
	}

	rows, err := h.reports.Generate(c.Request.Context(), profile, filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := make([]reportRowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, reportRowResponse{
			EquipmentID:     row.EquipmentID,
			Kind:            string(row.Kind),
			SerialNumber:    row.SerialNumber,
			ClientName:      row.ClientName,
			LocationName:    row.LocationName,
			LocationAddress: row.LocationAddress,
			Status:          string(row.Status),
			LastMaintenance: row.LastMaintenance,
			NextMaintenance: row.NextMaintenance,
			Responsible:     row.Responsible,
			Observations:    row.Observations,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rows": resp})
}

// ExportReport writes the filtered report as CSV to object storage and hands
// back a presigned download URL.
func (h HandlerSet) ExportReport(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	filter, ok := h.reportFilterFromQuery(c)
	if !ok {
		return
	}

	url, rows, err := h.reports.Export(c.Request.Context(), profile, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "rows": rows})
}
