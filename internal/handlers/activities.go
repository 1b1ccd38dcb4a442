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

type activityResponse struct {
	ID            string  `json:"id"`
	LocationID    string  `json:"locationId"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduledDate"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Status        string  `json:"status"`
	CreatedBy     string  `json:"createdBy"`
}

func toActivityResponse(activity models.Activity) activityResponse {
	return activityResponse{
		ID:            activity.ID,
		LocationID:    activity.LocationID,
		Title:         activity.Title,
		Description:   activity.Description,
		ScheduledDate: activity.ScheduledDate.Format("2006-01-02"),
		StartTime:     activity.StartTime,
		EndTime:       activity.EndTime,
		Status:        string(activity.Status),
		CreatedBy:     activity.CreatedBy,
	}
}

// ListActivities serves the calendar. The range is required so the query
// stays bounded; cliente callers are pinned to their own client.
func (h HandlerSet) ListActivities(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	start, okStart := parseDateParam(c, "start")
	end, okEnd := parseDateParam(c, "end")
	if !okStart || !okEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required as YYYY-MM-DD"})
		return
	}

	clientID, ok := scopedClientID(profile, c.Query("clientId"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"activities": []activityResponse{}})
		return
	}

	activities, err := h.activities.ListByDateRange(c.Request.Context(), start, end, clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]activityResponse, 0, len(activities))
	for _, activity := range activities {
		resp = append(resp, toActivityResponse(activity))
	}
	c.JSON(http.StatusOK, gin.H{"activities": resp})
}

type activityRequest struct {
	LocationID    string  `json:"locationId" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduledDate" binding:"required"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
}

func (h HandlerSet) CreateActivity(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, ok := h.canTouchLocation(c, profile, req.LocationID)
	if !ok {
		return
	}

	scheduled, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledDate must be YYYY-MM-DD"})
		return
	}

	activity := models.Activity{
		ID:            ids.New(),
		LocationID:    location.ID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: scheduled,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.ActivityStatusScheduled,
		CreatedBy:     profile.UserID,
	}

	if err := h.activities.Create(c.Request.Context(), activity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"activity": toActivityResponse(activity)})
}

type activityUpdateRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduledDate" binding:"required"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Status        string  `json:"status" binding:"required,oneof=agendada concluida cancelada"`
}

func (h HandlerSet) UpdateActivity(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrActivityNotFound, "activity not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, activity.LocationID); !ok {
		return
	}

	var req activityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduled, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledDate must be YYYY-MM-DD"})
		return
	}

	activity.Title = req.Title
	activity.Description = req.Description
	activity.ScheduledDate = scheduled
	activity.StartTime = req.StartTime
	activity.EndTime = req.EndTime
	activity.Status = models.ActivityStatus(req.Status)

	if err := h.activities.Update(c.Request.Context(), activity); err != nil {
		respondNotFoundOr500(c, err, repository.ErrActivityNotFound, "activity not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": toActivityResponse(activity)})
}

func (h HandlerSet) DeleteActivity(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrActivityNotFound, "activity not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, activity.LocationID); !ok {
		return
	}

	if err := h.activities.Delete(c.Request.Context(), activity.ID); err != nil {
		respondNotFoundOr500(c, err, repository.ErrActivityNotFound, "activity not found")
		return
	}
	c.Status(http.StatusNoContent)
}
