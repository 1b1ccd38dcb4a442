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

type brigadeMemberResponse struct {
	ID                      string     `json:"id"`
	LocationID              string     `json:"locationId"`
	Name                    string     `json:"name"`
	CPF                     string     `json:"cpf"`
	Role                    string     `json:"role"`
	Status                  string     `json:"status"`
	TrainingFrequencyMonths int        `json:"trainingFrequencyMonths"`
	LastTraining            *time.Time `json:"lastTraining"`
	NextTraining            *time.Time `json:"nextTraining"`
	Active                  bool       `json:"active"`
}

func toBrigadeMemberResponse(member models.BrigadeMember) brigadeMemberResponse {
	return brigadeMemberResponse{
		ID:                      member.ID,
		LocationID:              member.LocationID,
		Name:                    member.Name,
		CPF:                     member.CPF,
		Role:                    member.Role,
		Status:                  string(member.Status),
		TrainingFrequencyMonths: member.TrainingFrequencyMonths,
		LastTraining:            member.LastTraining,
		NextTraining:            member.NextTraining,
		Active:                  member.Active,
	}
}

func (h HandlerSet) ListBrigade(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	location, ok := h.canTouchLocation(c, profile, c.Param("locationId"))
	if !ok {
		return
	}

	members, err := h.brigade.ListByLocation(c.Request.Context(), location.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]brigadeMemberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, toBrigadeMemberResponse(member))
	}
	c.JSON(http.StatusOK, gin.H{"members": resp})
}

type brigadeMemberRequest struct {
	Name                    string `json:"name" binding:"required"`
	CPF                     string `json:"cpf" binding:"required"`
	Role                    string `json:"role" binding:"required"`
	TrainingFrequencyMonths int    `json:"trainingFrequencyMonths" binding:"required,min=1"`
	LastTraining            string `json:"lastTraining"`
	Active                  *bool  `json:"active"`
}

func (h HandlerSet) CreateBrigadeMember(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	location, ok := h.canTouchLocation(c, profile, c.Param("locationId"))
	if !ok {
		return
	}

	var req brigadeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	last, err := parseDateField(req.LastTraining)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lastTraining must be YYYY-MM-DD"})
		return
	}

	member := models.BrigadeMember{
		ID:                      ids.New(),
		LocationID:              location.ID,
		Name:                    req.Name,
		CPF:                     req.CPF,
		Role:                    req.Role,
		TrainingFrequencyMonths: req.TrainingFrequencyMonths,
		LastTraining:            last,
		Active:                  true,
	}
	if last != nil {
		next := last.AddDate(0, member.TrainingFrequencyMonths, 0)
		member.NextTraining = &next
	}
	member.Status = models.StatusForDeadline(member.NextTraining, time.Now())

	if err := h.brigade.Create(c.Request.Context(), member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": toBrigadeMemberResponse(member)})
}

func (h HandlerSet) UpdateBrigadeMember(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	member, err := h.brigade.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrMemberNotFound, "member not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, member.LocationID); !ok {
		return
	}

	var req brigadeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	last, err := parseDateField(req.LastTraining)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lastTraining must be YYYY-MM-DD"})
		return
	}

	member.Name = req.Name
	member.CPF = req.CPF
	member.Role = req.Role
	member.TrainingFrequencyMonths = req.TrainingFrequencyMonths
	member.LastTraining = last
	member.NextTraining = nil
	if last != nil {
		next := last.AddDate(0, member.TrainingFrequencyMonths, 0)
		member.NextTraining = &next
	}
	member.Status = models.StatusForDeadline(member.NextTraining, time.Now())
	if req.Active != nil {
		member.Active = *req.Active
	}

	if err := h.brigade.Update(c.Request.Context(), member); err != nil {
		respondNotFoundOr500(c, err, repository.ErrMemberNotFound, "member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": toBrigadeMemberResponse(member)})
}

func (h HandlerSet) DeleteBrigadeMember(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	member, err := h.brigade.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrMemberNotFound, "member not found")
		return
	}
	if _, ok := h.canTouchLocation(c, profile, member.LocationID); !ok {
		return
	}

	if err := h.brigade.Delete(c.Request.Context(), member.ID); err != nil {
		respondNotFoundOr500(c, err, repository.ErrMemberNotFound, "member not found")
		return
	}
	c.Status(http.StatusNoContent)
}
