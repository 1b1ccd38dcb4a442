package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/ids"
	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type clientResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CNPJ          *string   `json:"cnpj"`
	ContactPerson *string   `json:"contactPerson"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toClientResponse(client models.Client) clientResponse {
	return clientResponse{
		ID:            client.ID,
		Name:          client.Name,
		CNPJ:          client.CNPJ,
		ContactPerson: client.ContactPerson,
		Email:         client.Email,
		Phone:         client.Phone,
		Address:       client.Address,
		Active:        client.Active,
		CreatedAt:     client.CreatedAt,
	}
}

func (h HandlerSet) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, toClientResponse(client))
	}
	c.JSON(http.StatusOK, gin.H{"clients": resp})
}

type clientRequest struct {
	Name          string  `json:"name" binding:"required"`
	CNPJ          *string `json:"cnpj"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Active        *bool   `json:"active"`
}

func (h HandlerSet) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := models.Client{
		ID:            ids.New(),
		Name:          req.Name,
		CNPJ:          req.CNPJ,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Active:        true,
	}
	if req.Active != nil {
		client.Active = *req.Active
	}

	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": toClientResponse(client)})
}

func (h HandlerSet) GetClient(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": toClientResponse(client)})
}

func (h HandlerSet) UpdateClient(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client.Name = req.Name
	client.CNPJ = req.CNPJ
	client.ContactPerson = req.ContactPerson
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	if req.Active != nil {
		client.Active = *req.Active
	}

	if err := h.clients.Update(c.Request.Context(), client); err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": toClientResponse(client)})
}

func (h HandlerSet) DeleteClient(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// MyClient gives cliente callers their own client record; the admin screens
// use the full clients group instead.
func (h HandlerSet) MyClient(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	if authz.CanSeeAllClients(profile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin profiles have no client of their own"})
		return
	}
	if profile.ClientID == nil || *profile.ClientID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no client assigned"})
		return
	}

	client, err := h.clients.GetByID(c.Request.Context(), *profile.ClientID)
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrClientNotFound, "client not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": toClientResponse(client)})
}
