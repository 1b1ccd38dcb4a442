package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/ids"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type companyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      *string   `json:"cnpj"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCompanyResponse(company models.Company) companyResponse {
	return companyResponse{
		ID:        company.ID,
		Name:      company.Name,
		CNPJ:      company.CNPJ,
		Status:    string(company.Status),
		CreatedAt: company.CreatedAt,
	}
}

func (h HandlerSet) ListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]companyResponse, 0, len(companies))
	for _, company := range companies {
		resp = append(resp, toCompanyResponse(company))
	}
	c.JSON(http.StatusOK, gin.H{"companies": resp})
}

type companyRequest struct {
	Name   string  `json:"name" binding:"required"`
	CNPJ   *string `json:"cnpj"`
	Status string  `json:"status" binding:"omitempty,oneof=ativo inativo"`
}

func (h HandlerSet) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.CompanyStatusActive
	if req.Status != "" {
		status = models.CompanyStatus(req.Status)
	}

	company := models.Company{
		ID:     ids.New(),
		Name:   req.Name,
		CNPJ:   req.CNPJ,
		Status: status,
	}

	if err := h.companies.Create(c.Request.Context(), company); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"company": toCompanyResponse(company)})
}

// UpdateCompany also covers deactivation. Sessions of a deactivated company's
// members are revoked lazily: the guard re-checks the company on every
// request and forces them out on the next one.
func (h HandlerSet) UpdateCompany(c *gin.Context) {
	company, err := h.companies.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotFoundOr500(c, err, repository.ErrCompanyNotFound, "company not found")
		return
	}

	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company.Name = req.Name
	company.CNPJ = req.CNPJ
	if req.Status != "" {
		company.Status = models.CompanyStatus(req.Status)
	}

	if err := h.companies.Update(c.Request.Context(), company); err != nil {
		respondNotFoundOr500(c, err, repository.ErrCompanyNotFound, "company not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": toCompanyResponse(company)})
}
