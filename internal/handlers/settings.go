package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"firetrack/api/internal/ids"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
)

type settingsResponse struct {
	CompanyName  *string `json:"companyName"`
	LogoURL      *string `json:"logoUrl"`
	PrimaryColor *string `json:"primaryColor"`
}

func toSettingsResponse(settings models.Settings) settingsResponse {
	return settingsResponse{
		CompanyName:  settings.CompanyName,
		LogoURL:      settings.LogoURL,
		PrimaryColor: settings.PrimaryColor,
	}
}

func (h HandlerSet) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(settings)})
}

type settingsRequest struct {
	CompanyName  *string `json:"companyName"`
	PrimaryColor *string `json:"primaryColor"`
}

func (h HandlerSet) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settings.Upsert(c.Request.Context(), repository.SettingsUpdate{
		CompanyName:  req.CompanyName,
		PrimaryColor: req.PrimaryColor,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(settings)})
}

var logoContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// UploadLogo stores the branding logo in object storage and records its
// presigned URL in the settings row.
func (h HandlerSet) UploadLogo(c *gin.Context) {
	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo_required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !logoContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported logo content type"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := "branding/logo-" + ids.New() + ext

	url, err := h.store.PutLogo(c.Request.Context(), key, file, header.Size, contentType)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("logo upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	settings, err := h.settings.Upsert(c.Request.Context(), repository.SettingsUpdate{LogoURL: &url})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(settings)})
}

// Branding is public so the sign-in screen can show the configured name and
// logo before any session exists.
func (h HandlerSet) Branding(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}
