// internal/handlers/home.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/services"
	"github.com/javajoker/story-registrar/internal/utils"
)

type HomeHandler struct {
	registrationService *services.RegistrationService
	licenseService      *services.LicenseService
}

func NewHomeHandler(registrationService *services.RegistrationService, licenseService *services.LicenseService) *HomeHandler {
	return &HomeHandler{
		registrationService: registrationService,
		licenseService:      licenseService,
	}
}

// GET /
func (h *HomeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Lang":               utils.GetLangFromContext(c),
		"Settings":           h.registrationService.Settings(),
		"Presets":            h.licenseService.Presets(),
		"DefaultTitle":       models.DefaultIPTitle,
		"DefaultDescription": models.DefaultIPDescription,
		"DefaultImage":       models.DefaultIPImage,
	})
}
