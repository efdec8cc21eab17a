// internal/handlers/license.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/story-registrar/internal/i18n"
	"github.com/javajoker/story-registrar/internal/services"
	"github.com/javajoker/story-registrar/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// GET /v1/story/presets
func (h *LicenseHandler) GetPresets(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"presets": h.licenseService.Presets(),
	})
}

// GET /v1/story/presets/:flavor
func (h *LicenseHandler) GetPreset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	name := c.Param("flavor")

	flavor, terms, err := h.licenseService.ResolveFlavorName(name)
	if err != nil {
		if services.IsUnknownFlavor(err) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyLicenseUnknownFlavor, name))
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, services.LicensePreset{
		Flavor:      flavor,
		Description: services.PresetDescription(flavor),
		Terms:       terms,
	})
}
