// internal/handlers/story.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/story-registrar/internal/i18n"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/services"
	"github.com/javajoker/story-registrar/internal/utils"
)

type StoryHandler struct {
	registrationService *services.RegistrationService
}

func NewStoryHandler(registrationService *services.RegistrationService) *StoryHandler {
	return &StoryHandler{
		registrationService: registrationService,
	}
}

type MetadataPreviewRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"omitempty,max=2048"`
}

// GET /v1/story/config
func (h *StoryHandler) GetConfig(c *gin.Context) {
	utils.SuccessResponse(c, h.registrationService.Settings())
}

// POST /v1/story/metadata/preview
func (h *StoryHandler) PreviewMetadata(c *gin.Context) {
	var req MetadataPreviewRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	pkg := h.registrationService.PreviewMetadata(models.IPDescriptor{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})

	utils.SuccessResponse(c, gin.H{
		"package":     pkg,
		"ipMetadata":  pkg.IPMetadata,
		"nftMetadata": pkg.NFTMetadata,
	})
}

// POST /v1/story/register
func (h *StoryHandler) Register(c *gin.Context) {
	var req services.RegisterIPRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(utils.GetLangFromContext(c), i18n.KeyRegistrationSuccess),
		"registration": result,
	})
}

// POST /v1/story/collections
func (h *StoryHandler) CreateCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.registrationService.CreateCollection(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(utils.GetLangFromContext(c), i18n.KeyCollectionCreated),
		"collection": result,
	})
}

// GET /v1/story/registrations
func (h *StoryHandler) GetRegistrations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.registrationService.ListRegistrations(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// bindOptionalJSON decodes and validates the body; an empty body leaves req zeroed.
// It writes the error response itself and reports whether the handler may go on.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		utils.ValidationErrorResponse(c, i18n.T(lang, i18n.KeyValidationRequestBody), []utils.ValidationError{
			{Field: "body", Tag: "json", Message: err.Error()},
		})
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req), lang); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, "", validationErrors)
		return false
	}

	return true
}

// respondServiceError maps the service error classes onto the envelope.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrMissingCollection):
		utils.ConfigurationErrorResponse(c, i18n.T(lang, i18n.KeyRegistrationMissingSPG))
	case errors.Is(err, services.ErrMissingNFTContract):
		utils.ConfigurationErrorResponse(c, i18n.T(lang, i18n.KeyRegistrationMissingNFT))
	case services.IsConfigurationError(err):
		utils.ConfigurationErrorResponse(c, err.Error())
	case errors.As(err, &validationErr):
		utils.ValidationErrorResponse(c, "", []utils.ValidationError{
			{Field: validationErr.Field, Tag: "invalid", Message: validationErr.Err.Error()},
		})
	case errors.Is(err, services.ErrLedgerDisabled):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyRegistrationLedgerOff))
	case services.IsCollaboratorError(err):
		utils.InternalErrorResponse(c, err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// legacyModeNames are the mode names the /api/story clients post and expect back.
var legacyModeNames = map[models.RegistrationMode]string{
	models.MintNew:     "spgMint",
	models.UseExisting: "existingNft",
}

// POST /api/story/register
func (h *StoryHandler) LegacyRegister(c *gin.Context) {
	var req services.RegisterIPRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !legacyValidate(c, &req) {
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		legacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"mode":            legacyModeNames[result.Mode],
		"txHash":          result.TxHash,
		"ipId":            result.IPID,
		"tokenId":         result.TokenID,
		"licenseTermsIds": result.LicenseTermsIDs,
	})
}

// POST /api/story/create-collection
func (h *StoryHandler) LegacyCreateCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	// Unreadable bodies fall back to the defaults.
	_ = c.ShouldBindJSON(&req)
	if !legacyValidate(c, &req) {
		return
	}

	result, err := h.registrationService.CreateCollection(c.Request.Context(), &req)
	if err != nil {
		legacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"spgNftContract": result.SPGNFTContract,
		"txHash":         result.TxHash,
	})
}

// legacyValidate applies the same struct rules as the /v1 routes and answers in the
// flat shape, joining the field messages into one error string.
func legacyValidate(c *gin.Context, req interface{}) bool {
	validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req), utils.GetLangFromContext(c))
	if len(validationErrors) == 0 {
		return true
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Message)
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": strings.Join(messages, "; ")})
	return false
}

func legacyError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if services.IsConfigurationError(err) || services.IsValidationError(err) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
