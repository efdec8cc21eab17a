// internal/router/router.go
package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/handlers"
	"github.com/javajoker/story-registrar/internal/i18n"
	"github.com/javajoker/story-registrar/internal/middleware"
	"github.com/javajoker/story-registrar/internal/services"
	"github.com/javajoker/story-registrar/internal/utils"
	"github.com/javajoker/story-registrar/internal/web"
)

const Version = "1.0.0"

// Dependencies are the collaborators the router wires into handlers. Only DB may be nil.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Registrar services.Registrar
	Limiters  *middleware.RateLimiters
}

// ErrMissingDependency is returned when a required collaborator is nil. Limiters are
// owned by the caller, which must Stop them on shutdown.
var ErrMissingDependency = errors.New("router: missing dependency")

func Initialize(deps Dependencies) (*gin.Engine, error) {
	switch {
	case deps.Config == nil:
		return nil, fmt.Errorf("%w: config", ErrMissingDependency)
	case deps.Registrar == nil:
		return nil, fmt.Errorf("%w: registrar", ErrMissingDependency)
	case deps.Limiters == nil:
		return nil, fmt.Errorf("%w: rate limiters", ErrMissingDependency)
	}
	cfg := deps.Config

	// Initialize services
	var store services.RegistrationStore
	if deps.DB != nil {
		store = services.NewGormRegistrationStore(deps.DB)
	}
	licenseService := services.NewLicenseService(cfg.Story)
	metadataService := services.NewMetadataService(cfg.Metadata)
	registrationService := services.NewRegistrationService(cfg.Story, licenseService, metadataService, deps.Registrar, store)

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(registrationService, licenseService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	storyHandler := handlers.NewStoryHandler(registrationService)

	limiters := deps.Limiters

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.SetHTMLTemplate(templates)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(limiters.General.Middleware())
	r.Use(middleware.AuditLogMiddleware(deps.DB))

	r.GET("/", homeHandler.Index)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  Version,
			"chain_id": cfg.Story.ChainID,
			"ledger":   deps.DB != nil,
			"message":  i18n.T(utils.GetLangFromContext(c), i18n.KeySystemHealthy),
		})
	})

	writes := limiters.Writes.Middleware()

	// API v1 routes
	v1 := r.Group("/v1")
	{
		story := v1.Group("/story")
		{
			story.GET("/config", storyHandler.GetConfig)
			story.GET("/presets", licenseHandler.GetPresets)
			story.GET("/presets/:flavor", licenseHandler.GetPreset)
			story.POST("/metadata/preview", storyHandler.PreviewMetadata)
			story.GET("/registrations", storyHandler.GetRegistrations)

			story.POST("/register", writes, storyHandler.Register)
			story.POST("/collections", writes, storyHandler.CreateCollection)
		}
	}

	// Flat-response aliases kept for existing /api/story clients
	legacy := r.Group("/api/story")
	legacy.Use(writes)
	{
		legacy.POST("/register", storyHandler.LegacyRegister)
		legacy.POST("/create-collection", storyHandler.LegacyCreateCollection)
	}

	return r, nil
}
