package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/i18n"
	"github.com/javajoker/story-registrar/internal/middleware"
	"github.com/javajoker/story-registrar/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Story: config.StoryConfig{
			ChainID:              config.DefaultChainID,
			ExplorerURL:          "https://mainnet.storyscan.xyz",
			ExistingNFTTokenID:   "1",
			RoyaltyPolicy:        config.DefaultRoyaltyPolicy,
			Currency:             config.DefaultCurrency,
			CommercialMintingFee: "0",
			SignatureDeadline:    time.Minute,
		},
		Metadata:  config.MetadataConfig{LocatorMode: config.LocatorModePlaceholder, PlaceholderURI: "ipfs://todo"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100, WritesPerMinute: 100},
		I18n:      config.I18nConfig{DefaultLocale: "en"},
	}
}

func TestInitializeRequiresCallerOwnedDependencies(t *testing.T) {
	cfg := testConfig()
	limiters := middleware.NewRateLimiters(cfg.RateLimit)
	defer limiters.Stop()
	registrar := services.NewSimulatedRegistrar(cfg.Story.ChainID)

	cases := map[string]Dependencies{
		"config":        {Registrar: registrar, Limiters: limiters},
		"registrar":     {Config: cfg, Limiters: limiters},
		"rate limiters": {Config: cfg, Registrar: registrar},
	}
	for name, deps := range cases {
		r, err := Initialize(deps)
		assert.ErrorIs(t, err, ErrMissingDependency, name)
		assert.Contains(t, err.Error(), name)
		assert.Nil(t, r)
	}
}

func TestInitializeWithoutLedger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	cfg := testConfig()
	limiters := middleware.NewRateLimiters(cfg.RateLimit)
	defer limiters.Stop()

	r, err := Initialize(Dependencies{
		Config:    cfg,
		Registrar: services.NewSimulatedRegistrar(cfg.Story.ChainID),
		Limiters:  limiters,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ledger":false`)
}
