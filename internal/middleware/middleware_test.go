package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/story-registrar/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestI18nMiddlewareNegotiatesLanguage(t *testing.T) {
	require.NoError(t, i18n.Initialize("en"))

	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("lang")) })

	tests := []struct {
		header string
		query  string
		want   string
	}{
		{"", "", "en"},
		{"id-ID,id;q=0.9,en;q=0.8", "", "id"},
		{"fr-FR,fr;q=0.9,id;q=0.5", "", "id"},
		{"fr-FR", "", "en"},
		{"en-US", "id", "id"},
		{"id", "xx", "id"},
	}

	for _, tt := range tests {
		target := "/"
		if tt.query != "" {
			target += "?lang=" + tt.query
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Accept-Language", tt.header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Body.String(), "header=%q query=%q", tt.header, tt.query)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	defer limiter.Stop()

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAuditLogMiddlewareWithoutDatabase(t *testing.T) {
	r := gin.New()
	r.Use(AuditLogMiddleware(nil))
	r.POST("/v1/story/register", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/story/register", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExtractResourceType(t *testing.T) {
	assert.Equal(t, "register", extractResourceType("/v1/story/register"))
	assert.Equal(t, "create-collection", extractResourceType("/api/story/create-collection"))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Equal(t, "unknown", extractResourceType("/"))
}
