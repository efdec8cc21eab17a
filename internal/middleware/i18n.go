// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/story-registrar/internal/i18n"
)

// I18nMiddleware picks the first supported language from Accept-Language, or
// defaultLang. A ?lang= query parameter wins over the header.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return func(c *gin.Context) {
		lang := ""
		if q := normalizeLang(c.Query("lang")); q != "" && i18n.IsSupported(q) {
			lang = q
		}

		if lang == "" {
			// Handle cases like "id-ID,id;q=0.9,en;q=0.8"
			for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
				candidate := normalizeLang(strings.Split(part, ";")[0])
				if candidate != "" && i18n.IsSupported(candidate) {
					lang = candidate
					break
				}
			}
		}

		if lang == "" {
			lang = defaultLang
		}

		c.Set("lang", lang)
		c.Next()
	}
}

// normalizeLang reduces a tag like "en-US" or "id_ID" to its primary subtag.
func normalizeLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
