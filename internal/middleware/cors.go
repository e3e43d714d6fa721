package middleware

import (
	"net/http"
	"strings"
	"time"

	"feedbackboard/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// WidgetPath is the public submission endpoint posted to by embedded
// widgets on customer sites.
const WidgetPath = "/api/feedback"

// CORSMiddleware applies the widget policy to the submission endpoint and
// the app policy everywhere else. It has to run globally: gin does not run
// group middleware for preflight requests of unmatched methods.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	widget := cors.New(WidgetCORSConfig(cfg))
	app := cors.New(AppCORSConfig(cfg))

	return func(c *gin.Context) {
		if c.Request.URL.Path == WidgetPath {
			widget(c)
			return
		}
		app(c)
	}
}

func WidgetCORSConfig(cfg *config.Config) cors.Config {
	conf := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowAll {
		conf.AllowAllOrigins = true
		return conf
	}

	patterns := cfg.WidgetOrigins()
	conf.AllowOriginFunc = func(origin string) bool {
		return MatchOrigin(origin, patterns)
	}
	conf.AllowCredentials = true
	return conf
}

func AppCORSConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.FrontendURLs,
		AllowMethods:     []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// MatchOrigin reports whether origin is allowed by one of patterns. A
// pattern is either an exact origin or a "*.domain" wildcard, optionally
// with a scheme ("https://*.acme.com"). Wildcards match subdomains only,
// not the bare domain.
func MatchOrigin(origin string, patterns []string) bool {
	origin = strings.ToLower(strings.TrimSuffix(origin, "/"))
	if origin == "" {
		return false
	}
	scheme, host := splitOrigin(origin)

	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(p), "/"))
		switch {
		case p == "":
			continue
		case p == origin:
			return true
		case strings.Contains(p, "*."):
			pScheme, pHost := splitOrigin(p)
			if pScheme != "" && pScheme != scheme {
				continue
			}
			suffix := strings.TrimPrefix(pHost, "*")
			if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
				return true
			}
		}
	}
	return false
}

func splitOrigin(s string) (scheme, host string) {
	if i := strings.Index(s, "://"); i >= 0 {
		return s[:i], s[i+3:]
	}
	return "", s
}
