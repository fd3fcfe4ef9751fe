package security

import (
	"net/http"
	"strconv"
	"strings"
)

// Headers configures common security headers for HTTP responses.
type Headers struct {
	Enable                bool
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	// ContentSecurityPolicy is sent verbatim when set.
	ContentSecurityPolicy string
	// FrameOptions defaults to SAMEORIGIN so the back office can frame the configuration page.
	FrameOptions string
}

// Middleware attaches standard security headers to each response.
func (h Headers) Middleware(next http.Handler) http.Handler {
	frame := strings.ToUpper(strings.TrimSpace(h.FrameOptions))
	if frame == "" {
		frame = "SAMEORIGIN"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Enable {
			next.ServeHTTP(w, r)
			return
		}
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", frame)
		headers.Set("Referrer-Policy", "same-origin")
		headers.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if csp := strings.TrimSpace(h.ContentSecurityPolicy); csp != "" {
			headers.Set("Content-Security-Policy", csp)
		}
		if h.EnableHSTS && r.TLS != nil {
			maxAge := h.HSTSMaxAge
			if maxAge <= 0 {
				maxAge = 31536000
			}
			value := "max-age=" + strconv.Itoa(maxAge)
			if h.HSTSIncludeSubdomains {
				value += "; includeSubDomains"
			}
			headers.Set("Strict-Transport-Security", value)
		}
		next.ServeHTTP(w, r)
	})
}
