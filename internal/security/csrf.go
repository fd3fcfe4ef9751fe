package security

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/common"
)

// CSRF protects cookie-authenticated admin posts with a double-submit token: the
// value of CookieName must be echoed in the Header or, for the HTML configuration
// form, in FormField. Bearer-authenticated requests are exempt.
type CSRF struct {
	CookieName string
	Header     string
	FormField  string
}

func (c CSRF) Middleware(next http.Handler) http.Handler {
	cookieName := valueOr(c.CookieName, "csrf_token")
	header := valueOr(c.Header, "X-CSRF-Token")
	field := valueOr(c.FormField, "csrf_token")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}
		if scheme, _, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " "); ok && strings.EqualFold(scheme, "bearer") {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(cookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			forbidden(w, "missing csrf cookie")
			return
		}
		token := strings.TrimSpace(r.Header.Get(header))
		if token == "" {
			token = strings.TrimSpace(r.PostFormValue(field))
		}
		if token == "" {
			forbidden(w, "missing csrf token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(cookie.Value)) != 1 {
			forbidden(w, "invalid csrf token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func forbidden(w http.ResponseWriter, message string) {
	common.JSONError(w, http.StatusForbidden, "CSRF_REJECTED", message, nil)
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
