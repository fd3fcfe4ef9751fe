package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/common"
)

// Middleware guards the back-office module routes.
type Middleware struct {
	Service *Service
	// AccessCookie optionally names a cookie carrying the token for browser sessions.
	AccessCookie string
}

// RequireAuth rejects requests without a valid employee token and places the
// employee id on the context otherwise.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			common.JSONError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "authentication is not configured", nil)
			return
		}
		token := m.extractToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		employeeID, err := m.Service.ParseAccessToken(token)
		if err != nil {
			var appErr *common.AppError
			if !errors.As(err, &appErr) {
				appErr = common.NewAppError("UNAUTHORIZED", "missing or invalid token", http.StatusUnauthorized, err)
			}
			common.WriteError(w, appErr)
			return
		}
		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("employee.id", employeeID))
		next.ServeHTTP(w, r.WithContext(common.WithEmployeeID(r.Context(), employeeID)))
	})
}

func (m Middleware) extractToken(r *http.Request) string {
	if scheme, value, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(value)
	}
	if m.AccessCookie == "" {
		return ""
	}
	if cookie, err := r.Cookie(m.AccessCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
