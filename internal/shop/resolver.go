package shop

import (
	"net/http"
	"strings"
)

// Resolver resolves the shop a request belongs to from a header, falling back to a default shop.
type Resolver struct {
	HeaderName  string
	DefaultShop string
}

// NewResolver returns a resolver reading the given header ("X-Shop-ID" when empty).
func NewResolver(headerName, defaultShop string) *Resolver {
	if strings.TrimSpace(headerName) == "" {
		headerName = "X-Shop-ID"
	}
	return &Resolver{
		HeaderName:  headerName,
		DefaultShop: strings.TrimSpace(defaultShop),
	}
}

// Middleware injects the resolved shop into the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if shopID := r.Resolve(req); shopID != "" {
			req = req.WithContext(WithShop(req.Context(), shopID))
		}
		next.ServeHTTP(w, req)
	})
}

// Resolve returns the shop identifier for the request.
func (r *Resolver) Resolve(req *http.Request) string {
	if r == nil || req == nil {
		return ""
	}
	if shopID := strings.TrimSpace(req.Header.Get(r.HeaderName)); shopID != "" {
		return shopID
	}
	return r.DefaultShop
}
