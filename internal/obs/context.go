package obs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

type routePatternKey struct{}

// WithRoutePattern pins the route label for a request, overriding the chi pattern.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext returns the pinned route label, if any.
func RoutePatternFromContext(ctx context.Context) string {
	v, _ := ctx.Value(routePatternKey{}).(string)
	return v
}

// routeLabel resolves the route used in metrics, spans and logs. chi fills the
// pattern while routing, so it is only complete once the handler has returned.
func routeLabel(r *http.Request, fallback string) string {
	if route := RoutePatternFromContext(r.Context()); route != "" {
		return route
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if route := rc.RoutePattern(); route != "" {
			return route
		}
	}
	return fallback
}

// shopLabel names the shop scope of a request; the global scope is reported as "global".
func shopLabel(ctx context.Context) string {
	if id := shop.ID(ctx); id != "" {
		return id
	}
	return "global"
}
