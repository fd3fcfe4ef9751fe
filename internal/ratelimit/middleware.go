package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/common"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

// Handler throttles requests by Key. Limiter failures are reported to OnError and the request goes through.
type Handler struct {
	Limiter Limiter
	Key     func(*http.Request) string
	Rate    Rate
	OnError func(error)
}

func (h Handler) Middleware(next http.Handler) http.Handler {
	if h.Limiter == nil || h.Key == nil || h.Rate.unlimited() {
		return next
	}
	limit := strconv.Itoa(h.Rate.Max)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := h.Limiter.Allow(r.Context(), h.Key(r), h.Rate)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", limit)
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))
		if !res.Allowed {
			retryAfter := max(int(time.Until(res.Reset).Seconds()), 0)
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientKey keys requests by shop and client IP.
func ClientKey(r *http.Request) string {
	return shop.PrefixKey(shop.ID(r.Context()), common.ClientIP(r))
}
