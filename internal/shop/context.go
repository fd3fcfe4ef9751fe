package shop

import (
	"context"
	"strings"
)

type contextKey string

const shopContextKey contextKey = "shop.id"

// WithShop stores the shop identifier inside the context.
func WithShop(ctx context.Context, shopID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, shopContextKey, strings.TrimSpace(shopID))
}

// FromContext extracts the shop identifier from the context if available.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	shopID, ok := ctx.Value(shopContextKey).(string)
	if !ok || shopID == "" {
		return "", false
	}
	return shopID, true
}

// ID returns the shop identifier on the context or "" for the global scope.
func ID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id
}

// PrefixKey namespaces a configuration or cache key per shop.
func PrefixKey(shopID, key string) string {
	if shopID == "" {
		return key
	}
	return shopID + ":" + key
}
