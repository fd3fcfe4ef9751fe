// Package confstore provides the persisted key/value configuration the module reads and writes.
// Values are plain strings; language-keyed values are stored per language id. Every backend
// scopes keys by the shop found on the request context.
package confstore

import (
	"context"
	"strconv"
	"strings"
)

// Store is the host configuration store.
type Store interface {
	// Get returns the value for key. found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// GetLang returns the value for key in the given language.
	GetLang(ctx context.Context, key string, languageID int64) (value string, found bool, err error)
	// Set writes a plain value.
	Set(ctx context.Context, key, value string) error
	// SetLang writes the given language entries; languages absent from values are left untouched.
	SetLang(ctx context.Context, key string, values map[int64]string) error
	// Delete removes key together with all of its language entries.
	Delete(ctx context.Context, key string) error
}

// SetBool writes a boolean flag as "1" or "0".
func SetBool(ctx context.Context, s Store, key string, value bool) error {
	if value {
		return s.Set(ctx, key, "1")
	}
	return s.Set(ctx, key, "0")
}

// GetBool reads a boolean flag. Missing keys report found=false and value false.
func GetBool(ctx context.Context, s Store, key string) (value bool, found bool, err error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, found, err
	}
	return ParseBool(raw), true, nil
}

// GetInt reads an integer value. Non-numeric stored values read as 0.
func GetInt(ctx context.Context, s Store, key string) (value int, found bool, err error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return 0, found, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil {
		return 0, true, nil
	}
	return n, true, nil
}

// ParseBool interprets the loose boolean spellings accepted from forms and stored flags.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
