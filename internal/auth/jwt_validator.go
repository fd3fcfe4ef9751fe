package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ScopeClaim carries the space separated permissions of an employee token.
const ScopeClaim = "scope"

// ScopeModuleAdmin allows configuring, installing and uninstalling payment modules.
const ScopeModuleAdmin = "modules:admin"

var errMissingScope = errors.New("auth: token lacks required scope")

// TokenValidator checks the claims of a parsed employee token.
type TokenValidator struct {
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
	// Scope, when set, must appear in the token's scope claim.
	Scope string
}

// Validate checks algorithm, issuer, audience, validity window, subject, jti and scope.
func (v TokenValidator) Validate(tok jwt.Token, algorithm jwa.SignatureAlgorithm, now time.Time) error {
	if tok == nil {
		return errors.New("auth: token is nil")
	}
	switch {
	case algorithm == "":
		return errors.New("auth: token missing algorithm")
	case v.Algorithm != "" && algorithm != v.Algorithm:
		return fmt.Errorf("auth: unexpected token algorithm %s", algorithm)
	}

	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(max(v.ClockSkew, 0)),
		jwt.WithRequiredClaim(jwt.SubjectKey),
		jwt.WithRequiredClaim(jwt.JwtIDKey),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.Audience))
	}
	if v.Scope != "" {
		opts = append(opts, jwt.WithValidator(scopeValidator(v.Scope)))
	}
	return jwt.Validate(tok, opts...)
}

func scopeValidator(want string) jwt.Validator {
	return jwt.ValidatorFunc(func(_ context.Context, tok jwt.Token) jwt.ValidationError {
		raw, _ := tok.Get(ScopeClaim)
		scope, _ := raw.(string)
		if !slices.Contains(strings.Fields(scope), want) {
			return jwt.NewValidationError(fmt.Errorf("%w: %q", errMissingScope, want))
		}
		return nil
	})
}
