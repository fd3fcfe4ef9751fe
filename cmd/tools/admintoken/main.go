package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/auth"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/config"
)

// admintoken mints a back-office bearer token for the admin module routes.
func main() {
	employee := flag.String("employee", "1", "employee id placed in the token subject")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	svc, err := auth.NewService(auth.Config{
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.AdminTokenTTL,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	token, err := svc.IssueToken(*employee)
	if err != nil {
		logger.Fatal().Err(err).Msg("issue token")
	}
	logger.Info().Str("jti", token.ID).Time("expires_at", token.ExpiresAt).Msg("token issued")
	fmt.Println(token.Value)
}
