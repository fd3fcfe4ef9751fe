package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/db"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/transactpay"
)

// seeder fills the host tables (languages, currencies and the module's
// currency assignment) so the postgres backend can be exercised locally.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	if err := db.Migrate(dbURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	languages, err := host.ParseLanguages(envOr("HOST_LANGUAGES", "1:en:English"))
	if err != nil {
		logger.Fatal().Err(err).Msg("parse HOST_LANGUAGES")
	}
	currencies, err := host.ParseCurrencies(envOr("HOST_CURRENCIES", "1:EUR:Euro,2:USD:US Dollar"))
	if err != nil {
		logger.Fatal().Err(err).Msg("parse HOST_CURRENCIES")
	}
	assigned, err := host.ParseIDs(envOr("MODULE_CURRENCIES", "1,2"))
	if err != nil {
		logger.Fatal().Err(err).Msg("parse MODULE_CURRENCIES")
	}
	shopID := envOr("DEFAULT_SHOP_ID", "1")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer conn.Close(context.Background())

	batch := seedBatch(shopID, languages, currencies, assigned)
	if err := conn.SendBatch(ctx, batch).Close(); err != nil {
		logger.Fatal().Err(err).Msg("seed host tables")
	}
	logger.Info().
		Int("languages", len(languages)).
		Int("currencies", len(currencies)).
		Int("module_currencies", len(assigned)).
		Str("shop_id", shopID).
		Msg("seeding completed")
}

func seedBatch(shopID string, languages []host.Language, currencies []host.Currency, assigned []int64) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, l := range languages {
		batch.Queue(`INSERT INTO lang (id, iso_code, name) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET iso_code = EXCLUDED.iso_code, name = EXCLUDED.name`,
			l.ID, l.ISOCode, l.Name)
	}
	for _, c := range currencies {
		batch.Queue(`INSERT INTO currency (id, iso_code, name) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET iso_code = EXCLUDED.iso_code, name = EXCLUDED.name`,
			c.ID, c.ISOCode, c.Name)
	}
	for _, id := range assigned {
		batch.Queue(`INSERT INTO module_currency (module, shop_id, currency_id) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`, transactpay.ModuleName, shopID, id)
	}
	return batch
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
