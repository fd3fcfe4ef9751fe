package confstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

// DB is the subset of pgxpool.Pool used by Postgres.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Postgres persists configuration in the configuration and configuration_lang tables.
type Postgres struct {
	DB DB
}

const (
	selectValue = `SELECT value FROM configuration WHERE shop_id = $1 AND name = $2`
	selectLang  = `SELECT value FROM configuration_lang WHERE shop_id = $1 AND name = $2 AND lang_id = $3`
	upsertValue = `INSERT INTO configuration (shop_id, name, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (shop_id, name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	upsertLang = `INSERT INTO configuration_lang (shop_id, name, lang_id, value, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (shop_id, name, lang_id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteValue = `DELETE FROM configuration WHERE shop_id = $1 AND name = $2`
	deleteLang  = `DELETE FROM configuration_lang WHERE shop_id = $1 AND name = $2`
)

func (p Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value *string
	err := p.DB.QueryRow(ctx, selectValue, shop.ID(ctx), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("confstore: get %s: %w", key, err)
	}
	if value == nil {
		return "", true, nil
	}
	return *value, true, nil
}

func (p Postgres) GetLang(ctx context.Context, key string, languageID int64) (string, bool, error) {
	var value *string
	err := p.DB.QueryRow(ctx, selectLang, shop.ID(ctx), key, languageID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("confstore: get %s[%d]: %w", key, languageID, err)
	}
	if value == nil {
		return "", true, nil
	}
	return *value, true, nil
}

func (p Postgres) Set(ctx context.Context, key, value string) error {
	if _, err := p.DB.Exec(ctx, upsertValue, shop.ID(ctx), key, value); err != nil {
		return fmt.Errorf("confstore: set %s: %w", key, err)
	}
	return nil
}

func (p Postgres) SetLang(ctx context.Context, key string, values map[int64]string) error {
	if len(values) == 0 {
		return nil
	}
	shopID := shop.ID(ctx)
	batch := &pgx.Batch{}
	for id, v := range values {
		batch.Queue(upsertLang, shopID, key, id, v)
	}
	results := p.DB.SendBatch(ctx, batch)
	for range values {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("confstore: set %s: %w", key, err)
		}
	}
	return results.Close()
}

func (p Postgres) Delete(ctx context.Context, key string) error {
	shopID := shop.ID(ctx)
	if _, err := p.DB.Exec(ctx, deleteLang, shopID, key); err != nil {
		return fmt.Errorf("confstore: delete %s: %w", key, err)
	}
	if _, err := p.DB.Exec(ctx, deleteValue, shopID, key); err != nil {
		return fmt.Errorf("confstore: delete %s: %w", key, err)
	}
	return nil
}
