package host

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
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads host registries from the platform tables.
type Postgres struct {
	DB DB
}

func (p Postgres) SupportedCurrencies(ctx context.Context, module string) ([]int64, error) {
	rows, err := p.DB.Query(ctx, `SELECT currency_id FROM module_currency
WHERE module = $1 AND shop_id = $2 ORDER BY currency_id`, module, shop.ID(ctx))
	if err != nil {
		return nil, fmt.Errorf("host: supported currencies: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("host: supported currencies: %w", err)
	}
	return ids, nil
}

func (p Postgres) CheckPaymentCurrencies(ctx context.Context, module string) ([]Currency, error) {
	rows, err := p.DB.Query(ctx, `SELECT c.id, c.iso_code, c.name FROM currency c
JOIN module_currency mc ON mc.currency_id = c.id
WHERE mc.module = $1 AND mc.shop_id = $2 AND c.active
ORDER BY c.id`, module, shop.ID(ctx))
	if err != nil {
		return nil, fmt.Errorf("host: payment currencies: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanCurrency)
	if err != nil {
		return nil, fmt.Errorf("host: payment currencies: %w", err)
	}
	return out, nil
}

func (p Postgres) Currency(ctx context.Context, id int64) (Currency, error) {
	var c Currency
	err := p.DB.QueryRow(ctx, `SELECT id, iso_code, name FROM currency WHERE id = $1`, id).
		Scan(&c.ID, &c.ISOCode, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Currency{}, ErrCurrencyNotFound
	}
	if err != nil {
		return Currency{}, fmt.Errorf("host: currency %d: %w", id, err)
	}
	return c, nil
}

func (p Postgres) Languages(ctx context.Context) ([]Language, error) {
	rows, err := p.DB.Query(ctx, `SELECT id, iso_code, name FROM lang ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("host: languages: %w", err)
	}
	langs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Language, error) {
		var l Language
		err := row.Scan(&l.ID, &l.ISOCode, &l.Name)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("host: languages: %w", err)
	}
	return langs, nil
}

func (p Postgres) RegisterHook(ctx context.Context, module, hook string) error {
	_, err := p.DB.Exec(ctx, `INSERT INTO hook_module (shop_id, module, hook) VALUES ($1, $2, $3)
ON CONFLICT (shop_id, module, hook) DO NOTHING`, shop.ID(ctx), module, hook)
	if err != nil {
		return fmt.Errorf("host: register hook %s: %w", hook, err)
	}
	return nil
}

func (p Postgres) UnregisterHooks(ctx context.Context, module string) error {
	if _, err := p.DB.Exec(ctx, `DELETE FROM hook_module WHERE shop_id = $1 AND module = $2`, shop.ID(ctx), module); err != nil {
		return fmt.Errorf("host: unregister hooks: %w", err)
	}
	return nil
}

func (p Postgres) Hooks(ctx context.Context, module string) ([]string, error) {
	rows, err := p.DB.Query(ctx, `SELECT hook FROM hook_module WHERE shop_id = $1 AND module = $2 ORDER BY hook`, shop.ID(ctx), module)
	if err != nil {
		return nil, fmt.Errorf("host: hooks: %w", err)
	}
	hooks, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("host: hooks: %w", err)
	}
	return hooks, nil
}

func (p Postgres) Install(ctx context.Context, module string) error {
	_, err := p.DB.Exec(ctx, `INSERT INTO module (shop_id, name, active, installed_at) VALUES ($1, $2, true, now())
ON CONFLICT (shop_id, name) DO UPDATE SET active = true, installed_at = now()`, shop.ID(ctx), module)
	if err != nil {
		return fmt.Errorf("host: install %s: %w", module, err)
	}
	return nil
}

func (p Postgres) Uninstall(ctx context.Context, module string) error {
	if _, err := p.DB.Exec(ctx, `DELETE FROM module WHERE shop_id = $1 AND name = $2`, shop.ID(ctx), module); err != nil {
		return fmt.Errorf("host: uninstall %s: %w", module, err)
	}
	return nil
}

func (p Postgres) IsActive(ctx context.Context, module string) (bool, error) {
	var active bool
	err := p.DB.QueryRow(ctx, `SELECT active FROM module WHERE shop_id = $1 AND name = $2`, shop.ID(ctx), module).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("host: module %s: %w", module, err)
	}
	return active, nil
}

func scanCurrency(row pgx.CollectableRow) (Currency, error) {
	var c Currency
	err := row.Scan(&c.ID, &c.ISOCode, &c.Name)
	return c, err
}
