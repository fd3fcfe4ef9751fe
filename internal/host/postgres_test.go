package host

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

type boolRow struct{ value bool }

func (r boolRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.value
	return nil
}

type recordingDB struct {
	sql  []string
	args [][]any
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql = append(d.sql, sql)
	d.args = append(d.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql = append(d.sql, sql)
	d.args = append(d.args, args)
	return boolRow{value: true}
}

func TestPostgresModuleStateScopedByShop(t *testing.T) {
	db := &recordingDB{}
	p := Postgres{DB: db}
	ctx := shop.WithShop(context.Background(), "7")

	require.NoError(t, p.Install(ctx, "ps_transactpay"))
	require.NoError(t, p.RegisterHook(ctx, "ps_transactpay", "paymentOptions"))
	_, err := p.IsActive(ctx, "ps_transactpay")
	require.NoError(t, err)
	require.NoError(t, p.UnregisterHooks(ctx, "ps_transactpay"))
	require.NoError(t, p.Uninstall(ctx, "ps_transactpay"))

	require.Len(t, db.args, 5)
	for i, args := range db.args {
		require.Equal(t, "7", args[0], db.sql[i])
		require.Contains(t, db.sql[i], "shop_id")
	}
}
