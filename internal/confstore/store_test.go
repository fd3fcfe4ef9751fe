package confstore_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

func backends(t *testing.T) map[string]confstore.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]confstore.Store{
		"memory": confstore.NewMemory(),
		"redis":  confstore.NewRedis(client, ""),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.Get(ctx, "BANK_WIRE_OWNER")
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, store.Set(ctx, "BANK_WIRE_OWNER", "ACME Ltd"))
			value, found, err := store.Get(ctx, "BANK_WIRE_OWNER")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "ACME Ltd", value)

			require.NoError(t, store.SetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", map[int64]string{1: "hello", 2: "bonjour"}))
			require.NoError(t, store.SetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", map[int64]string{2: "salut"}))
			text, found, err := store.GetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", 1)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "hello", text)
			text, _, err = store.GetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", 2)
			require.NoError(t, err)
			require.Equal(t, "salut", text)
			_, found, err = store.GetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", 3)
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, store.Delete(ctx, "BANK_WIRE_CUSTOM_TEXT"))
			_, found, err = store.GetLang(ctx, "BANK_WIRE_CUSTOM_TEXT", 1)
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, store.Delete(ctx, "NEVER_WRITTEN"))
		})
	}
}

func TestStoreScopesByShop(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			mainShop := shop.WithShop(context.Background(), "main")
			outlet := shop.WithShop(context.Background(), "outlet")

			require.NoError(t, confstore.SetBool(mainShop, store, "TRANSACTPAY", true))
			on, found, err := confstore.GetBool(mainShop, store, "TRANSACTPAY")
			require.NoError(t, err)
			require.True(t, found)
			require.True(t, on)

			_, found, err = confstore.GetBool(outlet, store, "TRANSACTPAY")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestGetInt(t *testing.T) {
	ctx := context.Background()
	store := confstore.NewMemory()

	_, found, err := confstore.GetInt(ctx, store, "BANK_WIRE_RESERVATION_DAYS")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Set(ctx, "BANK_WIRE_RESERVATION_DAYS", "0"))
	days, found, err := confstore.GetInt(ctx, store, "BANK_WIRE_RESERVATION_DAYS")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 0, days)

	require.NoError(t, store.Set(ctx, "BANK_WIRE_RESERVATION_DAYS", "abc"))
	days, found, err = confstore.GetInt(ctx, store, "BANK_WIRE_RESERVATION_DAYS")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 0, days)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "ON", " yes "} {
		require.True(t, confstore.ParseBool(v), v)
	}
	for _, v := range []string{"", "0", "false", "off", "nope"} {
		require.False(t, confstore.ParseBool(v), v)
	}
}
