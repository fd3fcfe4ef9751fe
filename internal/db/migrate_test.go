package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	require.Equal(t, "pgx5://u:p@localhost:5432/shop", MigrateURL("postgres://u:p@localhost:5432/shop"))
	require.Equal(t, "pgx5://localhost/shop", MigrateURL("postgresql://localhost/shop"))
	require.Equal(t, "pgx5://localhost/shop", MigrateURL("pgx5://localhost/shop"))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
}

func TestShopScopedModulesMigrationEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrations, "migrations/000002_shop_scoped_modules.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "PRIMARY KEY (shop_id, name)")
	require.Contains(t, string(up), "PRIMARY KEY (shop_id, module, hook)")

	_, err = fs.ReadFile(migrations, "migrations/000002_shop_scoped_modules.down.sql")
	require.NoError(t, err)
}
