package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_Postgres(t *testing.T) {
	dsn, err := DSN(config.Database{
		Driver:   config.DriverPostgres,
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "secret",
		Name:     "insider_trades",
		SSLMode:  "require",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=db.internal port=5433 user=reader password=secret dbname=insider_trades sslmode=require", dsn)
}

func TestDSN_Unknown(t *testing.T) {
	_, err := DSN(config.Database{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Database{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "nested", "market.db"),
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}

	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db, config.DriverSQLite))
	// Las migraciones se pueden repetir
	require.NoError(t, RunMigrations(ctx, db, config.DriverSQLite))

	for _, table := range []string{"stock_metadata", "stock_movers", "insider_transactions"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	assert.Error(t, RunMigrations(context.Background(), nil, "oracle"))
}
