package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommand_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", dbPath)

	cmd := rootCmd()
	cmd.SetArgs([]string{"migrate", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('stock_metadata','stock_movers','insider_transactions')`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestMigrateCommand_InvalidConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	cmd := rootCmd()
	cmd.SetArgs([]string{"migrate", "--config", ""})
	assert.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"version"})
	assert.NoError(t, cmd.Execute())
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger("debug"))
	assert.NotNil(t, newLogger("nope"))
}

func TestStopTracing_LogsShutdownError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	stopTracing(logger, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("exporter cerrado")
	})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "exporter cerrado")

	buf.Reset()
	stopTracing(logger, func(context.Context) error { return nil })
	assert.Empty(t, buf.String())
}
