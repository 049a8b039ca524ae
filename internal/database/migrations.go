package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
)

// En producción las tablas las crea y llena el ETL. Estas migraciones sirven para
// levantar un store local (sqlite o postgres vacío) con el mismo esquema.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS stock_metadata (
		id SERIAL PRIMARY KEY,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movers (
		id SERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		price DOUBLE PRECISION,
		change_amount DOUBLE PRECISION,
		change_percentage DOUBLE PRECISION,
		volume BIGINT,
		category TEXT,
		last_updated TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movers_last_updated ON stock_movers(last_updated)`,
	`CREATE TABLE IF NOT EXISTS insider_transactions (
		id SERIAL PRIMARY KEY,
		executive TEXT,
		title TEXT,
		type TEXT,
		symbol TEXT,
		shares DOUBLE PRECISION,
		"transaction" TEXT,
		date DATE,
		price DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insider_transactions_date ON insider_transactions(date)`,
}

// En sqlite las fechas se guardan como TEXT para devolverlas tal cual se escribieron
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS stock_metadata (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		last_updated TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		price REAL,
		change_amount REAL,
		change_percentage REAL,
		volume INTEGER,
		category TEXT,
		last_updated TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movers_last_updated ON stock_movers(last_updated)`,
	`CREATE TABLE IF NOT EXISTS insider_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		executive TEXT,
		title TEXT,
		type TEXT,
		symbol TEXT,
		shares REAL,
		"transaction" TEXT,
		date TEXT,
		price REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insider_transactions_date ON insider_transactions(date)`,
}

// RunMigrations crea las tablas que lee la API si todavía no existen
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	slog.Info("Ejecutando migraciones de la base de datos...", "driver", driver)

	var stmts []string
	switch driver {
	case config.DriverPostgres:
		stmts = postgresSchema
	case config.DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("driver de base de datos desconocido: %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migración %q: %w", firstLine(stmt), err)
		}
	}

	slog.Info("Migraciones aplicadas", "statements", len(stmts))
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
