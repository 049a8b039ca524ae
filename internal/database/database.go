package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Nombres con los que cada driver se registra en database/sql
const (
	postgresDriverName = "postgres"
	sqliteDriverName   = "sqlite3"
)

// DSN arma la cadena de conexión para el driver configurado
func DSN(cfg config.Database) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		), nil
	case config.DriverSQLite:
		return cfg.Path, nil
	default:
		return "", fmt.Errorf("driver de base de datos desconocido: %q", cfg.Driver)
	}
}

// Open abre el pool de conexiones y verifica que el store responda
func Open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	driverName := postgresDriverName
	if cfg.Driver == config.DriverSQLite {
		driverName = sqliteDriverName
		// Crear el directorio de la base si no existe
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("crear directorio de la base: %w", err)
			}
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping a la base de datos: %w", err)
	}

	return db, nil
}
