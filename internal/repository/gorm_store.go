package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	"github.com/AgusMolinaCode/Insider_Api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore arma las mismas consultas con el query builder de gorm, sobre el mismo pool
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *sql.DB, driverName string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driverName {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: db})
	case config.DriverSQLite:
		dialector = &sqlite.Dialector{Conn: db}
	default:
		return nil, fmt.Errorf("driver no soportado por gorm: %q", driverName)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("inicializar gorm: %w", err)
	}
	return &GormStore{db: gdb}, nil
}

func (s *GormStore) Name() string {
	return config.ClientGorm
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return classify("ping", KindConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return classify("ping", KindConnection, err)
	}
	return nil
}

func (s *GormStore) GetMetadata(ctx context.Context) ([]models.MetadataRow, error) {
	tx := s.db.WithContext(ctx).
		Table("stock_metadata").
		Select("last_updated").
		Limit(1)
	return scanAll[models.MetadataRow](s.db.WithContext(ctx), tx, "obtener metadata")
}

func (s *GormStore) GetMovers(ctx context.Context) ([]models.MoverRow, error) {
	tx := s.db.WithContext(ctx).
		Table("stock_movers").
		Select(moversColumns).
		Order("last_updated DESC")
	return scanAll[models.MoverRow](s.db.WithContext(ctx), tx, "obtener movers")
}

func (s *GormStore) GetInsiderTrades(ctx context.Context, limit int) ([]models.InsiderRow, error) {
	const op = "obtener insider trades"
	if limit <= 0 {
		return nil, &StoreError{Op: op, Kind: KindQuery, Err: fmt.Errorf("límite inválido: %d", limit)}
	}

	tx := s.db.WithContext(ctx).
		Table("insider_transactions").
		Select(insiderColumns).
		Order("date DESC").
		Limit(limit)
	return scanAll[models.InsiderRow](s.db.WithContext(ctx), tx, op)
}

// scanAll escanea fila por fila: la consulta falla como KindQuery y la conversión como KindScan
func scanAll[T any](db, tx *gorm.DB, op string) ([]T, error) {
	rows, err := tx.Rows()
	if err != nil {
		return nil, classify(op, KindQuery, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var row T
		if err := db.ScanRows(rows, &row); err != nil {
			return nil, classify(op, KindScan, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, KindQuery, err)
	}
	return out, nil
}
