package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	"github.com/AgusMolinaCode/Insider_Api/internal/models"
)

// Store es la única forma en que la API lee el store. Hay dos implementaciones
// intercambiables (SQLStore y GormStore) y ambas devuelven las mismas filas crudas.
type Store interface {
	GetMetadata(ctx context.Context) ([]models.MetadataRow, error)
	GetMovers(ctx context.Context) ([]models.MoverRow, error)
	GetInsiderTrades(ctx context.Context, limit int) ([]models.InsiderRow, error)
	Ping(ctx context.Context) error
	Name() string
}

const (
	metadataQuery = `SELECT last_updated FROM stock_metadata LIMIT 1`

	moversColumns = `ticker, price, change_amount, change_percentage, volume, category, last_updated`
	moversQuery   = `SELECT ` + moversColumns + ` FROM stock_movers ORDER BY last_updated DESC`

	insiderColumns = `executive, title, type, symbol, shares, "transaction", date, price`
	insiderQuery   = `SELECT ` + insiderColumns + ` FROM insider_transactions ORDER BY date DESC LIMIT %d`
)

// ErrorKind clasifica la falla solo para logs y métricas; hacia afuera todas son un 500
type ErrorKind string

const (
	KindConnection ErrorKind = "connection"
	KindTimeout    ErrorKind = "timeout"
	KindQuery      ErrorKind = "query"
	KindScan       ErrorKind = "scan"
)

type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: error de %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// classify decide el tipo de una falla de consulta según la causa
func classify(op string, fallback ErrorKind, err error) *StoreError {
	kind := fallback
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindTimeout
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		kind = KindConnection
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// New devuelve la implementación pedida en la configuración sobre el pool ya abierto
func New(client string, db *sql.DB, driverName string) (Store, error) {
	switch client {
	case config.ClientSQL:
		return NewSQLStore(db), nil
	case config.ClientGorm:
		return NewGormStore(db, driverName)
	default:
		return nil, fmt.Errorf("cliente de store desconocido: %q", client)
	}
}
