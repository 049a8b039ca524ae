package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	"github.com/AgusMolinaCode/Insider_Api/internal/models"
)

// SQLStore consulta con database/sql. Cada operación toma una conexión exclusiva
// del pool y la devuelve al salir, haya error o no.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Name() string {
	return config.ClientSQL
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.withConn(ctx, "ping", func(conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return classify("ping", KindConnection, err)
		}
		return nil
	})
}

func (s *SQLStore) GetMetadata(ctx context.Context) ([]models.MetadataRow, error) {
	const op = "obtener metadata"
	metadata := make([]models.MetadataRow, 0, 1)

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, metadataQuery)
		if err != nil {
			return classify(op, KindQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var m models.MetadataRow
			if err := rows.Scan(&m.LastUpdated); err != nil {
				return classify(op, KindScan, err)
			}
			metadata = append(metadata, m)
		}
		if err := rows.Err(); err != nil {
			return classify(op, KindQuery, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return metadata, nil
}

func (s *SQLStore) GetMovers(ctx context.Context) ([]models.MoverRow, error) {
	const op = "obtener movers"
	movers := make([]models.MoverRow, 0)

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, moversQuery)
		if err != nil {
			return classify(op, KindQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var m models.MoverRow
			err := rows.Scan(
				&m.Ticker,
				&m.Price,
				&m.ChangeAmount,
				&m.ChangePercentage,
				&m.Volume,
				&m.Category,
				&m.LastUpdated,
			)
			if err != nil {
				return classify(op, KindScan, err)
			}
			movers = append(movers, m)
		}
		if err := rows.Err(); err != nil {
			return classify(op, KindQuery, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movers, nil
}

func (s *SQLStore) GetInsiderTrades(ctx context.Context, limit int) ([]models.InsiderRow, error) {
	const op = "obtener insider trades"
	if limit <= 0 {
		return nil, &StoreError{Op: op, Kind: KindQuery, Err: fmt.Errorf("límite inválido: %d", limit)}
	}
	trades := make([]models.InsiderRow, 0)

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, fmt.Sprintf(insiderQuery, limit))
		if err != nil {
			return classify(op, KindQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var tx models.InsiderRow
			err := rows.Scan(
				&tx.Executive,
				&tx.Title,
				&tx.Type,
				&tx.Symbol,
				&tx.Shares,
				&tx.Transaction,
				&tx.Date,
				&tx.Price,
			)
			if err != nil {
				return classify(op, KindScan, err)
			}
			trades = append(trades, tx)
		}
		if err := rows.Err(); err != nil {
			return classify(op, KindQuery, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// withConn toma una conexión del pool, ejecuta fn y siempre la libera
func (s *SQLStore) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return classify(op, KindConnection, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			slog.Warn("Error al liberar la conexión", "op", op, "error", cerr)
		}
	}()

	return fn(conn)
}
