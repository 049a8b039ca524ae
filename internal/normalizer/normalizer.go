// Package normalizer convierte las filas crudas del store al formato que consume la UI.
// Las funciones son puras: no reordenan, no filtran y no agregan filas.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/AgusMolinaCode/Insider_Api/internal/models"
	"github.com/guregu/null/v6"
)

// TradeDateLayout es el formato de fecha de las transacciones ("Mar 05, 2024")
const TradeDateLayout = "Jan 02, 2006"

// Formatos aceptados para la columna date según el driver que la leyó
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Error indica una fila que no se pudo normalizar
type Error struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fila %d: campo %s inválido (%q): %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NormalizeMetadata(rows []models.MetadataRow) []models.Metadata {
	out := make([]models.Metadata, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Metadata{LastUpdated: row.LastUpdated})
	}
	return out
}

func NormalizeMovers(rows []models.MoverRow) []models.StockMover {
	out := make([]models.StockMover, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.StockMover{
			StockName:     row.Ticker,
			Price:         row.Price,
			ChangeAmount:  row.ChangeAmount,
			ChangePercent: row.ChangePercentage,
			Volume:        row.Volume,
			Category:      row.Category,
			Date:          row.LastUpdated,
		})
	}
	return out
}

// NormalizeInsiderTrades renombra columnas, formatea la fecha y calcula value.
// Devuelve *Error si alguna fecha no nula no se puede interpretar.
func NormalizeInsiderTrades(rows []models.InsiderRow) ([]models.InsiderTransaction, error) {
	out := make([]models.InsiderTransaction, 0, len(rows))
	for i, row := range rows {
		date, err := FormatTradeDate(row.Date)
		if err != nil {
			return nil, &Error{Row: i, Field: "date", Value: row.Date.String, Err: err}
		}

		out = append(out, models.InsiderTransaction{
			Name:            row.Executive,
			Title:           row.Title,
			Type:            row.Type,
			Company:         row.Symbol,
			Shares:          row.Shares,
			TransactionType: row.Transaction,
			Date:            date,
			Price:           row.Price,
			Value:           TradeValue(row.Price, row.Shares),
		})
	}
	return out, nil
}

// FormatTradeDate pasa la fecha cruda a TradeDateLayout. Nulo o vacío queda nulo.
func FormatTradeDate(raw null.String) (null.String, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return null.String{}, nil
	}

	value := strings.TrimSpace(raw.String)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return null.StringFrom(t.Format(TradeDateLayout)), nil
		}
	}
	return null.String{}, fmt.Errorf("formato de fecha desconocido")
}
