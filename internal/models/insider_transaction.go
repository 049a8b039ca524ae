package models

import "github.com/guregu/null/v6"

// Tipos de transacción reportados en los formularios de insiders
const (
	TransactionAcquire = "A"
	TransactionDispose = "D"
)

// InsiderRow es una fila de insider_transactions tal como sale del store
type InsiderRow struct {
	Executive   null.String `gorm:"column:executive"`
	Title       null.String `gorm:"column:title"`
	Type        null.String `gorm:"column:type"`
	Symbol      null.String `gorm:"column:symbol"`
	Shares      null.Float  `gorm:"column:shares"`
	Transaction null.String `gorm:"column:transaction"`
	Date        null.String `gorm:"column:date"`
	Price       null.Float  `gorm:"column:price"`
}

type InsiderTransaction struct {
	Name            null.String `json:"name"`
	Title           null.String `json:"title"`
	Type            null.String `json:"type"`
	Company         null.String `json:"company"`
	Shares          null.Float  `json:"shares"`
	TransactionType null.String `json:"transactionType"`
	Date            null.String `json:"date"`
	Price           null.Float  `json:"price"`
	Value           null.String `json:"value"` // null cuando falta precio o cantidad
}

// IsAcquisition indica si la operación fue una compra ("A")
func (t InsiderTransaction) IsAcquisition() bool {
	return t.TransactionType.Valid && t.TransactionType.String == TransactionAcquire
}

// InsiderTradesResponse es el contrato de GET /api/insider-trades
type InsiderTradesResponse struct {
	Data []InsiderTransaction `json:"data"`
}
