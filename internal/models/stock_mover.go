package models

import (
	"strings"

	"github.com/guregu/null/v6"
)

// Category de un mover. Los valores conocidos vienen del ETL, pero el campo es libre.
type Category string

const (
	CategoryGainer Category = "gainer"
	CategoryLoser  Category = "loser"
	CategoryActive Category = "active"

	// CategoryAll no es una categoría real, solo desactiva el filtro
	CategoryAll Category = "all"
)

// Matches compara sin distinguir mayúsculas. Es igualdad exacta, no búsqueda de substrings.
func (c Category) Matches(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), string(c))
}

// MetadataRow es una fila de stock_metadata tal como sale del store
type MetadataRow struct {
	LastUpdated null.String `gorm:"column:last_updated"`
}

// MoverRow es una fila de stock_movers tal como sale del store
type MoverRow struct {
	Ticker           null.String `gorm:"column:ticker"`
	Price            null.Float  `gorm:"column:price"`
	ChangeAmount     null.Float  `gorm:"column:change_amount"`
	ChangePercentage null.Float  `gorm:"column:change_percentage"`
	Volume           null.Int    `gorm:"column:volume"`
	Category         null.String `gorm:"column:category"`
	LastUpdated      null.String `gorm:"column:last_updated"`
}

type Metadata struct {
	LastUpdated null.String `json:"lastUpdated"`
}

type StockMover struct {
	StockName     null.String `json:"stockName"`
	Price         null.Float  `json:"price"`
	ChangeAmount  null.Float  `json:"changeAmount"`
	ChangePercent null.Float  `json:"changePercent"`
	Volume        null.Int    `json:"volume"`
	Category      null.String `json:"category"`
	Date          null.String `json:"date"`
}

// HighLowResponse es el contrato de GET /api/high-low
type HighLowResponse struct {
	Metadata  []Metadata   `json:"metadata"`
	OtherData []StockMover `json:"otherData"`
}
