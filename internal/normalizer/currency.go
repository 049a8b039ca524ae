package normalizer

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// TradeValue calcula price*shares como moneda. Si falta alguno de los dos (o no es
// un número finito) el resultado es nulo; un producto igual a cero es "$0.00".
func TradeValue(price, shares null.Float) null.String {
	if !isNumber(price) || !isNumber(shares) {
		return null.String{}
	}

	total := decimal.NewFromFloat(price.Float64).Mul(decimal.NewFromFloat(shares.Float64))
	return null.StringFrom(FormatCurrency(total))
}

// FormatCurrency redondea a 2 decimales y agrega separador de miles: $1,234,567.89
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(2)
	cents := fixed[len(fixed)-2:]
	// el monto puede no entrar en un int64
	return "$" + sign + humanize.BigComma(rounded.BigInt()) + "." + cents
}

func isNumber(f null.Float) bool {
	return f.Valid && !math.IsNaN(f.Float64) && !math.IsInf(f.Float64, 0)
}
