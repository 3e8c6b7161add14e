package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals go out as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
