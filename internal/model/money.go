package model

import "github.com/shopspring/decimal"

func init() {
	// prices travel as JSON numbers (250.5), not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}
