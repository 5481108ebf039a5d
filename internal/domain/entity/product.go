package entity

import "github.com/shopspring/decimal"

func init() {
	// The backend expects JSON numbers for prices, rates and totals.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable item referenced by invoice line items.
type Product struct {
	ID          int64           `json:"id,omitempty"`
	ProductName string          `json:"productName,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}
