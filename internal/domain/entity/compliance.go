package entity

import "github.com/shopspring/decimal"

// Tax is a named percentage rate that may be attached to an invoice.
// How the rate is applied is decided by the backend.
type Tax struct {
	ID      int64           `json:"id,omitempty"`
	TaxName string          `json:"taxName,omitempty"`
	Rate    decimal.Decimal `json:"rate"`
}

// Discount is a named percentage rate that may be attached to an invoice.
type Discount struct {
	ID           int64           `json:"id,omitempty"`
	DiscountName string          `json:"discountName,omitempty"`
	Rate         decimal.Decimal `json:"rate"`
}
