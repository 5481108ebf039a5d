package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DisplayDateLayout is the DD/MM/YYYY layout used in invoice lists.
const DisplayDateLayout = "02/01/2006"

// Invoice references one merchant, one customer and optionally a tax and a
// discount. Totals are computed by the backend and only ever displayed.
type Invoice struct {
	ID            string           `json:"id,omitempty"`
	MerID         int64            `json:"merId,omitempty"`
	CusID         int64            `json:"cusId,omitempty"`
	DisID         *int64           `json:"disId,omitempty"`
	TaxID         *int64           `json:"taxId,omitempty"`
	CreatedOn     *Timestamp       `json:"createdOn,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	TotalDiscount *decimal.Decimal `json:"totalDiscount,omitempty"`
	TotalTax      *decimal.Decimal `json:"totalTax,omitempty"`
	TotalPrice    *decimal.Decimal `json:"totalPrice,omitempty"`
	Items         []InvoiceItem    `json:"invoiceItemModelList"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ProID       int64  `json:"proId"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// InvoicePreview is the body returned by preview-invoice.
type InvoicePreview struct {
	PDF string `json:"pdf"`
}

// DataURI embeds the preview document for inline display.
func (p InvoicePreview) DataURI() string {
	return "data:application/pdf;base64," + p.PDF
}

// Timestamp accepts the date encodings the backend is known to emit and
// re-encodes the original text unchanged. Text in any other format is kept
// as is and leaves Time zero.
type Timestamp struct {
	time.Time
	raw json.RawMessage
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	ts.raw = append(json.RawMessage(nil), data...)
	ts.Time = time.Time{}

	if len(data) > 0 && data[0] != '"' {
		if millis, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			ts.Time = time.UnixMilli(millis).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if len(ts.raw) > 0 {
		return ts.raw, nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// Display formats the timestamp as DD/MM/YYYY, or "" when unset.
func (ts *Timestamp) Display() string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(DisplayDateLayout)
}
