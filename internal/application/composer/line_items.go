package composer

import (
	"errors"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

var (
	// ErrLastItem is returned when removing the only remaining row.
	ErrLastItem = errors.New("an invoice needs at least one item")
	// ErrNoSuchItem is returned for a row index outside the list.
	ErrNoSuchItem = errors.New("no such item")
)

// LineItem is one editable row of the invoice form.
type LineItem struct {
	ProID       int64  `json:"proId" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Description string `json:"description,omitempty"`
}

// LineItems keeps rows in the order they were added. Rows are never
// reordered.
type LineItems []LineItem

// NewLineItems returns a list holding one blank row.
func NewLineItems() LineItems {
	return LineItems{{}}
}

// Add appends a blank row.
func (l LineItems) Add() LineItems {
	return append(l, LineItem{})
}

// Remove deletes row i. The only remaining row cannot be removed.
func (l LineItems) Remove(i int) (LineItems, error) {
	if i < 0 || i >= len(l) {
		return l, ErrNoSuchItem
	}
	if len(l) <= 1 {
		return l, ErrLastItem
	}
	out := make(LineItems, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), nil
}

// CanRemove reports whether remove buttons are enabled.
func (l LineItems) CanRemove() bool {
	return len(l) > 1
}

// Entities converts the rows into the invoice wire format.
func (l LineItems) Entities() []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, len(l))
	for i, row := range l {
		items[i] = entity.InvoiceItem{
			ProID:       row.ProID,
			Quantity:    row.Quantity,
			Description: row.Description,
		}
	}
	return items
}

// LineItemsFrom converts stored invoice items into editable rows.
func LineItemsFrom(items []entity.InvoiceItem) LineItems {
	rows := make(LineItems, len(items))
	for i, item := range items {
		rows[i] = LineItem{
			ProID:       item.ProID,
			Quantity:    item.Quantity,
			Description: item.Description,
		}
	}
	return rows
}
