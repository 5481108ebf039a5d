package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/application/service"
)

// Invoice form actions.
const (
	ActionPreview    = "preview"
	ActionAddItem    = "add-item"
	ActionRemoveItem = "remove-item:"
)

// InvoiceForm is the posted invoice modal. Line items arrive as parallel
// arrays in row order.
type InvoiceForm struct {
	MerID       string   `form:"merId"`
	CusID       string   `form:"cusId"`
	DisID       string   `form:"disId"`
	TaxID       string   `form:"taxId"`
	ProID       []string `form:"proId"`
	Quantity    []string `form:"quantity"`
	Description []string `form:"description"`
	Action      string   `form:"action"`
}

// Form converts the posted values. Blank or malformed numbers become zero
// and are reported by validation.
func (f *InvoiceForm) Form() composer.Form {
	rows := max(len(f.ProID), len(f.Quantity), len(f.Description))
	items := make(composer.LineItems, rows)
	for i := range items {
		items[i] = composer.LineItem{
			ProID:       parseID(at(f.ProID, i)),
			Quantity:    int(parseID(at(f.Quantity, i))),
			Description: strings.TrimSpace(at(f.Description, i)),
		}
	}
	return composer.Form{
		MerID: parseID(f.MerID),
		CusID: parseID(f.CusID),
		DisID: optionalID(f.DisID),
		TaxID: optionalID(f.TaxID),
		Items: items,
	}
}

// FormAction decodes the pressed button. Preview is reported separately
// because it is not a form edit.
func (f *InvoiceForm) FormAction() (action service.FormAction, preview bool, err error) {
	switch {
	case f.Action == "" || f.Action == ActionPreview:
		return action, true, nil
	case f.Action == ActionAddItem:
		action.AddItem = true
		return action, false, nil
	case strings.HasPrefix(f.Action, ActionRemoveItem):
		i, convErr := strconv.Atoi(strings.TrimPrefix(f.Action, ActionRemoveItem))
		if convErr != nil {
			return action, false, fmt.Errorf("invalid item index in %q", f.Action)
		}
		action.RemoveItem = &i
		return action, false, nil
	}
	return action, false, fmt.Errorf("unknown action %q", f.Action)
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func parseID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func optionalID(s string) *int64 {
	n := parseID(s)
	if n == 0 {
		return nil
	}
	return &n
}
