// Package composer holds the invoice being composed in a modal: its form
// values, its line items and its progress from editing through preview to
// confirmation.
package composer

import (
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// Mode tells whether confirming creates a new invoice or updates one.
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// State is the position of a draft in the preview/confirm flow.
type State string

const (
	StateEditing    State = "editing"
	StatePreviewing State = "previewing"
	StatePreviewed  State = "previewed"
	StateConfirming State = "confirming"
	StateConfirmed  State = "confirmed"
)

// Form holds the values entered in the invoice modal. Zero IDs mean
// nothing is selected.
type Form struct {
	MerID int64     `json:"merId" validate:"required"`
	CusID int64     `json:"cusId" validate:"required"`
	DisID *int64    `json:"disId,omitempty"`
	TaxID *int64    `json:"taxId,omitempty"`
	Items LineItems `json:"items" validate:"min=1,dive"`
}

// DiscountValue returns the selected discount or 0.
func (f Form) DiscountValue() int64 {
	if f.DisID == nil {
		return 0
	}
	return *f.DisID
}

// TaxValue returns the selected tax or 0.
func (f Form) TaxValue() int64 {
	if f.TaxID == nil {
		return 0
	}
	return *f.TaxID
}

// Preview is the rendered document of a draft together with the exact
// payload it was rendered from.
type Preview struct {
	Token    string         `json:"token"`
	Document string         `json:"document"`
	Payload  entity.Invoice `json:"payload"`
}

// DataURI embeds the document for inline display.
func (p Preview) DataURI() string {
	return entity.InvoicePreview{PDF: p.Document}.DataURI()
}

// Draft is the invoice modal of one session. ID changes every time the
// modal is opened and Version every time its content changes.
type Draft struct {
	ID      string            `json:"id"`
	Mode    Mode              `json:"mode"`
	Base    *entity.Invoice   `json:"base,omitempty"`
	Form    Form              `json:"form"`
	State   State             `json:"state"`
	Preview *Preview          `json:"preview,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Version int64             `json:"version"`
}

// NewDraft opens an empty draft for a new invoice.
func NewDraft() *Draft {
	return &Draft{
		ID:    uuid.NewString(),
		Mode:  ModeAdd,
		Form:  Form{Items: NewLineItems()},
		State: StateEditing,
	}
}

// EditDraft opens a draft for an existing invoice. items may be empty when
// they could not be loaded.
func EditDraft(invoice entity.Invoice, items []entity.InvoiceItem) *Draft {
	base := invoice
	base.Items = nil
	return &Draft{
		ID:   uuid.NewString(),
		Mode: ModeEdit,
		Base: &base,
		Form: Form{
			MerID: invoice.MerID,
			CusID: invoice.CusID,
			DisID: invoice.DisID,
			TaxID: invoice.TaxID,
			Items: LineItemsFrom(items),
		},
		State: StateEditing,
	}
}

// Title is the heading of the edit modal.
func (d *Draft) Title() string {
	if d.Mode == ModeEdit {
		return "Edit Invoice"
	}
	return "Add Invoice"
}

// SubmitLabel is the label of the edit modal's submit button.
func (d *Draft) SubmitLabel() string {
	return "Preview"
}

// ConfirmLabel is the label of the preview modal's confirm button.
func (d *Draft) ConfirmLabel() string {
	if d.Mode == ModeEdit {
		return "Save Invoice"
	}
	return "Add Invoice"
}

// ShowPreview reports whether the preview modal is open.
func (d *Draft) ShowPreview() bool {
	return d.Preview != nil && (d.State == StatePreviewed || d.State == StateConfirming)
}

// Payload builds the invoice sent to the backend. In edit mode the stored
// invoice is overlaid with the form values; in add mode no identity is sent.
func (d *Draft) Payload() entity.Invoice {
	var invoice entity.Invoice
	if d.Mode == ModeEdit && d.Base != nil {
		invoice = *d.Base
	}
	invoice.MerID = d.Form.MerID
	invoice.CusID = d.Form.CusID
	invoice.DisID = d.Form.DisID
	invoice.TaxID = d.Form.TaxID
	invoice.Items = d.Form.Items.Entities()
	if d.Mode == ModeAdd {
		invoice.ID = ""
	}
	return invoice
}

// InvoiceID is the identity of the invoice being edited.
func (d *Draft) InvoiceID() string {
	if d.Mode != ModeEdit || d.Base == nil {
		return ""
	}
	return d.Base.ID
}

// Apply replaces the form values. Any preview rendered from the previous
// values is dropped.
func (d *Draft) Apply(form Form) {
	d.Form = form
	if d.State == StatePreviewed {
		d.State = StateEditing
		d.Preview = nil
	}
}

// Same reports whether other is the same modal at the same content version.
func (d *Draft) Same(other *Draft) bool {
	return other != nil && d.ID == other.ID && d.Version == other.Version
}

// AddItem appends a blank row.
func (d *Draft) AddItem() {
	d.Form.Items = d.Form.Items.Add()
}

// RemoveItem deletes row i.
func (d *Draft) RemoveItem(i int) error {
	items, err := d.Form.Items.Remove(i)
	if err != nil {
		return err
	}
	d.Form.Items = items
	return nil
}

// ClosePreview discards the preview and returns to the edit modal.
func (d *Draft) ClosePreview() {
	if d.State == StatePreviewed {
		d.State = StateEditing
	}
	d.Preview = nil
}
