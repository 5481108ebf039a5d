package view

import "html/template"

// Field is one input of a modal form.
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Required bool
}

// Modal is an entity form shown over its list.
type Modal struct {
	Title          string
	Action         string
	OKLabel        string
	CancelURL      string
	IdempotencyKey string
	Fields         []Field
}

// CatalogPage lists one or more entity tables and at most one open form.
type CatalogPage struct {
	Sections  []Table
	Modal     *Modal
	ImportURL string
}

// Choice is one option of a select input.
type Choice struct {
	Value    int64
	Label    string
	Selected bool
}

// Select is a select input. Detail holds the secondary lines of the
// selected choice.
type Select struct {
	Name        string
	Label       string
	Placeholder string
	Error       string
	Required    bool
	Choices     []Choice
	Detail      []string
}

// ItemRow is one line item of the invoice form.
type ItemRow struct {
	Index       int
	Product     Select
	Quantity    Field
	Description Field
}

// InvoiceModal is the add or edit invoice form.
type InvoiceModal struct {
	Title       string
	SubmitLabel string
	Merchant    Select
	Customer    Select
	Discount    Select
	Tax         Select
	Items       []ItemRow
	ItemsError  string
	CanRemove   bool
	Preview     *PreviewModal
}

// PreviewModal shows the rendered invoice above the form.
type PreviewModal struct {
	Title        string
	Token        string
	DocumentURI  template.URL
	ConfirmLabel string
}

// InvoicePage is the invoice list with its optional form.
type InvoicePage struct {
	Table     Table
	Modal     *InvoiceModal
	ExportURL string
}
