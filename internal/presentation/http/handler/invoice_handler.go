package handler

import (
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-console/internal/presentation/http/view"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sangkips/invoice-console/pkg/pagination"
)

const (
	invoicePath    = "/invoice"
	invoiceModule  = "invoice_handler"
	previewTitle   = "Invoice Preview"
	previewOptions = "#toolbar=0&view=FitH"
)

// InvoiceHandler serves the invoice list and the compose, preview and
// confirm flow of its modal.
type InvoiceHandler struct {
	console   *Console
	invoices  *service.InvoiceService
	workspace *service.WorkspaceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(console *Console, invoices *service.InvoiceService, workspace *service.WorkspaceService) *InvoiceHandler {
	return &InvoiceHandler{console: console, invoices: invoices, workspace: workspace}
}

// List renders the invoice table and the open modal, if any. A failed
// fetch shows an empty table.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	sid := GetSessionID(c)
	var extra []view.Flash

	invoices, err := h.invoices.List(ctx)
	if err != nil {
		extra = append(extra, view.Flash{Kind: service.FlashError, Message: errorMessage("Failed to load invoice list", err)})
		invoices = nil
	}

	query := c.Request.URL.Query()
	page := pagination.Paginate(invoices, view.ParamsFor("invoice", query))
	table := view.Table{
		Key:         "invoice",
		AddLabel:    "Add Invoice",
		AddURL:      invoicePath + "/new",
		PostActions: true,
		Columns:     []string{"Invoice", "Created On", actionsColumn},
		Pager:       view.NewPager("invoice", invoicePath, query, page.Pagination),
	}
	for _, inv := range page.Items {
		base := invoicePath + "/" + url.PathEscape(inv.ID)
		table.Rows = append(table.Rows, view.Row{
			Cells:       []string{inv.ID, inv.CreatedOn.Display()},
			EditURL:     base + "/edit",
			DeleteURL:   base + "/delete",
			DownloadURL: base + "/download",
		})
	}

	data := view.InvoicePage{Table: table, ExportURL: invoicePath + "/export"}
	draft, err := h.workspace.Draft(ctx, sid)
	if err != nil {
		config.LogError(h.console.logger, invoiceModule, "List", "Failed to read invoice draft", sid, err)
	}
	if draft != nil {
		options, err := h.workspace.Options(ctx, sid)
		if err != nil {
			config.LogError(h.console.logger, invoiceModule, "List", "Failed to read invoice options", sid, err)
		}
		data.Modal = invoiceModal(draft, options)
	}

	h.console.render(c, http.StatusOK, "invoice.html", "Invoice", data, extra...)
}

// New opens an empty invoice form.
func (h *InvoiceHandler) New(c *gin.Context) {
	if _, err := h.workspace.OpenNew(c.Request.Context(), GetSessionID(c)); err != nil {
		h.console.flashError(c, "Failed to open the invoice form", err)
	} else {
		h.refreshOptions(c)
	}
	seeOther(c, invoicePath)
}

// Edit opens the form for an existing invoice.
func (h *InvoiceHandler) Edit(c *gin.Context) {
	if _, err := h.workspace.OpenEdit(c.Request.Context(), GetSessionID(c), c.Param("id")); err != nil {
		h.console.flashError(c, "Failed to open invoice "+c.Param("id"), err)
	} else {
		h.refreshOptions(c)
	}
	seeOther(c, invoicePath)
}

func (h *InvoiceHandler) refreshOptions(c *gin.Context) {
	err := h.workspace.RefreshOptions(c.Request.Context(), GetSessionID(c))
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrBusy):
		h.console.flash(c, service.FlashError, apperror.ErrBusy.Message)
	default:
		h.console.flashError(c, "Failed to load merchants, customers, discounts, taxes and products", err)
	}
}

// Form stores the posted form values and runs the pressed action: add a
// row, remove a row or preview.
func (h *InvoiceHandler) Form(c *gin.Context) {
	ctx := c.Request.Context()
	sid := GetSessionID(c)

	var req request.InvoiceForm
	if err := c.ShouldBind(&req); err != nil {
		h.console.flash(c, service.FlashError, "The invoice form could not be read")
		seeOther(c, invoicePath)
		return
	}
	action, preview, err := req.FormAction()
	if err != nil {
		h.console.flash(c, service.FlashError, err.Error())
		seeOther(c, invoicePath)
		return
	}

	if _, err := h.workspace.UpdateForm(ctx, sid, req.Form(), action); err != nil {
		h.flashWorkspaceError(c, "Failed to update the invoice form", err)
		seeOther(c, invoicePath)
		return
	}

	if preview {
		if _, err := h.workspace.Preview(ctx, sid); err != nil {
			h.flashWorkspaceError(c, "Failed to preview invoice", err)
		}
	}
	seeOther(c, invoicePath)
}

// ClosePreview returns from the preview to the edit form.
func (h *InvoiceHandler) ClosePreview(c *gin.Context) {
	if _, err := h.workspace.ClosePreview(c.Request.Context(), GetSessionID(c)); err != nil {
		h.flashWorkspaceError(c, "Failed to close the preview", err)
	}
	seeOther(c, invoicePath)
}

// Confirm saves the previewed invoice. On failure both modals stay open so
// the user can try again.
func (h *InvoiceHandler) Confirm(c *gin.Context) {
	ctx := c.Request.Context()
	sid := GetSessionID(c)

	success := "Invoice saved"
	if d, _ := h.workspace.Draft(ctx, sid); d != nil && d.Mode == composer.ModeAdd {
		success = "Invoice added"
	}

	if err := h.workspace.Confirm(ctx, sid, c.PostForm("token")); err != nil {
		h.flashWorkspaceError(c, "Failed to save invoice", err)
	} else {
		h.console.flash(c, service.FlashSuccess, success)
	}
	seeOther(c, invoicePath)
}

// CloseForm discards the open invoice form.
func (h *InvoiceHandler) CloseForm(c *gin.Context) {
	if err := h.workspace.Close(c.Request.Context(), GetSessionID(c)); err != nil {
		h.console.flashError(c, "Failed to close the invoice form", err)
	}
	seeOther(c, invoicePath)
}

// Delete removes an invoice. The list is loaded again either way.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		h.console.flashError(c, "Failed to delete invoice "+id, err)
	} else {
		h.console.flash(c, service.FlashSuccess, "Invoice "+id+" deleted")
	}
	seeOther(c, invoicePath)
}

// Download sends the invoice PDF as <id>.pdf.
func (h *InvoiceHandler) Download(c *gin.Context) {
	id := c.Param("id")
	data, err := h.invoices.Download(c.Request.Context(), id)
	if err != nil {
		h.console.flashError(c, "Failed to download invoice "+id, err)
		seeOther(c, invoicePath)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": id + ".pdf"}))
	c.Data(http.StatusOK, "application/pdf", data)
}

// flashWorkspaceError explains a failed form action. Validation errors are
// shown inline and stale results are dropped silently.
func (h *InvoiceHandler) flashWorkspaceError(c *gin.Context, message string, err error) {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, service.ErrStaleDraft):
		h.console.logger.WithField("session", GetSessionID(c)).Info(err.Error())
	case errors.Is(err, composer.ErrNotPreviewed):
		h.console.flash(c, service.FlashError, "Please preview the invoice before saving it")
	case errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity:
	case errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError:
		h.console.flash(c, service.FlashError, appErr.Message)
	default:
		h.console.flashError(c, message, err)
	}
}

func invoiceModal(d *composer.Draft, options *service.OptionSet) *view.InvoiceModal {
	if options == nil {
		options = &service.OptionSet{}
	}
	m := &view.InvoiceModal{
		Title:       d.Title(),
		SubmitLabel: d.SubmitLabel(),
		Merchant:    selectInput("merId", "Merchant", true, options.Merchants, d.Form.MerID, d.Errors["merId"]),
		Customer:    selectInput("cusId", "Customer", true, options.Customers, d.Form.CusID, d.Errors["cusId"]),
		Discount:    selectInput("disId", "Discount", false, options.Discounts, d.Form.DiscountValue(), ""),
		Tax:         selectInput("taxId", "Tax", false, options.Taxes, d.Form.TaxValue(), ""),
		ItemsError:  d.Errors["items"],
		CanRemove:   d.Form.Items.CanRemove(),
	}

	for i, row := range d.Form.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		product := selectInput("proId", "", false, options.Products, row.ProID, d.Errors[prefix+"proId"])
		product.Placeholder = "Product"
		product.Detail = nil
		quantity := ""
		if row.Quantity != 0 {
			quantity = strconv.Itoa(row.Quantity)
		}
		m.Items = append(m.Items, view.ItemRow{
			Index:       i,
			Product:     product,
			Quantity:    view.Field{Name: "quantity", Label: "Quantity", Type: "number", Value: quantity, Error: d.Errors[prefix+"quantity"]},
			Description: view.Field{Name: "description", Label: "Description", Value: row.Description},
		})
	}

	if d.ShowPreview() {
		m.Preview = &view.PreviewModal{
			Title:        previewTitle,
			Token:        d.Preview.Token,
			DocumentURI:  template.URL(d.Preview.DataURI() + previewOptions),
			ConfirmLabel: d.ConfirmLabel(),
		}
	}
	return m
}

// selectInput lists options with value selected. A selected value missing
// from options is kept so that posting the form again does not lose it.
func selectInput(name, label string, required bool, options []service.Option, value int64, fieldError string) view.Select {
	s := view.Select{
		Name:        name,
		Label:       label,
		Placeholder: "Select " + label,
		Error:       fieldError,
		Required:    required,
	}
	found := false
	for _, o := range options {
		selected := value != 0 && o.Value == value
		if selected {
			found = true
			s.Detail = o.SecondaryLines()
		}
		s.Choices = append(s.Choices, view.Choice{Value: o.Value, Label: o.Label, Selected: selected})
	}
	if value != 0 && !found {
		s.Choices = append(s.Choices, view.Choice{Value: value, Label: "#" + strconv.FormatInt(value, 10), Selected: true})
	}
	return s
}
