package composer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sangkips/invoice-console/pkg/pdfdoc"
)

var (
	// ErrNotPreviewed is returned when confirming a draft that has no
	// current preview.
	ErrNotPreviewed = errors.New("invoice must be previewed before it is saved")
	// ErrNotEditing is returned when previewing a draft that is not in the
	// edit modal.
	ErrNotEditing = errors.New("invoice is not being edited")
)

// Gateway is the part of the invoicing backend a draft talks to.
type Gateway interface {
	Preview(ctx context.Context, invoice *entity.Invoice) (*entity.InvoicePreview, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, id string, invoice *entity.Invoice) error
}

// Composer moves drafts through validation, preview and confirmation.
type Composer struct {
	gateway   Gateway
	validate  *validator.Validate
	verifyPDF bool
}

// New creates a composer. With verifyPDF set a preview is only accepted when
// its document parses as a PDF.
func New(gateway Gateway, verifyPDF bool) *Composer {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.JSONTagName("json"))
	return &Composer{gateway: gateway, validate: v, verifyPDF: verifyPDF}
}

// Validate checks the form and returns one error per offending field.
func (c *Composer) Validate(form Form) []apperror.FieldError {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}
	return apperror.FromValidationErrors(err, fieldMessage)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "merId":
		return "Please select a merchant"
	case "cusId":
		return "Please select a customer"
	case "proId":
		return "Please select a product"
	case "quantity":
		if fe.Tag() == "min" {
			return "Quantity must be at least 1"
		}
		return "Please enter the quantity"
	case "items":
		return "Please add at least one item"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// Preview validates the draft and asks the backend to render it. Nothing is
// sent when validation fails. On failure the draft returns to editing.
func (c *Composer) Preview(ctx context.Context, d *Draft) error {
	if d.State != StateEditing {
		return ErrNotEditing
	}

	if fieldErrors := c.Validate(d.Form); len(fieldErrors) > 0 {
		d.Errors = apperror.FieldMap(fieldErrors)
		return apperror.NewValidationError(fieldErrors)
	}
	d.Errors = nil

	payload := d.Payload()
	d.State = StatePreviewing

	preview, err := c.gateway.Preview(ctx, &payload)
	if err == nil && c.verifyPDF {
		_, err = pdfdoc.InspectBase64(preview.PDF)
	}
	if err != nil {
		d.State = StateEditing
		return err
	}

	d.Preview = &Preview{
		Token:    uuid.NewString(),
		Document: preview.PDF,
		Payload:  payload,
	}
	d.State = StatePreviewed
	return nil
}

// Confirm persists exactly the payload that was previewed. Add mode creates
// an invoice; edit mode updates the one being edited. On failure the draft
// stays previewed so the user can retry.
func (c *Composer) Confirm(ctx context.Context, d *Draft) error {
	if d.State != StatePreviewed || d.Preview == nil {
		return ErrNotPreviewed
	}

	payload := d.Preview.Payload
	d.State = StateConfirming

	var err error
	if d.Mode == ModeEdit {
		err = c.gateway.Update(ctx, d.InvoiceID(), &payload)
	} else {
		payload.ID = ""
		err = c.gateway.Create(ctx, &payload)
	}
	if err != nil {
		d.State = StatePreviewed
		return err
	}

	d.State = StateConfirmed
	return nil
}
