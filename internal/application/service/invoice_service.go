package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sangkips/invoice-console/pkg/pdfdoc"
	"github.com/sirupsen/logrus"
)

const invoiceModule = "invoice_service"

// InvoiceService handles invoice operations against the backend. It is also
// the gateway the composer previews and saves drafts through.
type InvoiceService struct {
	repo   repository.InvoiceRepository
	api    config.APIConfig
	logger logrus.FieldLogger
}

var _ composer.Gateway = (*InvoiceService)(nil)

// NewInvoiceService creates a new invoice service
func NewInvoiceService(repo repository.InvoiceRepository, api *config.APIConfig, logger logrus.FieldLogger) *InvoiceService {
	return &InvoiceService{repo: repo, api: *api, logger: logger}
}

// List returns every invoice
func (s *InvoiceService) List(ctx context.Context) ([]entity.Invoice, error) {
	ctx, cancel := withTimeout(ctx, s.api.ListTimeout)
	defer cancel()

	invoices, err := s.repo.List(ctx)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "List", "Failed to fetch invoice list", nil, err)
		return nil, err
	}
	return invoices, nil
}

// OpenForEdit loads an invoice and its items into an edit draft. When the
// invoice cannot be fetched by ID it is taken from the list instead. When the
// items cannot be loaded the draft opens with no items.
func (s *InvoiceService) OpenForEdit(ctx context.Context, id string) (*composer.Draft, error) {
	ctx, cancel := withTimeout(ctx, s.api.ListTimeout)
	defer cancel()

	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "OpenForEdit", "Failed to fetch invoice, falling back to the list", id, err)
	}
	if invoice == nil {
		invoice, err = s.findInList(ctx, id, err)
		if err != nil {
			return nil, err
		}
	}
	if invoice.ID == "" {
		invoice.ID = id
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "OpenForEdit", "Failed to fetch invoice items", id, err)
		items = nil
	}

	return composer.EditDraft(*invoice, items), nil
}

// findInList locates invoice id in the invoice list. getErr is the failure
// of the direct fetch, returned when the list cannot be loaded either.
func (s *InvoiceService) findInList(ctx context.Context, id string, getErr error) (*entity.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "OpenForEdit", "Failed to fetch invoice list", id, err)
		if getErr != nil {
			return nil, getErr
		}
		return nil, err
	}
	invoice, found := lo.Find(invoices, func(inv entity.Invoice) bool { return inv.ID == id })
	if !found {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return &invoice, nil
}

// Delete removes an invoice. Callers refresh the list whatever the outcome.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.api.SubmitTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		config.LogError(s.logger, invoiceModule, "Delete", "Failed to delete invoice", id, err)
		return err
	}
	return nil
}

// Download returns the invoice PDF.
func (s *InvoiceService) Download(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, s.api.DownloadTimeout)
	defer cancel()

	data, err := s.repo.Download(ctx, id)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "Download", "Failed to download invoice", id, err)
		return nil, err
	}
	if s.api.VerifyPDF {
		if _, err := pdfdoc.Inspect(data); err != nil {
			config.LogError(s.logger, invoiceModule, "Download", "Downloaded invoice is not a readable PDF", id, err)
			return nil, apperror.NewBadGatewayError(fmt.Sprintf("Invoice %s could not be downloaded", id))
		}
	}
	return data, nil
}

// Preview renders an invoice without saving it
func (s *InvoiceService) Preview(ctx context.Context, invoice *entity.Invoice) (*entity.InvoicePreview, error) {
	ctx, cancel := withTimeout(ctx, s.api.PreviewTimeout)
	defer cancel()

	preview, err := s.repo.Preview(ctx, invoice)
	if err != nil {
		config.LogError(s.logger, invoiceModule, "Preview", "Failed to preview invoice", invoice, err)
		return nil, err
	}
	return preview, nil
}

// Create saves a new invoice
func (s *InvoiceService) Create(ctx context.Context, invoice *entity.Invoice) error {
	ctx, cancel := withTimeout(ctx, s.api.SubmitTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, invoice); err != nil {
		config.LogError(s.logger, invoiceModule, "Create", "Failed to create invoice", invoice, err)
		return err
	}
	return nil
}

// Update saves changes to an existing invoice
func (s *InvoiceService) Update(ctx context.Context, id string, invoice *entity.Invoice) error {
	ctx, cancel := withTimeout(ctx, s.api.SubmitTimeout)
	defer cancel()

	if err := s.repo.Update(ctx, id, invoice); err != nil {
		config.LogError(s.logger, invoiceModule, "Update", "Failed to update invoice", invoice, err)
		return err
	}
	return nil
}
