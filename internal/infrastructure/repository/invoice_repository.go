package repository

import (
	"context"

	"github.com/sangkips/invoice-console/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
)

type invoiceRepository struct {
	client *backend.Client
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(client *backend.Client) domainRepo.InvoiceRepository {
	return &invoiceRepository{client: client}
}

func (r *invoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	if err := r.client.Get(ctx, backend.InvoiceEndpoints.GetAll, nil, &invoices); err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	return invoices, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var invoice *entity.Invoice
	if err := r.client.Get(ctx, backend.InvoiceEndpoints.GetByID, map[string]string{"id": id}, &invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.client.Post(ctx, backend.InvoiceEndpoints.Create, invoice, nil)
}

func (r *invoiceRepository) Update(ctx context.Context, id string, invoice *entity.Invoice) error {
	return r.client.Put(ctx, backend.InvoiceEndpoints.Update, map[string]string{"id": id}, invoice, nil)
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, backend.InvoiceEndpoints.Delete, map[string]string{"id": id}, nil)
}

func (r *invoiceRepository) Preview(ctx context.Context, invoice *entity.Invoice) (*entity.InvoicePreview, error) {
	var preview entity.InvoicePreview
	if err := r.client.Post(ctx, backend.PreviewInvoice, invoice, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

func (r *invoiceRepository) Download(ctx context.Context, id string) ([]byte, error) {
	return r.client.GetBytes(ctx, backend.DownloadInvoice, map[string]string{"id": id})
}

func (r *invoiceRepository) ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	var items []entity.InvoiceItem
	if err := r.client.Get(ctx, backend.InvoiceItemsByInvoiceID, map[string]string{"id": invoiceID}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.InvoiceItem{}
	}
	return items, nil
}
