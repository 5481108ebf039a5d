package repository

import (
	"context"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// InvoiceRepository defines the invoice operations of the backend. Invoice
// identity is a server-assigned string.
type InvoiceRepository interface {
	List(ctx context.Context) ([]entity.Invoice, error)
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, id string, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// Preview renders the invoice without persisting it.
	Preview(ctx context.Context, invoice *entity.Invoice) (*entity.InvoicePreview, error)
	// Download returns the stored invoice as a PDF document.
	Download(ctx context.Context, id string) ([]byte, error)
	ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error)
}
