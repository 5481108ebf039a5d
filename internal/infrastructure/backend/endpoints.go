package backend

// Endpoints lists the CRUD paths of one backend resource.
type Endpoints struct {
	Create  string
	Update  string
	Delete  string
	GetByID string
	GetAll  string
}

// ResourceEndpoints builds the paths of a resource mounted at prefix, e.g.
// "/merchant" -> "/merchant/get-all-merchants".
func ResourceEndpoints(prefix, singular, plural string) Endpoints {
	return Endpoints{
		Create:  prefix + "/create",
		Update:  prefix + "/update",
		Delete:  prefix + "/delete",
		GetByID: prefix + "/get-" + singular + "-by-id",
		GetAll:  prefix + "/get-all-" + plural,
	}
}

var (
	MerchantEndpoints = ResourceEndpoints("/merchant", "merchant", "merchants")
	CustomerEndpoints = ResourceEndpoints("/customer", "customer", "customers")
	ProductEndpoints  = ResourceEndpoints("/product", "product", "products")
	TaxEndpoints      = ResourceEndpoints("/compliance/tax", "tax", "taxes")
	DiscountEndpoints = ResourceEndpoints("/compliance/discount", "discount", "discounts")
	InvoiceEndpoints  = ResourceEndpoints("/invoice", "invoice", "invoices")
)

const (
	PreviewInvoice          = "/invoice/preview-invoice"
	DownloadInvoice         = "/invoice/download-invoice"
	InvoiceItemsByInvoiceID = "/invoice/get-invoice-items-by-inv-id"
)
