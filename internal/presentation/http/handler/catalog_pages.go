package handler

import (
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/request"
)

const actionsColumn = "Action(s)"

// NewMerchantHandler serves the merchant page.
func NewMerchantHandler(console *Console, merchants *service.MerchantService) *CatalogHandler {
	return NewCatalogHandler(console, "Merchant", "/merchant", &Section[entity.Merchant]{
		Key:     "merchant",
		Name:    "Merchant",
		Base:    "/merchant",
		Service: merchants,
		Columns: []string{"Company Name", "Registration No.", "Address", "Tel. No.", "Fax No.", "Email", "Bank Name", "Bank Acc No.", actionsColumn},
		Cells: func(m entity.Merchant) []string {
			return []string{m.CompanyName, m.RegistrationNo, m.Inline(), m.Tel, m.Fax, m.Email, m.BankName, m.BankAccNo}
		},
		ID:      func(m entity.Merchant) int64 { return m.ID },
		SetID:   func(m *entity.Merchant, id int64) { m.ID = id },
		Blank:   func() EntityForm[entity.Merchant] { return &request.MerchantForm{} },
		Prefill: func(m entity.Merchant) EntityForm[entity.Merchant] { return request.NewMerchantForm(m) },
	})
}

// NewCustomerHandler serves the customer page.
func NewCustomerHandler(console *Console, customers *service.CustomerService) *CatalogHandler {
	return NewCatalogHandler(console, "Customer", "/customer", &Section[entity.Customer]{
		Key:     "customer",
		Name:    "Customer",
		Base:    "/customer",
		Service: customers,
		Columns: []string{"Company Name", "Person In Charge", "Address", "Tel. No.", "Fax No.", "Email", actionsColumn},
		Cells: func(c entity.Customer) []string {
			return []string{c.CompanyName, c.PIC, c.Inline(), c.Tel, c.Fax, c.Email}
		},
		ID:      func(c entity.Customer) int64 { return c.ID },
		SetID:   func(c *entity.Customer, id int64) { c.ID = id },
		Blank:   func() EntityForm[entity.Customer] { return &request.CustomerForm{} },
		Prefill: func(c entity.Customer) EntityForm[entity.Customer] { return request.NewCustomerForm(c) },
	})
}

// NewProductHandler serves the product page with its spreadsheet import.
func NewProductHandler(console *Console, products *service.ProductService) *CatalogHandler {
	return NewCatalogHandler(console, "Product", "/product", &Section[entity.Product]{
		Key:     "product",
		Name:    "Product",
		Base:    "/product",
		Service: products,
		Columns: []string{"Product Name", "Unit Price", actionsColumn},
		Cells: func(p entity.Product) []string {
			return []string{p.ProductName, p.UnitPrice.StringFixed(2)}
		},
		ID:      func(p entity.Product) int64 { return p.ID },
		SetID:   func(p *entity.Product, id int64) { p.ID = id },
		Blank:   func() EntityForm[entity.Product] { return &request.ProductForm{} },
		Prefill: func(p entity.Product) EntityForm[entity.Product] { return request.NewProductForm(p) },
	}).WithImport("/product/import")
}

// NewComplianceHandler serves the tax and discount tables on one page.
func NewComplianceHandler(console *Console, taxes *service.TaxService, discounts *service.DiscountService) *CatalogHandler {
	tax := &Section[entity.Tax]{
		Key:     "tax",
		Name:    "Tax",
		Heading: "Tax",
		Base:    "/compliance/tax",
		Service: taxes,
		Columns: []string{"Tax Name", "Rate (%)", actionsColumn},
		Cells: func(t entity.Tax) []string {
			return []string{t.TaxName, t.Rate.StringFixed(2)}
		},
		ID:      func(t entity.Tax) int64 { return t.ID },
		SetID:   func(t *entity.Tax, id int64) { t.ID = id },
		Blank:   func() EntityForm[entity.Tax] { return &request.TaxForm{} },
		Prefill: func(t entity.Tax) EntityForm[entity.Tax] { return request.NewTaxForm(t) },
	}
	discount := &Section[entity.Discount]{
		Key:     "discount",
		Name:    "Discount",
		Heading: "Discount",
		Base:    "/compliance/discount",
		Service: discounts,
		Columns: []string{"Discount Name", "Rate (%)", actionsColumn},
		Cells: func(d entity.Discount) []string {
			return []string{d.DiscountName, d.Rate.StringFixed(2)}
		},
		ID:      func(d entity.Discount) int64 { return d.ID },
		SetID:   func(d *entity.Discount, id int64) { d.ID = id },
		Blank:   func() EntityForm[entity.Discount] { return &request.DiscountForm{} },
		Prefill: func(d entity.Discount) EntityForm[entity.Discount] { return request.NewDiscountForm(d) },
	}
	return NewCatalogHandler(console, "Compliance", "/compliance", tax, discount)
}
