package request

import (
	"strings"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// ProductForm is the add/edit product form.
type ProductForm struct {
	ProductName string `form:"productName" label:"Product Name" binding:"required,notblank"`
	UnitPrice   string `form:"unitPrice" label:"Unit Price" input:"number" binding:"required,numeric"`
}

// NewProductForm prefills the form from p.
func NewProductForm(p entity.Product) *ProductForm {
	return &ProductForm{
		ProductName: p.ProductName,
		UnitPrice:   formatDecimal(p.UnitPrice),
	}
}

// Entity converts the form to a product without identity.
func (f *ProductForm) Entity() entity.Product {
	return entity.Product{
		ProductName: strings.TrimSpace(f.ProductName),
		UnitPrice:   parseDecimal(f.UnitPrice),
	}
}
