package request

import (
	"strings"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// TaxForm is the add/edit tax form.
type TaxForm struct {
	TaxName string `form:"taxName" label:"Tax Name" binding:"required,notblank"`
	Rate    string `form:"rate" label:"Rate (%)" input:"number" binding:"required,numeric"`
}

// NewTaxForm prefills the form from t.
func NewTaxForm(t entity.Tax) *TaxForm {
	return &TaxForm{TaxName: t.TaxName, Rate: formatDecimal(t.Rate)}
}

// Entity converts the form to a tax without identity.
func (f *TaxForm) Entity() entity.Tax {
	return entity.Tax{TaxName: strings.TrimSpace(f.TaxName), Rate: parseDecimal(f.Rate)}
}

// DiscountForm is the add/edit discount form.
type DiscountForm struct {
	DiscountName string `form:"discountName" label:"Discount Name" binding:"required,notblank"`
	Rate         string `form:"rate" label:"Rate (%)" input:"number" binding:"required,numeric"`
}

// NewDiscountForm prefills the form from d.
func NewDiscountForm(d entity.Discount) *DiscountForm {
	return &DiscountForm{DiscountName: d.DiscountName, Rate: formatDecimal(d.Rate)}
}

// Entity converts the form to a discount without identity.
func (f *DiscountForm) Entity() entity.Discount {
	return entity.Discount{DiscountName: strings.TrimSpace(f.DiscountName), Rate: parseDecimal(f.Rate)}
}
