package request

import (
	"strings"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// CustomerForm is the add/edit customer form.
type CustomerForm struct {
	CompanyName string `form:"companyName" label:"Company Name" binding:"required,notblank"`
	PIC         string `form:"pic" label:"Person In Charge" binding:"required,notblank"`
	AddressForm
	Tel   string `form:"tel" label:"Tel. No."`
	Fax   string `form:"fax" label:"Fax No."`
	Email string `form:"email" label:"Email" input:"email" binding:"omitempty,email"`
}

// NewCustomerForm prefills the form from c.
func NewCustomerForm(c entity.Customer) *CustomerForm {
	return &CustomerForm{
		CompanyName: c.CompanyName,
		PIC:         c.PIC,
		AddressForm: newAddressForm(c.Address),
		Tel:         c.Tel,
		Fax:         c.Fax,
		Email:       c.Email,
	}
}

// Entity converts the form to a customer without identity.
func (f *CustomerForm) Entity() entity.Customer {
	return entity.Customer{
		CompanyName: strings.TrimSpace(f.CompanyName),
		PIC:         strings.TrimSpace(f.PIC),
		Address:     f.AddressForm.entity(),
		Tel:         strings.TrimSpace(f.Tel),
		Fax:         strings.TrimSpace(f.Fax),
		Email:       strings.TrimSpace(f.Email),
	}
}
