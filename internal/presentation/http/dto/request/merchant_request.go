package request

import (
	"strings"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// MerchantForm is the add/edit merchant form.
type MerchantForm struct {
	CompanyName    string `form:"companyName" label:"Company Name" binding:"required,notblank"`
	RegistrationNo string `form:"registrationNo" label:"Registration No." binding:"required,notblank"`
	AddressForm
	Tel       string `form:"tel" label:"Tel. No."`
	Fax       string `form:"fax" label:"Fax No."`
	Email     string `form:"email" label:"Email" input:"email" binding:"omitempty,email"`
	BankName  string `form:"bankName" label:"Bank Name"`
	BankAccNo string `form:"bankAccNo" label:"Bank Account No."`
}

// AddressForm holds the address inputs shared by merchants and customers.
type AddressForm struct {
	AddrLine1 string `form:"addrLine1" label:"Address Line 1" binding:"required,notblank"`
	AddrLine2 string `form:"addrLine2" label:"Address Line 2"`
	Postcode  string `form:"postcode" label:"Postcode" binding:"required,notblank"`
	City      string `form:"city" label:"City" binding:"required,notblank"`
	State     string `form:"state" label:"State" binding:"required,notblank"`
	Country   string `form:"country" label:"Country" binding:"required,notblank"`
}

// NewMerchantForm prefills the form from m.
func NewMerchantForm(m entity.Merchant) *MerchantForm {
	return &MerchantForm{
		CompanyName:    m.CompanyName,
		RegistrationNo: m.RegistrationNo,
		AddressForm:    newAddressForm(m.Address),
		Tel:            m.Tel,
		Fax:            m.Fax,
		Email:          m.Email,
		BankName:       m.BankName,
		BankAccNo:      m.BankAccNo,
	}
}

// Entity converts the form to a merchant without identity.
func (f *MerchantForm) Entity() entity.Merchant {
	return entity.Merchant{
		CompanyName:    strings.TrimSpace(f.CompanyName),
		RegistrationNo: strings.TrimSpace(f.RegistrationNo),
		Address:        f.AddressForm.entity(),
		Tel:            strings.TrimSpace(f.Tel),
		Fax:            strings.TrimSpace(f.Fax),
		Email:          strings.TrimSpace(f.Email),
		BankName:       strings.TrimSpace(f.BankName),
		BankAccNo:      strings.TrimSpace(f.BankAccNo),
	}
}

func newAddressForm(a entity.Address) AddressForm {
	return AddressForm{
		AddrLine1: a.AddrLine1,
		AddrLine2: a.AddrLine2,
		Postcode:  a.Postcode,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
	}
}

func (f AddressForm) entity() entity.Address {
	return entity.Address{
		AddrLine1: strings.TrimSpace(f.AddrLine1),
		AddrLine2: strings.TrimSpace(f.AddrLine2),
		Postcode:  strings.TrimSpace(f.Postcode),
		City:      strings.TrimSpace(f.City),
		State:     strings.TrimSpace(f.State),
		Country:   strings.TrimSpace(f.Country),
	}
}
