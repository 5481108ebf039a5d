package entity

// Merchant is the issuing party of an invoice.
type Merchant struct {
	ID             int64  `json:"id,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	RegistrationNo string `json:"registrationNo,omitempty"`
	Address
	Tel       string `json:"tel,omitempty"`
	Fax       string `json:"fax,omitempty"`
	Email     string `json:"email,omitempty"`
	BankName  string `json:"bankName,omitempty"`
	BankAccNo string `json:"bankAccNo,omitempty"`
}
