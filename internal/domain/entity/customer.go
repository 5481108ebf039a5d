package entity

// Customer is the billed party of an invoice.
type Customer struct {
	ID          int64  `json:"id,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	PIC         string `json:"pic,omitempty"` // person in charge
	Address
	Tel   string `json:"tel,omitempty"`
	Fax   string `json:"fax,omitempty"`
	Email string `json:"email,omitempty"`
}
