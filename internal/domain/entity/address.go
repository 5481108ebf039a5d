package entity

import (
	"strings"

	"github.com/samber/lo"
)

// AddressSeparator joins the lines of a formatted address.
const AddressSeparator = "\n"

// Address is the postal block shared by merchants and customers.
type Address struct {
	AddrLine1 string `json:"addrLine1,omitempty"`
	AddrLine2 string `json:"addrLine2,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Lines returns the address as display lines in the order
// addrLine1, addrLine2, "postcode city", "state, country".
// Empty sub-fields are skipped and lines left empty are dropped.
func (a Address) Lines() []string {
	return lo.Compact([]string{
		strings.TrimSpace(a.AddrLine1),
		strings.TrimSpace(a.AddrLine2),
		joinNonEmpty(" ", a.Postcode, a.City),
		joinNonEmpty(", ", a.State, a.Country),
	})
}

// Formatted joins Lines with AddressSeparator.
func (a Address) Formatted() string {
	return strings.Join(a.Lines(), AddressSeparator)
}

// Inline renders the address on one line for list tables.
func (a Address) Inline() string {
	return joinNonEmpty(", ", a.AddrLine1, a.AddrLine2, a.Postcode, a.City, a.State, a.Country)
}

func joinNonEmpty(sep string, parts ...string) string {
	trimmed := lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	return strings.Join(lo.Compact(trimmed), sep)
}
