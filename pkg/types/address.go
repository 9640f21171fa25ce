package types

import "strings"

// Address is stored as jsonb on stores, orders, and RFQs. The original
// marketplace keys delivery pricing off district/area, so those are first
// class fields rather than free text.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	Area       string  `json:"area,omitempty"`
	District   string  `json:"district"`
	PostalCode string  `json:"postal_code,omitempty"`
	Country    string  `json:"country"`
}

// Display renders the address as a single human-readable line.
func (a Address) Display() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Line1, a.Area, a.District, a.PostalCode} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, ", ")
}
