package types

import "strings"

// ShippingAddress is snapshotted onto orders as a JSON document.
type ShippingAddress struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Phone         string `json:"phone,omitempty"`
}

// Validate reports the first missing required field, or "".
func (a ShippingAddress) Validate() string {
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return "full_name"
	case strings.TrimSpace(a.StreetAddress) == "":
		return "street_address"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.PostalCode) == "":
		return "postal_code"
	case strings.TrimSpace(a.Country) == "":
		return "country"
	}
	return ""
}
