package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the structured shipping/billing document snapshotted onto an
// order. Clients may send either an object or a single formatted line.
type Address struct {
	FullName   string `json:"full_name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
}

type plainAddress Address

// addressAliases covers the key spellings the storefront has used.
type addressAliases struct {
	plainAddress
	Street     string `json:"street"`
	AddressKey string `json:"address"`
	Apartment  string `json:"apartment"`
	PostalAlt  string `json:"postalCode"`
}

// UnmarshalJSON accepts a JSON string (kept as Formatted) or an object.
func (a *Address) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Address{}
		return nil
	}

	if trimmed[0] == '"' {
		var line string
		if err := json.Unmarshal(trimmed, &line); err != nil {
			return fmt.Errorf("address: %w", err)
		}
		*a = Address{Formatted: strings.TrimSpace(line)}
		return nil
	}

	var raw addressAliases
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	out := Address(raw.plainAddress)
	if out.Line1 == "" {
		out.Line1 = firstNonEmpty(raw.Street, raw.AddressKey)
	}
	if out.Line2 == "" {
		out.Line2 = raw.Apartment
	}
	if out.PostalCode == "" {
		out.PostalCode = raw.PostalAlt
	}
	*a = out.normalized()
	return nil
}

// IsEmpty reports whether no usable address information is present.
func (a Address) IsEmpty() bool {
	return strings.TrimSpace(a.Formatted) == "" &&
		strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.PostalCode) == ""
}

// String renders a single display line.
func (a Address) String() string {
	if a.Formatted != "" {
		return a.Formatted
	}
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.City, strings.TrimSpace(a.State + " " + a.PostalCode), a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a Address) normalized() Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Formatted = strings.TrimSpace(a.Formatted)
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
