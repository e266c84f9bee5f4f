package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Number holds a numeric field that the API may send as a JSON number, a string or null
type Number struct {
	raw string
}

// NewNumber builds a Number from its textual form
func NewNumber(s string) Number {
	return Number{raw: strings.TrimSpace(s)}
}

func (n Number) String() string {
	return n.raw
}

// IsZero reports whether the field was absent, null or empty
func (n Number) IsZero() bool {
	return n.raw == ""
}

// Float returns the numeric value if the field holds one
func (n Number) Float() (float64, bool) {
	if n.raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.raw = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid number string: %w", err)
		}
		n.raw = strings.TrimSpace(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}
	n.raw = num.String()
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n.raw == "" {
		return []byte("null"), nil
	}
	if _, ok := n.Float(); ok {
		return []byte(n.raw), nil
	}
	return json.Marshal(n.raw)
}

type Media struct {
	MediaType  string `json:"media_type"`
	StorageURL string `json:"storage_url"`
}

type Property struct {
	ID                    int64     `json:"id"`
	Title                 string    `json:"title"`
	City                  string    `json:"city"`
	Locality              string    `json:"locality"`
	Price                 Number    `json:"price"`
	BHK                   Number    `json:"bhk"`
	Bathrooms             Number    `json:"bathrooms"`
	AreaSqft              Number    `json:"area_sqft"`
	Floor                 Number    `json:"floor"`
	TotalFloors           Number    `json:"total_floors"`
	Furnishing            string    `json:"furnishing"`
	AgeOfProperty         Number    `json:"age_of_property"`
	SaleOrRent            string    `json:"sale_or_rent"`
	Maintenance           Number    `json:"maintenance"`
	Deposit               Number    `json:"deposit"`
	DescriptionRaw        string    `json:"description_raw"`
	DescriptionBeautified string    `json:"description_beautified"`
	Status                string    `json:"status"`
	Media                 []Media   `json:"media"`
	CreatedAt             time.Time `json:"created_at"`
}

func (p Property) IsActive() bool {
	return p.Status == StatusActive
}

// DisplayTitle falls back to a placeholder for untitled listings
func (p Property) DisplayTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return "Untitled Property"
	}
	return p.Title
}

// Description prefers the beautified text over the raw broker input
func (p Property) Description() string {
	if p.DescriptionBeautified != "" {
		return p.DescriptionBeautified
	}
	return p.DescriptionRaw
}

// PropertyPatch is the body of a partial update. Nil fields are left untouched.
type PropertyPatch struct {
	Status                *string `json:"status,omitempty"`
	Title                 *string `json:"title,omitempty"`
	City                  *string `json:"city,omitempty"`
	Locality              *string `json:"locality,omitempty"`
	Price                 *Number `json:"price,omitempty"`
	BHK                   *Number `json:"bhk,omitempty"`
	AreaSqft              *Number `json:"area_sqft,omitempty"`
	DescriptionBeautified *string `json:"description_beautified,omitempty"`
}

// PropertyStats summarises a broker's listings
type PropertyStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
}
