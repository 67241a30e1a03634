package types

import (
	"fmt"
	"strings"
)

// Property is a single rental listing from the catalog.
type Property struct {
	ID        string  `json:"id" gorm:"primaryKey"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Bedrooms  int     `json:"bedrooms"`
	Rent      float64 `json:"rent"`
	Available string  `json:"available"`
	Pets      string  `json:"pets"`
}

// PropertyDetails is the expanded card returned for a property inquiry.
type PropertyDetails struct {
	Address       string   `json:"address"`
	Bedrooms      int      `json:"bedrooms"`
	Rent          float64  `json:"rent"`
	AvailableDate string   `json:"available_date"`
	PetPolicy     string   `json:"pet_policy"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
	ContactInfo   string   `json:"contact_info"`
}

// DetailsFor builds the inquiry card for a property.
func DetailsFor(p Property) PropertyDetails {
	return PropertyDetails{
		Address:       p.Address,
		Bedrooms:      p.Bedrooms,
		Rent:          p.Rent,
		AvailableDate: p.Available,
		PetPolicy:     p.Pets,
		Description: fmt.Sprintf("Beautiful %d bedroom property located at %s. Monthly rent: $%.0f. Pet policy: %s.",
			p.Bedrooms, p.Address, p.Rent, p.Pets),
		Amenities:   []string{"Air Conditioning", "Parking", "Laundry", "Kitchen Appliances"},
		ContactInfo: "Contact our leasing office for more information.",
	}
}

// Criteria captures the search filters a user has expressed so far.
// Filters accumulate across turns; the zero value means "not specified".
type Criteria struct {
	City          string  `json:"city,omitempty"`
	Bedrooms      int     `json:"bedrooms,omitempty"`
	RentMin       float64 `json:"rent_min,omitempty"`
	RentMax       float64 `json:"rent_max,omitempty"`
	RentExact     float64 `json:"rent_exact,omitempty"`
	Pets          string  `json:"pets,omitempty"`
	AvailableDate string  `json:"available_date,omitempty"`
}

// IsEmpty reports whether no filter has been specified.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// HasBudget reports whether any rent filter is set.
func (c Criteria) HasBudget() bool {
	return c.RentMin != 0 || c.RentMax != 0 || c.RentExact != 0
}

// Merge returns a copy of c with every non-zero field of other overlaid.
// This is the explicit cross-turn filter carry-over; the workflow state
// merge never touches criteria internals.
func (c Criteria) Merge(other Criteria) Criteria {
	out := c
	if other.City != "" {
		out.City = other.City
	}
	if other.Bedrooms != 0 {
		out.Bedrooms = other.Bedrooms
	}
	if other.RentMin != 0 {
		out.RentMin = other.RentMin
	}
	if other.RentMax != 0 {
		out.RentMax = other.RentMax
	}
	if other.RentExact != 0 {
		out.RentExact = other.RentExact
	}
	if other.Pets != "" {
		out.Pets = other.Pets
	}
	if other.AvailableDate != "" {
		out.AvailableDate = other.AvailableDate
	}
	return out
}

// String renders the criteria for logging.
func (c Criteria) String() string {
	var parts []string
	if c.City != "" {
		parts = append(parts, "city="+c.City)
	}
	if c.Bedrooms != 0 {
		parts = append(parts, fmt.Sprintf("bedrooms=%d", c.Bedrooms))
	}
	if c.RentMin != 0 {
		parts = append(parts, fmt.Sprintf("rent_min=%.0f", c.RentMin))
	}
	if c.RentMax != 0 {
		parts = append(parts, fmt.Sprintf("rent_max=%.0f", c.RentMax))
	}
	if c.RentExact != 0 {
		parts = append(parts, fmt.Sprintf("rent_exact=%.0f", c.RentExact))
	}
	if c.Pets != "" {
		parts = append(parts, "pets="+c.Pets)
	}
	if c.AvailableDate != "" {
		parts = append(parts, "available="+c.AvailableDate)
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
