// Package fixtures holds canned domain data for tests.
package fixtures

import (
	"time"

	"github.com/propertytek/chatflow/types"
)

// Listings returns a small Texas inventory covering every market and
// pet policy the search filters distinguish.
func Listings() []types.Property {
	return []types.Property{
		{ID: "fix-001", Address: "1200 Barton Springs Rd, Austin, TX 78704", City: "Austin", Bedrooms: 1, Rent: 1200, Available: "2026-09-01", Pets: "cats only"},
		{ID: "fix-002", Address: "2400 Nueces St, Austin, TX 78705", City: "Austin", Bedrooms: 2, Rent: 1800, Available: "2026-09-15", Pets: "cats and dogs allowed"},
		{ID: "fix-003", Address: "901 Main St, Dallas, TX 75202", City: "Dallas", Bedrooms: 2, Rent: 1600, Available: "2026-10-01", Pets: "no pets allowed"},
		{ID: "fix-004", Address: "1100 Westheimer Rd, Houston, TX 77006", City: "Houston", Bedrooms: 3, Rent: 2400, Available: "2026-09-20", Pets: "dogs only"},
		{ID: "fix-005", Address: "415 Broadway, San Antonio, TX 78205", City: "San Antonio", Bedrooms: 1, Rent: 1100, Available: "2026-09-05", Pets: "cats and dogs allowed"},
	}
}

// Slot returns one available tour slot at the given hour tomorrow.
func Slot(hour int) types.Slot {
	start := time.Now().AddDate(0, 0, 1).Truncate(time.Hour)
	start = time.Date(start.Year(), start.Month(), start.Day(), hour, 0, 0, 0, start.Location())
	return types.Slot{
		ID:        start.Format("2006-01-02") + "_" + start.Format("15:00"),
		Display:   start.Format("Monday, January 2 at 3:04 PM"),
		StartTime: start,
		Available: true,
	}
}

// UserInfo returns a complete contact detail set for booking tests.
func UserInfo() map[string]string {
	return map[string]string{
		"name":  "Jordan Smith",
		"email": "jordan.smith@example.com",
		"phone": "+15125550142",
		"pets":  "Cats",
	}
}

// Appointment returns a confirmed booking for fix-002.
func Appointment() *types.Appointment {
	slot := Slot(11)
	return &types.Appointment{
		PropertyID:      "fix-002",
		PropertyAddress: "2400 Nueces St, Austin, TX 78705",
		Slot:            &slot,
		FormattedDate:   slot.Display,
		UserName:        "Jordan Smith",
		UserEmail:       "jordan.smith@example.com",
		UserPhone:       "+15125550142",
		UserPets:        "Cats",
		CreatedAt:       time.Now(),
	}
}
