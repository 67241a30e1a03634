package catalog

import "github.com/propertytek/chatflow/types"

// SeedListings returns the built-in Texas rental inventory used when the
// catalog database is empty.
func SeedListings() []types.Property {
	return []types.Property{
		{ID: "prop-001", Address: "2201 Riverside Dr, Austin, TX 78741", City: "Austin", Bedrooms: 1, Rent: 1250, Available: "2026-09-15", Pets: "cats only"},
		{ID: "prop-002", Address: "905 E 5th St, Austin, TX 78702", City: "Austin", Bedrooms: 2, Rent: 1850, Available: "2026-09-01", Pets: "cats and dogs allowed"},
		{ID: "prop-003", Address: "4310 Duval St, Austin, TX 78751", City: "Austin", Bedrooms: 3, Rent: 2600, Available: "2026-10-01", Pets: "dogs only"},
		{ID: "prop-004", Address: "1800 McKinney Ave, Dallas, TX 75201", City: "Dallas", Bedrooms: 1, Rent: 1400, Available: "2026-09-10", Pets: "no pets allowed"},
		{ID: "prop-005", Address: "3200 Main St, Dallas, TX 75226", City: "Dallas", Bedrooms: 2, Rent: 1700, Available: "2026-09-20", Pets: "cats and dogs allowed"},
		{ID: "prop-006", Address: "5005 Gaston Ave, Dallas, TX 75214", City: "Dallas", Bedrooms: 3, Rent: 2350, Available: "2026-11-01", Pets: "cats only"},
		{ID: "prop-007", Address: "2121 Allen Pkwy, Houston, TX 77019", City: "Houston", Bedrooms: 1, Rent: 1150, Available: "2026-09-05", Pets: "cats and dogs allowed"},
		{ID: "prop-008", Address: "810 Heights Blvd, Houston, TX 77007", City: "Houston", Bedrooms: 2, Rent: 1550, Available: "2026-10-15", Pets: "dogs only"},
		{ID: "prop-009", Address: "4600 Montrose Blvd, Houston, TX 77006", City: "Houston", Bedrooms: 3, Rent: 2200, Available: "2026-09-25", Pets: "no pets allowed"},
		{ID: "prop-010", Address: "300 E Travis St, San Antonio, TX 78205", City: "San Antonio", Bedrooms: 2, Rent: 1350, Available: "2026-09-12", Pets: "cats and dogs allowed"},
	}
}
