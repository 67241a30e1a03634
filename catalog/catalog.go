// Package catalog is the property search collaborator: a sqlite-backed
// listing store with criteria filtering, area suggestions, and the
// natural-language criteria extractor used by the search node.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/propertytek/chatflow/types"
)

// TexasCities are the markets the catalog serves. Searches naming other
// locations are redirected here by the search node.
var TexasCities = []string{"Houston", "Dallas", "Austin", "San Antonio", "Fort Worth"}

// Store is the listing catalog.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (or creates) the catalog database at path. Use ":memory:"
// for tests.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := db.AutoMigrate(&types.Property{}); err != nil {
		return nil, fmt.Errorf("migrate catalog schema: %w", err)
	}
	return &Store{db: db, logger: logger.With(zap.String("component", "catalog"))}, nil
}

// Ping verifies the underlying database connection.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("catalog db handle: %w", err)
	}
	return db.PingContext(ctx)
}

// Seed inserts listings, replacing any with the same id.
func (s *Store) Seed(ctx context.Context, listings []types.Property) error {
	for _, p := range listings {
		if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
			return fmt.Errorf("seed property %s: %w", p.ID, err)
		}
	}
	s.logger.Info("catalog seeded", zap.Int("count", len(listings)))
	return nil
}

// All returns every listing.
func (s *Store) All(ctx context.Context) ([]types.Property, error) {
	var out []types.Property
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}

// Get returns one listing by id.
func (s *Store) Get(ctx context.Context, id string) (types.Property, error) {
	var p types.Property
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return types.Property{}, fmt.Errorf("get property %s: %w", id, err)
	}
	return p, nil
}

// Search returns listings matching every specified criterion.
func (s *Store) Search(ctx context.Context, c types.Criteria) ([]types.Property, error) {
	q := s.db.WithContext(ctx).Model(&types.Property{})
	if c.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(c.City))
	}
	if c.Bedrooms != 0 {
		q = q.Where("bedrooms = ?", c.Bedrooms)
	}
	if c.RentExact != 0 {
		q = q.Where("rent = ?", c.RentExact)
	} else {
		if c.RentMin != 0 {
			q = q.Where("rent >= ?", c.RentMin)
		}
		if c.RentMax != 0 {
			q = q.Where("rent <= ?", c.RentMax)
		}
	}
	if c.Pets != "" {
		q = q.Where("LOWER(pets) LIKE ?", "%"+strings.ToLower(c.Pets)+"%")
	}
	if c.AvailableDate != "" {
		q = q.Where("available <= ?", c.AvailableDate)
	}

	var out []types.Property
	if err := q.Order("rent").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	s.logger.Debug("catalog search",
		zap.String("criteria", c.String()),
		zap.Int("results", len(out)),
	)
	return out, nil
}

// SuggestAreas returns alternative markets, excluding the one that failed.
func (s *Store) SuggestAreas(city string) []string {
	out := make([]string, 0, len(TexasCities))
	for _, c := range TexasCities {
		if !strings.EqualFold(c, city) {
			out = append(out, c)
		}
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// InTexas reports whether the location names one of the served markets.
func InTexas(location string) bool {
	l := strings.ToLower(location)
	for _, c := range TexasCities {
		if strings.Contains(l, strings.ToLower(c)) {
			return true
		}
	}
	return false
}
