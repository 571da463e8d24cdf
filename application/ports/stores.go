// Package ports declares the store interfaces the benchmark runner consumes.
// Each design variant (single-table, multi-table) provides one implementation.
package ports

import (
	"context"

	"ddbench/domain/entities"
)

// ReadStats is what the store observed while satisfying one logical read.
// A logical read may span several requests (stitched and N+1 patterns);
// counts and capacity accumulate across all of them.
type ReadStats struct {
	Items         int
	Scanned       int
	Requests      int
	CapacityUnits float64
}

// Add merges stats from one underlying request.
func (s *ReadStats) Add(other ReadStats) {
	s.Items += other.Items
	s.Scanned += other.Scanned
	s.Requests += other.Requests
	s.CapacityUnits += other.CapacityUnits
}

// BenchmarkStore is the fixed read battery issued against each design.
// Zero matching items is a valid outcome for every method, never an error.
type BenchmarkStore interface {
	// Design identifies the variant in measurements ("single-table",
	// "multi-table").
	Design() string

	GetUserByID(ctx context.Context, id string) (*entities.User, ReadStats, error)
	OrdersForUser(ctx context.Context, userID string) ([]entities.Order, ReadStats, error)
	AllOrders(ctx context.Context) ([]entities.Order, ReadStats, error)
	AllUsers(ctx context.Context) ([]entities.User, ReadStats, error)
	UserProfile(ctx context.Context, userID string) (*entities.Profile, ReadStats, error)
	PostsWithComments(ctx context.Context, userID string) ([]entities.PostWithComments, ReadStats, error)
}

// RangeQuerier is the optional sharded date-range pattern. Only the
// single-table design implements it.
type RangeQuerier interface {
	OrdersInRange(ctx context.Context, from, to string) ([]entities.Order, ReadStats, error)
}

// SeedSummary accounts for a bulk insert. Inserted is always
// Requested - Unprocessed; unprocessed items are surfaced, not resubmitted.
type SeedSummary struct {
	Requested   int
	Inserted    int
	Unprocessed int
	Batches     int
}

// Seeder loads a synthetic dataset into a design's tables and purges it.
type Seeder interface {
	Seed(ctx context.Context, ds *entities.Dataset) (SeedSummary, error)
	// Clear removes every item via scan+batch-delete, returning the number
	// of items deleted.
	Clear(ctx context.Context) (int, error)
}
