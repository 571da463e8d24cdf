// Package benchmark runs the fixed read battery against each design and
// records one Measurement per call. Execution is sequential; the results
// slice is owned by the run and returned, never shared.
package benchmark

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ddbench/application/ports"
)

// Measurement is one timed store call. Failed calls carry Error and keep
// whatever stats accumulated before the failure.
type Measurement struct {
	Design        string        `json:"design"`
	Operation     string        `json:"operation"`
	Duration      time.Duration `json:"duration"`
	Items         int           `json:"items"`
	Scanned       int           `json:"scanned"`
	Requests      int           `json:"requests"`
	CapacityUnits float64       `json:"capacityUnits"`
	Error         string        `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (m Measurement) OK() bool { return m.Error == "" }

// Params selects the battery's targets. UserID should be an id the seeded
// dataset contains; From/To bound the optional sharded range pattern
// (YYYY-MM-DD, inclusive).
type Params struct {
	UserID string
	From   string
	To     string
	Runs   int
}

// Runner executes the battery.
type Runner struct {
	stores []ports.BenchmarkStore
	ranged ports.RangeQuerier // nil disables the sharded range pattern
	logger *zap.Logger
}

// NewRunner creates a runner over the given design stores. ranged may be nil.
func NewRunner(stores []ports.BenchmarkStore, ranged ports.RangeQuerier, logger *zap.Logger) *Runner {
	return &Runner{stores: stores, ranged: ranged, logger: logger}
}

// operation is one named pattern bound to a store.
type operation struct {
	design string
	name   string
	call   func(ctx context.Context) (ports.ReadStats, error)
}

// Run executes every pattern params.Runs times per design and returns the
// measurements. A failed call is recorded and the run continues; nothing is
// retried.
func (r *Runner) Run(ctx context.Context, params Params) []Measurement {
	runs := params.Runs
	if runs <= 0 {
		runs = 1
	}

	ops := r.operations(params)
	results := make([]Measurement, 0, len(ops)*runs)

	for _, op := range ops {
		for i := 0; i < runs; i++ {
			m := r.measure(ctx, op)
			results = append(results, m)

			if m.OK() {
				r.logger.Debug("Measured operation",
					zap.String("design", m.Design),
					zap.String("operation", m.Operation),
					zap.Duration("duration", m.Duration),
					zap.Int("items", m.Items),
					zap.Int("scanned", m.Scanned),
					zap.Float64("capacityUnits", m.CapacityUnits),
				)
			} else {
				r.logger.Warn("Operation failed",
					zap.String("design", m.Design),
					zap.String("operation", m.Operation),
					zap.String("error", m.Error),
				)
			}
		}
	}
	return results
}

func (r *Runner) measure(ctx context.Context, op operation) Measurement {
	start := time.Now()
	stats, err := op.call(ctx)
	m := Measurement{
		Design:        op.design,
		Operation:     op.name,
		Duration:      time.Since(start),
		Items:         stats.Items,
		Scanned:       stats.Scanned,
		Requests:      stats.Requests,
		CapacityUnits: stats.CapacityUnits,
	}
	if err != nil {
		m.Error = err.Error()
	}
	return m
}

func (r *Runner) operations(params Params) []operation {
	var ops []operation

	for _, store := range r.stores {
		store := store
		ops = append(ops,
			operation{store.Design(), "get-user-by-id", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.GetUserByID(ctx, params.UserID)
				return st, err
			}},
			operation{store.Design(), "get-orders-for-user", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.OrdersForUser(ctx, params.UserID)
				return st, err
			}},
			operation{store.Design(), "get-all-orders", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.AllOrders(ctx)
				return st, err
			}},
			operation{store.Design(), "get-all-users", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.AllUsers(ctx)
				return st, err
			}},
			operation{store.Design(), "get-user-profile", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.UserProfile(ctx, params.UserID)
				return st, err
			}},
			operation{store.Design(), "get-posts-with-comments", func(ctx context.Context) (ports.ReadStats, error) {
				_, st, err := store.PostsWithComments(ctx, params.UserID)
				return st, err
			}},
		)
	}

	if r.ranged != nil && params.From != "" && params.To != "" {
		ops = append(ops, operation{"single-table", "get-orders-in-range", func(ctx context.Context) (ports.ReadStats, error) {
			_, st, err := r.ranged.OrdersInRange(ctx, params.From, params.To)
			return st, err
		}})
	}

	return ops
}
