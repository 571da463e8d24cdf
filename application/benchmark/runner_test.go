package benchmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ddbench/application/ports"
	"ddbench/domain/entities"
)

// stubStore implements ports.BenchmarkStore with canned stats, optionally
// failing a single named operation.
type stubStore struct {
	design string
	stats  ports.ReadStats
	failOp string
	err    error
	calls  map[string]int
}

func newStubStore(design string) *stubStore {
	return &stubStore{
		design: design,
		stats:  ports.ReadStats{Items: 2, Scanned: 2, Requests: 1, CapacityUnits: 0.5},
		calls:  map[string]int{},
	}
}

func (s *stubStore) Design() string { return s.design }

func (s *stubStore) record(op string) (ports.ReadStats, error) {
	s.calls[op]++
	if op == s.failOp {
		return s.stats, s.err
	}
	return s.stats, nil
}

func (s *stubStore) GetUserByID(ctx context.Context, id string) (*entities.User, ports.ReadStats, error) {
	st, err := s.record("get-user-by-id")
	return &entities.User{ID: id}, st, err
}

func (s *stubStore) OrdersForUser(ctx context.Context, userID string) ([]entities.Order, ports.ReadStats, error) {
	st, err := s.record("get-orders-for-user")
	return nil, st, err
}

func (s *stubStore) AllOrders(ctx context.Context) ([]entities.Order, ports.ReadStats, error) {
	st, err := s.record("get-all-orders")
	return nil, st, err
}

func (s *stubStore) AllUsers(ctx context.Context) ([]entities.User, ports.ReadStats, error) {
	st, err := s.record("get-all-users")
	return nil, st, err
}

func (s *stubStore) UserProfile(ctx context.Context, userID string) (*entities.Profile, ports.ReadStats, error) {
	st, err := s.record("get-user-profile")
	return &entities.Profile{}, st, err
}

func (s *stubStore) PostsWithComments(ctx context.Context, userID string) ([]entities.PostWithComments, ports.ReadStats, error) {
	st, err := s.record("get-posts-with-comments")
	return nil, st, err
}

type stubRanged struct {
	calls int
}

func (s *stubRanged) OrdersInRange(ctx context.Context, from, to string) ([]entities.Order, ports.ReadStats, error) {
	s.calls++
	return nil, ports.ReadStats{Requests: 4}, nil
}

func TestRunner_Run(t *testing.T) {
	single := newStubStore("single-table")
	multi := newStubStore("multi-table")
	runner := NewRunner([]ports.BenchmarkStore{single, multi}, nil, zap.NewNop())

	results := runner.Run(context.Background(), Params{UserID: "user-00001", Runs: 3})

	// 6 battery operations per design, 3 runs each.
	require.Len(t, results, 2*6*3)
	for _, m := range results {
		assert.True(t, m.OK())
		assert.Equal(t, 1, m.Requests)
		assert.Equal(t, 0.5, m.CapacityUnits)
	}
	assert.Equal(t, 3, single.calls["get-user-profile"])
	assert.Equal(t, 3, multi.calls["get-posts-with-comments"])
}

func TestRunner_Run_RecordsFailureAndContinues(t *testing.T) {
	single := newStubStore("single-table")
	single.failOp = "get-orders-for-user"
	single.err = assert.AnError
	multi := newStubStore("multi-table")
	runner := NewRunner([]ports.BenchmarkStore{single, multi}, nil, zap.NewNop())

	results := runner.Run(context.Background(), Params{UserID: "user-00001", Runs: 2})

	require.Len(t, results, 2*6*2)

	failed := 0
	for _, m := range results {
		if !m.OK() {
			failed++
			assert.Equal(t, "single-table", m.Design)
			assert.Equal(t, "get-orders-for-user", m.Operation)
			assert.Equal(t, assert.AnError.Error(), m.Error)
		}
	}
	assert.Equal(t, 2, failed)
	// Later operations still ran on the failing store.
	assert.Equal(t, 2, single.calls["get-posts-with-comments"])
}

func TestRunner_Run_RangePatternRequiresBounds(t *testing.T) {
	store := newStubStore("single-table")
	ranged := &stubRanged{}
	runner := NewRunner([]ports.BenchmarkStore{store}, ranged, zap.NewNop())

	results := runner.Run(context.Background(), Params{UserID: "user-00001", Runs: 1})
	assert.Len(t, results, 6)
	assert.Zero(t, ranged.calls)

	results = runner.Run(context.Background(), Params{
		UserID: "user-00001",
		From:   "2024-01-01",
		To:     "2024-06-30",
		Runs:   1,
	})
	assert.Len(t, results, 7)
	assert.Equal(t, 1, ranged.calls)
	assert.Equal(t, "get-orders-in-range", results[6].Operation)
}

func TestRunner_Run_DefaultsToOneRun(t *testing.T) {
	store := newStubStore("single-table")
	runner := NewRunner([]ports.BenchmarkStore{store}, nil, zap.NewNop())

	results := runner.Run(context.Background(), Params{UserID: "user-00001"})
	assert.Len(t, results, 6)
}
