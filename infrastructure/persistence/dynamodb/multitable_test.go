package dynamodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func multiTestNames() MultiTableNames {
	return MultiTableNames{
		Users:     "ddbench-users",
		Orders:    "ddbench-orders",
		Posts:     "ddbench-posts",
		Comments:  "ddbench-comments",
		Followers: "ddbench-followers",
		Likes:     "ddbench-likes",
	}
}

func newMultiTableFixture(t *testing.T) (*MultiTableStore, *fakeClient) {
	t.Helper()
	names := multiTestNames()
	client := newFakeClient()
	client.addTable(names.Users, "id")
	client.addTable(names.Orders, "id")
	client.addTable(names.Posts, "id")
	client.addTable(names.Comments, "id")
	client.addTable(names.Followers, "userId", "followerId")
	client.addTable(names.Likes, "postId", "userId")
	store := NewMultiTableStore(client, names, "byUser", "byPost", zap.NewNop())
	return store, client
}

func seedMulti(t *testing.T, store *MultiTableStore) {
	t.Helper()
	summary, err := store.Seed(context.Background(), testDataset())
	require.NoError(t, err)
	require.Equal(t, summary.Requested, summary.Inserted)
	require.Zero(t, summary.Unprocessed)
}

func TestMultiTableStore_GetUserByID(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	user, stats, err := store.GetUserByID(context.Background(), "user-00001")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alex Chen", user.Name)
	assert.Equal(t, 1, stats.Requests)

	missing, _, err := store.GetUserByID(context.Background(), "user-99999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMultiTableStore_OrdersForUser_ScansWholeTable(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	orders, stats, err := store.OrdersForUser(context.Background(), "user-00001")
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	for _, o := range orders {
		assert.Equal(t, "user-00001", o.UserID)
	}
	// Without a userId index the scan touches every order, not just the
	// matching ones.
	assert.Equal(t, 4, stats.Scanned)
	assert.Greater(t, stats.Scanned, stats.Items)
}

func TestMultiTableStore_OrdersForUser_ScansMoreThanSingleTable(t *testing.T) {
	multi, _ := newMultiTableFixture(t)
	seedMulti(t, multi)
	single, _ := newSingleTableFixture(t, 1)
	seedSingle(t, single)
	ctx := context.Background()

	mOrders, mStats, err := multi.OrdersForUser(ctx, "user-00001")
	require.NoError(t, err)
	sOrders, sStats, err := single.OrdersForUser(ctx, "user-00001")
	require.NoError(t, err)

	assert.Equal(t, len(sOrders), len(mOrders))
	assert.Greater(t, mStats.Scanned, sStats.Scanned)
}

func TestMultiTableStore_AllOrders(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	orders, stats, err := store.AllOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 4)
	assert.Equal(t, 1, stats.Requests)
	assert.Equal(t, 4, stats.Scanned)
}

func TestMultiTableStore_AllUsers(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	users, _, err := store.AllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestMultiTableStore_UserProfile(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	profile, stats, err := store.UserProfile(context.Background(), "user-00001")
	require.NoError(t, err)
	require.NotNil(t, profile.User)
	assert.Equal(t, "user-00001", profile.User.ID)
	assert.Len(t, profile.Orders, 3)
	assert.Len(t, profile.Posts, 2)
	assert.Len(t, profile.Followers, 1)
	// User get, posts query, followers query, orders scan.
	assert.Equal(t, 4, stats.Requests)
}

func TestMultiTableStore_PostsWithComments(t *testing.T) {
	store, _ := newMultiTableFixture(t)
	seedMulti(t, store)

	result, stats, err := store.PostsWithComments(context.Background(), "user-00001")
	require.NoError(t, err)
	require.Len(t, result, 2)

	byPost := map[string]int{}
	for _, pwc := range result {
		byPost[pwc.Post.ID] = len(pwc.Comments)
	}
	assert.Equal(t, 2, byPost["p1"])
	assert.Equal(t, 0, byPost["p2"])
	// One posts query plus one comments query per post.
	assert.Equal(t, 1+len(result), stats.Requests)
}

func TestMultiTableStore_PostsWithComments_QueryFailure(t *testing.T) {
	store, client := newMultiTableFixture(t)
	seedMulti(t, store)
	client.failNext["Query"] = assert.AnError

	_, _, err := store.PostsWithComments(context.Background(), "user-00001")
	require.Error(t, err)
}

func TestMultiTableStore_SeedAndClear(t *testing.T) {
	store, client := newMultiTableFixture(t)
	ds := testDataset()

	summary, err := store.Seed(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, ds.Size(), summary.Requested)
	assert.Equal(t, ds.Size(), summary.Inserted)
	assert.Len(t, client.tables[multiTestNames().Orders].items, 4)
	assert.Len(t, client.tables[multiTestNames().Followers].items, 1)

	deleted, err := store.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Size(), deleted)
	for name, table := range client.tables {
		assert.Empty(t, table.items, "table %s not cleared", name)
	}
}
