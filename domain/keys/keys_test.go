package keys

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddbench/domain/entities"
)

func TestFor_KeyConventions(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		entity entities.Entity
		key    Key
		index  IndexKey
	}{
		{
			name:   "user",
			entity: entities.User{ID: "user-00001", Name: "Alex"},
			key:    Key{PK: "USER#user-00001", SK: "PROFILE"},
			index:  IndexKey{PK: "USER", SK: "user-00001"},
		},
		{
			name:   "order",
			entity: entities.Order{ID: "o1", UserID: "user-00001", Date: "2024-03-15"},
			key:    Key{PK: "USER#user-00001", SK: "ORDER#2024-03-15#o1"},
			index:  IndexKey{PK: "ORDER", SK: "2024-03-15#o1"},
		},
		{
			name:   "post",
			entity: entities.Post{ID: "p1", UserID: "user-00001", CreatedAt: ts},
			key:    Key{PK: "USER#user-00001", SK: "POST#2024-03-15T10:30:00Z#p1"},
			index:  IndexKey{PK: "POST", SK: "2024-03-15T10:30:00Z"},
		},
		{
			name:   "comment lives in post partition",
			entity: entities.Comment{ID: "c1", PostID: "p1", UserID: "user-00002", CreatedAt: ts},
			key:    Key{PK: "POST#p1", SK: "COMMENT#2024-03-15T10:30:00Z#c1"},
			index:  IndexKey{PK: "USER_COMMENTS#user-00002", SK: "2024-03-15T10:30:00Z"},
		},
		{
			name:   "follower has no index projection",
			entity: entities.Follower{UserID: "user-00001", FollowerID: "user-00002", Since: ts},
			key:    Key{PK: "USER#user-00001", SK: "FOLLOWER#user-00002"},
			index:  IndexKey{},
		},
		{
			name:   "like",
			entity: entities.Like{PostID: "p1", UserID: "user-00002", LikedAt: ts},
			key:    Key{PK: "POST#p1", SK: "LIKE#user-00002"},
			index:  IndexKey{PK: "USER_LIKES#user-00002", SK: "2024-03-15T10:30:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, index, err := For(tt.entity, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.index.PK == "", index.IsZero())
		})
	}
}

func TestForOrder_Sharded(t *testing.T) {
	o := entities.Order{ID: "o1", UserID: "user-00001", Date: "2024-03-15"}

	_, index := ForOrder(o, 4)
	assert.Equal(t, ShardedTypeTag(entities.EntityTypeOrder, Shard("o1", 4)), index.PK)
	assert.Regexp(t, `^ORDER#[0-3]$`, index.PK)

	// shardCount 1 keeps the bare tag.
	_, index = ForOrder(o, 1)
	assert.Equal(t, "ORDER", index.PK)
}

func TestShard(t *testing.T) {
	// Deterministic and in range.
	for _, id := range []string{"a", "b", "order-123", "user-00001"} {
		first := Shard(id, 8)
		assert.Equal(t, first, Shard(id, 8))
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 8)
	}

	assert.Zero(t, Shard("anything", 1))
	assert.Zero(t, Shard("anything", 0))
}

func TestShard_Spreads(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		seen[Shard(fmt.Sprintf("order-%03d", i), 4)] = true
	}
	// fnv32a spreads sequential ids; a single hot shard would defeat the
	// point of sharding.
	assert.Greater(t, len(seen), 1)
}

func TestChildPrefix(t *testing.T) {
	assert.Equal(t, "ORDER#", ChildPrefix(entities.EntityTypeOrder))
	assert.Equal(t, "POST#", ChildPrefix(entities.EntityTypePost))
}

func TestFor_UnknownEntity(t *testing.T) {
	_, _, err := For(nil, 1)
	require.Error(t, err)
}
