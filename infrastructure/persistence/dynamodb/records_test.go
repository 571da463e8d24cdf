package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddbench/domain/entities"
)

func TestEncodeDecodeRecord_Dispatch(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	for _, e := range []entities.Entity{
		entities.User{ID: "user-00001", Name: "Alex Chen", Email: "alex@example.com", JoinedAt: ts},
		entities.Order{ID: "o1", UserID: "user-00001", Date: "2024-03-15", Amount: 19.99, Status: "SHIPPED"},
		entities.Post{ID: "p1", UserID: "user-00001", CreatedAt: ts, Body: "hello"},
		entities.Comment{ID: "c1", PostID: "p1", UserID: "user-00002", CreatedAt: ts, Body: "hi"},
		entities.Follower{UserID: "user-00001", FollowerID: "user-00002", Since: ts},
		entities.Like{PostID: "p1", UserID: "user-00002", LikedAt: ts},
	} {
		av, err := encodeRecord(e, 1)
		require.NoError(t, err)
		assert.Equal(t, string(e.Type()), strValue(av["EntityType"]))

		decoded, err := decodeRecord(av)
		require.NoError(t, err)
		assert.Equal(t, e, decoded)
	}
}

func TestEncodeRecord_FollowerSkipsIndex(t *testing.T) {
	av, err := encodeRecord(entities.Follower{UserID: "user-00001", FollowerID: "user-00002"}, 1)
	require.NoError(t, err)
	assert.NotContains(t, av, "GSI1PK")
	assert.NotContains(t, av, "GSI1SK")
}

func TestDecodeRecord_MissingDiscriminator(t *testing.T) {
	_, err := decodeRecord(map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "USER#user-00001"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EntityType")
}

func TestDecodeRecord_UnknownType(t *testing.T) {
	_, err := decodeRecord(map[string]types.AttributeValue{
		"EntityType": &types.AttributeValueMemberS{Value: "WIDGET"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WIDGET")
}
