package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ddbench/domain/entities"
	"ddbench/domain/keys"
)

// Single-table item shapes. One struct per entity kind; all share the key
// attributes and the EntityType discriminator.

type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	UserID   string `dynamodbav:"UserID"`
	Name     string `dynamodbav:"Name"`
	Email    string `dynamodbav:"Email"`
	JoinedAt string `dynamodbav:"JoinedAt"`
}

type orderItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	OrderID string  `dynamodbav:"OrderID"`
	UserID  string  `dynamodbav:"UserID"`
	Date    string  `dynamodbav:"Date"`
	Amount  float64 `dynamodbav:"Amount"`
	Status  string  `dynamodbav:"Status"`
}

type postItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	PostID    string `dynamodbav:"PostID"`
	UserID    string `dynamodbav:"UserID"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	Body      string `dynamodbav:"Body"`
}

type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	CommentID string `dynamodbav:"CommentID"`
	PostID    string `dynamodbav:"PostID"`
	UserID    string `dynamodbav:"UserID"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	Body      string `dynamodbav:"Body"`
}

type followerItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`

	UserID     string `dynamodbav:"UserID"`
	FollowerID string `dynamodbav:"FollowerID"`
	Since      string `dynamodbav:"Since"`
}

type likeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	PostID  string `dynamodbav:"PostID"`
	UserID  string `dynamodbav:"UserID"`
	LikedAt string `dynamodbav:"LikedAt"`
}

// encodeRecord maps an entity onto its single-table item using the key
// scheme. shardCount > 1 shards the order type tag.
func encodeRecord(e entities.Entity, shardCount int) (map[string]types.AttributeValue, error) {
	k, ik, err := keys.For(e, shardCount)
	if err != nil {
		return nil, err
	}

	switch v := e.(type) {
	case entities.User:
		return attributevalue.MarshalMap(userItem{
			PK: k.PK, SK: k.SK, GSI1PK: ik.PK, GSI1SK: ik.SK,
			EntityType: string(entities.EntityTypeUser),
			UserID:     v.ID, Name: v.Name, Email: v.Email,
			JoinedAt: v.JoinedAt.UTC().Format(time.RFC3339),
		})
	case entities.Order:
		return attributevalue.MarshalMap(orderItem{
			PK: k.PK, SK: k.SK, GSI1PK: ik.PK, GSI1SK: ik.SK,
			EntityType: string(entities.EntityTypeOrder),
			OrderID:    v.ID, UserID: v.UserID, Date: v.Date,
			Amount: v.Amount, Status: v.Status,
		})
	case entities.Post:
		return attributevalue.MarshalMap(postItem{
			PK: k.PK, SK: k.SK, GSI1PK: ik.PK, GSI1SK: ik.SK,
			EntityType: string(entities.EntityTypePost),
			PostID:     v.ID, UserID: v.UserID,
			CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339), Body: v.Body,
		})
	case entities.Comment:
		return attributevalue.MarshalMap(commentItem{
			PK: k.PK, SK: k.SK, GSI1PK: ik.PK, GSI1SK: ik.SK,
			EntityType: string(entities.EntityTypeComment),
			CommentID:  v.ID, PostID: v.PostID, UserID: v.UserID,
			CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339), Body: v.Body,
		})
	case entities.Follower:
		return attributevalue.MarshalMap(followerItem{
			PK: k.PK, SK: k.SK,
			EntityType: string(entities.EntityTypeFollower),
			UserID:     v.UserID, FollowerID: v.FollowerID,
			Since: v.Since.UTC().Format(time.RFC3339),
		})
	case entities.Like:
		return attributevalue.MarshalMap(likeItem{
			PK: k.PK, SK: k.SK, GSI1PK: ik.PK, GSI1SK: ik.SK,
			EntityType: string(entities.EntityTypeLike),
			PostID:     v.PostID, UserID: v.UserID,
			LikedAt: v.LikedAt.UTC().Format(time.RFC3339),
		})
	default:
		return nil, fmt.Errorf("no item shape for entity type %T", e)
	}
}

// decodeRecord converts a raw single-table item into its typed entity
// variant. This is the single dispatch point for heterogeneous query
// results: everything downstream switches on the concrete entity type.
func decodeRecord(av map[string]types.AttributeValue) (entities.Entity, error) {
	tag, ok := av["EntityType"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("item has no EntityType discriminator")
	}

	switch entities.EntityType(tag.Value) {
	case entities.EntityTypeUser:
		var it userItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user item: %w", err)
		}
		joined, _ := time.Parse(time.RFC3339, it.JoinedAt)
		return entities.User{ID: it.UserID, Name: it.Name, Email: it.Email, JoinedAt: joined}, nil

	case entities.EntityTypeOrder:
		var it orderItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order item: %w", err)
		}
		return entities.Order{ID: it.OrderID, UserID: it.UserID, Date: it.Date, Amount: it.Amount, Status: it.Status}, nil

	case entities.EntityTypePost:
		var it postItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal post item: %w", err)
		}
		created, _ := time.Parse(time.RFC3339, it.CreatedAt)
		return entities.Post{ID: it.PostID, UserID: it.UserID, CreatedAt: created, Body: it.Body}, nil

	case entities.EntityTypeComment:
		var it commentItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comment item: %w", err)
		}
		created, _ := time.Parse(time.RFC3339, it.CreatedAt)
		return entities.Comment{ID: it.CommentID, PostID: it.PostID, UserID: it.UserID, CreatedAt: created, Body: it.Body}, nil

	case entities.EntityTypeFollower:
		var it followerItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal follower item: %w", err)
		}
		since, _ := time.Parse(time.RFC3339, it.Since)
		return entities.Follower{UserID: it.UserID, FollowerID: it.FollowerID, Since: since}, nil

	case entities.EntityTypeLike:
		var it likeItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal like item: %w", err)
		}
		liked, _ := time.Parse(time.RFC3339, it.LikedAt)
		return entities.Like{PostID: it.PostID, UserID: it.UserID, LikedAt: liked}, nil

	default:
		return nil, fmt.Errorf("unknown EntityType %q", tag.Value)
	}
}
