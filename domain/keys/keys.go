// Package keys defines the single-table key scheme: how each entity kind maps
// onto the table's PK/SK pair and the overloaded GSI1 key pair, and which key
// material each access pattern queries with.
//
// The mapping is static, one convention per entity type. GSI1 carries two
// distinct conventions depending on the stored partition value: a bare type
// tag ("ORDER", "POST", "USER") for fetch-everything-of-type patterns, and an
// owner-prefixed key ("USER_COMMENTS#<id>", "USER_LIKES#<id>") for by-user
// lookups that cut across base partitions.
package keys

import (
	"fmt"
	"hash/fnv"
	"time"

	"ddbench/domain/entities"
)

// Composite key prefixes. Segments are joined with "#".
const (
	PrefixUser     = "USER"
	PrefixOrder    = "ORDER"
	PrefixPost     = "POST"
	PrefixComment  = "COMMENT"
	PrefixFollower = "FOLLOWER"
	PrefixLike     = "LIKE"

	PrefixUserComments = "USER_COMMENTS"
	PrefixUserLikes    = "USER_LIKES"

	// SKProfile is the fixed sort key of a user's profile item.
	SKProfile = "PROFILE"
)

// Key is a base-table primary key.
type Key struct {
	PK string
	SK string
}

// IndexKey is a GSI1 key pair. Zero value means the item is not projected
// into GSI1.
type IndexKey struct {
	PK string
	SK string
}

// IsZero reports whether the item carries no GSI1 projection.
func (k IndexKey) IsZero() bool { return k.PK == "" }

// UserPartition returns the partition key grouping everything owned by a user.
func UserPartition(userID string) string {
	return fmt.Sprintf("%s#%s", PrefixUser, userID)
}

// PostPartition returns the partition key grouping everything attached to a post.
func PostPartition(postID string) string {
	return fmt.Sprintf("%s#%s", PrefixPost, postID)
}

// UserKey returns the exact key of a user's profile item.
func UserKey(userID string) Key {
	return Key{PK: UserPartition(userID), SK: SKProfile}
}

// ChildPrefix returns the sort-key prefix selecting children of the given
// kind within a partition, trailing separator included.
func ChildPrefix(t entities.EntityType) string {
	return string(t) + "#"
}

// TypeTag returns the GSI1 partition value for fetch-everything-of-type
// patterns.
func TypeTag(t entities.EntityType) string {
	return string(t)
}

// ShardedTypeTag returns the GSI1 partition value of one shard of a sharded
// type tag, e.g. "ORDER#3".
func ShardedTypeTag(t entities.EntityType, shard int) string {
	return fmt.Sprintf("%s#%d", t, shard)
}

// Shard assigns an id to one of shardCount shards. Deterministic so the
// read side fans out over exactly the tags the write side produced.
func Shard(id string, shardCount int) int {
	if shardCount <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % uint32(shardCount))
}

// UserCommentsTag returns the GSI1 partition value collecting a user's
// comments across all post partitions.
func UserCommentsTag(userID string) string {
	return fmt.Sprintf("%s#%s", PrefixUserComments, userID)
}

// UserLikesTag returns the GSI1 partition value collecting a user's likes.
func UserLikesTag(userID string) string {
	return fmt.Sprintf("%s#%s", PrefixUserLikes, userID)
}

// ForUser returns the key material of a user profile item.
func ForUser(u entities.User) (Key, IndexKey) {
	return UserKey(u.ID), IndexKey{PK: TypeTag(entities.EntityTypeUser), SK: u.ID}
}

// ForOrder returns the key material of an order item. With shardCount > 1
// the GSI1 type tag is suffixed with the order's shard id.
func ForOrder(o entities.Order, shardCount int) (Key, IndexKey) {
	k := Key{
		PK: UserPartition(o.UserID),
		SK: fmt.Sprintf("%s#%s#%s", PrefixOrder, o.Date, o.ID),
	}
	tag := TypeTag(entities.EntityTypeOrder)
	if shardCount > 1 {
		tag = ShardedTypeTag(entities.EntityTypeOrder, Shard(o.ID, shardCount))
	}
	return k, IndexKey{PK: tag, SK: fmt.Sprintf("%s#%s", o.Date, o.ID)}
}

// ForPost returns the key material of a post item.
func ForPost(p entities.Post) (Key, IndexKey) {
	ts := p.CreatedAt.UTC().Format(time.RFC3339)
	k := Key{
		PK: UserPartition(p.UserID),
		SK: fmt.Sprintf("%s#%s#%s", PrefixPost, ts, p.ID),
	}
	return k, IndexKey{PK: TypeTag(entities.EntityTypePost), SK: ts}
}

// ForComment returns the key material of a comment item. Comments live in
// their post's partition; GSI1 overloads them under the commenting user.
func ForComment(c entities.Comment) (Key, IndexKey) {
	ts := c.CreatedAt.UTC().Format(time.RFC3339)
	k := Key{
		PK: PostPartition(c.PostID),
		SK: fmt.Sprintf("%s#%s#%s", PrefixComment, ts, c.ID),
	}
	return k, IndexKey{PK: UserCommentsTag(c.UserID), SK: ts}
}

// ForFollower returns the key material of a follower edge. Followers are
// only ever read through their user partition, so no GSI1 projection.
func ForFollower(f entities.Follower) (Key, IndexKey) {
	k := Key{
		PK: UserPartition(f.UserID),
		SK: fmt.Sprintf("%s#%s", PrefixFollower, f.FollowerID),
	}
	return k, IndexKey{}
}

// ForLike returns the key material of a like edge.
func ForLike(l entities.Like) (Key, IndexKey) {
	k := Key{
		PK: PostPartition(l.PostID),
		SK: fmt.Sprintf("%s#%s", PrefixLike, l.UserID),
	}
	return k, IndexKey{PK: UserLikesTag(l.UserID), SK: l.LikedAt.UTC().Format(time.RFC3339)}
}

// For maps any entity onto its key material. This is the write side of the
// scheme; the access patterns above are the read side.
func For(e entities.Entity, shardCount int) (Key, IndexKey, error) {
	switch v := e.(type) {
	case entities.User:
		k, ik := ForUser(v)
		return k, ik, nil
	case entities.Order:
		k, ik := ForOrder(v, shardCount)
		return k, ik, nil
	case entities.Post:
		k, ik := ForPost(v)
		return k, ik, nil
	case entities.Comment:
		k, ik := ForComment(v)
		return k, ik, nil
	case entities.Follower:
		k, ik := ForFollower(v)
		return k, ik, nil
	case entities.Like:
		k, ik := ForLike(v)
		return k, ik, nil
	default:
		return Key{}, IndexKey{}, fmt.Errorf("no key convention for entity type %T", e)
	}
}
