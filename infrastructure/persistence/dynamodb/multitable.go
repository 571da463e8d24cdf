package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ddbench/application/ports"
	"ddbench/domain/entities"
)

// MultiTableNames holds the per-entity table names of the relational-style
// design.
type MultiTableNames struct {
	Users     string
	Orders    string
	Posts     string
	Comments  string
	Followers string
	Likes     string
}

// MultiTableStore is the relational-style design: one table per entity type,
// simple primary keys, and foreign-key attributes that are mostly unindexed.
// The orders table deliberately has no userId index, so orders-of-user must
// scan; posts and comments carry a byUser/byPost GSI.
type MultiTableStore struct {
	client      Client
	tables      MultiTableNames
	byUserIndex string // posts GSI keyed on userId
	byPostIndex string // comments GSI keyed on postId
	writer      *BatchWriter
	logger      *zap.Logger
}

// NewMultiTableStore creates the multi-table design store.
func NewMultiTableStore(client Client, tables MultiTableNames, byUserIndex, byPostIndex string, logger *zap.Logger) *MultiTableStore {
	return &MultiTableStore{
		client:      client,
		tables:      tables,
		byUserIndex: byUserIndex,
		byPostIndex: byPostIndex,
		writer:      NewBatchWriter(client, logger),
		logger:      logger,
	}
}

// Design identifies this variant in measurements.
func (s *MultiTableStore) Design() string { return "multi-table" }

// Per-table item shapes.

type userRow struct {
	ID       string `dynamodbav:"id"`
	Name     string `dynamodbav:"name"`
	Email    string `dynamodbav:"email"`
	JoinedAt string `dynamodbav:"joinedAt"`
}

type orderRow struct {
	ID     string  `dynamodbav:"id"`
	UserID string  `dynamodbav:"userId"`
	Date   string  `dynamodbav:"date"`
	Amount float64 `dynamodbav:"amount"`
	Status string  `dynamodbav:"status"`
}

type postRow struct {
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"userId"`
	CreatedAt string `dynamodbav:"createdAt"`
	Body      string `dynamodbav:"body"`
}

type commentRow struct {
	ID        string `dynamodbav:"id"`
	PostID    string `dynamodbav:"postId"`
	UserID    string `dynamodbav:"userId"`
	CreatedAt string `dynamodbav:"createdAt"`
	Body      string `dynamodbav:"body"`
}

type followerRow struct {
	UserID     string `dynamodbav:"userId"`
	FollowerID string `dynamodbav:"followerId"`
	Since      string `dynamodbav:"since"`
}

type likeRow struct {
	PostID  string `dynamodbav:"postId"`
	UserID  string `dynamodbav:"userId"`
	LikedAt string `dynamodbav:"likedAt"`
}

// GetUserByID is a direct key lookup on the users table.
func (s *MultiTableStore) GetUserByID(ctx context.Context, id string) (*entities.User, ports.ReadStats, error) {
	var stats ports.ReadStats

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Users),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("GetItem users", err)
	}
	stats.Requests = 1
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	if out.Item == nil {
		return nil, stats, nil
	}
	stats.Items = 1
	stats.Scanned = 1

	var row userRow
	if err := attributevalue.UnmarshalMap(out.Item, &row); err != nil {
		return nil, stats, err
	}
	u := row.toEntity()
	return &u, stats, nil
}

// OrdersForUser has no supporting index in this design, so it is a full
// table scan with a userId filter. The scanned count reflects the whole
// orders table regardless of how few orders match.
func (s *MultiTableStore) OrdersForUser(ctx context.Context, userID string) ([]entities.Order, ports.ReadStats, error) {
	var stats ports.ReadStats

	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, stats, err
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.tables.Orders),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnConsumedCapacity:    types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("Scan orders", err)
	}
	stats.Requests = 1
	stats.Items = len(out.Items)
	stats.Scanned = int(out.ScannedCount)
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	orders := make([]entities.Order, 0, len(out.Items))
	for _, av := range out.Items {
		var row orderRow
		if err := attributevalue.UnmarshalMap(av, &row); err != nil {
			return nil, stats, err
		}
		orders = append(orders, row.toEntity())
	}
	return orders, stats, nil
}

// AllOrders is a full table scan.
func (s *MultiTableStore) AllOrders(ctx context.Context) ([]entities.Order, ports.ReadStats, error) {
	var stats ports.ReadStats

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:              aws.String(s.tables.Orders),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("Scan orders", err)
	}
	stats.Requests = 1
	stats.Items = len(out.Items)
	stats.Scanned = int(out.ScannedCount)
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	orders := make([]entities.Order, 0, len(out.Items))
	for _, av := range out.Items {
		var row orderRow
		if err := attributevalue.UnmarshalMap(av, &row); err != nil {
			return nil, stats, err
		}
		orders = append(orders, row.toEntity())
	}
	return orders, stats, nil
}

// AllUsers is a full table scan.
func (s *MultiTableStore) AllUsers(ctx context.Context) ([]entities.User, ports.ReadStats, error) {
	var stats ports.ReadStats

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:              aws.String(s.tables.Users),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("Scan users", err)
	}
	stats.Requests = 1
	stats.Items = len(out.Items)
	stats.Scanned = int(out.ScannedCount)
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	users := make([]entities.User, 0, len(out.Items))
	for _, av := range out.Items {
		var row userRow
		if err := attributevalue.UnmarshalMap(av, &row); err != nil {
			return nil, stats, err
		}
		users = append(users, row.toEntity())
	}
	return users, stats, nil
}

// UserProfile stitches the screen together from four sequential requests:
// users lookup, posts byUser query, followers query, and the unindexed
// orders scan.
func (s *MultiTableStore) UserProfile(ctx context.Context, userID string) (*entities.Profile, ports.ReadStats, error) {
	var stats ports.ReadStats
	profile := &entities.Profile{}

	user, st, err := s.GetUserByID(ctx, userID)
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}
	profile.User = user

	posts, st, err := s.postsForUser(ctx, userID)
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}
	profile.Posts = posts

	followers, st, err := s.followersForUser(ctx, userID)
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}
	profile.Followers = followers

	orders, st, err := s.OrdersForUser(ctx, userID)
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}
	profile.Orders = orders

	return profile, stats, nil
}

// PostsWithComments is the N+1 baseline: one posts query, then one comments
// query per post. The loop shape is intentional; the comparison depends on
// the inefficiency being real.
func (s *MultiTableStore) PostsWithComments(ctx context.Context, userID string) ([]entities.PostWithComments, ports.ReadStats, error) {
	var stats ports.ReadStats

	posts, st, err := s.postsForUser(ctx, userID)
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}

	result := make([]entities.PostWithComments, 0, len(posts))
	for _, post := range posts {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tables.Comments),
			IndexName:              aws.String(s.byPostIndex),
			KeyConditionExpression: aws.String("postId = :pid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pid": &types.AttributeValueMemberS{Value: post.ID},
			},
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
		})
		if err != nil {
			return nil, stats, classify("Query comments byPost", err)
		}
		stats.Add(ports.ReadStats{
			Requests:      1,
			Items:         len(out.Items),
			Scanned:       int(out.ScannedCount),
			CapacityUnits: capacityUnits(out.ConsumedCapacity),
		})

		pwc := entities.PostWithComments{Post: post}
		for _, av := range out.Items {
			var row commentRow
			if err := attributevalue.UnmarshalMap(av, &row); err != nil {
				return nil, stats, err
			}
			pwc.Comments = append(pwc.Comments, row.toEntity())
		}
		result = append(result, pwc)
	}
	return result, stats, nil
}

// Seed batch-writes each entity kind into its own table.
func (s *MultiTableStore) Seed(ctx context.Context, ds *entities.Dataset) (ports.SeedSummary, error) {
	var summary ports.SeedSummary

	writes := []struct {
		table string
		items []map[string]types.AttributeValue
	}{
		{s.tables.Users, marshalRows(ds.Users, userRowFrom)},
		{s.tables.Orders, marshalRows(ds.Orders, orderRowFrom)},
		{s.tables.Posts, marshalRows(ds.Posts, postRowFrom)},
		{s.tables.Comments, marshalRows(ds.Comments, commentRowFrom)},
		{s.tables.Followers, marshalRows(ds.Followers, followerRowFrom)},
		{s.tables.Likes, marshalRows(ds.Likes, likeRowFrom)},
	}

	for _, w := range writes {
		if len(w.items) == 0 {
			continue
		}
		s.logger.Info("Seeding multi-table design",
			zap.String("table", w.table),
			zap.Int("items", len(w.items)),
		)
		res, err := s.writer.PutItems(ctx, w.table, w.items)
		summary.Requested += res.Requested
		summary.Inserted += res.Processed()
		summary.Unprocessed += res.Unprocessed
		summary.Batches += res.Batches
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// Clear scans each table for keys and batch-deletes everything.
func (s *MultiTableStore) Clear(ctx context.Context) (int, error) {
	deleted := 0

	tables := []struct {
		name     string
		keyAttrs []string
	}{
		{s.tables.Users, []string{"id"}},
		{s.tables.Orders, []string{"id"}},
		{s.tables.Posts, []string{"id"}},
		{s.tables.Comments, []string{"id"}},
		{s.tables.Followers, []string{"userId", "followerId"}},
		{s.tables.Likes, []string{"postId", "userId"}},
	}

	for _, t := range tables {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String(t.name),
		})
		if err != nil {
			return deleted, classify("Scan for clear "+t.name, err)
		}
		if len(out.Items) == 0 {
			continue
		}
		res, err := s.writer.DeleteKeys(ctx, t.name, chunkKeysForDelete(out.Items, t.keyAttrs...))
		deleted += res.Processed()
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (s *MultiTableStore) postsForUser(ctx context.Context, userID string) ([]entities.Post, ports.ReadStats, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Posts),
		IndexName:              aws.String(s.byUserIndex),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, ports.ReadStats{}, classify("Query posts byUser", err)
	}
	stats := ports.ReadStats{
		Requests:      1,
		Items:         len(out.Items),
		Scanned:       int(out.ScannedCount),
		CapacityUnits: capacityUnits(out.ConsumedCapacity),
	}

	posts := make([]entities.Post, 0, len(out.Items))
	for _, av := range out.Items {
		var row postRow
		if err := attributevalue.UnmarshalMap(av, &row); err != nil {
			return nil, stats, err
		}
		posts = append(posts, row.toEntity())
	}
	return posts, stats, nil
}

func (s *MultiTableStore) followersForUser(ctx context.Context, userID string) ([]entities.Follower, ports.ReadStats, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Followers),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, ports.ReadStats{}, classify("Query followers", err)
	}
	stats := ports.ReadStats{
		Requests:      1,
		Items:         len(out.Items),
		Scanned:       int(out.ScannedCount),
		CapacityUnits: capacityUnits(out.ConsumedCapacity),
	}

	followers := make([]entities.Follower, 0, len(out.Items))
	for _, av := range out.Items {
		var row followerRow
		if err := attributevalue.UnmarshalMap(av, &row); err != nil {
			return nil, stats, err
		}
		followers = append(followers, row.toEntity())
	}
	return followers, stats, nil
}

// Row constructors and conversions.

func userRowFrom(u entities.User) userRow {
	return userRow{ID: u.ID, Name: u.Name, Email: u.Email, JoinedAt: u.JoinedAt.UTC().Format(time.RFC3339)}
}

func (r userRow) toEntity() entities.User {
	joined, _ := time.Parse(time.RFC3339, r.JoinedAt)
	return entities.User{ID: r.ID, Name: r.Name, Email: r.Email, JoinedAt: joined}
}

func orderRowFrom(o entities.Order) orderRow {
	return orderRow{ID: o.ID, UserID: o.UserID, Date: o.Date, Amount: o.Amount, Status: o.Status}
}

func (r orderRow) toEntity() entities.Order {
	return entities.Order{ID: r.ID, UserID: r.UserID, Date: r.Date, Amount: r.Amount, Status: r.Status}
}

func postRowFrom(p entities.Post) postRow {
	return postRow{ID: p.ID, UserID: p.UserID, CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339), Body: p.Body}
}

func (r postRow) toEntity() entities.Post {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return entities.Post{ID: r.ID, UserID: r.UserID, CreatedAt: created, Body: r.Body}
}

func commentRowFrom(c entities.Comment) commentRow {
	return commentRow{ID: c.ID, PostID: c.PostID, UserID: c.UserID, CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339), Body: c.Body}
}

func (r commentRow) toEntity() entities.Comment {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return entities.Comment{ID: r.ID, PostID: r.PostID, UserID: r.UserID, CreatedAt: created, Body: r.Body}
}

func followerRowFrom(f entities.Follower) followerRow {
	return followerRow{UserID: f.UserID, FollowerID: f.FollowerID, Since: f.Since.UTC().Format(time.RFC3339)}
}

func (r followerRow) toEntity() entities.Follower {
	since, _ := time.Parse(time.RFC3339, r.Since)
	return entities.Follower{UserID: r.UserID, FollowerID: r.FollowerID, Since: since}
}

func likeRowFrom(l entities.Like) likeRow {
	return likeRow{PostID: l.PostID, UserID: l.UserID, LikedAt: l.LikedAt.UTC().Format(time.RFC3339)}
}

func (r likeRow) toEntity() entities.Like {
	liked, _ := time.Parse(time.RFC3339, r.LikedAt)
	return entities.Like{PostID: r.PostID, UserID: r.UserID, LikedAt: liked}
}

// marshalRows converts a slice of entities into attribute-value maps through
// a row constructor; marshal failures are skipped with the item dropped,
// which cannot happen for these fixed shapes.
func marshalRows[E any, R any](in []E, conv func(E) R) []map[string]types.AttributeValue {
	out := make([]map[string]types.AttributeValue, 0, len(in))
	for _, e := range in {
		av, err := attributevalue.MarshalMap(conv(e))
		if err != nil {
			continue
		}
		out = append(out, av)
	}
	return out
}
