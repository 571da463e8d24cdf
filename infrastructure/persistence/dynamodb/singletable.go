package dynamodb

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ddbench/application/ports"
	"ddbench/domain/entities"
	"ddbench/domain/keys"
)

// SingleTableStore holds every entity kind in one table under the composite
// key scheme from domain/keys, with GSI1 overloaded across type tags and
// owner-prefixed keys.
type SingleTableStore struct {
	client     Client
	table      string
	indexName  string // GSI1
	shardCount int
	writer     *BatchWriter
	logger     *zap.Logger
}

// NewSingleTableStore creates the single-table design store. shardCount <= 1
// disables order sharding.
func NewSingleTableStore(client Client, table, indexName string, shardCount int, logger *zap.Logger) *SingleTableStore {
	return &SingleTableStore{
		client:     client,
		table:      table,
		indexName:  indexName,
		shardCount: shardCount,
		writer:     NewBatchWriter(client, logger),
		logger:     logger,
	}
}

// Design identifies this variant in measurements.
func (s *SingleTableStore) Design() string { return "single-table" }

// GetUserByID is a direct key lookup. A missing user returns (nil, stats, nil).
func (s *SingleTableStore) GetUserByID(ctx context.Context, id string) (*entities.User, ports.ReadStats, error) {
	var stats ports.ReadStats
	k := keys.UserKey(id)

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: k.PK},
			"SK": &types.AttributeValueMemberS{Value: k.SK},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("GetItem user", err)
	}
	stats.Requests = 1
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	if out.Item == nil {
		return nil, stats, nil
	}
	stats.Items = 1
	stats.Scanned = 1

	e, err := decodeRecord(out.Item)
	if err != nil {
		return nil, stats, err
	}
	u, ok := e.(entities.User)
	if !ok {
		return nil, stats, nil
	}
	return &u, stats, nil
}

// OrdersForUser queries the user partition with an ORDER# sort-key prefix.
func (s *SingleTableStore) OrdersForUser(ctx context.Context, userID string) ([]entities.Order, ports.ReadStats, error) {
	var stats ports.ReadStats
	items, st, err := s.queryPrefix(ctx, keys.UserPartition(userID), keys.ChildPrefix(entities.EntityTypeOrder))
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}

	orders := make([]entities.Order, 0, len(items))
	for _, av := range items {
		e, err := decodeRecord(av)
		if err != nil {
			return nil, stats, err
		}
		if o, ok := e.(entities.Order); ok {
			orders = append(orders, o)
		}
	}
	return orders, stats, nil
}

// AllOrders queries GSI1 by the ORDER type tag. With sharding enabled the
// tags are fanned over sequentially; the sharded parallel path lives in
// OrdersInRange.
func (s *SingleTableStore) AllOrders(ctx context.Context) ([]entities.Order, ports.ReadStats, error) {
	var stats ports.ReadStats
	tags := s.orderTags()

	var orders []entities.Order
	for _, tag := range tags {
		items, st, err := s.queryIndexEqual(ctx, tag)
		stats.Add(st)
		if err != nil {
			return nil, stats, err
		}
		for _, av := range items {
			e, err := decodeRecord(av)
			if err != nil {
				return nil, stats, err
			}
			if o, ok := e.(entities.Order); ok {
				orders = append(orders, o)
			}
		}
	}
	return orders, stats, nil
}

// AllUsers queries GSI1 by the USER type tag.
func (s *SingleTableStore) AllUsers(ctx context.Context) ([]entities.User, ports.ReadStats, error) {
	var stats ports.ReadStats
	items, st, err := s.queryIndexEqual(ctx, keys.TypeTag(entities.EntityTypeUser))
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}

	users := make([]entities.User, 0, len(items))
	for _, av := range items {
		e, err := decodeRecord(av)
		if err != nil {
			return nil, stats, err
		}
		if u, ok := e.(entities.User); ok {
			users = append(users, u)
		}
	}
	return users, stats, nil
}

// UserProfile issues one partition query and partitions the heterogeneous
// result client-side by entity kind.
func (s *SingleTableStore) UserProfile(ctx context.Context, userID string) (*entities.Profile, ports.ReadStats, error) {
	var stats ports.ReadStats

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: keys.UserPartition(userID)},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, stats, classify("Query user partition", err)
	}
	stats.Requests = 1
	stats.Items = len(out.Items)
	stats.Scanned = int(out.ScannedCount)
	stats.CapacityUnits = capacityUnits(out.ConsumedCapacity)

	profile := &entities.Profile{}
	for _, av := range out.Items {
		e, err := decodeRecord(av)
		if err != nil {
			return nil, stats, err
		}
		switch v := e.(type) {
		case entities.User:
			u := v
			profile.User = &u
		case entities.Order:
			profile.Orders = append(profile.Orders, v)
		case entities.Post:
			profile.Posts = append(profile.Posts, v)
		case entities.Follower:
			profile.Followers = append(profile.Followers, v)
		}
	}
	return profile, stats, nil
}

// PostsWithComments fetches the user's posts from the user partition, then
// queries each post partition for comments. The per-post loop is the
// intended baseline shape; see the multi-table variant for the indexed
// equivalent.
func (s *SingleTableStore) PostsWithComments(ctx context.Context, userID string) ([]entities.PostWithComments, ports.ReadStats, error) {
	var stats ports.ReadStats

	postItems, st, err := s.queryPrefix(ctx, keys.UserPartition(userID), keys.ChildPrefix(entities.EntityTypePost))
	stats.Add(st)
	if err != nil {
		return nil, stats, err
	}

	result := make([]entities.PostWithComments, 0, len(postItems))
	for _, av := range postItems {
		e, err := decodeRecord(av)
		if err != nil {
			return nil, stats, err
		}
		post, ok := e.(entities.Post)
		if !ok {
			continue
		}

		commentItems, st, err := s.queryPrefix(ctx, keys.PostPartition(post.ID), keys.ChildPrefix(entities.EntityTypeComment))
		stats.Add(st)
		if err != nil {
			return nil, stats, err
		}

		pwc := entities.PostWithComments{Post: post}
		for _, cav := range commentItems {
			ce, err := decodeRecord(cav)
			if err != nil {
				return nil, stats, err
			}
			if c, ok := ce.(entities.Comment); ok {
				pwc.Comments = append(pwc.Comments, c)
			}
		}
		result = append(result, pwc)
	}
	return result, stats, nil
}

// OrdersInRange fans a GSI1 range query out over all order shards in
// parallel and merges the results by date. One shard failing fails the
// whole call.
func (s *SingleTableStore) OrdersInRange(ctx context.Context, from, to string) ([]entities.Order, ports.ReadStats, error) {
	var stats ports.ReadStats
	tags := s.orderTags()

	// "#~" sorts after every "<date>#<id>" sort key of the upper-bound day.
	hi := to + "#~"

	type shardResult struct {
		orders []entities.Order
		stats  ports.ReadStats
	}
	results := make([]shardResult, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			out, err := s.client.Query(gctx, &dynamodb.QueryInput{
				TableName:              aws.String(s.table),
				IndexName:              aws.String(s.indexName),
				KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK BETWEEN :from AND :to"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pk":   &types.AttributeValueMemberS{Value: tag},
					":from": &types.AttributeValueMemberS{Value: from},
					":to":   &types.AttributeValueMemberS{Value: hi},
				},
				ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
			})
			if err != nil {
				return classify("Query order shard "+tag, err)
			}

			r := shardResult{stats: ports.ReadStats{
				Requests:      1,
				Items:         len(out.Items),
				Scanned:       int(out.ScannedCount),
				CapacityUnits: capacityUnits(out.ConsumedCapacity),
			}}
			for _, av := range out.Items {
				e, err := decodeRecord(av)
				if err != nil {
					return err
				}
				if o, ok := e.(entities.Order); ok {
					r.orders = append(r.orders, o)
				}
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var orders []entities.Order
	for _, r := range results {
		stats.Add(r.stats)
		orders = append(orders, r.orders...)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Date != orders[j].Date {
			return orders[i].Date < orders[j].Date
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, stats, nil
}

// Seed batch-writes the whole dataset into the table.
func (s *SingleTableStore) Seed(ctx context.Context, ds *entities.Dataset) (ports.SeedSummary, error) {
	all := ds.All()
	items := make([]map[string]types.AttributeValue, 0, len(all))
	for _, e := range all {
		av, err := encodeRecord(e, s.shardCount)
		if err != nil {
			return ports.SeedSummary{}, err
		}
		items = append(items, av)
	}

	s.logger.Info("Seeding single-table design",
		zap.String("table", s.table),
		zap.Int("items", len(items)),
		zap.Int("shards", s.shardCount),
	)

	res, err := s.writer.PutItems(ctx, s.table, items)
	summary := ports.SeedSummary{
		Requested:   res.Requested,
		Inserted:    res.Processed(),
		Unprocessed: res.Unprocessed,
		Batches:     res.Batches,
	}
	return summary, err
}

// Clear scans the table for keys and batch-deletes everything.
func (s *SingleTableStore) Clear(ctx context.Context) (int, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("PK, SK"),
	})
	if err != nil {
		return 0, classify("Scan for clear", err)
	}
	if len(out.Items) == 0 {
		return 0, nil
	}

	delKeys := chunkKeysForDelete(out.Items, "PK", "SK")
	res, err := s.writer.DeleteKeys(ctx, s.table, delKeys)
	if err != nil {
		return res.Processed(), err
	}
	return res.Processed(), nil
}

// queryPrefix queries a partition with a sort-key prefix condition.
func (s *SingleTableStore) queryPrefix(ctx context.Context, pk, skPrefix string) ([]map[string]types.AttributeValue, ports.ReadStats, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
			":sk": &types.AttributeValueMemberS{Value: skPrefix},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, ports.ReadStats{}, classify("Query "+pk, err)
	}
	return out.Items, ports.ReadStats{
		Requests:      1,
		Items:         len(out.Items),
		Scanned:       int(out.ScannedCount),
		CapacityUnits: capacityUnits(out.ConsumedCapacity),
	}, nil
}

// queryIndexEqual queries GSI1 by partition value alone.
func (s *SingleTableStore) queryIndexEqual(ctx context.Context, gsi1pk string) ([]map[string]types.AttributeValue, ports.ReadStats, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: gsi1pk},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, ports.ReadStats{}, classify("Query GSI1 "+gsi1pk, err)
	}
	return out.Items, ports.ReadStats{
		Requests:      1,
		Items:         len(out.Items),
		Scanned:       int(out.ScannedCount),
		CapacityUnits: capacityUnits(out.ConsumedCapacity),
	}, nil
}

// orderTags returns the GSI1 partition values carrying orders: the bare type
// tag, or one tag per shard when sharding is enabled.
func (s *SingleTableStore) orderTags() []string {
	if s.shardCount <= 1 {
		return []string{keys.TypeTag(entities.EntityTypeOrder)}
	}
	tags := make([]string, s.shardCount)
	for i := range tags {
		tags[i] = keys.ShardedTypeTag(entities.EntityTypeOrder, i)
	}
	return tags
}
