package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// maxBatchSize is the DynamoDB BatchWriteItem limit.
const maxBatchSize = 25

// BatchResult accounts for a chunked batch write. Unprocessed items are
// counted and surfaced in the summary; they are not resubmitted.
type BatchResult struct {
	Requested   int
	Unprocessed int
	Batches     int
}

// Processed returns the number of items the store accepted.
func (r BatchResult) Processed() int {
	return r.Requested - r.Unprocessed
}

// BatchWriter chunks put and delete requests to respect the 25-item batch
// limit.
type BatchWriter struct {
	client Client
	logger *zap.Logger
}

// NewBatchWriter creates a batch writer.
func NewBatchWriter(client Client, logger *zap.Logger) *BatchWriter {
	return &BatchWriter{client: client, logger: logger}
}

// PutItems writes items to a table in chunks of at most 25.
func (w *BatchWriter) PutItems(ctx context.Context, table string, items []map[string]types.AttributeValue) (BatchResult, error) {
	reqs := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return w.write(ctx, table, reqs)
}

// DeleteKeys removes items by primary key in chunks of at most 25.
func (w *BatchWriter) DeleteKeys(ctx context.Context, table string, keys []map[string]types.AttributeValue) (BatchResult, error) {
	reqs := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}
	return w.write(ctx, table, reqs)
}

func (w *BatchWriter) write(ctx context.Context, table string, reqs []types.WriteRequest) (BatchResult, error) {
	result := BatchResult{Requested: len(reqs)}

	for start := 0; start < len(reqs); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(reqs) {
			end = len(reqs)
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: reqs[start:end],
			},
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
		}

		out, err := w.client.BatchWriteItem(ctx, input)
		if err != nil {
			return result, classify("BatchWriteItem "+table, err)
		}
		result.Batches++

		if unprocessed := len(out.UnprocessedItems[table]); unprocessed > 0 {
			result.Unprocessed += unprocessed
			w.logger.Warn("Batch write left items unprocessed",
				zap.String("table", table),
				zap.Int("unprocessed", unprocessed),
				zap.Int("batch", result.Batches),
			)
		}
	}

	if result.Unprocessed > 0 {
		w.logger.Warn("Batch write completed with unprocessed items",
			zap.String("table", table),
			zap.Int("requested", result.Requested),
			zap.Int("processed", result.Processed()),
		)
	}

	return result, nil
}

// chunkKeysForDelete extracts batch-delete keys from scanned items using the
// table's key attribute names.
func chunkKeysForDelete(items []map[string]types.AttributeValue, keyAttrs ...string) []map[string]types.AttributeValue {
	out := make([]map[string]types.AttributeValue, 0, len(items))
	for _, item := range items {
		key := make(map[string]types.AttributeValue, len(keyAttrs))
		for _, attr := range keyAttrs {
			if v, ok := item[attr]; ok {
				key[attr] = v
			}
		}
		out = append(out, key)
	}
	return out
}
