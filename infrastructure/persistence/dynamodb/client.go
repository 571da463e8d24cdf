// Package dynamodb implements both design variants against the AWS DynamoDB
// API: the single-table store built on the key scheme in domain/keys, and the
// deliberately naive multi-table store.
package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	apperrors "ddbench/pkg/errors"
)

// Client is the slice of the DynamoDB API the stores consume. Satisfied by
// *dynamodb.Client and by the in-memory fake used in tests.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// capacityUnits extracts the reported capacity from a response, zero when
// accounting was not returned.
func capacityUnits(cc *types.ConsumedCapacity) float64 {
	if cc == nil || cc.CapacityUnits == nil {
		return 0
	}
	return *cc.CapacityUnits
}

// throttleCodes are the API error codes treated as throttling rather than
// generic store failure.
var throttleCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
}

// classify wraps a raw SDK error into the application taxonomy. Requests are
// never retried; classification only shapes the failure record.
func classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && throttleCodes[apiErr.ErrorCode()] {
		return apperrors.NewThrottledError(operation, err)
	}
	return apperrors.NewDatabaseError(operation, err)
}
