package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"ddbench/application/benchmark"
	"ddbench/application/ports"
	"ddbench/infrastructure/config"
	"ddbench/infrastructure/messaging/eventbridge"
	"ddbench/infrastructure/metrics"
	ddbstore "ddbench/infrastructure/persistence/dynamodb"
	"ddbench/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	SingleStore     *ddbstore.SingleTableStore
	MultiStore      *ddbstore.MultiTableStore
	Runner          *benchmark.Runner
	Metrics         *metrics.Publisher
	EventsPublisher *eventbridge.Publisher
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ProvideAWSConfig creates AWS configuration, instrumented for X-Ray when
// tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.EnableTracing {
		observability.InstrumentAWSClients(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideSingleTableStore creates the single-table design store
func ProvideSingleTableStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *ddbstore.SingleTableStore {
	return ddbstore.NewSingleTableStore(
		client,
		cfg.SingleTable,
		cfg.SingleTableIndex,
		cfg.ShardCount,
		logger,
	)
}

// ProvideMultiTableStore creates the multi-table design store
func ProvideMultiTableStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *ddbstore.MultiTableStore {
	return ddbstore.NewMultiTableStore(
		client,
		ddbstore.MultiTableNames{
			Users:     cfg.MultiTable("users"),
			Orders:    cfg.MultiTable("orders"),
			Posts:     cfg.MultiTable("posts"),
			Comments:  cfg.MultiTable("comments"),
			Followers: cfg.MultiTable("followers"),
			Likes:     cfg.MultiTable("likes"),
		},
		cfg.ByUserIndexName,
		cfg.ByPostIndexName,
		logger,
	)
}

// ProvideRunner creates the benchmark runner over both designs. The sharded
// range pattern is enabled only when a date range is configured.
func ProvideRunner(single *ddbstore.SingleTableStore, multi *ddbstore.MultiTableStore, cfg *config.Config, logger *zap.Logger) *benchmark.Runner {
	stores := []ports.BenchmarkStore{single, multi}
	var ranged ports.RangeQuerier
	if cfg.RangeFrom != "" {
		ranged = single
	}
	return benchmark.NewRunner(stores, ranged, logger)
}

// ProvideMetricsPublisher creates the CloudWatch publisher, nil when metrics
// are disabled.
func ProvideMetricsPublisher(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) *metrics.Publisher {
	if !cfg.EnableMetrics {
		return nil
	}
	return metrics.NewPublisher(awscloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace, logger)
}

// ProvideEventPublisher creates the EventBridge publisher, nil when no bus
// is configured.
func ProvideEventPublisher(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) *eventbridge.Publisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}
