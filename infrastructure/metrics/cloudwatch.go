// Package metrics publishes run summaries to CloudWatch so benchmark trends
// can be graphed across runs. Publication is best-effort and opt-in.
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"ddbench/application/report"
)

// maxDatumsPerCall is the PutMetricData limit.
const maxDatumsPerCall = 20

// Publisher pushes aggregated summaries as CloudWatch metrics.
type Publisher struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewPublisher creates a CloudWatch publisher.
func NewPublisher(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, namespace: namespace, logger: logger}
}

// PublishSummaries emits average latency, consumed capacity and scanned
// count per (design, operation). Failures are logged, not propagated; a
// metrics outage never fails a benchmark run.
func (p *Publisher) PublishSummaries(ctx context.Context, summaries []report.Summary) {
	now := time.Now()

	var datums []cwtypes.MetricDatum
	for _, s := range summaries {
		dims := []cwtypes.Dimension{
			{Name: aws.String("Design"), Value: aws.String(s.Design)},
			{Name: aws.String("Operation"), Value: aws.String(s.Operation)},
		}
		datums = append(datums,
			cwtypes.MetricDatum{
				MetricName: aws.String("LatencyAvg"),
				Dimensions: dims,
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(s.AvgMs),
				Unit:       cwtypes.StandardUnitMilliseconds,
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("ConsumedCapacity"),
				Dimensions: dims,
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(s.TotalRCU),
				Unit:       cwtypes.StandardUnitCount,
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("ScannedAvg"),
				Dimensions: dims,
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(s.AvgScan),
				Unit:       cwtypes.StandardUnitCount,
			},
		)
	}

	for start := 0; start < len(datums); start += maxDatumsPerCall {
		end := start + maxDatumsPerCall
		if end > len(datums) {
			end = len(datums)
		}
		_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: datums[start:end],
		})
		if err != nil {
			p.logger.Warn("Failed to publish metrics batch", zap.Error(err))
			return
		}
	}

	p.logger.Info("Published run metrics",
		zap.String("namespace", p.namespace),
		zap.Int("datums", len(datums)),
	)
}
