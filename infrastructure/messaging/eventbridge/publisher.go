// Package eventbridge emits a run-completed event so downstream automation
// (dashboards, notification rules) can react to finished benchmark runs.
package eventbridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const (
	eventSource     = "ddbench"
	runCompletedTyp = "ddbench.run.completed"
)

// RunCompletedEvent summarizes one bench run.
type RunCompletedEvent struct {
	CompletedAt  time.Time `json:"completedAt"`
	Measurements int       `json:"measurements"`
	Failures     int       `json:"failures"`
	ResultsPath  string    `json:"resultsPath"`
}

// Publisher puts run events on an EventBridge bus.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an EventBridge publisher for the given bus.
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, busName: busName, logger: logger}
}

// PublishRunCompleted emits the event. Failures are logged, not propagated.
func (p *Publisher) PublishRunCompleted(ctx context.Context, event RunCompletedEvent) {
	detail, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal run event", zap.Error(err))
		return
	}

	_, err = p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(runCompletedTyp),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		p.logger.Warn("Failed to publish run event", zap.Error(err))
		return
	}

	p.logger.Info("Published run-completed event",
		zap.String("bus", p.busName),
		zap.Int("measurements", event.Measurements),
	)
}
