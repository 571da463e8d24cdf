package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddbench/application/benchmark"
	"ddbench/application/generator"
	"ddbench/application/report"
	"ddbench/infrastructure/di"
	"ddbench/infrastructure/messaging/eventbridge"
	"ddbench/pkg/observability"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the read battery against both designs and record results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		container, err := di.InitializeContainer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer container.Logger.Sync()

		params := benchmark.Params{
			UserID: generator.UserID(1),
			From:   cfg.RangeFrom,
			To:     cfg.RangeTo,
			Runs:   cfg.Runs,
		}

		container.Logger.Info("Starting benchmark run",
			zap.String("userID", params.UserID),
			zap.Int("runs", params.Runs),
			zap.Int("shards", cfg.ShardCount),
		)

		var measurements []benchmark.Measurement
		if cfg.EnableTracing {
			tracer := observability.NewTracer("ddbench")
			ctx, seg := tracer.StartSegment(cmd.Context(), "bench")
			tracer.TraceFunction(ctx, "battery", func(ctx context.Context) error {
				measurements = container.Runner.Run(ctx, params)
				return nil
			})
			seg.Close(nil)
		} else {
			measurements = container.Runner.Run(cmd.Context(), params)
		}

		artifact := report.RunArtifact{
			GeneratedAt:  time.Now(),
			Measurements: measurements,
		}
		if err := report.SaveRun(cfg.ResultsPath, artifact); err != nil {
			return err
		}

		summaries := report.Aggregate(measurements)
		fmt.Print(report.RenderMarkdown(summaries, artifact.GeneratedAt))

		if container.Metrics != nil {
			container.Metrics.PublishSummaries(cmd.Context(), summaries)
		}
		if container.EventsPublisher != nil {
			failures := 0
			for _, m := range measurements {
				if !m.OK() {
					failures++
				}
			}
			container.EventsPublisher.PublishRunCompleted(cmd.Context(), eventbridge.RunCompletedEvent{
				CompletedAt:  artifact.GeneratedAt,
				Measurements: len(measurements),
				Failures:     failures,
				ResultsPath:  cfg.ResultsPath,
			})
		}

		container.Logger.Info("Benchmark run complete",
			zap.Int("measurements", len(measurements)),
			zap.String("results", cfg.ResultsPath),
		)
		return nil
	},
}
