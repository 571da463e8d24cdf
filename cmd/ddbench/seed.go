package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddbench/application/generator"
	"ddbench/infrastructure/di"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic data and load it into both designs",
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

		ds := generator.Generate(generator.Spec{
			Users:            cfg.Users,
			OrdersPerUser:    cfg.OrdersPerUser,
			PostsPerUser:     cfg.PostsPerUser,
			CommentsPerPost:  cfg.CommentsPerPost,
			FollowersPerUser: cfg.FollowersPerUser,
			LikesPerPost:     cfg.LikesPerPost,
			Seed:             cfg.Seed,
		})
		container.Logger.Info("Generated dataset",
			zap.Int("users", len(ds.Users)),
			zap.Int("orders", len(ds.Orders)),
			zap.Int("posts", len(ds.Posts)),
			zap.Int("comments", len(ds.Comments)),
			zap.Int("followers", len(ds.Followers)),
			zap.Int("likes", len(ds.Likes)),
		)

		for _, seeder := range []struct {
			design string
			seed   func() error
		}{
			{"single-table", func() error {
				summary, err := container.SingleStore.Seed(cmd.Context(), ds)
				printSeedSummary("single-table", summary.Requested, summary.Inserted, summary.Unprocessed, summary.Batches)
				return err
			}},
			{"multi-table", func() error {
				summary, err := container.MultiStore.Seed(cmd.Context(), ds)
				printSeedSummary("multi-table", summary.Requested, summary.Inserted, summary.Unprocessed, summary.Batches)
				return err
			}},
		} {
			if err := seeder.seed(); err != nil {
				return fmt.Errorf("seeding %s failed: %w", seeder.design, err)
			}
		}
		return nil
	},
}

func printSeedSummary(design string, requested, inserted, unprocessed, batches int) {
	fmt.Printf("%s: requested=%d inserted=%d unprocessed=%d batches=%d\n",
		design, requested, inserted, unprocessed, batches)
}
