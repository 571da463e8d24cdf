package main

import (
	"github.com/spf13/cobra"

	"ddbench/infrastructure/config"
)

var rootCmd = &cobra.Command{
	Use:   "ddbench",
	Short: "Benchmark DynamoDB single-table vs multi-table schema designs",
	Long: `ddbench seeds synthetic data into two parallel DynamoDB layouts -
a relational-style multi-table design and a single-table design - then runs
the same battery of read patterns against both and reports latency, consumed
capacity and scanned-item counts side by side.

Tables are expected to exist; ddbench only reads and writes items.`,
	SilenceUsage: true,
}

// Flag values layered over the environment configuration. Only flags the
// user actually set override the env values.
var flags struct {
	region      string
	singleTable string
	tablePrefix string
	users       int
	orders      int
	posts       int
	comments    int
	followers   int
	likes       int
	runs        int
	shards      int
	rangeFrom   string
	rangeTo     string
	results     string
	addr        string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.region, "region", "", "AWS region (default from AWS_REGION)")
	pf.StringVar(&flags.singleTable, "single-table", "", "single-table design table name")
	pf.StringVar(&flags.tablePrefix, "table-prefix", "", "multi-table design table name prefix")
	pf.IntVar(&flags.users, "users", 0, "number of users to generate")
	pf.IntVar(&flags.orders, "orders-per-user", 0, "orders per user")
	pf.IntVar(&flags.posts, "posts-per-user", 0, "posts per user")
	pf.IntVar(&flags.comments, "comments-per-post", 0, "comments per post")
	pf.IntVar(&flags.followers, "followers-per-user", 0, "followers per user")
	pf.IntVar(&flags.likes, "likes-per-post", 0, "likes per post")
	pf.IntVar(&flags.runs, "runs", 0, "runs per access pattern")
	pf.IntVar(&flags.shards, "shards", 0, "order shard count (1 disables sharding)")
	pf.StringVar(&flags.rangeFrom, "range-from", "", "date-range pattern lower bound (YYYY-MM-DD)")
	pf.StringVar(&flags.rangeTo, "range-to", "", "date-range pattern upper bound (YYYY-MM-DD)")
	pf.StringVar(&flags.results, "results", "", "path of the run artifact JSON")
	pf.StringVar(&flags.addr, "addr", "", "listen address for serve")
}

func execute() error {
	rootCmd.AddCommand(seedCmd, benchCmd, clearCmd, reportCmd, serveCmd)
	return rootCmd.Execute()
}

// loadConfig builds the effective configuration: environment first, then
// explicitly set flags on top, then validation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	set := cmd.Flags()
	if set.Changed("region") {
		cfg.AWSRegion = flags.region
	}
	if set.Changed("single-table") {
		cfg.SingleTable = flags.singleTable
	}
	if set.Changed("table-prefix") {
		cfg.MultiTablePrefix = flags.tablePrefix
	}
	if set.Changed("users") {
		cfg.Users = flags.users
	}
	if set.Changed("orders-per-user") {
		cfg.OrdersPerUser = flags.orders
	}
	if set.Changed("posts-per-user") {
		cfg.PostsPerUser = flags.posts
	}
	if set.Changed("comments-per-post") {
		cfg.CommentsPerPost = flags.comments
	}
	if set.Changed("followers-per-user") {
		cfg.FollowersPerUser = flags.followers
	}
	if set.Changed("likes-per-post") {
		cfg.LikesPerPost = flags.likes
	}
	if set.Changed("runs") {
		cfg.Runs = flags.runs
	}
	if set.Changed("shards") {
		cfg.ShardCount = flags.shards
	}
	if set.Changed("range-from") {
		cfg.RangeFrom = flags.rangeFrom
	}
	if set.Changed("range-to") {
		cfg.RangeTo = flags.rangeTo
	}
	if set.Changed("results") {
		cfg.ResultsPath = flags.results
	}
	if set.Changed("addr") {
		cfg.ServerAddress = flags.addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
