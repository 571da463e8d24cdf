package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddbench/application/report"
	"ddbench/infrastructure/config"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the comparison report from the latest run artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The report only needs the artifact path; no AWS access.
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("results") {
			cfg.ResultsPath = flags.results
		}

		artifact, err := report.LoadRun(cfg.ResultsPath)
		if err != nil {
			return err
		}

		summaries := report.Aggregate(artifact.Measurements)
		fmt.Print(report.RenderMarkdown(summaries, artifact.GeneratedAt))
		return nil
	},
}
