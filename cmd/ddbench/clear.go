package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddbench/infrastructure/di"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every seeded item from both designs",
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

		single, err := container.SingleStore.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clearing single-table design failed after %d deletes: %w", single, err)
		}
		fmt.Printf("single-table: deleted %d items\n", single)

		multi, err := container.MultiStore.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clearing multi-table design failed after %d deletes: %w", multi, err)
		}
		fmt.Printf("multi-table: deleted %d items\n", multi)
		return nil
	},
}
