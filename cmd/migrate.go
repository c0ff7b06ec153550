package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindweave/mindweave-server/database"
	"github.com/mindweave/mindweave-server/internal/config"
)

func addMigrate(topLevel *cobra.Command) {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit.",
		Example: `
mindweave-server migrate
mindweave-server migrate --status
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			if !statusOnly {
				if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
					return err
				}
			}

			v, err := database.Version(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only print the applied schema version.")
	topLevel.AddCommand(cmd)
}
