package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kmadmin/internal/db"
	"kmadmin/internal/logger"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load users, files, configs, clusters and partitions from a YAML fixture",
		Example: `  kmadmin seed testdata/fixture.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open fixture: %w", err)
			}
			defer f.Close()

			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			stats, err := db.Seed(cmd.Context(), database, f)
			if err != nil {
				return err
			}
			logger.FromContext(cmd.Context()).V(1).Info("seed finished", "file", args[0])
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", stats)
			return nil
		},
	}
}
