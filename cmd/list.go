package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"kmadmin/internal/config"
	"kmadmin/internal/db"
	"kmadmin/internal/grid"
	"kmadmin/internal/model"
)

type listOptions struct {
	sortKey   string
	reverse   bool
	output    string
	clusterID int64
}

func newListCommand() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of one kind",
		Long: `List users, files, configs, clusters or partitions with the same columns,
formatting and sort order as the console.`,
		Example: `  # Files, newest id first
  kmadmin list files --sort id --reverse

  # Clusters as JSON
  kmadmin list clusters -o json

  # Partition assignments of cluster 1
  kmadmin list partitions --cluster 1`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.KindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			if opts.output == "" {
				opts.output = cfg.Output
			}
			if err := checkOutput(opts.output); err != nil {
				return err
			}
			gopts, err := cfg.GridOptions()
			if err != nil {
				return err
			}
			if kind == model.KindPartition && !cmd.Flags().Changed("cluster") {
				return errors.New("listing partitions requires --cluster")
			}

			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return runList(cmd.Context(), cmd.OutOrStdout(), database, kind, gopts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sortKey, "sort", "", "column key to sort by")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "reverse the column's sort direction")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format (table|json|yaml)")
	cmd.Flags().Int64Var(&opts.clusterID, "cluster", 0, "cluster id (partitions only)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runList(ctx context.Context, w io.Writer, q db.Querier, kind model.Kind, gopts grid.Options, opts listOptions) error {
	switch kind {
	case model.KindUser:
		rows, err := db.ListUsers(ctx, q)
		if err != nil {
			return err
		}
		return listRows(w, grid.Users(gopts), rows, opts)
	case model.KindFile:
		rows, err := db.ListFiles(ctx, q)
		if err != nil {
			return err
		}
		return listRows(w, grid.Files(gopts), rows, opts)
	case model.KindConfig:
		rows, err := db.ListConfigs(ctx, q)
		if err != nil {
			return err
		}
		return listRows(w, grid.Configs(gopts), rows, opts)
	case model.KindCluster:
		rows, err := db.ListClusters(ctx, q)
		if err != nil {
			return err
		}
		return listRows(w, grid.Clusters(gopts), rows, opts)
	case model.KindPartition:
		rows, err := db.ListPartitions(ctx, q, opts.clusterID)
		if err != nil {
			return err
		}
		return listRows(w, grid.Partitions(gopts), rows, opts)
	default:
		return fmt.Errorf("cannot list %s", kind)
	}
}

func listRows[T any](w io.Writer, cols []grid.Column[T], rows []T, opts listOptions) error {
	if opts.sortKey != "" && !grid.Sort(rows, cols, opts.sortKey, opts.reverse) {
		return fmt.Errorf("column %q is unknown or not sortable", opts.sortKey)
	}
	return renderRows(w, cols, rows, opts.output)
}
