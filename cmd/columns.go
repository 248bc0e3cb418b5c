package cmd

import (
	"github.com/spf13/cobra"

	"kmadmin/internal/grid"
	"kmadmin/internal/model"
)

func newColumnsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "columns <kind>",
		Short: "Show the column descriptors of one kind",
		Example: `  kmadmin columns clusters
  kmadmin columns files -o yaml`,
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
			if output == "" {
				output = cfg.Output
			}
			if err := checkOutput(output); err != nil {
				return err
			}
			gopts, err := cfg.GridOptions()
			if err != nil {
				return err
			}
			headers, err := grid.Describe(kind, gopts)
			if err != nil {
				return err
			}
			return renderHeaders(cmd.OutOrStdout(), headers, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format (table|json|yaml)")
	return cmd
}
