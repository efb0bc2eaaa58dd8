package main

import (
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/bench"
)

func newStatsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "stats [MODEL...]",
		Short: "Print the number of features and clauses of models",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := modelPaths(dir, args)
			if err != nil {
				return err
			}
			stats, err := bench.CollectStats(paths)
			if werr := bench.WriteStats(cmd.OutOrStdout(), stats); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory searched recursively for model files")
	return cmd
}
