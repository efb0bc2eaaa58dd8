package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/featuremodel"
)

func newConvertCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "convert MODEL",
		Short: "Convert a model between DIMACS and YAML/JSON",
		Long: `Convert a model between DIMACS and YAML/JSON. The formats are picked
from the file extensions.

    $ coredead convert pizzas.yaml -o pizzas.cnf
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := featuremodel.Load(args[0])
			if err != nil {
				return err
			}
			if err := featuremodel.Save(out, m); err != nil {
				return err
			}
			log.Debugf("wrote %s (%d features, %d clauses)", out, m.CNF.NumVars(), m.CNF.NumClauses())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "file to write")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		log.Fatalf("Failed to mark `output` flag for `convert` subcommand as required")
	}
	return cmd
}
