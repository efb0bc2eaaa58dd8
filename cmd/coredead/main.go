package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmhorcas/coredead/pkg/sat"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coredead",
		Short: "Core and dead feature analysis of feature models",
		Long: `coredead finds the core features (selected in every valid configuration)
and the dead features (selected in none) of feature models given as DIMACS
CNF or YAML/JSON documents, and benchmarks the analysis across SAT solvers.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newBenchCmd(),
		newStatsCmd(),
		newConvertCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	log.SetOutput(os.Stderr)
	sat.Init()
	defer sat.Shutdown()

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err.Error())
		sat.Shutdown()
		os.Exit(1)
	}
}
