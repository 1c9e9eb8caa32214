// Command smp_c encodes stable-matching-with-couples problems into a
// CPLEX LP or DIMACS CNF file, drives the matching external solver, and
// decodes its output back into a matching.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "smp_c",
	Short:   "Stable matching with couples: encode, solve, decode",
	Long:    `smp_c formulates a hospitals/residents-with-couples instance as a 0/1 MIP or a SAT instance, invokes an external solver, and decodes the result into a matching.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: solver paths from env only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug-level) logging")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Commands are defined in separate files:
// - solveCmd in solve.go
// - verifyCmd in verify.go
// - inspectCmd in inspect.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
