package main

import (
	"fmt"
	"os"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/stability"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <problem> <matching>",
	Args:  cobra.ExactArgs(2),
	Short: "Check whether a matching is stable for a problem, listing any blocking pairs",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	inst, err := instance.LoadFile(args[0], instance.LoadOptions{AppendNil: true})
	if err != nil {
		return fmt.Errorf("loading problem: %w", err)
	}
	matching, err := instance.LoadMatchingFile(args[1])
	if err != nil {
		return fmt.Errorf("loading matching: %w", err)
	}

	violations, err := stability.Verify(inst, matching)
	if err != nil {
		return fmt.Errorf("verifying matching: %w", err)
	}

	if len(violations) == 0 {
		fmt.Fprintln(os.Stdout, "stable")
		return nil
	}

	logger.Info("matching is not stable", "violations", len(violations))
	for _, v := range violations {
		fmt.Fprintf(os.Stdout, "%s residents=%v hospitals=%v\n", v.Kind, v.Residents, v.Hospitals)
	}
	return fmt.Errorf("matching has %d blocking pair(s)", len(violations))
}
