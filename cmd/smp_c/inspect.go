package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aperrault/stable-matching-suite/pkg/dimacs"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.cnf|file.lp>",
	Args:  cobra.ExactArgs(1),
	Short: "Print variable/clause or variable/constraint counts for a formulated file",
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	if strings.HasSuffix(path, ".lp") {
		return inspectLP(path)
	}
	return inspectCNF(path)
}

func inspectCNF(path string) error {
	formula, err := dimacs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading cnf file: %w", err)
	}
	fmt.Printf("variables: %d\nclauses: %d\n", formula.NumVars, len(formula.Clauses))
	return nil
}

// inspectLP counts an LP file's declared binaries and constraints
// without parsing expressions, the way a quick debugging introspection
// command should: a "Subject To"/"Bounds"/"Binaries"/"End" section
// scan, counting non-blank lines inside "Subject To" as constraints and
// inside "Binaries" as variables.
func inspectLP(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening lp file: %w", err)
	}
	defer f.Close()

	var section string
	constraints, binaries := 0, 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "Subject To", "Bounds", "Binaries", "End", "Maximize", "Minimize":
			section = line
			continue
		}
		switch section {
		case "Subject To":
			constraints++
		case "Binaries":
			binaries++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading lp file: %w", err)
	}
	fmt.Printf("constraints: %d\nbinaries: %d\n", constraints, binaries)
	return nil
}
