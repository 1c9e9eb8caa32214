package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aperrault/stable-matching-suite/pkg/dimacs"
	"github.com/aperrault/stable-matching-suite/pkg/harness"
	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/metrics"
	"github.com/aperrault/stable-matching-suite/pkg/mipenc"
	"github.com/aperrault/stable-matching-suite/pkg/satenc"
	"github.com/aperrault/stable-matching-suite/pkg/smpconfig"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve <problem>",
	Args:  cobra.ExactArgs(1),
	Short: "Encode a problem, run the external solver, and decode the matching",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().String("solver", "", "solver family: sat or mip (required)")
	solveCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	solveCmd.Flags().Bool("formulate", false, "write the encoded LP/CNF file instead of invoking the solver")
	solveCmd.Flags().Duration("timeout", 0, "solver wall-clock timeout (0 = no timeout)")
	solveCmd.Flags().String("metrics-file", "", "write a Prometheus textfile-collector dump here after solving")
	_ = solveCmd.MarkFlagRequired("solver")
}

func runSolve(cmd *cobra.Command, args []string) error {
	solverKind, _ := cmd.Flags().GetString("solver")
	outPath, _ := cmd.Flags().GetString("output")
	formulate, _ := cmd.Flags().GetBool("formulate")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	if solverKind != "sat" && solverKind != "mip" {
		return fmt.Errorf("--solver must be \"sat\" or \"mip\", got %q", solverKind)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !formulate {
		if err := cfg.Validate(solverKind); err != nil {
			return err
		}
	}
	logger := newLogger(cfg)

	inst, err := instance.LoadFile(args[0], instance.LoadOptions{AppendNil: false})
	if err != nil {
		return fmt.Errorf("loading problem: %w", err)
	}
	logger.Info("loaded problem", "singles", len(inst.Singles), "couples", len(inst.CoupleOrder), "hospitals", len(inst.HospitalOrder))

	reg := metrics.NewRegistry()
	runner := harness.NewRunner(cfg.Solver.WorkDir)

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var matching instance.Matching
	switch solverKind {
	case "mip":
		matching, err = solveMIP(ctx, inst, cfg, runner, reg, outPath, formulate)
	case "sat":
		matching, err = solveSAT(ctx, inst, cfg, runner, reg, outPath, formulate)
	}
	if err != nil {
		return err
	}

	if matching != nil {
		matched := 0
		for _, h := range matching {
			if h != instance.NilHospitalUID {
				matched++
			}
		}
		reg.MatchingSize.Set(float64(matched))
		logger.Info("solved", "matched", matched)
	}

	if metricsFile != "" {
		if err := reg.WriteTextfile(metricsFile); err != nil {
			logger.Warn("failed to write metrics file", "error", err)
		}
	}

	if formulate || matching == nil {
		return nil
	}

	return writeMatchingOutput(outPath, matching)
}

func solveMIP(ctx context.Context, inst *instance.Instance, cfg *smpconfig.Config, runner *harness.Runner, reg *metrics.Registry, outPath string, formulate bool) (instance.Matching, error) {
	encoded, err := mipenc.Encode(inst)
	if err != nil {
		return nil, fmt.Errorf("formulating mip: %w", err)
	}
	reg.ConstraintsEmitted.Add(float64(len(encoded.Document.Constraints.Constraints)))

	if formulate {
		return nil, writeTo(outPath, encoded.Document)
	}

	start := time.Now()
	sol, err := runner.SolveMIP(ctx, encoded.Document, harness.MIPRequest{
		CPLEXPath:       cfg.Solver.CPLEXPath,
		TreeMemoryLimit: cfg.Solver.TreeMemoryLimit,
	})
	reg.SolverDuration.WithLabelValues("mip").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("running cplex: %w", err)
	}
	if sol == nil {
		// infeasible is not an error: report an empty matching
		return instance.Matching{}, nil
	}
	return mipenc.Decode(sol, inst)
}

func solveSAT(ctx context.Context, inst *instance.Instance, cfg *smpconfig.Config, runner *harness.Runner, reg *metrics.Registry, outPath string, formulate bool) (instance.Matching, error) {
	clausesPath := runner.ScratchPath("smp-clauses", ".part")
	buf, err := dimacs.Open(clausesPath)
	if err != nil {
		return nil, fmt.Errorf("opening clause buffer: %w", err)
	}
	alloc, err := satenc.Encode(inst, buf)
	if err != nil {
		buf.Close()
		runner.Cleanup(clausesPath)
		return nil, fmt.Errorf("formulating cnf: %w", err)
	}
	if err := buf.Close(); err != nil {
		runner.Cleanup(clausesPath)
		return nil, fmt.Errorf("flushing clause buffer: %w", err)
	}
	reg.ClausesEmitted.Add(float64(buf.Len()))
	reg.VariablesAllocated.WithLabelValues("total").Add(float64(alloc.Last()))

	cnfPath := runner.ScratchPath("smp", ".cnf")
	if err := harness.WriteCNFFile(cnfPath, clausesPath, alloc.Last(), buf.Len()); err != nil {
		runner.Cleanup(clausesPath, cnfPath)
		return nil, err
	}
	runner.Cleanup(clausesPath)
	defer runner.Cleanup(cnfPath)

	if formulate {
		return nil, copyFileTo(outPath, cnfPath)
	}

	start := time.Now()
	result, err := runner.SolveSAT(ctx, cfg.Solver.SATSolverPath, cnfPath)
	reg.SolverDuration.WithLabelValues("sat").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("running sat solver: %w", err)
	}
	if !result.Satisfiable {
		// UNSAT is not an error: report an empty matching
		return instance.Matching{}, nil
	}
	return satenc.Decode(result.ModelLines, alloc, inst)
}

func writeTo(outPath string, doc interface{ WriteTo(io.Writer) (int64, error) }) error {
	w, closeFn, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = doc.WriteTo(w)
	return err
}

func copyFileTo(outPath, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	w, closeFn, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = io.Copy(w, src)
	return err
}

func writeMatchingOutput(outPath string, m instance.Matching) error {
	w, closeFn, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeFn()
	return instance.WriteMatching(w, m, "")
}

func openOutput(outPath string) (io.Writer, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
