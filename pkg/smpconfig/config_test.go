package smpconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/smpconfig"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := smpconfig.DefaultConfig()
	if cfg.Solver.TreeMemoryLimit != "12000" {
		t.Fatalf("expected default tree memory limit 12000, got %q", cfg.Solver.TreeMemoryLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected default logging config: %+v", cfg.Logging)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := smpconfig.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.TreeMemoryLimit != "12000" {
		t.Fatalf("expected defaults for a missing config file, got %+v", cfg.Solver)
	}
}

func TestLoadFileValuesAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "solver:\n  sat_solver_path: /opt/minisat\n  cplex_path: /opt/cplex\n  tree_memory_limit: \"8000\"\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("CPLEX_PATH", "/env/cplex")
	t.Setenv("SAT_SOLVER_PATH", "")

	cfg, err := smpconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.SATSolverPath != "/opt/minisat" {
		t.Fatalf("expected the file's sat solver path to survive, got %q", cfg.Solver.SATSolverPath)
	}
	if cfg.Solver.CPLEXPath != "/env/cplex" {
		t.Fatalf("expected CPLEX_PATH to override the file, got %q", cfg.Solver.CPLEXPath)
	}
	if cfg.Solver.TreeMemoryLimit != "8000" {
		t.Fatalf("expected the file's tree memory limit, got %q", cfg.Solver.TreeMemoryLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected the file's logging level, got %q", cfg.Logging.Level)
	}
}

func TestLoadExpandsEnvVarsInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("solver:\n  sat_solver_path: ${MY_SOLVER_DIR}/minisat\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("MY_SOLVER_DIR", "/custom")
	cfg, err := smpconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.SATSolverPath != "/custom/minisat" {
		t.Fatalf("expected ${MY_SOLVER_DIR} to expand, got %q", cfg.Solver.SATSolverPath)
	}
}

func TestValidateRequiresSolverSpecificFields(t *testing.T) {
	cfg := smpconfig.DefaultConfig()
	if err := cfg.Validate("sat"); err == nil {
		t.Fatal("expected an error for a missing sat solver path")
	}
	cfg.Solver.SATSolverPath = "/bin/minisat"
	if err := cfg.Validate("sat"); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg2 := smpconfig.DefaultConfig()
	if err := cfg2.Validate("mip"); err == nil {
		t.Fatal("expected an error for a missing cplex path")
	}
	cfg2.Solver.CPLEXPath = "/bin/cplex"
	if err := cfg2.Validate("mip"); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if err := cfg2.Validate("bogus"); err == nil {
		t.Fatal("expected an error for an unknown solver kind")
	}
}
