// Package smpconfig loads and validates the solve suite's
// configuration: solver paths, the CPLEX tree-memory limit, logging,
// and metrics settings (spec.md §6 plus SPEC_FULL.md §4.7). It follows
// the teacher's pkg/config: defaults first, optional YAML file on top,
// then two environment variables with final say.
package smpconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the solve suite's full configuration.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SolverConfig holds the external solver binaries and CPLEX tuning
// (spec.md §6's SAT_SOLVER_PATH/CPLEX_PATH env vars).
type SolverConfig struct {
	SATSolverPath   string `yaml:"sat_solver_path"`
	CPLEXPath       string `yaml:"cplex_path"`
	TreeMemoryLimit string `yaml:"tree_memory_limit"`
	WorkDir         string `yaml:"work_dir"`
}

// LoggingConfig controls the smplog.Logger the CLI constructs.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls where, if anywhere, a run dumps a Prometheus
// textfile-collector file.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// DefaultConfig returns the suite's zero-config defaults: solver paths
// empty (they must come from the config file or the environment), a 12000 KB
// CPLEX tree-memory limit matching smp_c.py's TREEMEM_LIM, and info-
// level text logging.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			TreeMemoryLimit: "12000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads an optional YAML config file over the defaults, expanding
// ${VAR} references in its contents, then applies the
// SAT_SOLVER_PATH/CPLEX_PATH environment variables on top (taking
// priority over both the file and the defaults), exactly mirroring the
// teacher's PROMETHEUS_URL override in pkg/config.Load. A missing path
// is not an error: the defaults (plus env vars) are returned as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("smpconfig: reading config file: %w", err)
			}
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, cfg); err != nil {
				return nil, fmt.Errorf("smpconfig: parsing config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("smpconfig: checking config file: %w", err)
		}
	}

	if v := os.Getenv("SAT_SOLVER_PATH"); v != "" {
		cfg.Solver.SATSolverPath = v
	}
	if v := os.Getenv("CPLEX_PATH"); v != "" {
		cfg.Solver.CPLEXPath = v
	}

	return cfg, nil
}

// Validate checks that the configuration is usable for the given
// solver kind ("sat" or "mip").
func (c *Config) Validate(solverKind string) error {
	switch solverKind {
	case "sat":
		if c.Solver.SATSolverPath == "" {
			return fmt.Errorf("smpconfig: SAT_SOLVER_PATH is not set")
		}
	case "mip":
		if c.Solver.CPLEXPath == "" {
			return fmt.Errorf("smpconfig: CPLEX_PATH is not set")
		}
		if c.Solver.TreeMemoryLimit == "" {
			return fmt.Errorf("smpconfig: solver.tree_memory_limit must not be empty")
		}
	default:
		return fmt.Errorf("smpconfig: unknown solver kind %q", solverKind)
	}
	return nil
}
