// Package harness shells out to the external CPLEX and SAT solver
// binaries named in spec.md §4.6: it writes the encoder's input file to
// a scratch directory (for SAT, prepending the DIMACS header to the
// streamed clauses), invokes the solver, and parses the solver's
// output — a CPLEX solution listing via mipenc.ParseSolution, or a SAT
// solver's "s"/"v" lines — leaving the mapping back to a matching to
// the encoder packages' decoders. The command wrapping mirrors the
// teacher's external-command wrappers (pkg/injection/l3l4/tc_wrapper.go,
// throttler/throttler.go), which build a command and run it.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// SuffixGen returns a short string used to make scratch file names
// unique. smp_c.py picks this with random.randint(0, 100000) and
// retries on collision; DefaultSuffixGen instead draws from a uuid, so
// collisions are practically impossible and no retry loop is needed.
// Tests inject a deterministic SuffixGen to get reproducible file
// names (spec.md §8 property 1, "modulo an injectable suffix").
type SuffixGen func() string

// DefaultSuffixGen is the production SuffixGen.
func DefaultSuffixGen() string {
	return uuid.New().String()[:8]
}

// commander runs an external command, the way throttler.go's
// shellCommander wraps exec.Command. Abstracted so tests can substitute
// a fake without touching the filesystem or spawning a real solver.
type commander interface {
	run(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
	// runTolerant runs a command whose exit status alone does not
	// signal failure (SAT solvers conventionally exit 10/20 for
	// SAT/UNSAT per the SAT competition convention); it only returns an
	// error if the process could not be started at all.
	runTolerant(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type execCommander struct{}

func (execCommander) run(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w (stderr: %s)", name, err, stderr.String())
	}
	return nil
}

func (execCommander) runTolerant(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return fmt.Errorf("running %s: %w (stderr: %s)", name, err, stderr.String())
}

// Runner drives one solver invocation: it owns a scratch directory and
// a suffix generator for naming the input/output files it creates
// there, and guarantees they are removed again once the caller is done
// with them (mirroring smp_c.py's unconditional "rm <in> <out>" and
// cplex_py.py's clean_files flag).
type Runner struct {
	// WorkDir is the scratch directory for solver input/output files.
	// Empty means os.TempDir().
	WorkDir string
	// Suffix names each scratch file. Nil means DefaultSuffixGen.
	Suffix SuffixGen
	// CleanFiles removes scratch files after the solver runs,
	// regardless of whether it succeeded. Defaults to true; set false
	// to inspect the files a failed run left behind.
	CleanFiles bool

	cmd commander
}

// NewRunner returns a Runner ready for production use.
func NewRunner(workDir string) *Runner {
	return &Runner{WorkDir: workDir, CleanFiles: true, cmd: execCommander{}}
}

func (r *Runner) suffix() string {
	if r.Suffix == nil {
		return DefaultSuffixGen()
	}
	return r.Suffix()
}

func (r *Runner) dir() string {
	if r.WorkDir != "" {
		return r.WorkDir
	}
	return os.TempDir()
}

func (r *Runner) scratchPath(prefix, ext string) string {
	return filepath.Join(r.dir(), fmt.Sprintf("%s-%s%s", prefix, r.suffix(), ext))
}

// ScratchPath exposes scratchPath for callers outside this package that
// need to name their own intermediate files (the SAT encoder's clause
// buffer, the assembled CNF file) with the same scratch
// directory and suffix convention as the solver files Runner creates
// for itself.
func (r *Runner) ScratchPath(prefix, ext string) string {
	return r.scratchPath(prefix, ext)
}

// Cleanup removes the given paths if CleanFiles is set, exactly as
// Runner does for its own scratch files.
func (r *Runner) Cleanup(paths ...string) {
	r.cleanup(paths...)
}

func (r *Runner) cleanup(paths ...string) {
	if !r.CleanFiles {
		return
	}
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
