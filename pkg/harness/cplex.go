package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aperrault/stable-matching-suite/pkg/lpexpr"
	"github.com/aperrault/stable-matching-suite/pkg/mipenc"
)

// MIPRequest names everything a CPLEX invocation needs beyond the
// document itself.
type MIPRequest struct {
	// CPLEXPath is the solver binary (spec §6's CPLEX_PATH).
	CPLEXPath string
	// TreeMemoryLimit is CPLEX's "mip limits treememory" value, a
	// decimal string (smp_c.py's TREEMEM_LIM, default "12000").
	TreeMemoryLimit string
}

// driverScript renders the command stream cplex_py.py's
// solve_using_CPLEX feeds to the CPLEX binary on stdin: set the tree
// memory limit, read the LP file, solve, print every nonzero variable,
// quit.
func driverScript(treeMemoryLimit, lpPath string) string {
	return fmt.Sprintf("set\nmip\nlimits\ntreememory\n%s\nread %s\noptimize\ndisplay solution variables -\nquit\n",
		treeMemoryLimit, lpPath)
}

// SolveMIP writes doc to a scratch .lp file, drives CPLEX over stdin
// with a generated command script, and parses CPLEX's solution
// listing. It returns (nil, nil) if CPLEX ran successfully but
// reported no feasible solution (spec §6), mirroring
// mipenc.ParseSolution's own nil-on-no-solution contract.
func (r *Runner) SolveMIP(ctx context.Context, doc *lpexpr.Document, req MIPRequest) (*mipenc.Solution, error) {
	lpPath := r.scratchPath("smp", ".lp")
	lpFile, err := os.Create(lpPath)
	if err != nil {
		return nil, fmt.Errorf("harness: creating lp file: %w", err)
	}
	if _, err := doc.WriteTo(lpFile); err != nil {
		lpFile.Close()
		r.cleanup(lpPath)
		return nil, fmt.Errorf("harness: writing lp file: %w", err)
	}
	if err := lpFile.Close(); err != nil {
		r.cleanup(lpPath)
		return nil, fmt.Errorf("harness: closing lp file: %w", err)
	}
	defer r.cleanup(lpPath)

	treeMem := req.TreeMemoryLimit
	if treeMem == "" {
		treeMem = "12000"
	}
	script := driverScript(treeMem, lpPath)

	var out bytes.Buffer
	if err := r.cmd.run(ctx, req.CPLEXPath, nil, bytes.NewBufferString(script), &out); err != nil {
		return nil, fmt.Errorf("harness: running cplex: %w", err)
	}

	return mipenc.ParseSolution(&out)
}
