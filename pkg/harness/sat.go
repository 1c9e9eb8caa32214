package harness

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// SATResult is a SAT solver's verdict plus, when satisfiable, the "v"
// model lines produced for satenc.Decode to parse.
type SATResult struct {
	Satisfiable bool
	ModelLines  []string
}

// SolveSAT invokes the SAT solver binary at solverPath on an
// already-written DIMACS CNF file (smp_c.py's
// "os.system('%s %s > %s' % (solver, in, out))"), and parses the
// DIMACS output convention: an "s SATISFIABLE"/"s UNSATISFIABLE" status
// line and, when satisfiable, one or more "v ..." model lines.
func (r *Runner) SolveSAT(ctx context.Context, solverPath, cnfPath string) (*SATResult, error) {
	var out bytes.Buffer
	if err := r.cmd.runTolerant(ctx, solverPath, []string{cnfPath}, nil, &out); err != nil {
		return nil, fmt.Errorf("harness: running sat solver: %w", err)
	}
	return parseSATOutput(&out)
}

func parseSATOutput(r *bytes.Buffer) (*SATResult, error) {
	res := &SATResult{}
	sawStatus := false
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "s "):
			sawStatus = true
			res.Satisfiable = strings.Contains(line, "SATISFIABLE") && !strings.Contains(line, "UNSATISFIABLE")
		case strings.HasPrefix(line, "v "):
			res.ModelLines = append(res.ModelLines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("harness: reading sat solver output: %w", err)
	}
	if !sawStatus {
		res.Satisfiable = len(res.ModelLines) > 0
	}
	return res, nil
}

// WriteCNFFile assembles a complete DIMACS CNF file at path from a
// clause buffer's backing file: the "p cnf <vars> <clauses>" header
// (spec §6), followed by the clause lines satenc.Encode already
// streamed to clausesPath. Splitting header assembly from clause
// streaming lets the encoder write clauses as it goes, since the
// header's counts aren't known until encoding finishes.
func WriteCNFFile(path, clausesPath string, numVars, numClauses int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("harness: creating cnf file %q: %w", path, err)
	}
	defer out.Close()

	if _, err := fmt.Fprintf(out, "p cnf %d %d\n", numVars, numClauses); err != nil {
		return fmt.Errorf("harness: writing cnf header: %w", err)
	}

	in, err := os.Open(clausesPath)
	if err != nil {
		return fmt.Errorf("harness: opening clause file %q: %w", clausesPath, err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("harness: copying clauses into cnf file: %w", err)
	}
	return nil
}
