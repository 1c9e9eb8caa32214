package dimacs_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/dimacs"
	"github.com/aperrault/stable-matching-suite/pkg/harness"
)

func TestClauseBufferRoundTripsThroughHeaderlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clauses.part")
	buf, err := dimacs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	clauses := [][]int{{1, -2, 3}, {-1, 2}, {3}}
	for _, c := range clauses {
		if err := buf.Append(c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if buf.Len() != len(clauses) {
		t.Fatalf("Len: got %d want %d", buf.Len(), len(clauses))
	}
	if err := buf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The backing file has no header, so prepend one to parse it back.
	cnfPath := filepath.Join(t.TempDir(), "out.cnf")
	if err := harness.WriteCNFFile(cnfPath, path, 3, buf.Len()); err != nil {
		t.Fatalf("assembling cnf: %v", err)
	}
	formula, err := dimacs.ReadFile(cnfPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if formula.NumVars != 3 || len(formula.Clauses) != 3 {
		t.Fatalf("unexpected formula: %+v", formula)
	}
	for i, c := range formula.Clauses {
		if len(c) != len(clauses[i]) {
			t.Fatalf("clause %d length mismatch: got %v want %v", i, c, clauses[i])
		}
		for j := range c {
			if c[j] != clauses[i][j] {
				t.Fatalf("clause %d literal %d mismatch: got %v want %v", i, j, c, clauses[i])
			}
		}
	}
}

func TestClauseBufferSpillsPastWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clauses.part")
	buf, err := dimacs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	const n = 12000
	for i := 1; i <= n; i++ {
		if err := buf.Append([]int{i}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if buf.Len() != n {
		t.Fatalf("Len: got %d want %d", buf.Len(), n)
	}
	if err := buf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	cnfPath := filepath.Join(t.TempDir(), "out.cnf")
	if err := harness.WriteCNFFile(cnfPath, path, n, buf.Len()); err != nil {
		t.Fatalf("assembling cnf: %v", err)
	}
	formula, err := dimacs.ReadFile(cnfPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(formula.Clauses) != n {
		t.Fatalf("expected %d clauses after spill, got %d", n, len(formula.Clauses))
	}
}

func TestReadRejectsDuplicateHeader(t *testing.T) {
	_, err := dimacs.Read(strings.NewReader("p cnf 1 1\np cnf 1 1\n1 0\n"))
	if err == nil {
		t.Fatal("expected an error for a duplicate problem line")
	}
}

func TestReadRejectsClauseBeforeHeader(t *testing.T) {
	_, err := dimacs.Read(strings.NewReader("1 0\np cnf 1 1\n"))
	if err == nil {
		t.Fatal("expected an error for a clause line preceding the problem line")
	}
}

func TestReadRejectsMismatchedClauseCount(t *testing.T) {
	_, err := dimacs.Read(strings.NewReader("p cnf 2 2\n1 0\n"))
	if err == nil {
		t.Fatal("expected an error for a clause count mismatch")
	}
}

func TestReadRejectsZeroBeforeEndOfLine(t *testing.T) {
	_, err := dimacs.Read(strings.NewReader("p cnf 2 1\n1 0 2\n"))
	if err == nil {
		t.Fatal("expected an error for a literal after the clause terminator")
	}
}

func TestReadSkipsCommentLines(t *testing.T) {
	formula, err := dimacs.Read(strings.NewReader("c a comment\np cnf 1 1\nc another comment\n1 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(formula.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(formula.Clauses))
	}
}
