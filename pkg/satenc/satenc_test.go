package satenc_test

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/dimacs"
	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/satenc"
)

const oneSingleProblem = `
p 1 1 101
r 101 1
`

func encodeToFormula(t *testing.T, problem string) (*satenc.VarAllocator, int) {
	t.Helper()
	inst, err := instance.Load(strings.NewReader(problem), instance.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "clauses.part")
	buf, err := dimacs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	alloc, err := satenc.Encode(inst, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := buf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return alloc, buf.Len()
}

func TestEncodeAllocatesMatchVariablesForEverySingle(t *testing.T) {
	alloc, numClauses := encodeToFormula(t, oneSingleProblem)
	if alloc.Last() == 0 {
		t.Fatal("expected at least one allocated variable")
	}
	if numClauses == 0 {
		t.Fatal("expected at least one clause")
	}
	names := map[string]bool{}
	for v := 1; v <= alloc.Last(); v++ {
		names[alloc.Name(v)] = true
	}
	if !names["xr_101,1"] || !names["xr_101,999999"] {
		t.Fatalf("expected xr_101,1 and xr_101,999999 among allocated names, got %v", names)
	}
}

func TestEncodeCounterVariablesTrackHospitalRank(t *testing.T) {
	// Two singles both ranking hospital 1, which ranks 101 then 102:
	// the sequential counter is indexed by position in the hospital's
	// ranking, so counter variables exist for i=1 and i=2. (q names
	// carry no resident uid, so this checks the index range only.)
	const problem = `
p 1 1 101 102
r 101 1
r 102 1
`
	alloc, _ := encodeToFormula(t, problem)
	names := map[string]bool{}
	for v := 1; v <= alloc.Last(); v++ {
		names[alloc.Name(v)] = true
	}
	if !names["q_1,1,0"] || !names["q_1,2,0"] {
		t.Fatalf("expected counter variables keyed by hospital rank 1 and 2, got %v", names)
	}
}

func TestDecodeResolvesSingleAndCoupleModelLines(t *testing.T) {
	const problem = `
p 1 1 103 104
p 2 1 103 104
p 3 1 105
r 105 3
c 1 103 104 1 1 2 2
`
	inst, err := instance.Load(strings.NewReader(problem), instance.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "clauses.part")
	buf, err := dimacs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	alloc, err := satenc.Encode(inst, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := buf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var trueVar, singleVar int
	for v := 1; v <= alloc.Last(); v++ {
		switch alloc.Name(v) {
		case "xc_1,103,1":
			trueVar = v
		case "xr_105,3":
			singleVar = v
		}
	}
	if trueVar == 0 {
		t.Fatal("expected a couple match variable xc_1,103,1 to have been allocated")
	}
	if singleVar == 0 {
		t.Fatal("expected a single match variable xr_105,3 to have been allocated")
	}
	matching, err := satenc.Decode([]string{
		"v " + strconv.Itoa(trueVar) + " " + strconv.Itoa(singleVar) + " 0",
	}, alloc, inst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if matching[103] != 1 {
		t.Fatalf("expected resident 103 matched to hospital 1, got %v", matching)
	}
	if matching[105] != 3 {
		t.Fatalf("expected resident 105 matched to hospital 3, got %v", matching)
	}
}
