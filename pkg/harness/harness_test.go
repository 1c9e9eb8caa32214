package harness

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/lpexpr"
)

type fakeCommander struct {
	gotName  string
	gotArgs  []string
	gotStdin string
	output   string
	err      error
}

func (f *fakeCommander) run(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotName = name
	f.gotArgs = args
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		f.gotStdin = string(b)
	}
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func (f *fakeCommander) runTolerant(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	return f.run(ctx, name, args, stdin, stdout)
}

func TestSolveMIPDrivesCPLEXAndCleansUpTheScratchFile(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeCommander{output: "Variable Name           Value\nx_1,1                          1.000000\n"}
	runner := &Runner{WorkDir: dir, Suffix: func() string { return "fixed" }, CleanFiles: true, cmd: fake}

	doc := &lpexpr.Document{
		Sense:     lpexpr.Maximize,
		Objective: lpexpr.NewExpression(lpexpr.Var("x_1,1")),
	}
	sol, err := runner.SolveMIP(context.Background(), doc, MIPRequest{CPLEXPath: "/usr/bin/cplex"})
	if err != nil {
		t.Fatalf("SolveMIP: %v", err)
	}
	if sol == nil || sol.Values["x_1,1"] != 1 {
		t.Fatalf("unexpected solution: %+v", sol)
	}
	if fake.gotName != "/usr/bin/cplex" {
		t.Fatalf("expected cplex to be invoked, got %q", fake.gotName)
	}
	wantLPPath := filepath.Join(dir, "smp-fixed.lp")
	if !strings.Contains(fake.gotStdin, wantLPPath) {
		t.Fatalf("expected driver script to reference %q, got %q", wantLPPath, fake.gotStdin)
	}
	if !strings.Contains(fake.gotStdin, "treememory\n12000") {
		t.Fatalf("expected the default tree memory limit in the driver script, got %q", fake.gotStdin)
	}
	if _, err := os.Stat(wantLPPath); !os.IsNotExist(err) {
		t.Fatalf("expected the scratch lp file to be cleaned up, stat err: %v", err)
	}
}

func TestSolveMIPHonorsCustomTreeMemoryLimit(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeCommander{}
	runner := &Runner{WorkDir: dir, Suffix: func() string { return "x" }, CleanFiles: true, cmd: fake}
	doc := &lpexpr.Document{Objective: lpexpr.NewExpression(lpexpr.Var("v"))}
	if _, err := runner.SolveMIP(context.Background(), doc, MIPRequest{CPLEXPath: "cplex", TreeMemoryLimit: "4000"}); err != nil {
		t.Fatalf("SolveMIP: %v", err)
	}
	if !strings.Contains(fake.gotStdin, "treememory\n4000") {
		t.Fatalf("expected the custom tree memory limit in the driver script, got %q", fake.gotStdin)
	}
}

func TestParseSATOutputRecognizesSatisfiable(t *testing.T) {
	res, err := parseSATOutput(bytes.NewBufferString("c comment\ns SATISFIABLE\nv 1 -2 3 0\n"))
	if err != nil {
		t.Fatalf("parseSATOutput: %v", err)
	}
	if !res.Satisfiable {
		t.Fatal("expected satisfiable")
	}
	if len(res.ModelLines) != 1 {
		t.Fatalf("expected one model line, got %v", res.ModelLines)
	}
}

func TestParseSATOutputRecognizesUnsatisfiable(t *testing.T) {
	res, err := parseSATOutput(bytes.NewBufferString("s UNSATISFIABLE\n"))
	if err != nil {
		t.Fatalf("parseSATOutput: %v", err)
	}
	if res.Satisfiable {
		t.Fatal("expected unsatisfiable")
	}
}

func TestParseSATOutputFallsBackToModelLinesWithoutAStatusLine(t *testing.T) {
	res, err := parseSATOutput(bytes.NewBufferString("v 1 2 0\n"))
	if err != nil {
		t.Fatalf("parseSATOutput: %v", err)
	}
	if !res.Satisfiable {
		t.Fatal("expected the fallback to infer satisfiable from model lines alone")
	}
}

func TestWriteCNFFilePrependsHeader(t *testing.T) {
	dir := t.TempDir()
	clausesPath := filepath.Join(dir, "clauses.part")
	if err := os.WriteFile(clausesPath, []byte("1 2 0\n-1 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cnfPath := filepath.Join(dir, "out.cnf")
	if err := WriteCNFFile(cnfPath, clausesPath, 2, 2); err != nil {
		t.Fatalf("WriteCNFFile: %v", err)
	}
	got, err := os.ReadFile(cnfPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "p cnf 2 2\n1 2 0\n-1 0\n"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
