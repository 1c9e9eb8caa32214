package lpexpr_test

import (
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/lpexpr"
)

func TestDocumentWriteToAssemblesSections(t *testing.T) {
	cc := lpexpr.NewConstraintsCollection()
	cc.Add(lpexpr.NewExpression(lpexpr.Var("x")), lpexpr.LessEqual, lpexpr.Const(1))
	bc := &lpexpr.BoundsCollection{}
	bc.Add(lpexpr.NewBound("x", nil, nil, false, true))

	doc := lpexpr.Document{
		Sense:       lpexpr.Maximize,
		Objective:   lpexpr.NewExpression(lpexpr.Var("x")),
		Constraints: cc,
		Bounds:      bc,
		Binaries:    []string{"x"},
	}
	var sb strings.Builder
	if _, err := doc.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got := sb.String()
	for _, want := range []string{"Maximize", "obj: x", "Subject To", "c0: x <= 1", "Bounds", "Binaries", "x", "End"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "End") {
		t.Fatalf("expected output to end with End, got:\n%s", got)
	}
}

func TestExpressionRendersSigns(t *testing.T) {
	e := lpexpr.NewExpression(
		lpexpr.Var("x_1"),
		lpexpr.Coeff(2, "y_2"),
		lpexpr.Coeff(-3, "z_3"),
	)
	got := e.Render()
	want := "x_1 + 2 y_2 - 3 z_3"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestConstraintRender(t *testing.T) {
	c := lpexpr.Constraint{
		Name:  "c0",
		Left:  lpexpr.NewExpression(lpexpr.Var("x"), lpexpr.Var("y")),
		Right: lpexpr.Const(1),
		Kind:  lpexpr.Equality,
	}
	got := c.Render()
	if got != "c0: x + y = 1" {
		t.Fatalf("got %q", got)
	}
}

func TestBoundRequiresAnEndpoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a bound with neither endpoint set")
		}
	}()
	lpexpr.Bound{Var: "x"}.Render()
}

func TestNewBoundZeroLowerBoundIsNotTreatedAsAbsent(t *testing.T) {
	zero := 0.0
	b := lpexpr.NewBound("x", &zero, nil, false, false)
	got := b.Render()
	if !strings.Contains(got, "0") {
		t.Fatalf("expected a rendered zero lower bound, got %q", got)
	}
}

func TestConstraintsCollectionAutoNamesInInsertionOrder(t *testing.T) {
	cc := lpexpr.NewConstraintsCollection()
	cc.Add(lpexpr.NewExpression(lpexpr.Var("a")), lpexpr.LessEqual, lpexpr.Const(1))
	cc.Add(lpexpr.NewExpression(lpexpr.Var("b")), lpexpr.LessEqual, lpexpr.Const(2))
	if len(cc.Constraints) != 2 {
		t.Fatalf("expected 2 constraints, got %d", len(cc.Constraints))
	}
	if cc.Constraints[0].Name == cc.Constraints[1].Name {
		t.Fatalf("expected distinct auto-generated names, got %q twice", cc.Constraints[0].Name)
	}
}
