package stability_test

import (
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/stability"
)

func load(t *testing.T, problem string) *instance.Instance {
	t.Helper()
	inst, err := instance.Load(strings.NewReader(problem), instance.LoadOptions{AppendNil: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return inst
}

func TestVerifyAcceptsAStableMatching(t *testing.T) {
	const problem = `
p 1 1 101
r 101 1
`
	inst := load(t, problem)
	violations, err := stability.Verify(inst, instance.Matching{101: 1})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestVerifyDetectsSingleBlockingPair(t *testing.T) {
	// Resident 101 prefers hospital 1 to its current (nil) assignment,
	// and hospital 1 has capacity for it.
	const problem = `
p 1 1 101
r 101 1
`
	inst := load(t, problem)
	violations, err := stability.Verify(inst, instance.Matching{101: instance.NilHospitalUID})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(violations) != 1 || violations[0].Kind != "single" {
		t.Fatalf("expected one single blocking pair, got %v", violations)
	}
}

func TestVerifyDetectsCapacityViolation(t *testing.T) {
	const problem = `
p 1 1 101 102
r 101 1
r 102 1
`
	inst := load(t, problem)
	violations, err := stability.Verify(inst, instance.Matching{101: 1, 102: 1})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	found := false
	for _, v := range violations {
		if v.Kind == "capacity" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a capacity violation, got %v", violations)
	}
}

func TestVerifyDetectsCoupleOneMemberSwitch(t *testing.T) {
	// Couple currently at (nil, 2); resident 103 prefers hospital 1 to
	// nil while resident 104 stays at hospital 2, and hospital 1 has
	// slack.
	const problem = `
p 1 1 103
p 2 1 104
c 1 103 104 1 2 -1 2
`
	inst := load(t, problem)
	violations, err := stability.Verify(inst, instance.Matching{104: 2, 103: instance.NilHospitalUID})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	found := false
	for _, v := range violations {
		if v.Kind == "couple-one-switch" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a couple-one-switch violation, got %v", violations)
	}
}

func TestVerifyDetectsCoupleBothSwitchToSameHospital(t *testing.T) {
	const problem = `
p 1 2 103 104
c 1 103 104 1 1 -1 -1
`
	inst := load(t, problem)
	violations, err := stability.Verify(inst, instance.Matching{103: instance.NilHospitalUID, 104: instance.NilHospitalUID})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	found := false
	for _, v := range violations {
		if v.Kind == "couple-both-switch" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a couple-both-switch violation, got %v", violations)
	}
}

func TestVerifyReturnsErrorInsteadOfPanicOnMalformedMatching(t *testing.T) {
	// The couple never ranked the pair (5, 1); AllWeaklyPreferred has no
	// way to locate it in the ordering and panics, which Verify must
	// turn into an error instead of propagating.
	const problem = `
p 1 1 103
c 1 103 104 1 1 -1 -1
`
	inst := load(t, problem)
	_, err := stability.Verify(inst, instance.Matching{103: 5, 104: 1})
	if err == nil {
		t.Fatal("expected an error for a matching referencing a hospital pair outside the couple's joint preference list")
	}
}
