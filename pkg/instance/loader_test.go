package instance_test

import (
	"strings"
	"testing"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
)

const sampleProblem = `
# a tiny SMC instance: one couple, two singles, two hospitals
p 1 2 101 102
p 2 1 103
r 101 1 2
r 102 1
c 1 103 104 1 1 2 -1
`

func TestLoadParsesAllRecordKinds(t *testing.T) {
	inst, err := instance.Load(strings.NewReader(sampleProblem), instance.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(inst.HospitalOrder) != 2 {
		t.Fatalf("expected 2 hospitals, got %d", len(inst.HospitalOrder))
	}
	if len(inst.Singles) != 2 {
		t.Fatalf("expected 2 singles, got %d", len(inst.Singles))
	}
	if len(inst.CoupleOrder) != 1 {
		t.Fatalf("expected 1 couple, got %d", len(inst.CoupleOrder))
	}

	h1, ok := inst.Hospital(1)
	if !ok || h1.Capacity != 2 {
		t.Fatalf("hospital 1: got %+v, ok=%v", h1, ok)
	}

	couple, ok := inst.Couple(1)
	if !ok {
		t.Fatalf("couple 1 not found")
	}
	if couple.Residents != [2]int{103, 104} {
		t.Fatalf("couple residents: %v", couple.Residents)
	}
	wantOrdering := []instance.HospitalPair{{1, 1}, {2, instance.NilHospitalUID}}
	gotOrdering := couple.Ordering()
	if len(gotOrdering) != len(wantOrdering) {
		t.Fatalf("couple ordering length: got %v want %v", gotOrdering, wantOrdering)
	}
	for i := range wantOrdering {
		if gotOrdering[i] != wantOrdering[i] {
			t.Fatalf("couple ordering[%d]: got %v want %v", i, gotOrdering[i], wantOrdering[i])
		}
	}
}

func TestLoadRejectsDuplicateUID(t *testing.T) {
	body := "p 1 1 101\np 1 2 102\nr 101 1\n"
	_, err := instance.Load(strings.NewReader(body), instance.LoadOptions{})
	if err == nil {
		t.Fatal("expected an error for duplicate hospital uid")
	}
}

func TestLoadRejectsResidentInTwoCouples(t *testing.T) {
	body := "p 1 1 101\nc 1 101 102 1 1\nc 2 101 103 1 1\n"
	_, err := instance.Load(strings.NewReader(body), instance.LoadOptions{})
	if err == nil {
		t.Fatal("expected an error for a resident claimed by two couples")
	}
}

func TestLoadAppendNilCanonicalizesOrderings(t *testing.T) {
	inst, err := instance.Load(strings.NewReader(sampleProblem), instance.LoadOptions{AppendNil: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, _ := inst.Resident(102)
	ordering := r.Ordering()
	if ordering[len(ordering)-1] != instance.NilHospitalUID {
		t.Fatalf("expected single resident's ordering to end in the nil hospital, got %v", ordering)
	}

	c, _ := inst.Couple(1)
	pairs := c.Ordering()
	last := pairs[len(pairs)-1]
	if last != (instance.HospitalPair{instance.NilHospitalUID, instance.NilHospitalUID}) {
		t.Fatalf("expected couple ordering to end in (nil, nil), got %v", last)
	}
}

func TestWriteAndLoadMatchingRoundTrips(t *testing.T) {
	m := instance.Matching{101: 1, 102: instance.NilHospitalUID}
	var sb strings.Builder
	if err := instance.WriteMatching(&sb, m, "test matching"); err != nil {
		t.Fatalf("WriteMatching: %v", err)
	}
	got, err := instance.LoadMatching(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("LoadMatching: %v", err)
	}
	if got[101] != 1 || got[102] != instance.NilHospitalUID {
		t.Fatalf("round trip mismatch: %v", got)
	}
}
