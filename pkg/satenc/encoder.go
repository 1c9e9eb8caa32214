package satenc

import (
	"fmt"

	"github.com/aperrault/stable-matching-suite/pkg/dimacs"
	"github.com/aperrault/stable-matching-suite/pkg/instance"
)

func xrName(residentUID, hospitalUID int) string {
	return fmt.Sprintf("xr_%d,%d", residentUID, hospitalUID)
}

func xcName(coupleUID, residentUID, hospitalUID int) string {
	return fmt.Sprintf("xc_%d,%d,%d", coupleUID, residentUID, hospitalUID)
}

func qName(hospitalUID, i, j int) string {
	return fmt.Sprintf("q_%d,%d,%d", hospitalUID, i, j)
}

func cprefName(coupleUID, number int) string {
	return fmt.Sprintf("cpref_%d,%d", coupleUID, number)
}

func pairCombinations(xs []int) [][2]int {
	var out [][2]int
	for i := 0; i < len(xs); i++ {
		for j := i + 1; j < len(xs); j++ {
			out = append(out, [2]int{xs[i], xs[j]})
		}
	}
	return out
}

func dedupAppend(xs []int, extra int) []int {
	for _, x := range xs {
		if x == extra {
			out := make([]int, len(xs))
			copy(out, xs)
			return out
		}
	}
	out := make([]int, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, extra)
}

// resMatchTable maps (residentUID, hospitalUID) -> DIMACS variable
// number, mirroring smp_c.py's res_match dict keyed by (resident,
// hospital) object pairs.
type resMatchTable map[[2]int]int

func (t resMatchTable) get(residentUID, hospitalUID int) int {
	v, ok := t[[2]int{residentUID, hospitalUID}]
	if !ok {
		panic(fmt.Errorf("satenc: no match variable for resident %d at hospital %d", residentUID, hospitalUID))
	}
	return v
}

// Encode writes the CNF encoding of inst's stable-matching constraints
// into buf and returns the variable allocator used to number them. buf
// receives clause lines only: the caller closes buf and then writes
// the DIMACS header ("p cnf <vars> <clauses>", from alloc.Last() and
// buf.Len()) ahead of those clauses, as harness.WriteCNFFile does.
func Encode(inst *instance.Instance, buf *dimacs.ClauseBuffer) (*VarAllocator, error) {
	alloc := NewVarAllocator()
	resMatch := resMatchTable{}

	set := func(residentUID, hospitalUID, v int) {
		resMatch[[2]int{residentUID, hospitalUID}] = v
	}
	clause := func(lits ...int) error {
		return buf.Append(lits)
	}

	// Matching variables: one per (resident, ranked hospital) plus one
	// per resident for the nil hospital, with an at-least-one clause.
	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		ordering := r.Ordering()
		lits := make([]int, 0, len(ordering)+1)
		for _, hUID := range ordering {
			v := alloc.Allocate(xrName(rUID, hUID))
			set(rUID, hUID, v)
			lits = append(lits, v)
		}
		nilVar := alloc.Allocate(xrName(rUID, instance.NilHospitalUID))
		set(rUID, instance.NilHospitalUID, nilVar)
		lits = append(lits, nilVar)
		if err := clause(lits...); err != nil {
			return nil, err
		}
	}
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		for _, rUID := range c.Residents {
			ranked := c.RankedHospitals(rUID)
			lits := make([]int, 0, len(ranked)+1)
			for _, hUID := range ranked {
				v := alloc.Allocate(xcName(cUID, rUID, hUID))
				set(rUID, hUID, v)
				lits = append(lits, v)
			}
			nilVar := alloc.Allocate(xcName(cUID, rUID, instance.NilHospitalUID))
			set(rUID, instance.NilHospitalUID, nilVar)
			lits = append(lits, nilVar)
			if err := clause(lits...); err != nil {
				return nil, err
			}
		}
	}

	// No resident is assigned to two hospitals.
	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		candidates := append(append([]int{}, r.Ordering()...), instance.NilHospitalUID)
		for _, pair := range pairCombinations(candidates) {
			if err := clause(-resMatch.get(rUID, pair[0]), -resMatch.get(rUID, pair[1])); err != nil {
				return nil, err
			}
		}
	}
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		for _, rUID := range c.Residents {
			candidates := dedupAppend(c.RankedHospitals(rUID), instance.NilHospitalUID)
			for _, pair := range pairCombinations(candidates) {
				if err := clause(-resMatch.get(rUID, pair[0]), -resMatch.get(rUID, pair[1])); err != nil {
					return nil, err
				}
			}
		}
	}

	// Sequential-counter variables q[h][i][j]: after summing the i
	// most-preferred matching variables at h, the running total is j.
	q := map[[3]int]int{} // (hospitalUID, i, j) -> var
	for _, hUID := range inst.HospitalOrder {
		h, _ := inst.Hospital(hUID)
		ordering := h.Ordering()
		for i := 1; i <= len(ordering); i++ {
			jMax := i + 1
			if h.Capacity+2 < jMax {
				jMax = h.Capacity + 2
			}
			residentUID := ordering[i-1]
			rMatch := resMatch.get(residentUID, hUID)
			for j := 0; j < jMax; j++ {
				v := alloc.Allocate(qName(hUID, i, j))
				q[[3]int{hUID, i, j}] = v
			}
			if i == 1 {
				if err := clause(rMatch, q[[3]int{hUID, 1, 0}]); err != nil {
					return nil, err
				}
				if err := clause(-rMatch, q[[3]int{hUID, 1, 1}]); err != nil {
					return nil, err
				}
				if err := clause(-rMatch, -q[[3]int{hUID, 1, 0}]); err != nil {
					return nil, err
				}
				if err := clause(rMatch, -q[[3]int{hUID, 1, 1}]); err != nil {
					return nil, err
				}
			} else {
				for j := 0; j < jMax; j++ {
					switch {
					case j == 0:
						if err := clause(-rMatch, -q[[3]int{hUID, i, 0}]); err != nil {
							return nil, err
						}
						if err := clause(q[[3]int{hUID, i - 1, 0}], -q[[3]int{hUID, i, 0}]); err != nil {
							return nil, err
						}
						if err := clause(rMatch, -q[[3]int{hUID, i - 1, 0}], q[[3]int{hUID, i, 0}]); err != nil {
							return nil, err
						}
					case j == i:
						if err := clause(rMatch, -q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
						if err := clause(q[[3]int{hUID, i - 1, j - 1}], -q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
						if err := clause(-rMatch, -q[[3]int{hUID, i - 1, j - 1}], q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
					default:
						if err := clause(-rMatch, -q[[3]int{hUID, i - 1, j - 1}], q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
						if err := clause(rMatch, -q[[3]int{hUID, i - 1, j}], q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
						if err := clause(rMatch, q[[3]int{hUID, i - 1, j}], -q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
						if err := clause(-rMatch, q[[3]int{hUID, i - 1, j - 1}], -q[[3]int{hUID, i, j}]); err != nil {
							return nil, err
						}
					}
				}
			}
			if i >= h.Capacity+1 {
				if err := clause(-q[[3]int{hUID, i, h.Capacity + 1}]); err != nil {
					return nil, err
				}
			}
		}
	}

	// cpref[couple][number]: the couple is matched to rank number or
	// better (or, at the sentinel rank, to (nil, nil)).
	cpref := map[[2]int]int{} // (coupleUID, number) -> var
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		ordering := c.Ordering()
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		for number, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			v := alloc.Allocate(cprefName(cUID, number))
			cpref[[2]int{cUID, number}] = v
			if number == 0 {
				if err := clause(-v, resMatch.get(r0UID, h0UID)); err != nil {
					return nil, err
				}
				if err := clause(-v, resMatch.get(r1UID, h1UID)); err != nil {
					return nil, err
				}
				if err := clause(v, -resMatch.get(r0UID, h0UID), -resMatch.get(r1UID, h1UID)); err != nil {
					return nil, err
				}
			} else {
				prev := cpref[[2]int{cUID, number - 1}]
				if err := clause(-v, prev, resMatch.get(r0UID, h0UID)); err != nil {
					return nil, err
				}
				if err := clause(-v, prev, resMatch.get(r1UID, h1UID)); err != nil {
					return nil, err
				}
				if err := clause(v, -prev); err != nil {
					return nil, err
				}
				if err := clause(v, -resMatch.get(r0UID, h0UID), -resMatch.get(r1UID, h1UID)); err != nil {
					return nil, err
				}
			}
		}
		number := len(ordering)
		v := alloc.Allocate(cprefName(cUID, number))
		cpref[[2]int{cUID, number}] = v
		prev := cpref[[2]int{cUID, number - 1}]
		nilR0 := resMatch.get(r0UID, instance.NilHospitalUID)
		nilR1 := resMatch.get(r1UID, instance.NilHospitalUID)
		if err := clause(-v, prev, nilR0); err != nil {
			return nil, err
		}
		if err := clause(-v, prev, nilR1); err != nil {
			return nil, err
		}
		if err := clause(v, -prev); err != nil {
			return nil, err
		}
		if err := clause(v, -nilR0, -nilR1); err != nil {
			return nil, err
		}
		lits := make([]int, number+1)
		for n := 0; n <= number; n++ {
			lits[n] = cpref[[2]int{cUID, n}]
		}
		if err := clause(lits...); err != nil {
			return nil, err
		}
	}

	// qRef names a bound on a resident's rank at a hospital: append the
	// corresponding sequential-counter variable to a clause when the
	// rank actually exists for that hospital (mirrors smp_c.py's
	// append_q_vars helper).
	type qRef struct {
		hospitalUID, residentUID, number int
	}
	appendQVars := func(lits []int, refs []qRef) []int {
		out := append([]int{}, lits...)
		for _, ref := range refs {
			if ref.hospitalUID == instance.NilHospitalUID {
				continue
			}
			h, _ := inst.Hospital(ref.hospitalUID)
			rank := h.Rank(ref.residentUID)
			if rank < ref.number {
				continue
			}
			v, ok := q[[3]int{ref.hospitalUID, rank, ref.number}]
			if !ok {
				panic(fmt.Errorf("satenc: no counter variable q[%d][%d][%d]", ref.hospitalUID, rank, ref.number))
			}
			out = append(out, v)
		}
		return out
	}

	// S1: no single resident and hospital form a blocking pair.
	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		for _, hUID := range r.Ordering() {
			h, _ := inst.Hospital(hUID)
			var lits []int
			for _, uid := range r.AllWeaklyPreferred(hUID) {
				lits = append(lits, resMatch.get(rUID, uid))
			}
			lits = appendQVars(lits, []qRef{{hUID, rUID, h.Capacity}})
			if err := clause(lits...); err != nil {
				return nil, err
			}
		}
	}

	// S2: no couple can improve by moving one member while the other
	// stays put.
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		ordering := c.Ordering()
		for number, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			h0, _ := inst.Hospital(h0UID)
			h1, _ := inst.Hospital(h1UID)
			cp := cpref[[2]int{cUID, number}]
			if h0UID != h1UID {
				lits0 := appendQVars([]int{-resMatch.get(r1UID, h1UID), cp}, []qRef{{h0UID, r0UID, h0.Capacity}})
				if err := clause(lits0...); err != nil {
					return nil, err
				}
				lits1 := appendQVars([]int{-resMatch.get(r0UID, h0UID), cp}, []qRef{{h1UID, r1UID, h1.Capacity}})
				if err := clause(lits1...); err != nil {
					return nil, err
				}
			} else if h0.Rank(r0UID) < h0.Rank(r1UID) {
				lits0 := appendQVars([]int{-resMatch.get(r1UID, h1UID), cp},
					[]qRef{{h0UID, r0UID, h0.Capacity}, {h1UID, r1UID, h1.Capacity - 1}})
				if err := clause(lits0...); err != nil {
					return nil, err
				}
				lits1 := appendQVars([]int{-resMatch.get(r0UID, h0UID), cp}, []qRef{{h1UID, r1UID, h1.Capacity}})
				if err := clause(lits1...); err != nil {
					return nil, err
				}
			} else {
				lits0 := appendQVars([]int{-resMatch.get(r1UID, h1UID), cp}, []qRef{{h0UID, r0UID, h0.Capacity}})
				if err := clause(lits0...); err != nil {
					return nil, err
				}
				lits1 := appendQVars([]int{-resMatch.get(r0UID, h0UID), cp},
					[]qRef{{h0UID, r0UID, h0.Capacity - 1}, {h1UID, r1UID, h1.Capacity}})
				if err := clause(lits1...); err != nil {
					return nil, err
				}
			}
		}
		last := cpref[[2]int{cUID, len(ordering)}]
		if err := clause(-resMatch.get(r0UID, instance.NilHospitalUID), last); err != nil {
			return nil, err
		}
		if err := clause(-resMatch.get(r1UID, instance.NilHospitalUID), last); err != nil {
			return nil, err
		}
	}

	// S3: no couple can improve by moving both members at once.
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		ordering := c.Ordering()
		for number, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			h0, _ := inst.Hospital(h0UID)
			h1, _ := inst.Hospital(h1UID)
			if h0.Capacity == 0 || h1.Capacity == 0 {
				continue
			}
			cp := cpref[[2]int{cUID, number}]
			if h0UID != h1UID {
				lits := appendQVars(
					[]int{resMatch.get(r0UID, h0UID), resMatch.get(r1UID, h1UID), cp},
					[]qRef{{h0UID, r0UID, h0.Capacity}, {h1UID, r1UID, h1.Capacity}})
				if err := clause(lits...); err != nil {
					return nil, err
				}
			} else {
				if h0.Capacity == 1 {
					continue
				}
				lits := appendQVars(
					[]int{resMatch.get(r0UID, h0UID), resMatch.get(r1UID, h1UID), cp},
					[]qRef{
						{h0UID, r0UID, h0.Capacity}, {h1UID, r1UID, h1.Capacity},
						{h0UID, r0UID, h0.Capacity - 1}, {h1UID, r1UID, h1.Capacity - 1},
					})
				if err := clause(lits...); err != nil {
					return nil, err
				}
			}
		}
		last := cpref[[2]int{cUID, len(ordering)}]
		if err := clause(resMatch.get(r0UID, instance.NilHospitalUID), resMatch.get(r1UID, instance.NilHospitalUID), last); err != nil {
			return nil, err
		}
	}

	return alloc, nil
}
