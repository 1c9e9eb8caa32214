// Package stability implements a direct, encoder-independent check for
// whether a matching is stable, for the "smp_c verify" subcommand
// (SPEC_FULL.md §4.10) and for exercising spec.md §8 property 4 in
// tests without formulating an LP or CNF file at all.
package stability

import (
	"fmt"
	"sort"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
)

// BlockingPair describes one stability violation found in a matching.
type BlockingPair struct {
	// Kind is "single", "couple-one-switch", "couple-both-switch", or
	// "capacity".
	Kind string
	// Residents are the resident uids involved.
	Residents []int
	// Hospitals are the hospital uids the residents would move to.
	Hospitals []int
}

// Verify reports every blocking pair (and capacity violation) in m
// against inst. A nil/empty result means m is a stable matching of
// inst. Matchings pairing a resident with a hospital absent from their
// (or their couple's) preference list are reported as an error rather
// than a panic, since unlike the encoders, verify's input can come
// straight from a hand-edited matching file.
func Verify(inst *instance.Instance, m instance.Matching) (violations []BlockingPair, err error) {
	defer func() {
		if p := recover(); p != nil {
			violations = nil
			err = fmt.Errorf("stability: matching references a hospital outside the relevant preference list: %v", p)
		}
	}()

	occupants := occupantsByHospital(inst, m)

	for _, hUID := range inst.HospitalOrder {
		h, _ := inst.Hospital(hUID)
		if len(occupants[hUID]) > h.Capacity {
			violations = append(violations, BlockingPair{Kind: "capacity", Hospitals: []int{hUID}})
		}
	}

	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		if r.Pref == nil {
			continue
		}
		cur, ok := m[rUID]
		if !ok {
			cur = instance.NilHospitalUID
		}
		for _, hUID := range strictlyPreferredSingle(r, cur) {
			if hUID == instance.NilHospitalUID {
				continue
			}
			h, _ := inst.Hospital(hUID)
			if wouldAcceptGroup(h, []int{rUID}, withoutResidents(occupants[hUID], rUID)) {
				violations = append(violations, BlockingPair{
					Kind:      "single",
					Residents: []int{rUID},
					Hospitals: []int{hUID},
				})
			}
		}
	}

	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		cur := instance.HospitalPair{matchOf(m, r0UID), matchOf(m, r1UID)}

		// one member switches, the other's assignment stays fixed.
		for _, p := range strictlyPreferredPairs(c, cur, []int{1}) {
			h0UID := p[0]
			if h0UID == instance.NilHospitalUID {
				continue
			}
			h0, _ := inst.Hospital(h0UID)
			excl := withoutResidents(occupants[h0UID], r0UID, r1UID)
			if wouldAcceptGroup(h0, []int{r0UID}, excl) {
				violations = append(violations, BlockingPair{
					Kind:      "couple-one-switch",
					Residents: []int{r0UID},
					Hospitals: []int{h0UID},
				})
			}
		}
		for _, p := range strictlyPreferredPairs(c, cur, []int{0}) {
			h1UID := p[1]
			if h1UID == instance.NilHospitalUID {
				continue
			}
			h1, _ := inst.Hospital(h1UID)
			excl := withoutResidents(occupants[h1UID], r0UID, r1UID)
			if wouldAcceptGroup(h1, []int{r1UID}, excl) {
				violations = append(violations, BlockingPair{
					Kind:      "couple-one-switch",
					Residents: []int{r1UID},
					Hospitals: []int{h1UID},
				})
			}
		}

		// both members switch at once, possibly to the same hospital.
		for _, p := range strictlyPreferredPairs(c, cur, nil) {
			h0UID, h1UID := p[0], p[1]
			if h0UID == instance.NilHospitalUID && h1UID == instance.NilHospitalUID {
				continue
			}
			if h0UID == h1UID {
				h, _ := inst.Hospital(h0UID)
				excl := withoutResidents(occupants[h0UID], r0UID, r1UID)
				if wouldAcceptGroup(h, []int{r0UID, r1UID}, excl) {
					violations = append(violations, BlockingPair{
						Kind:      "couple-both-switch",
						Residents: []int{r0UID, r1UID},
						Hospitals: []int{h0UID, h1UID},
					})
				}
				continue
			}
			ok0 := h0UID == instance.NilHospitalUID
			ok1 := h1UID == instance.NilHospitalUID
			if !ok0 {
				h0, _ := inst.Hospital(h0UID)
				ok0 = wouldAcceptGroup(h0, []int{r0UID}, withoutResidents(occupants[h0UID], r0UID, r1UID))
			}
			if !ok1 {
				h1, _ := inst.Hospital(h1UID)
				ok1 = wouldAcceptGroup(h1, []int{r1UID}, withoutResidents(occupants[h1UID], r0UID, r1UID))
			}
			if ok0 && ok1 {
				violations = append(violations, BlockingPair{
					Kind:      "couple-both-switch",
					Residents: []int{r0UID, r1UID},
					Hospitals: []int{h0UID, h1UID},
				})
			}
		}
	}

	return violations, nil
}

func matchOf(m instance.Matching, rUID int) int {
	if h, ok := m[rUID]; ok {
		return h
	}
	return instance.NilHospitalUID
}

func occupantsByHospital(inst *instance.Instance, m instance.Matching) map[int][]int {
	out := map[int][]int{}
	for rUID, hUID := range m {
		if hUID == instance.NilHospitalUID {
			continue
		}
		out[hUID] = append(out[hUID], rUID)
	}
	return out
}

func withoutResidents(occupants []int, exclude ...int) []int {
	excl := map[int]bool{}
	for _, e := range exclude {
		excl[e] = true
	}
	out := make([]int, 0, len(occupants))
	for _, r := range occupants {
		if !excl[r] {
			out = append(out, r)
		}
	}
	return out
}

// strictlyPreferredSingle returns the hospitals a single resident
// strictly prefers to cur, most preferred first. It panics (recovered
// by Verify) when cur is not on the resident's list.
func strictlyPreferredSingle(r *instance.Resident, cur int) []int {
	return r.Pref.AllPreferred(cur)
}

// strictlyPreferredPairs returns the hospital pairs a couple strictly
// prefers to cur, constrained to agree with cur on every index in
// fixed, most preferred first.
func strictlyPreferredPairs(c *instance.Couple, cur instance.HospitalPair, fixed []int) []instance.HospitalPair {
	weakly := c.Pref.AllWeaklyPreferred(cur, fixed)
	if len(weakly) == 0 {
		return nil
	}
	return weakly[:len(weakly)-1]
}

// wouldAcceptGroup reports whether hospital h can accommodate every
// resident in candidates simultaneously, given the residents it is
// currently matched to (occupants, which must not itself contain any
// of candidates). Capacity slack admits them outright; otherwise h's
// worst-ranked occupants may be displaced, provided every displaced
// resident is dispreferred to every incoming candidate (the standard
// group-blocking-pair condition).
func wouldAcceptGroup(h *instance.Hospital, candidates []int, occupants []int) bool {
	slack := h.Capacity - len(occupants)
	if slack >= len(candidates) {
		return true
	}
	need := len(candidates) - slack
	if need > len(occupants) {
		return false
	}

	sorted := make([]int, len(occupants))
	copy(sorted, occupants)
	sort.Slice(sorted, func(i, j int) bool { return h.Rank(sorted[i]) > h.Rank(sorted[j]) })
	displaced := sorted[:need]

	worstCandidateRank := -1
	for _, cand := range candidates {
		if rank := h.Rank(cand); rank > worstCandidateRank {
			worstCandidateRank = rank
		}
	}
	for _, d := range displaced {
		if h.Rank(d) < worstCandidateRank {
			return false
		}
	}
	return true
}
