package mipenc

import (
	"fmt"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/lpexpr"
)

// Encoded is a formulated MIP document plus the ordered list of binary
// variables, kept separately because the objective references the
// first one declared (mirrors smp_c.py's solve_mip, which maximizes
// the first binary it ever registered).
type Encoded struct {
	Document *lpexpr.Document
	Binaries []string
}

// Encode builds the 0/1 MIP whose feasible solutions are exactly the
// stable matchings of inst.
func Encode(inst *instance.Instance) (*Encoded, error) {
	constraints := lpexpr.NewConstraintsCollection()
	var binaries []string

	addLE := func(rhs float64, parts ...[]lpexpr.Term) {
		var terms []lpexpr.Term
		for _, p := range parts {
			terms = append(terms, p...)
		}
		constraints.Add(lpexpr.NewExpression(terms...), lpexpr.LessEqual, lpexpr.Const(rhs))
	}
	addEQ := func(rhs float64, parts ...[]lpexpr.Term) {
		var terms []lpexpr.Term
		for _, p := range parts {
			terms = append(terms, p...)
		}
		constraints.Add(lpexpr.NewExpression(terms...), lpexpr.Equality, lpexpr.Const(rhs))
	}
	bareVars := func(names []string) []lpexpr.Term {
		terms := make([]lpexpr.Term, len(names))
		for i, n := range names {
			terms[i] = lpexpr.Var(n)
		}
		return terms
	}

	// M1: every single resident is matched to exactly one of their
	// ranked hospitals or the nil hospital.
	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		names := make([]string, 0, len(r.Ordering())+1)
		for _, hUID := range r.Ordering() {
			names = append(names, singleVar(rUID, hUID))
		}
		names = append(names, singleVar(rUID, instance.NilHospitalUID))
		addEQ(1, bareVars(names))
		binaries = append(binaries, names...)
	}

	// M2: every couple is matched to exactly one ranked pair or
	// (nil, nil).
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		pairs := append(append([]instance.HospitalPair{}, c.Ordering()...),
			instance.HospitalPair{instance.NilHospitalUID, instance.NilHospitalUID})
		names := make([]string, len(pairs))
		for i, p := range pairs {
			names[i] = coupleVar(cUID, p[0], p[1])
		}
		addEQ(1, bareVars(names))
		binaries = append(binaries, names...)
	}

	// M3: a hospital's matched residents never exceed its capacity.
	for _, hUID := range inst.HospitalOrder {
		h, _ := inst.Hospital(hUID)
		if len(h.Ordering()) == 0 {
			continue
		}
		var terms []lpexpr.Term
		for _, rUID := range h.Ordering() {
			terms = append(terms, expandMatchVar(inst, rUID, hUID, 1)...)
		}
		addLE(float64(h.Capacity), terms)
	}

	weaklyPreferredSum := func(h *instance.Hospital, residentUID int, coeff float64) []lpexpr.Term {
		var terms []lpexpr.Term
		for _, rPrime := range h.AllWeaklyPreferred(residentUID) {
			terms = append(terms, expandMatchVar(inst, rPrime, h.UID, coeff)...)
		}
		return terms
	}
	couplePrefTerms := func(c *instance.Couple, pair instance.HospitalPair, coeff float64) []lpexpr.Term {
		var terms []lpexpr.Term
		for _, p := range c.Pref.AllWeaklyPreferred(pair, nil) {
			terms = append(terms, lpexpr.Coeff(coeff, coupleVar(c.UID, p[0], p[1])))
		}
		return terms
	}

	// S1: no single resident and hospital form a blocking pair.
	for _, rUID := range inst.Singles {
		r, _ := inst.Resident(rUID)
		for _, hUID := range r.Ordering() {
			h, _ := inst.Hospital(hUID)
			var ownTerms []lpexpr.Term
			for _, pPrime := range r.AllWeaklyPreferred(hUID) {
				ownTerms = append(ownTerms, lpexpr.Coeff(-float64(h.Capacity), singleVar(rUID, pPrime)))
			}
			addLE(-float64(h.Capacity), weaklyPreferredSum(h, rUID, -1), ownTerms)
		}
	}

	// S2: no couple can improve by moving one member while the other
	// stays put.
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		ordering := c.Ordering()
		for _, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			h0, _ := inst.Hospital(h0UID)
			h1, _ := inst.Hospital(h1UID)
			var shared0, shared1 []lpexpr.Term
			if h0UID != h1UID {
				shared0 = weaklyPreferredSum(h0, r0UID, -1)
				shared1 = weaklyPreferredSum(h1, r1UID, -1)
			} else if h0.Rank(r0UID) < h0.Rank(r1UID) {
				shared0 = weaklyPreferredSum(h1, r1UID, -1)
				shared1 = shared0
			} else {
				shared0 = weaklyPreferredSum(h0, r0UID, -1)
				shared1 = shared0
			}
			addLE(0,
				couplePrefTerms(c, pair, -float64(h0.Capacity)),
				shared0,
				expandMatchVar(inst, r1UID, h1UID, float64(h0.Capacity)))
			addLE(0,
				couplePrefTerms(c, pair, -float64(h1.Capacity)),
				shared1,
				expandMatchVar(inst, r0UID, h0UID, float64(h1.Capacity)))
		}
		// also consider one member switching to the nil hospital.
		allPairs := append(append([]instance.HospitalPair{}, ordering...),
			instance.HospitalPair{instance.NilHospitalUID, instance.NilHospitalUID})
		var negPairTerms []lpexpr.Term
		for _, p := range allPairs {
			negPairTerms = append(negPairTerms, lpexpr.Coeff(-1, coupleVar(cUID, p[0], p[1])))
		}
		addLE(0, negPairTerms, expandMatchVar(inst, r1UID, instance.NilHospitalUID, 1))
		addLE(0, negPairTerms, expandMatchVar(inst, r0UID, instance.NilHospitalUID, 1))
	}

	// S3: no couple can improve by moving both members at once.
	for _, cUID := range inst.CoupleOrder {
		c, _ := inst.Couple(cUID)
		r0UID, r1UID := c.Residents[0], c.Residents[1]
		ordering := c.Ordering()

		generated := map[[2]int]bool{}
		for _, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			h0, _ := inst.Hospital(h0UID)
			h1, _ := inst.Hospital(h1UID)
			if h0.Capacity <= 1 || h0UID == instance.NilHospitalUID ||
				h1.Capacity <= 1 || h1UID == instance.NilHospitalUID ||
				generated[[2]int{r1UID, h1UID}] {
				continue
			}
			generated[[2]int{r1UID, h1UID}] = true
			binaries = append(binaries, alphaVar(r1UID, h1UID))
			terms := weaklyPreferredSum(h1, r1UID, -1)
			terms = append(terms, lpexpr.Coeff(float64(h1.Capacity), alphaVar(r1UID, h1UID)))
			addLE(0, terms)
		}

		for _, pair := range ordering {
			h0UID, h1UID := pair[0], pair[1]
			h0, _ := inst.Hospital(h0UID)
			h1, _ := inst.Hospital(h1UID)
			if h0.Capacity == 0 || h1.Capacity == 0 {
				continue
			}
			switch {
			case h0UID != h1UID && h1UID != instance.NilHospitalUID && h1.Capacity > 1 &&
				h0UID != instance.NilHospitalUID && h0.Capacity > 1:
				addLE(-float64(h0.Capacity),
					expandMatchVar(inst, r0UID, h0UID, -float64(h0.Capacity)),
					expandMatchVar(inst, r1UID, h1UID, -float64(h0.Capacity)),
					couplePrefTerms(c, pair, -float64(h0.Capacity)),
					weaklyPreferredSum(h0, r0UID, -1),
					[]lpexpr.Term{lpexpr.Coeff(-float64(h0.Capacity), alphaVar(r1UID, h1UID))})
			case h0UID != h1UID && (h1UID == instance.NilHospitalUID || h1.Capacity == 1):
				addLE(-float64(h0.Capacity),
					expandMatchVar(inst, r0UID, h0UID, -float64(h0.Capacity)),
					expandMatchVar(inst, r1UID, h1UID, -float64(h0.Capacity)),
					couplePrefTerms(c, pair, -float64(h0.Capacity)),
					weaklyPreferredSum(h0, r0UID, -1),
					weaklyPreferredSum(h1, r1UID, -float64(h0.Capacity)))
			case h0UID != h1UID && (h0UID == instance.NilHospitalUID || h0.Capacity == 1):
				addLE(-float64(h1.Capacity),
					expandMatchVar(inst, r0UID, h0UID, -float64(h1.Capacity)),
					expandMatchVar(inst, r1UID, h1UID, -float64(h1.Capacity)),
					couplePrefTerms(c, pair, -float64(h1.Capacity)),
					weaklyPreferredSum(h1, r1UID, -1),
					weaklyPreferredSum(h0, r0UID, -float64(h1.Capacity)))
			case h0UID != h1UID:
				return nil, fmt.Errorf("mipenc: unreachable hospital-pair case for couple %d, pair %v", cUID, pair)
			default:
				if h0.Capacity == 1 {
					continue
				}
				var shared []lpexpr.Term
				if h0.Rank(r0UID) < h0.Rank(r1UID) {
					shared = weaklyPreferredSum(h1, r1UID, -1)
				} else {
					shared = weaklyPreferredSum(h0, r0UID, -1)
				}
				addLE(-float64(h0.Capacity)+1,
					expandMatchVar(inst, r0UID, h0UID, -float64(h0.Capacity)),
					expandMatchVar(inst, r1UID, h1UID, -float64(h0.Capacity)),
					couplePrefTerms(c, pair, -float64(h0.Capacity)),
					shared)
			}
		}
	}

	if len(binaries) == 0 {
		return nil, fmt.Errorf("mipenc: instance has no agents to match")
	}

	doc := &lpexpr.Document{
		Sense:       lpexpr.Maximize,
		Objective:   lpexpr.NewExpression(lpexpr.Var(binaries[0])),
		Constraints: constraints,
		Binaries:    binaries,
	}
	return &Encoded{Document: doc, Binaries: binaries}, nil
}
