// Package mipenc translates an instance.Instance into a 0/1 MIP in
// CPLEX LP format whose feasible integer solutions are exactly the
// stable matchings of the instance, and decodes a CPLEX solution
// listing back into an instance.Matching.
package mipenc

import (
	"fmt"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
	"github.com/aperrault/stable-matching-suite/pkg/lpexpr"
)

func singleVar(residentUID, hospitalUID int) string {
	return fmt.Sprintf("x_%d,%d", residentUID, hospitalUID)
}

func coupleVar(coupleUID, h0UID, h1UID int) string {
	return fmt.Sprintf("x_%d,%d,%d", coupleUID, h0UID, h1UID)
}

func alphaVar(residentUID, hospitalUID int) string {
	return fmt.Sprintf("alpha_%d,%d", residentUID, hospitalUID)
}

// expandMatchVar returns the match-variable terms for resident at
// hospital: a single term for an unpaired resident, or one term per
// ranked pair sharing resident's coordinate for a couple member
// (mirrors smp_c.py's expand_match_var).
func expandMatchVar(inst *instance.Instance, residentUID, hospitalUID int, coeff float64) []lpexpr.Term {
	r, ok := inst.Resident(residentUID)
	if !ok {
		panic(fmt.Errorf("mipenc: unknown resident %d", residentUID))
	}
	if r.Couple == nil {
		return []lpexpr.Term{lpexpr.Coeff(coeff, singleVar(residentUID, hospitalUID))}
	}
	c, ok := inst.Couple(*r.Couple)
	if !ok {
		panic(fmt.Errorf("mipenc: unknown couple %d", *r.Couple))
	}
	coord := c.MemberIndex(residentUID)
	var terms []lpexpr.Term
	for _, pair := range c.Ordering() {
		if pair[coord] == hospitalUID {
			terms = append(terms, lpexpr.Coeff(coeff, coupleVar(c.UID, pair[0], pair[1])))
		}
	}
	return terms
}
