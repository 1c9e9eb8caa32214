package instance

import "fmt"

// Preference is the capability set every single-agent preference
// function supports: rank, the three preference-relative set queries,
// and the raw ordering. Hospitals and (unpaired) residents both
// implement it over a strict total order of integer uids.
type Preference interface {
	Rank(uid int) int
	AllPreferred(uid int) []int
	AllWeaklyPreferred(uid int) []int
	AllDispreferred(uid int) []int
	Ordering() []int
}

// ListPreference is a strict total order over uids, most preferred
// first. It is the concrete Preference backing both residents and
// hospitals loaded from a problem file.
type ListPreference struct {
	ordering []int
	index    map[int]int
}

// NewListPreference builds a ListPreference from an ordering, most
// preferred first. The ordering is copied.
func NewListPreference(ordering []int) *ListPreference {
	cp := make([]int, len(ordering))
	copy(cp, ordering)
	idx := make(map[int]int, len(cp))
	for i, uid := range cp {
		idx[uid] = i
	}
	return &ListPreference{ordering: cp, index: idx}
}

func (p *ListPreference) mustIndex(uid int) int {
	i, ok := p.index[uid]
	if !ok {
		panic(fmt.Errorf("%w: %d; ordering: %v", ErrUnknownUID, uid, p.ordering))
	}
	return i
}

// Rank returns the 0-based position of uid, most preferred = 0.
func (p *ListPreference) Rank(uid int) int {
	return p.mustIndex(uid)
}

// AllPreferred returns items strictly preferred to uid, most preferred
// first.
func (p *ListPreference) AllPreferred(uid int) []int {
	i := p.mustIndex(uid)
	out := make([]int, i)
	copy(out, p.ordering[:i])
	return out
}

// AllWeaklyPreferred returns items at least as preferred as uid
// (including uid itself), most preferred first.
func (p *ListPreference) AllWeaklyPreferred(uid int) []int {
	i := p.mustIndex(uid)
	out := make([]int, i+1)
	copy(out, p.ordering[:i+1])
	return out
}

// AllDispreferred returns items strictly less preferred than uid, in
// the order they appear after uid.
func (p *ListPreference) AllDispreferred(uid int) []int {
	i := p.mustIndex(uid)
	out := make([]int, len(p.ordering)-i-1)
	copy(out, p.ordering[i+1:])
	return out
}

// Ordering returns the full ordered sequence, most preferred first.
func (p *ListPreference) Ordering() []int {
	out := make([]int, len(p.ordering))
	copy(out, p.ordering)
	return out
}

// HospitalPair is a couple's joint assignment: the hospital for member
// 0 and the hospital for member 1, in that fixed order. Either
// coordinate may be the nil-hospital uid.
type HospitalPair [2]int

// JointPreference is the couple-preference capability set: a strict
// total order over HospitalPair, queried with an assignment and a set
// of coordinate indices that must remain fixed relative to it.
type JointPreference interface {
	Rank(pair HospitalPair) int
	AllWeaklyPreferred(assignment HospitalPair, fixed []int) []HospitalPair
	AllDispreferred(assignment HospitalPair, fixed []int) []HospitalPair
	Ordering() []HospitalPair
}

// ListJointPreference is a strict total order over hospital pairs,
// most preferred first, as declared by a couple's "c" record.
type ListJointPreference struct {
	ordering []HospitalPair
	index    map[HospitalPair]int
}

// NewListJointPreference builds a ListJointPreference from an ordering
// of pairs, most preferred first. The ordering is copied and is assumed
// to contain no duplicates (see spec §3); neither this constructor nor
// Load checks for them, and a repeated pair keeps its last position.
func NewListJointPreference(ordering []HospitalPair) *ListJointPreference {
	cp := make([]HospitalPair, len(ordering))
	copy(cp, ordering)
	idx := make(map[HospitalPair]int, len(cp))
	for i, pair := range cp {
		idx[pair] = i
	}
	return &ListJointPreference{ordering: cp, index: idx}
}

func (p *ListJointPreference) mustIndex(pair HospitalPair) int {
	i, ok := p.index[pair]
	if !ok {
		panic(fmt.Errorf("%w: %v; ordering: %v", ErrUnknownUID, pair, p.ordering))
	}
	return i
}

// Rank returns the 0-based position of pair, most preferred = 0.
func (p *ListJointPreference) Rank(pair HospitalPair) int {
	return p.mustIndex(pair)
}

// suitable reports whether candidate agrees with assignment on every
// coordinate named in fixed.
func suitable(assignment, candidate HospitalPair, fixed []int) bool {
	for _, i := range fixed {
		if candidate[i] != assignment[i] {
			return false
		}
	}
	return true
}

// AllWeaklyPreferred returns pairs at least as preferred as assignment
// (including assignment) that agree with it on every index in fixed,
// most preferred first.
func (p *ListJointPreference) AllWeaklyPreferred(assignment HospitalPair, fixed []int) []HospitalPair {
	var out []HospitalPair
	for _, pair := range p.ordering {
		if pair == assignment {
			out = append(out, pair)
			return out
		}
		if suitable(assignment, pair, fixed) {
			out = append(out, pair)
		}
	}
	panic(fmt.Errorf("%w: %v; ordering: %v", ErrUnknownUID, assignment, p.ordering))
}

// AllDispreferred returns pairs strictly less preferred than
// assignment that agree with it on every index in fixed, most
// preferred first.
func (p *ListJointPreference) AllDispreferred(assignment HospitalPair, fixed []int) []HospitalPair {
	var out []HospitalPair
	for i := len(p.ordering) - 1; i >= 0; i-- {
		pair := p.ordering[i]
		if pair == assignment {
			// reverse back into ordering order
			for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
				out[l], out[r] = out[r], out[l]
			}
			return out
		}
		if suitable(assignment, pair, fixed) {
			out = append(out, pair)
		}
	}
	panic(fmt.Errorf("%w: %v; ordering: %v", ErrUnknownUID, assignment, p.ordering))
}

// Ordering returns the full ordered sequence of pairs, most preferred
// first.
func (p *ListJointPreference) Ordering() []HospitalPair {
	out := make([]HospitalPair, len(p.ordering))
	copy(out, p.ordering)
	return out
}
