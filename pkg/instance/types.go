// Package instance holds the in-memory representation of a Stable
// Matching with Couples problem: hospitals, residents, couples, their
// preference functions, and the partial matching the solvers decode
// into. Entities are immutable after construction; the only field the
// pipeline ever writes post-construction is Instance.Matching.
package instance

// NilHospitalUID is the fixed uid of the sentinel hospital that
// represents "unmatched". It never collides with a loaded uid because
// the loader rejects any resident, hospital, or couple record that
// reuses it.
const NilHospitalUID = 999999

// NilHospitalSymbol is the problem-file and matching-file token that
// denotes the nil hospital.
const NilHospitalSymbol = "-1"

// nilHospitalCapacity is documented on the sentinel but never used to
// constrain anything: the nil hospital accepts arbitrarily many
// residents (spec §3, §9).
const nilHospitalCapacity = 10

// Hospital is a ranked program with an integer capacity. The nil
// hospital (uid == NilHospitalUID) has a nil Pref and an empty
// preference ordering.
type Hospital struct {
	UID      int
	Capacity int
	Pref     *ListPreference
}

func newNilHospital() *Hospital {
	return &Hospital{UID: NilHospitalUID, Capacity: nilHospitalCapacity, Pref: nil}
}

// IsNil reports whether h is the sentinel "unmatched" hospital.
func (h *Hospital) IsNil() bool {
	return h.UID == NilHospitalUID
}

// Ordering returns the hospital's ranked residents, most preferred
// first. The nil hospital's ordering is always empty.
func (h *Hospital) Ordering() []int {
	if h.Pref == nil {
		return nil
	}
	return h.Pref.Ordering()
}

// Rank returns the 0-based rank of resident uid at h.
func (h *Hospital) Rank(uid int) int {
	return h.Pref.Rank(uid)
}

// AllWeaklyPreferred returns residents h weakly prefers to uid
// (including uid), most preferred first. Always empty for the nil
// hospital.
func (h *Hospital) AllWeaklyPreferred(uid int) []int {
	if h.Pref == nil {
		return nil
	}
	return h.Pref.AllWeaklyPreferred(uid)
}

// AllPreferred returns residents h strictly prefers to uid. Always
// empty for the nil hospital.
func (h *Hospital) AllPreferred(uid int) []int {
	if h.Pref == nil {
		return nil
	}
	return h.Pref.AllPreferred(uid)
}

// Resident is a single applicant. Couple is non-nil when the resident
// is one half of a couple; in that case Pref is nil and preference
// queries go through the owning Couple's per-member ranked list
// instead.
type Resident struct {
	UID    int
	Pref   *ListPreference
	Couple *int
}

// IsSingle reports whether the resident is unpaired.
func (r *Resident) IsSingle() bool {
	return r.Couple == nil
}

// Ordering returns the resident's ranked hospitals, most preferred
// first. Only valid for singles.
func (r *Resident) Ordering() []int {
	return r.Pref.Ordering()
}

// Rank returns the resident's 0-based rank of hospital uid. Only valid
// for singles.
func (r *Resident) Rank(uid int) int {
	return r.Pref.Rank(uid)
}

// AllWeaklyPreferred returns hospitals the resident weakly prefers to
// uid, most preferred first. Only valid for singles.
func (r *Resident) AllWeaklyPreferred(uid int) []int {
	return r.Pref.AllWeaklyPreferred(uid)
}

// Couple is a pair of residents with a joint preference function over
// hospital pairs.
type Couple struct {
	UID       int
	Residents [2]int
	Pref      *ListJointPreference

	// rankedHospitals[residentUID] is the deduplicated projection of
	// Pref.Ordering() onto that member's coordinate, in first-occurrence
	// order (spec §3).
	rankedHospitals map[int][]int
}

func newCouple(uid int, residents [2]int, pref *ListJointPreference) *Couple {
	c := &Couple{UID: uid, Residents: residents, Pref: pref, rankedHospitals: map[int][]int{}}
	for coord, r := range residents {
		seen := map[int]bool{}
		var ranked []int
		for _, pair := range pref.Ordering() {
			h := pair[coord]
			if !seen[h] {
				seen[h] = true
				ranked = append(ranked, h)
			}
		}
		c.rankedHospitals[r] = ranked
	}
	return c
}

// OtherMember returns the uid of the couple member other than member.
func (c *Couple) OtherMember(member int) int {
	if c.Residents[0] == member {
		return c.Residents[1]
	}
	return c.Residents[0]
}

// MemberIndex returns 0 if residentUID is the couple's first member,
// 1 if the second.
func (c *Couple) MemberIndex(residentUID int) int {
	if c.Residents[0] == residentUID {
		return 0
	}
	return 1
}

// RankedHospitals returns residentUID's deduplicated per-member ranked
// hospital list, in first-occurrence order.
func (c *Couple) RankedHospitals(residentUID int) []int {
	out := make([]int, len(c.rankedHospitals[residentUID]))
	copy(out, c.rankedHospitals[residentUID])
	return out
}

// Ordering returns the couple's joint ranked pairs, most preferred
// first.
func (c *Couple) Ordering() []HospitalPair {
	return c.Pref.Ordering()
}

// Matching is a partial map from resident uid to hospital uid. Absence
// means unmatched, equivalent to an explicit NilHospitalUID
// assignment.
type Matching map[int]int

// Instance is the in-memory representation of one SMC problem: its
// entities plus the matching the solvers eventually populate.
type Instance struct {
	Hospitals    map[int]*Hospital
	HospitalOrder []int

	Residents map[int]*Resident

	Singles    []int // resident uids, loader insertion order
	CoupleOrder []int // couple uids, loader insertion order
	Couples    map[int]*Couple

	Matching Matching
}

func newInstance() *Instance {
	inst := &Instance{
		Hospitals: map[int]*Hospital{},
		Residents: map[int]*Resident{},
		Couples:   map[int]*Couple{},
		Matching:  Matching{},
	}
	nh := newNilHospital()
	inst.Hospitals[nh.UID] = nh
	return inst
}

// NilHospital returns the instance's sentinel "unmatched" hospital.
func (inst *Instance) NilHospital() *Hospital {
	return inst.Hospitals[NilHospitalUID]
}

// Hospital looks up a hospital by uid, returning (nil, false) if
// absent.
func (inst *Instance) Hospital(uid int) (*Hospital, bool) {
	h, ok := inst.Hospitals[uid]
	return h, ok
}

// Resident looks up a resident by uid, returning (nil, false) if
// absent.
func (inst *Instance) Resident(uid int) (*Resident, bool) {
	r, ok := inst.Residents[uid]
	return r, ok
}

// Couple looks up a couple by uid, returning (nil, false) if absent.
func (inst *Instance) Couple(uid int) (*Couple, bool) {
	c, ok := inst.Couples[uid]
	return c, ok
}

// CoupleOf returns the couple a resident belongs to, if any.
func (inst *Instance) CoupleOf(residentUID int) (*Couple, bool) {
	r, ok := inst.Residents[residentUID]
	if !ok || r.Couple == nil {
		return nil, false
	}
	return inst.Couples[*r.Couple], true
}

// RankedHospitals returns a resident's per-member ranked hospital
// list: the resident's own ordering if single, or the owning couple's
// deduplicated projection if coupled.
func (inst *Instance) RankedHospitals(residentUID int) []int {
	r := inst.Residents[residentUID]
	if r.IsSingle() {
		return r.Ordering()
	}
	c := inst.Couples[*r.Couple]
	return c.RankedHospitals(residentUID)
}
