package lpexpr

import "fmt"

// ConstraintsCollection accumulates constraints and auto-names the
// ones the caller doesn't name explicitly, as "c0", "c1", ... The
// Python original this is modeled on used a process-wide counter reset
// on every collection construction; that made constraint names
// reproducible per run but meant two collections alive at once would
// collide. This type scopes the counter to the collection instance
// instead (spec §5, §9 redesign note) while preserving the same
// "c<k>" naming and per-collection reproducibility.
type ConstraintsCollection struct {
	Constraints []Constraint
	nextUID     int
}

// NewConstraintsCollection returns an empty collection with its name
// counter reset to 0.
func NewConstraintsCollection() *ConstraintsCollection {
	return &ConstraintsCollection{}
}

// Add appends a constraint, naming it "c<k>" if it has no name.
func (cc *ConstraintsCollection) Add(left Expression, kind Kind, right Term) {
	cc.AddNamed("", left, kind, right)
}

// AddNamed appends a constraint with an explicit name; an empty name
// falls back to the auto-generated "c<k>".
func (cc *ConstraintsCollection) AddNamed(name string, left Expression, kind Kind, right Term) {
	if name == "" {
		name = fmt.Sprintf("c%d", cc.nextUID)
		cc.nextUID++
	}
	cc.Constraints = append(cc.Constraints, Constraint{Name: name, Left: left, Right: right, Kind: kind})
}

// Render renders every constraint, one per line.
func (cc ConstraintsCollection) Render() string {
	out := ""
	for i, c := range cc.Constraints {
		if i > 0 {
			out += "\n"
		}
		out += c.Render()
	}
	return out
}
