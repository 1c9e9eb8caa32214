package lpexpr

import "fmt"

// Kind distinguishes the two constraint relations the encoders emit.
// SMC's LP encoding never needs strict or >= rows.
type Kind int

const (
	// Equality renders as "name: expr = term".
	Equality Kind = iota
	// LessEqual renders as "name: expr <= term".
	LessEqual
)

// Constraint is a named linear expression related to a single term on
// the right-hand side.
type Constraint struct {
	Name  string
	Left  Expression
	Right Term
	Kind  Kind
}

// Render renders the constraint as a CPLEX LP "Subject To" row.
func (c Constraint) Render() string {
	op := "="
	if c.Kind == LessEqual {
		op = "<="
	}
	return fmt.Sprintf("%s: %s %s %s", c.Name, c.Left.Render(), op, c.Right.Render())
}

// Bound is a per-variable bound row: "lb <= v", "v <= ub", or
// "lb <= v <= ub". At least one of lb/ub must be set — the original
// implementation this is modeled on mistakenly used Go/Python
// truthiness here, which silently treated a zero lower bound as
// absent; this type tracks presence explicitly instead (spec §9).
type Bound struct {
	Var string
	LB  *boundEndpoint
	UB  *boundEndpoint
}

// NewBound builds a bound with an optional finite or infinite lower
// and upper endpoint. Pass nil for an absent endpoint.
func NewBound(variable string, lb, ub *float64, lbNegInf, ubPosInf bool) Bound {
	b := Bound{Var: variable}
	if lb != nil {
		e := finiteEndpoint(*lb)
		b.LB = &e
	} else if lbNegInf {
		e := infiniteEndpoint(true)
		b.LB = &e
	}
	if ub != nil {
		e := finiteEndpoint(*ub)
		b.UB = &e
	} else if ubPosInf {
		e := infiniteEndpoint(false)
		b.UB = &e
	}
	return b
}

// Render renders the bound row.
func (b Bound) Render() string {
	switch {
	case b.LB != nil && b.UB != nil:
		return fmt.Sprintf("%s <= %s <= %s", b.LB.render(), b.Var, b.UB.render())
	case b.LB != nil:
		return fmt.Sprintf("%s <= %s", b.LB.render(), b.Var)
	case b.UB != nil:
		return fmt.Sprintf("%s <= %s", b.Var, b.UB.render())
	default:
		panic(fmt.Errorf("lpexpr: bound on %q has neither a lower nor an upper endpoint", b.Var))
	}
}

// BoundsCollection is a list of per-variable bounds.
type BoundsCollection struct {
	Bounds []Bound
}

// Add appends a bound to the collection.
func (bc *BoundsCollection) Add(b Bound) {
	bc.Bounds = append(bc.Bounds, b)
}

// Render renders the "Bounds" section body, one bound per line.
func (bc BoundsCollection) Render() string {
	out := ""
	for i, b := range bc.Bounds {
		if i > 0 {
			out += "\n"
		}
		out += b.Render()
	}
	return out
}
