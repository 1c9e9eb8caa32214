package lpexpr

import (
	"fmt"
	"io"
	"strings"
)

// Sense is the optimization direction of an LP document's objective.
type Sense int

const (
	// Maximize renders the "Maximize" section header.
	Maximize Sense = iota
	// Minimize renders the "Minimize" section header.
	Minimize
)

// Document is a complete CPLEX LP file: an objective, a constraints
// collection, optional bounds, and a list of binary variable names.
type Document struct {
	Sense       Sense
	Objective   Expression
	Constraints *ConstraintsCollection
	Bounds      *BoundsCollection
	Binaries    []string
}

// WriteTo renders the document in CPLEX LP syntax (spec §6):
// "Maximize"/"Minimize", "Subject To", "Bounds", "Binaries", "End".
func (d Document) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	if d.Sense == Maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	fmt.Fprintf(&sb, "obj: %s\n", d.Objective.Render())
	if d.Constraints != nil && len(d.Constraints.Constraints) > 0 {
		fmt.Fprintf(&sb, "Subject To\n%s\n", d.Constraints.Render())
	}
	if d.Bounds != nil && len(d.Bounds.Bounds) > 0 {
		fmt.Fprintf(&sb, "Bounds\n%s\n", d.Bounds.Render())
	}
	if len(d.Binaries) > 0 {
		fmt.Fprintf(&sb, "Binaries\n%s\n", strings.Join(d.Binaries, "\n"))
	}
	sb.WriteString("End")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
