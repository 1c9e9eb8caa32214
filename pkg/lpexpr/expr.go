// Package lpexpr provides a small tree of linear-algebra fragments —
// terms, expressions, constraints, and variable bounds — with a
// textual renderer targeting CPLEX LP format. It performs no semantic
// simplification; it is a pretty-printer over data the encoders build.
package lpexpr

import (
	"fmt"
	"strings"
)

// Term is coeff·variable, where either coeff or variable may be
// absent. A term with only a variable renders bare; a term with only a
// coefficient renders as a constant.
type Term struct {
	HasCoeff bool
	Coeff    float64
	Var      string // empty means "no variable"
}

// Coeff builds a term with both a coefficient and a variable.
func Coeff(coeff float64, variable string) Term {
	return Term{HasCoeff: true, Coeff: coeff, Var: variable}
}

// Var builds a bare-variable term (implicit coefficient 1).
func Var(variable string) Term {
	return Term{Var: variable}
}

// Const builds a constant term with no variable.
func Const(coeff float64) Term {
	return Term{HasCoeff: true, Coeff: coeff}
}

// IsNegative reports whether the term renders with a leading minus
// sign: true iff a coefficient is present and negative. A bare
// variable is never negative.
func (t Term) IsNegative() bool {
	return t.HasCoeff && t.Coeff < 0
}

// Render renders the term as it appears after a "+" or at the start of
// an expression.
func (t Term) Render() string {
	switch {
	case t.Var != "" && t.HasCoeff:
		return fmt.Sprintf("%s %s", formatCoeff(t.Coeff), t.Var)
	case t.Var != "":
		return t.Var
	default:
		return formatCoeff(t.Coeff)
	}
}

// RenderNegation renders the term with its sign flipped, used when an
// Expression emits "- <term>" instead of "+ -<term>".
func (t Term) RenderNegation() string {
	switch {
	case t.Var != "" && t.HasCoeff:
		return fmt.Sprintf("%s %s", formatCoeff(-t.Coeff), t.Var)
	case t.Var != "":
		return "-" + t.Var
	default:
		return formatCoeff(-t.Coeff)
	}
}

func formatCoeff(c float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", c), "0"), ".")
}

// Expression is an ordered sequence of terms, rendered by emitting the
// first term verbatim and joining the rest with " + " or " - "
// according to each term's sign.
type Expression struct {
	Terms []Term
}

// NewExpression builds an Expression from the given terms.
func NewExpression(terms ...Term) Expression {
	return Expression{Terms: terms}
}

// Add appends a term to the expression.
func (e *Expression) Add(t Term) {
	e.Terms = append(e.Terms, t)
}

// Render renders the expression, e.g. "x_1 + 2 y_2 - 3 z_3".
func (e Expression) Render() string {
	if len(e.Terms) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(e.Terms[0].Render())
	for _, t := range e.Terms[1:] {
		if t.IsNegative() {
			sb.WriteString(" - ")
			sb.WriteString(t.RenderNegation())
		} else {
			sb.WriteString(" + ")
			sb.WriteString(t.Render())
		}
	}
	return sb.String()
}

// Infinity renders as "+inf" or "-inf", for unbounded Bound endpoints.
type Infinity struct {
	Negative bool
}

// Render renders the infinity sentinel.
func (i Infinity) Render() string {
	if i.Negative {
		return "-inf"
	}
	return "+inf"
}

// boundEndpoint is either a finite numeric term or an Infinity.
type boundEndpoint struct {
	term Term
	inf  *Infinity
	set  bool
}

func finiteEndpoint(value float64) boundEndpoint {
	return boundEndpoint{term: Const(value), set: true}
}

func infiniteEndpoint(negative bool) boundEndpoint {
	return boundEndpoint{inf: &Infinity{Negative: negative}, set: true}
}

func (b boundEndpoint) render() string {
	if b.inf != nil {
		return b.inf.Render()
	}
	return b.term.Render()
}

