package expr

import (
	"fmt"
	"strings"
)

// Render returns a fully parenthesized rendering of n. Variables print as
// s_<id>, a Geq root prints without outer parentheses. The text is for
// diagnostics and is never parsed back.
func (s *Simplifier[N]) Render(n Node[N]) string {
	var sb strings.Builder
	if b, ok := n.(Binary[N]); ok && b.Op == OpGeq {
		s.render(&sb, b.Left)
		sb.WriteString(" >= ")
		s.render(&sb, b.Right)
		return sb.String()
	}
	s.render(&sb, n)
	return sb.String()
}

func (s *Simplifier[N]) render(sb *strings.Builder, n Node[N]) {
	switch v := n.(type) {
	case nil:
		sb.WriteString("<nil>")
	case Variable[N]:
		fmt.Fprintf(sb, "s_%d", v.ID)
	case Literal[N]:
		sb.WriteString(s.alg.Format(v.Value))
	case Binary[N]:
		sb.WriteByte('(')
		s.render(sb, v.Left)
		sb.WriteByte(' ')
		sb.WriteString(v.Op.Symbol())
		sb.WriteByte(' ')
		s.render(sb, v.Right)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%T>", v)
	}
}

// FormatAffine renders a as "c + k*s_i + ..." with ids ascending. Negative
// coefficients print with a minus sign.
func (s *Simplifier[N]) FormatAffine(a Affine[N]) string {
	alg := s.alg
	var sb strings.Builder
	sb.WriteString(alg.Format(a.Constant))
	for _, id := range a.Vars() {
		c := a.Coefficients[id]
		if alg.Cmp(c, alg.Zero()) < 0 {
			sb.WriteString(" - ")
			c = alg.Negate(c)
		} else {
			sb.WriteString(" + ")
		}
		if alg.Cmp(c, alg.One()) != 0 {
			sb.WriteString(alg.Format(c))
			sb.WriteByte('*')
		}
		fmt.Fprintf(&sb, "s_%d", id)
	}
	return sb.String()
}

// FormatConstraint renders c as "lhs >= rhs".
func (s *Simplifier[N]) FormatConstraint(c Normalized[N]) string {
	return s.FormatAffine(c.LHS) + " >= " + s.FormatAffine(c.RHS)
}
