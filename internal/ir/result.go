package ir

import (
	"fmt"
	"strings"
)

// Constraint outcomes.
const (
	StatusLinear = "linear"
	StatusFailed = "failed"
)

// NonlinearMessage is reported for a system holding any failed constraint.
const NonlinearMessage = "cannot derive a linear bound for this topology"

// ObjectiveName is the result name used for a system's objective expression.
const ObjectiveName = "objective"

// Term is one variable with its nonzero coefficient.
type Term struct {
	Var   int    `json:"var" yaml:"var"`
	Coeff string `json:"coeff" yaml:"coeff"`
}

// AffineRecord is a normalized affine form: Constant + Σ Coeff·s_Var.
// Terms are sorted by Var and never hold a zero coefficient.
type AffineRecord struct {
	Constant string `json:"constant" yaml:"constant"`
	Terms    []Term `json:"terms" yaml:"terms"`
}

// ErrorRecord is a simplification failure.
type ErrorRecord struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// ConstraintResult is the outcome of simplifying one constraint.
// LHS, RHS and Difference are set when Status is StatusLinear, Error otherwise.
type ConstraintResult struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Status     string        `json:"status"`
	Rendered   string        `json:"rendered"`
	LHS        *AffineRecord `json:"lhs,omitempty"`
	RHS        *AffineRecord `json:"rhs,omitempty"`
	Difference *AffineRecord `json:"difference,omitempty"`
	Error      *ErrorRecord  `json:"error,omitempty"`
}

// ExpressionResult is the outcome of simplifying a system's objective.
type ExpressionResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Rendered string        `json:"rendered"`
	Value    *AffineRecord `json:"value,omitempty"`
	Error    *ErrorRecord  `json:"error,omitempty"`
}

// SystemResult is the outcome of analyzing one system.
// Constraints keep their source order.
type SystemResult struct {
	System      string             `json:"system"`
	Backend     string             `json:"backend"`
	Digest      string             `json:"digest"`
	Linear      bool               `json:"linear"`
	Message     string             `json:"message,omitempty"`
	Constraints []ConstraintResult `json:"constraints"`
	Objective   *ExpressionResult  `json:"objective,omitempty"`
}

// Failed returns the constraints that did not simplify.
func (r *SystemResult) Failed() []ConstraintResult {
	var out []ConstraintResult
	for _, c := range r.Constraints {
		if c.Status == StatusFailed {
			out = append(out, c)
		}
	}
	return out
}

// String renders a as "c + k*s_i - k*s_j". A unit coefficient is omitted.
func (a *AffineRecord) String() string {
	var sb strings.Builder
	sb.WriteString(a.Constant)
	for _, t := range a.Terms {
		coeff, neg := strings.CutPrefix(t.Coeff, "-")
		if neg {
			sb.WriteString(" - ")
		} else {
			sb.WriteString(" + ")
		}
		if coeff != "1" {
			sb.WriteString(coeff)
			sb.WriteByte('*')
		}
		fmt.Fprintf(&sb, "s_%d", t.Var)
	}
	return sb.String()
}

// Value returns the canonical form of a.
func (a *AffineRecord) Value() Value {
	terms := make(Array, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = Object{"var": Int(t.Var), "coeff": String(t.Coeff)}
	}
	return Object{"constant": String(a.Constant), "terms": terms}
}

// Value returns the canonical form of e.
func (e *ErrorRecord) Value() Value {
	return Object{"code": String(e.Code), "message": String(e.Message)}
}

// Payload is the canonical content of c without its id, the input to ResultID.
func (c *ConstraintResult) Payload() Object {
	obj := Object{
		"name":     String(c.Name),
		"status":   String(c.Status),
		"rendered": String(c.Rendered),
	}
	putAffine(obj, "lhs", c.LHS)
	putAffine(obj, "rhs", c.RHS)
	putAffine(obj, "difference", c.Difference)
	if c.Error != nil {
		obj["error"] = c.Error.Value()
	}
	return obj
}

// Payload is the canonical content of e without its id.
func (e *ExpressionResult) Payload() Object {
	obj := Object{
		"name":     String(e.Name),
		"status":   String(e.Status),
		"rendered": String(e.Rendered),
	}
	putAffine(obj, "value", e.Value)
	if e.Error != nil {
		obj["error"] = e.Error.Value()
	}
	return obj
}

// Value returns the canonical form of the whole result, ids included.
func (r *SystemResult) Value() Value {
	constraints := make(Array, len(r.Constraints))
	for i := range r.Constraints {
		c := r.Constraints[i].Payload()
		c["id"] = String(r.Constraints[i].ID)
		constraints[i] = c
	}
	obj := Object{
		"system":      String(r.System),
		"backend":     String(r.Backend),
		"digest":      String(r.Digest),
		"linear":      Bool(r.Linear),
		"constraints": constraints,
	}
	if r.Message != "" {
		obj["message"] = String(r.Message)
	}
	if r.Objective != nil {
		o := r.Objective.Payload()
		o["id"] = String(r.Objective.ID)
		obj["objective"] = o
	}
	return obj
}

func putAffine(obj Object, key string, a *AffineRecord) {
	if a != nil {
		obj[key] = a.Value()
	}
}
