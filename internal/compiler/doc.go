// Package compiler turns CUE constraint-system specs into ir.SystemSpec values,
// validates them, and builds expression trees from them in a chosen numeric
// domain.
//
// A spec file declares systems under the top-level "system" field:
//
//	system: tandem: {
//		description: "two FIFO servers"
//		objective: {add: [{var: 0}, {var: 1}]}
//		constraint: order_0_1: {geq: [{var: 1}, {sub: [{var: 0}, {lit: "3/2"}]}]}
//	}
//
// Literals may be CUE numbers or strings. Their source text is kept, so 0.1
// stays exact under the rational backend.
package compiler
