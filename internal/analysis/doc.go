// Package analysis is the LUDB constraint front end. A Session is opened once
// per run for one backend kind; it builds every constraint of a system in that
// backend's numeric domain, simplifies them concurrently, and reports
// normalized affine forms ready for a linear-programming consumer.
//
// Only the session is non-generic. The numeric type is fixed inside it, so a
// run can never mix domains.
package analysis
