package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a later algorithm change.
const (
	DomainResult = "ludb/result/v1"
	DomainSystem = "ludb/system/v1"
	DomainRun    = "ludb/run/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ResultID computes the id of one constraint or objective result.
// The same system analyzed with the same backend always yields the same id.
func ResultID(backend, system, name string, payload Object) (string, error) {
	obj := Object{
		"backend": String(backend),
		"system":  String(system),
		"name":    String(name),
		"payload": payload,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ResultID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// SystemDigest hashes the canonical form of a source system.
func SystemDigest(spec SystemSpec) (string, error) {
	canonical, err := MarshalCanonical(spec.Value())
	if err != nil {
		return "", fmt.Errorf("SystemDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSystem, canonical), nil
}

// MustResultID is like ResultID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustResultID(backend, system, name string, payload Object) string {
	id, err := ResultID(backend, system, name, payload)
	if err != nil {
		panic(err)
	}
	return id
}

// MustSystemDigest is like SystemDigest but panics on error.
func MustSystemDigest(spec SystemSpec) string {
	d, err := SystemDigest(spec)
	if err != nil {
		panic(err)
	}
	return d
}

// RunDigest hashes the digests of every system in a run, in order.
func RunDigest(systems []SystemResult) (string, error) {
	digests := make(Array, len(systems))
	for i, s := range systems {
		digests[i] = String(s.Digest)
	}
	canonical, err := MarshalCanonical(digests)
	if err != nil {
		return "", fmt.Errorf("RunDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}
