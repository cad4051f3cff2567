// Package field is the thin scalar/field adapter (component C1): it wraps
// gnark-crypto's bn254 scalar field with the handful of operations the rest
// of the gadget library needs, and gives the zero element's non-existent
// inverse a named error instead of gnark-crypto's silent zero result.
package field

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
)

// Random samples a uniformly random, canonically-reduced scalar from a
// cryptographic RNG.
func Random() (fr.Element, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return e, fmt.Errorf("field: sample random scalar: %w", err)
	}
	return e, nil
}

// RandomNonZero samples a uniformly random nonzero scalar, resampling on the
// (overwhelmingly unlikely) zero draw.
func RandomNonZero() (fr.Element, error) {
	for {
		e, err := Random()
		if err != nil {
			return e, err
		}
		if !e.IsZero() {
			return e, nil
		}
	}
}

// Invert returns the multiplicative inverse of x, or ErrDivisionByZero if x
// is the zero element.
func Invert(x fr.Element) (fr.Element, error) {
	var out fr.Element
	if x.IsZero() {
		return out, fmt.Errorf("invert zero scalar: %w", gaderr.ErrDivisionByZero)
	}
	out.Inverse(&x)
	return out, nil
}

// FromUint64 builds a field element from a small unsigned constant. Useful
// for test fixtures and for the dummy One-variable arithmetic the set
// membership and Merkle gadgets build on.
func FromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// Bytes returns the canonical big-endian 32-byte encoding of x. Canonical in
// the sense required by §3.1: every Scalar value this package hands back is
// already reduced, and Bytes never re-reduces.
func Bytes(x fr.Element) [32]byte {
	return x.Bytes()
}

// FromBytes decodes a canonical 32-byte big-endian encoding into a field
// element, reducing modulo the field order if the encoding is out of range.
func FromBytes(b [32]byte) fr.Element {
	var e fr.Element
	e.SetBytes(b[:])
	return e
}

// Allocated pairs an opaque constraint-system variable with its optional
// prover-side assignment, matching §3.2's {variable, assignment} pair. No
// other package in this module uses it: circuits/* witness builders assign
// fr.Element values to gnark circuit struct fields directly.
type Allocated struct {
	Variable   any
	Assignment *fr.Element
}

// NewAllocated pairs a circuit variable with its known assignment (prover
// side). Pass a nil assignment to model the verifier side, which knows the
// variable but not its value.
func NewAllocated(variable any, assignment *fr.Element) Allocated {
	return Allocated{Variable: variable, Assignment: assignment}
}
