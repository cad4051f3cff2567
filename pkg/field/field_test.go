package field

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
)

func TestInvertZeroFails(t *testing.T) {
	var zero fr.Element
	if _, err := Invert(zero); err == nil {
		t.Fatal("expected error inverting zero")
	} else if !isDivisionByZero(err) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func isDivisionByZero(err error) bool {
	for err != nil {
		if err == gaderr.ErrDivisionByZero {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func TestInvertRoundTrip(t *testing.T) {
	x := FromUint64(7)
	inv, err := Invert(x)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	var product fr.Element
	product.Mul(&x, &inv)
	if !product.IsOne() {
		t.Fatalf("x * x^-1 != 1, got %s", product.String())
	}
}

func TestBytesRoundTrip(t *testing.T) {
	x := FromUint64(424242)
	b := Bytes(x)
	y := FromBytes(b)
	if !x.Equal(&y) {
		t.Fatalf("round trip mismatch: %s != %s", x.String(), y.String())
	}
}

func TestRandomNonZero(t *testing.T) {
	for i := 0; i < 16; i++ {
		e, err := RandomNonZero()
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		if e.IsZero() {
			t.Fatal("RandomNonZero produced zero")
		}
	}
}
