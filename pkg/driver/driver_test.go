package driver_test

import (
	"errors"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/pkg/driver"
	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
	"github.com/MuriData/shielded-gadgets/pkg/setup"
)

// squareCircuit is a minimal circuit (X*X = Y) used to exercise the driver
// without pulling in the Poseidon-based gadgets.
type squareCircuit struct {
	X frontend.Variable `gnark:",secret"`
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func TestProveVerifyRoundTrip(t *testing.T) {
	ccs, err := setup.CompileCircuit(&squareCircuit{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	proof, public, err := driver.Prove(ccs, pk, &squareCircuit{X: 4, Y: 16})
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if err := driver.Verify(proof, vk, public); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyFailsSurfacesInvalidWitness(t *testing.T) {
	ccs, err := setup.CompileCircuit(&squareCircuit{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	proof, public, err := driver.Prove(ccs, pk, &squareCircuit{X: 4, Y: 16})
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	tamperedCcs, err := setup.CompileCircuit(&squareCircuit{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, tamperedVk, err := groth16.Setup(tamperedCcs)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	err = driver.Verify(proof, tamperedVk, public)
	if err == nil {
		t.Fatal("expected verification against a mismatched key to fail")
	}
	if !errors.Is(err, gaderr.ErrInvalidWitness) {
		t.Fatalf("expected ErrInvalidWitness, got %v", err)
	}
}
