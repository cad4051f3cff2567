package transaction_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/test"

	"github.com/MuriData/shielded-gadgets/circuits/transaction"
	"github.com/MuriData/shielded-gadgets/pkg/coin"
	"github.com/MuriData/shielded-gadgets/pkg/driver"
	"github.com/MuriData/shielded-gadgets/pkg/field"
	"github.com/MuriData/shielded-gadgets/pkg/setup"
)

func mintedInput(t *testing.T, value uint64) coin.Coin {
	t.Helper()
	out, err := transaction.NewOutputCoin(field.FromUint64(value))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}
	return out
}

// TestTransactionConservesValue covers §8's coin invariant: two inputs
// summing to the same total as two outputs, each coin's commitment and
// serial number canonically derived.
func TestTransactionConservesValue(t *testing.T) {
	in1 := mintedInput(t, 30)
	in2 := mintedInput(t, 70)
	out1, err := transaction.NewOutputCoin(field.FromUint64(45))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}
	out2, err := transaction.NewOutputCoin(field.FromUint64(55))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}

	assignment, err := transaction.PrepareWitness([]coin.Coin{in1, in2}, []coin.Coin{out1, out2})
	if err != nil {
		t.Fatalf("PrepareWitness: %v", err)
	}

	ccs, err := setup.CompileCircuit(&transaction.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("groth16 setup: %v", err)
	}

	proof, publicWitness, err := driver.Prove(ccs, pk, assignment)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if err := driver.Verify(proof, vk, publicWitness); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

// TestTransactionAsymmetricInputsOutputs covers spec.md §8 scenario 6: a
// single real input spread across two real outputs (1-in/2-out), with the
// second input slot left as inactive zero-value padding.
func TestTransactionAsymmetricInputsOutputs(t *testing.T) {
	in1 := mintedInput(t, 100)
	out1, err := transaction.NewOutputCoin(field.FromUint64(40))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}
	out2, err := transaction.NewOutputCoin(field.FromUint64(60))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}

	assignment, err := transaction.PrepareWitness([]coin.Coin{in1}, []coin.Coin{out1, out2})
	if err != nil {
		t.Fatalf("PrepareWitness: %v", err)
	}

	ccs, err := setup.CompileCircuit(&transaction.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("groth16 setup: %v", err)
	}

	proof, publicWitness, err := driver.Prove(ccs, pk, assignment)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if err := driver.Verify(proof, vk, publicWitness); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

// TestTransactionRejectsTooManyInputs covers the over-capacity case: more
// real inputs than config.MaxInputs has no slot to hold them.
func TestTransactionRejectsTooManyInputs(t *testing.T) {
	in1 := mintedInput(t, 10)
	in2 := mintedInput(t, 20)
	in3 := mintedInput(t, 30)
	out1, err := transaction.NewOutputCoin(field.FromUint64(60))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}

	_, err = transaction.PrepareWitness([]coin.Coin{in1, in2, in3}, []coin.Coin{out1})
	if err == nil {
		t.Fatal("PrepareWitness should reject more inputs than config.MaxInputs")
	}
}

// TestTransactionRejectsValueMismatch covers the negative case: inputs and
// outputs whose totals differ must fail to prove.
func TestTransactionRejectsValueMismatch(t *testing.T) {
	in1 := mintedInput(t, 30)
	in2 := mintedInput(t, 70)
	out1, err := transaction.NewOutputCoin(field.FromUint64(40))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}
	out2, err := transaction.NewOutputCoin(field.FromUint64(55))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}

	assignment, err := transaction.PrepareWitness([]coin.Coin{in1, in2}, []coin.Coin{out1, out2})
	if err != nil {
		t.Fatalf("PrepareWitness: %v", err)
	}

	assert := test.NewAssert(t)
	assert.SolvingFailed(&transaction.Circuit{}, assignment, test.WithCurves(ecc.BN254))
}

// TestTransactionRejectsZeroValueCoin covers the v != 0 rejection from
// §4.10: a dummy-value coin with v = 0 has no multiplicative inverse, so
// the witness cannot be completed.
func TestTransactionRejectsZeroValueCoin(t *testing.T) {
	in1 := mintedInput(t, 0)
	in2 := mintedInput(t, 100)
	out1, err := transaction.NewOutputCoin(field.FromUint64(40))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}
	out2, err := transaction.NewOutputCoin(field.FromUint64(60))
	if err != nil {
		t.Fatalf("NewOutputCoin: %v", err)
	}

	_, err = transaction.PrepareWitness([]coin.Coin{in1, in2}, []coin.Coin{out1, out2})
	if err == nil {
		t.Fatal("PrepareWitness should fail to invert a zero-value coin")
	}
}
