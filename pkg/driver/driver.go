// Package driver implements the common prover/verifier driver described in
// §4.11: both sides compile the circuit once, the prover walks the witness
// to produce a proof, and the verifier checks it against the public inputs.
// gnark's struct-reflection witness binding removes the reference's
// explicit "commit calls in the same order" step — see SPEC_FULL.md's
// §4.11a for why that concern does not carry over.
package driver

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
)

// Prove builds the full and public witnesses from assignment and produces a
// Groth16 proof. The returned witness.Witness is the public witness, ready
// for Verify.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) (groth16.Proof, witness.Witness, error) {
	full, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("driver: build witness: %w", err)
	}
	public, err := full.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("driver: extract public witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, full)
	if err != nil {
		return nil, nil, fmt.Errorf("driver: prove: %w", gaderr.ErrInvalidWitness)
	}
	return proof, public, nil
}

// Verify checks proof against the public witness. A failed verification is
// surfaced as ErrInvalidWitness, since gnark reports it as a generic error
// with no sentinel of its own (§7).
func Verify(proof groth16.Proof, vk groth16.VerifyingKey, public witness.Witness) error {
	if err := groth16.Verify(proof, vk, public); err != nil {
		return fmt.Errorf("driver: %w", gaderr.ErrInvalidWitness)
	}
	return nil
}
