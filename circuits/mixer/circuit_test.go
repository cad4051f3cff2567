package mixer_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/test"

	"github.com/MuriData/shielded-gadgets/circuits/mixer"
	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/driver"
	"github.com/MuriData/shielded-gadgets/pkg/field"
	"github.com/MuriData/shielded-gadgets/pkg/merkle"
	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/setup"
)

func newTree(t *testing.T) *merkle.SparseMerkleTree {
	t.Helper()
	p, err := params.New(config.PoseidonWidth, config.DefaultSBox)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	tree, err := merkle.New(config.TreeDepth, p)
	if err != nil {
		t.Fatalf("merkle.New: %v", err)
	}
	return tree
}

// TestMixerHappyPath covers §8's mixer scenario: deposit into the tree,
// withdraw against the resulting root with a correct nullifier hash.
func TestMixerHappyPath(t *testing.T) {
	tree := newTree(t)

	deposit, err := mixer.NewDeposit()
	if err != nil {
		t.Fatalf("NewDeposit: %v", err)
	}
	leaf, err := deposit.Leaf()
	if err != nil {
		t.Fatalf("Leaf: %v", err)
	}
	const index = uint64(7)
	if err := tree.Update(index, leaf); err != nil {
		t.Fatalf("Update: %v", err)
	}

	recipient, err := field.Random()
	if err != nil {
		t.Fatalf("random recipient: %v", err)
	}
	relayer, err := field.Random()
	if err != nil {
		t.Fatalf("random relayer: %v", err)
	}

	assignment, err := mixer.PrepareWitness(tree, index, deposit, recipient, relayer)
	if err != nil {
		t.Fatalf("PrepareWitness: %v", err)
	}

	ccs, err := setup.CompileCircuit(&mixer.Circuit{})
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

// TestMixerWrongNullifierFails covers §8's negative scenario: a withdrawal
// whose published nullifier hash doesn't match H(k,k) must not prove.
func TestMixerWrongNullifierFails(t *testing.T) {
	tree := newTree(t)

	deposit, err := mixer.NewDeposit()
	if err != nil {
		t.Fatalf("NewDeposit: %v", err)
	}
	leaf, err := deposit.Leaf()
	if err != nil {
		t.Fatalf("Leaf: %v", err)
	}
	const index = uint64(3)
	if err := tree.Update(index, leaf); err != nil {
		t.Fatalf("Update: %v", err)
	}

	recipient, err := field.Random()
	if err != nil {
		t.Fatalf("random recipient: %v", err)
	}
	relayer, err := field.Random()
	if err != nil {
		t.Fatalf("random relayer: %v", err)
	}

	assignment, err := mixer.PrepareWitness(tree, index, deposit, recipient, relayer)
	if err != nil {
		t.Fatalf("PrepareWitness: %v", err)
	}
	wrongNullifier, err := field.Random()
	if err != nil {
		t.Fatalf("random nullifier: %v", err)
	}
	assignment.NullifierHash = wrongNullifier

	assert := test.NewAssert(t)
	assert.SolvingFailed(&mixer.Circuit{}, assignment, test.WithCurves(ecc.BN254))
}
