package mixer

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/coin"
	"github.com/MuriData/shielded-gadgets/pkg/field"
	"github.com/MuriData/shielded-gadgets/pkg/merkle"
)

// Deposit holds a mixer note's secrets: r is the blinding factor and k the
// nullifier seed. Leaf() and NullifierHash() are the two public values
// derived from it (§4.8).
type Deposit struct {
	R fr.Element
	K fr.Element
}

// NewDeposit samples a fresh random note.
func NewDeposit() (Deposit, error) {
	r, err := field.Random()
	if err != nil {
		return Deposit{}, err
	}
	k, err := field.Random()
	if err != nil {
		return Deposit{}, err
	}
	return Deposit{R: r, K: k}, nil
}

// Leaf returns H(r,k), the value inserted into the deposit tree.
func (d Deposit) Leaf() (fr.Element, error) {
	return coin.MixerLeaf(d.R, d.K, hashParams)
}

// NullifierHash returns H(k,k), published on withdrawal to prevent reuse.
func (d Deposit) NullifierHash() (fr.Element, error) {
	return coin.MixerNullifier(d.K, hashParams)
}

// PrepareWitness builds a withdrawal assignment for a deposit already
// present in tree at index. recipient and relayer are bound into the proof
// per §4.8 step 4 but are not otherwise constrained by it.
func PrepareWitness(tree *merkle.SparseMerkleTree, index uint64, d Deposit, recipient, relayer fr.Element) (*Circuit, error) {
	nullifierHash, err := d.NullifierHash()
	if err != nil {
		return nil, err
	}

	siblings, bits, err := tree.Proof(index)
	if err != nil {
		return nil, err
	}

	assignment := &Circuit{
		Root:          tree.Root,
		NullifierHash: nullifierHash,
		Recipient:     recipient,
		Relayer:       relayer,
		R:             d.R,
		K:             d.K,
	}
	for i := 0; i < len(bits); i++ {
		assignment.PathBits[i] = bits[i]
		assignment.PathNodes[i] = siblings[i]
	}
	return assignment, nil
}
