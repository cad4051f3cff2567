package bridge

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/coin"
	"github.com/MuriData/shielded-gadgets/pkg/field"
	"github.com/MuriData/shielded-gadgets/pkg/merkle"
)

// Deposit holds a bridge note's secrets, chain-bound at creation.
type Deposit struct {
	ChainID fr.Element
	Rho     fr.Element
	R       fr.Element
	K       fr.Element
}

// NewDeposit samples a fresh random note destined for chainID.
func NewDeposit(chainID fr.Element) (Deposit, error) {
	rho, err := field.Random()
	if err != nil {
		return Deposit{}, err
	}
	r, err := field.Random()
	if err != nil {
		return Deposit{}, err
	}
	k, err := field.Random()
	if err != nil {
		return Deposit{}, err
	}
	return Deposit{ChainID: chainID, Rho: rho, R: r, K: k}, nil
}

// Leaf returns H4(chain_id, rho, r, k).
func (d Deposit) Leaf() (fr.Element, error) {
	return coin.BridgeLeaf(d.ChainID, d.Rho, d.R, d.K, hashParams)
}

// SerialNumber returns H2(k,k).
func (d Deposit) SerialNumber() (fr.Element, error) {
	return coin.MixerNullifier(d.K, hashParams)
}

// PrepareWitness builds a withdrawal assignment. roots is the public
// candidate root vector; depositTree's current root must equal one entry
// of roots (that entry's diff will come out to zero).
func PrepareWitness(depositTree *merkle.SparseMerkleTree, index uint64, d Deposit, roots [config.BridgeNumRoots]fr.Element, fee, relayer, recipient fr.Element) (*Circuit, error) {
	sn, err := d.SerialNumber()
	if err != nil {
		return nil, err
	}

	siblings, bits, err := depositTree.Proof(index)
	if err != nil {
		return nil, err
	}

	computedRoot := depositTree.Root

	assignment := &Circuit{
		SerialNumber: sn,
		ChainID:      d.ChainID,
		Fee:          fee,
		Relayer:      relayer,
		Recipient:    recipient,
		Rho:          d.Rho,
		R:            d.R,
		K:            d.K,
	}
	for i := range roots {
		assignment.Roots[i] = roots[i]
		var diff fr.Element
		diff.Sub(&roots[i], &computedRoot)
		assignment.Diff[i] = diff
	}

	for i := 0; i < len(bits); i++ {
		assignment.PathBits[i] = bits[i]
		assignment.PathNodes[i] = siblings[i]
	}
	return assignment, nil
}
