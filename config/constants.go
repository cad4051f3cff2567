// Package config holds the domain-wide defaults §9's "builder objects" note
// describes: a tree depth, a Poseidon width/SBox, and the gadget sizing
// constants the mixer, bridge and transaction circuits compile against.
package config

import "github.com/MuriData/shielded-gadgets/pkg/params"

const (
	// TreeDepth is the default sparse Merkle tree height used by the mixer
	// and bridge gadgets (§8 scenario parameters: depth 32).
	TreeDepth = 32

	// PoseidonWidth is the default Poseidon state width.
	PoseidonWidth = 6

	// BridgeNumRoots is the default size of the bridge gadget's candidate
	// root set (one-of-many membership, §4.9).
	BridgeNumRoots = 2

	// MaxInputs and MaxOutputs size the transaction gadget's fixed-arity
	// input/output arrays (component C10).
	MaxInputs  = 2
	MaxOutputs = 2
)

// DefaultSBox is the default Poseidon non-linear layer (§8 scenarios all use
// the inverse SBox).
const DefaultSBox = params.Inverse
