// Package mixer implements the fixed-denomination mixer gadget (component
// C8, §4.8): a depositor commits r, k (leaf = H(r,k)); a withdrawer later
// proves knowledge of r, k for a leaf present in the tree without revealing
// which leaf, while publishing nullifier_hash = H(k,k) so the same deposit
// cannot be withdrawn twice.
package mixer

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/merkle"
	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

// hashParams is fixed at package init, mirroring the teacher's pattern of
// deriving circuit-wide hashing constants once rather than per witness.
var hashParams *params.Params

func init() {
	p, err := params.New(config.PoseidonWidth, config.DefaultSBox)
	if err != nil {
		panic(fmt.Sprintf("mixer: init poseidon params: %v", err))
	}
	hashParams = p
}

// Circuit is the mixer withdrawal gadget. Depth is fixed at
// config.TreeDepth so every compiled instance shares one R1CS shape.
type Circuit struct {
	// Public inputs
	Root          frontend.Variable `gnark:",public"`
	NullifierHash frontend.Variable `gnark:",public"`
	Recipient     frontend.Variable `gnark:",public"`
	Relayer       frontend.Variable `gnark:",public"`

	// Private witness
	R         frontend.Variable                  `gnark:",secret"`
	K         frontend.Variable                  `gnark:",secret"`
	PathBits  [config.TreeDepth]frontend.Variable `gnark:",secret"`
	PathNodes [config.TreeDepth]frontend.Variable `gnark:",secret"`
}

func (c *Circuit) Define(api frontend.API) error {
	statics := poseidon.ZeroStatics(hashParams.Width - 2)

	leaf := poseidon.Hash2Gadget(api, c.R, c.K, statics, hashParams)
	nullifier := poseidon.Hash2Gadget(api, c.K, c.K, statics, hashParams)
	api.AssertIsEqual(nullifier, c.NullifierHash)

	root := merkle.PathGadget(api, leaf, c.PathBits[:], c.PathNodes[:], statics, hashParams)
	api.AssertIsEqual(root, c.Root)

	// §4.8 step 4 / Open Question #4: bind recipient and relayer into the
	// proof transcript without constraining them against anything else.
	// This is the literal reading of the reference: it pins these public
	// values so a proof can't be replayed against a different payout
	// target, but it does not by itself prove the withdrawer controls
	// them. Resolved as a faithful port, not a fix.
	api.Mul(c.Recipient, c.Recipient)
	api.Mul(c.Relayer, c.Relayer)

	return nil
}
