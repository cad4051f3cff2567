// Package bridge implements the cross-chain bridge gadget (component C9,
// §4.9): a deposit's leaf bakes in a destination chain id, so a coin
// destined for chain X cannot be withdrawn with chain Y as the public
// chain id.
// Membership is proven against one of several candidate tree roots
// ("one-of-many"), per the full set-membership form — see Open Question #2
// in SPEC_FULL.md.
package bridge

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/gadgets/setmembership"
	"github.com/MuriData/shielded-gadgets/pkg/merkle"
	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

var hashParams *params.Params

func init() {
	p, err := params.New(config.PoseidonWidth, config.DefaultSBox)
	if err != nil {
		panic(fmt.Sprintf("bridge: init poseidon params: %v", err))
	}
	hashParams = p
}

// Circuit is the bridge withdrawal gadget. NumRoots is fixed at
// config.BridgeNumRoots and Depth at config.TreeDepth.
type Circuit struct {
	// Public inputs
	SerialNumber frontend.Variable                        `gnark:",public"`
	ChainID      frontend.Variable                        `gnark:",public"`
	Roots        [config.BridgeNumRoots]frontend.Variable `gnark:",public"`
	Fee          frontend.Variable                        `gnark:",public"`
	Relayer      frontend.Variable                        `gnark:",public"`
	Recipient    frontend.Variable                        `gnark:",public"`

	// Private witness
	Rho       frontend.Variable                        `gnark:",secret"`
	R         frontend.Variable                        `gnark:",secret"`
	K         frontend.Variable                        `gnark:",secret"`
	PathBits  [config.TreeDepth]frontend.Variable      `gnark:",secret"`
	PathNodes [config.TreeDepth]frontend.Variable      `gnark:",secret"`
	Diff      [config.BridgeNumRoots]frontend.Variable `gnark:",secret"`
}

func (c *Circuit) Define(api frontend.API) error {
	statics2 := poseidon.ZeroStatics(hashParams.Width - 2)
	statics4 := poseidon.ZeroStatics(hashParams.Width - 4)

	leaf := poseidon.Hash4Gadget(api, c.ChainID, c.Rho, c.R, c.K, statics4, hashParams)
	sn := poseidon.Hash2Gadget(api, c.K, c.K, statics2, hashParams)
	api.AssertIsEqual(sn, c.SerialNumber)

	computedRoot := merkle.PathGadget(api, leaf, c.PathBits[:], c.PathNodes[:], statics2, hashParams)
	setmembership.Verify(api, computedRoot, c.Diff[:], c.Roots[:])

	// §4.9 step 5: bind fee, relayer, recipient into the transcript without
	// constraining them algebraically, same rationale as the mixer gadget.
	api.Mul(c.Fee, c.Fee)
	api.Mul(c.Relayer, c.Relayer)
	api.Mul(c.Recipient, c.Recipient)

	return nil
}
