// Package transaction implements the shielded-to-shielded transfer gadget
// (component C10, §4.10): spends up to config.MaxInputs coins and mints up
// to config.MaxOutputs coins, proving conservation of value without
// revealing any coin's value, randomness, owner key, or which slots (if
// any) are unused padding.
package transaction

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

var hashParams *params.Params

func init() {
	p, err := params.New(config.PoseidonWidth, config.DefaultSBox)
	if err != nil {
		panic(fmt.Sprintf("transaction: init poseidon params: %v", err))
	}
	hashParams = p
}

// InputCoin is a coin being spent: its commitment was minted earlier, and
// spending it reveals its serial number. Active marks whether this slot
// carries a real coin or an unused padding slot — kept secret so a
// transaction with fewer than MaxInputs real coins doesn't reveal which
// slots are padding.
type InputCoin struct {
	Active       frontend.Variable `gnark:",secret"`
	Value        frontend.Variable `gnark:",secret"`
	ValueInverse frontend.Variable `gnark:",secret"`
	Rho          frontend.Variable `gnark:",secret"`
	R            frontend.Variable `gnark:",secret"`
	K            frontend.Variable `gnark:",secret"`
	Commitment   frontend.Variable `gnark:",public"`
	SerialNumber frontend.Variable `gnark:",public"`
}

// OutputCoin is a freshly minted coin; only its commitment is public. See
// InputCoin's Active comment.
type OutputCoin struct {
	Active       frontend.Variable `gnark:",secret"`
	Value        frontend.Variable `gnark:",secret"`
	ValueInverse frontend.Variable `gnark:",secret"`
	Rho          frontend.Variable `gnark:",secret"`
	R            frontend.Variable `gnark:",secret"`
	K            frontend.Variable `gnark:",secret"`
	Commitment   frontend.Variable `gnark:",public"`
}

// Circuit is the transaction gadget, fixed at config.MaxInputs inputs and
// config.MaxOutputs outputs.
type Circuit struct {
	Inputs  [config.MaxInputs]InputCoin
	Outputs [config.MaxOutputs]OutputCoin
}

func (c *Circuit) Define(api frontend.API) error {
	statics2 := poseidon.ZeroStatics(hashParams.Width - 2)
	statics4 := poseidon.ZeroStatics(hashParams.Width - 4)

	var total []frontend.Variable

	for i := range c.Inputs {
		in := &c.Inputs[i]
		api.AssertIsBoolean(in.Active)
		// An active slot must carry a nonzero value (v * v^-1 = 1, which has
		// no solution at v=0); an inactive padding slot must carry exactly
		// v=0. Either way the commitment/serial-number hashes below are
		// checked unconditionally, so a padding slot looks like an ordinary
		// zero-value coin rather than a structurally distinct "empty" slot.
		api.AssertIsEqual(
			api.Select(in.Active, api.Mul(in.Value, in.ValueInverse), in.Value),
			api.Select(in.Active, 1, 0),
		)

		sn := poseidon.Hash2Gadget(api, in.R, in.K, statics2, hashParams)
		api.AssertIsEqual(sn, in.SerialNumber)

		cm := poseidon.Hash4Gadget(api, in.Value, in.Rho, in.R, in.K, statics4, hashParams)
		api.AssertIsEqual(cm, in.Commitment)

		total = append(total, in.Value)
	}

	var outTotal []frontend.Variable
	for i := range c.Outputs {
		out := &c.Outputs[i]
		api.AssertIsBoolean(out.Active)
		api.AssertIsEqual(
			api.Select(out.Active, api.Mul(out.Value, out.ValueInverse), out.Value),
			api.Select(out.Active, 1, 0),
		)

		cm := poseidon.Hash4Gadget(api, out.Value, out.Rho, out.R, out.K, statics4, hashParams)
		api.AssertIsEqual(cm, out.Commitment)

		outTotal = append(outTotal, out.Value)
	}

	// Conservation of value: sum(inputs) == sum(outputs).
	api.AssertIsEqual(sumVariables(api, total), sumVariables(api, outTotal))

	return nil
}

func sumVariables(api frontend.API, vals []frontend.Variable) frontend.Variable {
	switch len(vals) {
	case 0:
		return frontend.Variable(0)
	case 1:
		return vals[0]
	default:
		return api.Add(vals[0], vals[1], vals[2:]...)
	}
}
