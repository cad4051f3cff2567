package transaction

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/config"
	"github.com/MuriData/shielded-gadgets/pkg/coin"
	"github.com/MuriData/shielded-gadgets/pkg/field"
	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
)

// NewOutputCoin samples a fresh coin of the given value, to be minted as an
// output.
func NewOutputCoin(value fr.Element) (coin.Coin, error) {
	rho, err := field.Random()
	if err != nil {
		return coin.Coin{}, err
	}
	r, err := field.Random()
	if err != nil {
		return coin.Coin{}, err
	}
	k, err := field.Random()
	if err != nil {
		return coin.Coin{}, err
	}
	return coin.Coin{Value: value, Rho: rho, R: r, K: k}, nil
}

// paddingCoin samples a zero-value coin for an unused slot. Its randomness
// is still real, so its commitment and serial number are ordinary Poseidon
// outputs indistinguishable in shape from an active coin's.
func paddingCoin() (coin.Coin, error) {
	return NewOutputCoin(fr.Element{})
}

// PrepareWitness assembles a transaction assignment from 1..MaxInputs
// already-minted input coins and 1..MaxOutputs freshly sampled output
// coins. Slots beyond len(inputs)/len(outputs) are filled with inactive
// zero-value padding coins. Callers are responsible for conservation of
// value: sum(inputs) == sum(outputs).
func PrepareWitness(inputs []coin.Coin, outputs []coin.Coin) (*Circuit, error) {
	if len(inputs) > config.MaxInputs {
		return nil, fmt.Errorf("transaction: %d inputs exceeds config.MaxInputs=%d: %w", len(inputs), config.MaxInputs, gaderr.ErrBadParameters)
	}
	if len(outputs) > config.MaxOutputs {
		return nil, fmt.Errorf("transaction: %d outputs exceeds config.MaxOutputs=%d: %w", len(outputs), config.MaxOutputs, gaderr.ErrBadParameters)
	}

	assignment := &Circuit{}

	for i := range assignment.Inputs {
		active := i < len(inputs)
		var c coin.Coin
		if active {
			c = inputs[i]
		} else {
			padded, err := paddingCoin()
			if err != nil {
				return nil, err
			}
			c = padded
		}

		inv := fr.Element{}
		if active {
			v, err := field.Invert(c.Value)
			if err != nil {
				return nil, err
			}
			inv = v
		}
		sn, err := c.SerialNumber(hashParams)
		if err != nil {
			return nil, err
		}
		cm, err := c.Commitment(hashParams)
		if err != nil {
			return nil, err
		}

		assignment.Inputs[i] = InputCoin{
			Active:       boolVariable(active),
			Value:        c.Value,
			ValueInverse: inv,
			Rho:          c.Rho,
			R:            c.R,
			K:            c.K,
			Commitment:   cm,
			SerialNumber: sn,
		}
	}

	for i := range assignment.Outputs {
		active := i < len(outputs)
		var c coin.Coin
		if active {
			c = outputs[i]
		} else {
			padded, err := paddingCoin()
			if err != nil {
				return nil, err
			}
			c = padded
		}

		inv := fr.Element{}
		if active {
			v, err := field.Invert(c.Value)
			if err != nil {
				return nil, err
			}
			inv = v
		}
		cm, err := c.Commitment(hashParams)
		if err != nil {
			return nil, err
		}

		assignment.Outputs[i] = OutputCoin{
			Active:       boolVariable(active),
			Value:        c.Value,
			ValueInverse: inv,
			Rho:          c.Rho,
			R:            c.R,
			K:            c.K,
			Commitment:   cm,
		}
	}

	return assignment, nil
}

func boolVariable(b bool) fr.Element {
	if b {
		return field.FromUint64(1)
	}
	return fr.Element{}
}
