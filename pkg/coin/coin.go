// Package coin models the shielded note (§3.6): a tuple (v, ρ, r, k) with
// derived commitment and serial number, shared by the mixer, bridge and
// transaction gadgets.
package coin

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

// Coin is a shielded note: Value is the transferred amount, Rho is a
// per-coin randomness, R is commitment randomness, K is the nullifier seed.
type Coin struct {
	Value fr.Element
	Rho   fr.Element
	R     fr.Element
	K     fr.Element
}

// Commitment returns cm = Poseidon4(v, ρ, r, k), minted when cm enters a
// tree.
func (c Coin) Commitment(p *params.Params) (fr.Element, error) {
	return poseidon.Hash4(c.Value, c.Rho, c.R, c.K, p)
}

// SerialNumber returns sn = Poseidon2(r, k), revealed publicly when the coin
// is spent.
func (c Coin) SerialNumber(p *params.Params) (fr.Element, error) {
	return poseidon.Hash2(c.R, c.K, p)
}

// MixerLeaf returns the fixed-deposit leaf H2(r, k) used by the mixer gadget
// (§4.8), where the "coin" carries no explicit value lane — every deposit in
// a fixed-denomination mixer is worth the same amount by construction.
func MixerLeaf(r, k fr.Element, p *params.Params) (fr.Element, error) {
	return poseidon.Hash2(r, k, p)
}

// MixerNullifier returns H2(k, k), the mixer's nullifier hash.
func MixerNullifier(k fr.Element, p *params.Params) (fr.Element, error) {
	return poseidon.Hash2(k, k, p)
}

// BridgeLeaf returns H4(chainID, ρ, r, k), the chain-bound bridge leaf
// (§4.9) — baking the destination chain id into the leaf means a deposit
// destined for chain X cannot be withdrawn on chain Y.
func BridgeLeaf(chainID, rho, r, k fr.Element, p *params.Params) (fr.Element, error) {
	return poseidon.Hash4(chainID, rho, r, k, p)
}
