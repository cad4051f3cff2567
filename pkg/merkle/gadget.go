package merkle

import (
	"github.com/consensys/gnark/frontend"

	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

// PathGadget is the in-circuit Merkle-path verifier (component C6, §4.6).
// Given an allocated leaf, depth allocated bit-witnesses and depth allocated
// sibling nodes, it returns the recomputed root.
//
// Open Question #1: the reference gadget this was modeled on does not
// constrain bits[h] in {0,1} — a malicious prover could pick a fractional
// bit to forge a path. This implementation adds
// api.AssertIsEqual(bit*(bit-1), 0) for every level, which the
// specification calls out as something production implementations should
// do; see DESIGN.md.
func PathGadget(api frontend.API, leaf frontend.Variable, bits, siblings []frontend.Variable, statics []frontend.Variable, p *params.Params) frontend.Variable {
	cur := leaf
	for h := 0; h < len(bits); h++ {
		bit := bits[h]
		api.AssertIsEqual(api.Mul(bit, api.Sub(bit, 1)), 0)

		left := api.Select(bit, siblings[h], cur)
		right := api.Select(bit, cur, siblings[h])

		cur = poseidon.Hash2Gadget(api, left, right, statics, p)
	}
	return cur
}
