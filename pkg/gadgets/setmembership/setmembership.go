// Package setmembership implements the set-membership gadget (component
// C7, §4.7): proving a witness equals one of a public vector of scalars
// without revealing which one.
package setmembership

import "github.com/consensys/gnark/frontend"

// Verify proves v is a member of set. diff[i] is the private witness
// set[i] - v; the caller must supply it alongside v (bridge.PrepareWitness
// does so for the bridge gadget). For each i we
// constrain diff[i] + v = set[i], then accumulate product := product *
// diff[i] (initial product = 1); finally product = 0 is asserted. This is
// sound because the product vanishes iff some diff[i] = 0 iff v = set[i].
func Verify(api frontend.API, v frontend.Variable, diff []frontend.Variable, set []frontend.Variable) {
	if len(diff) != len(set) {
		panic("setmembership: diff and set must have equal length")
	}

	product := frontend.Variable(1)
	for i := range set {
		api.AssertIsEqual(api.Add(diff[i], v), set[i])
		product = api.Mul(product, diff[i])
	}
	api.AssertIsEqual(product, 0)
}
