// Package poseidon implements the Poseidon sponge permutation (component
// C3, plain variant) and its fixed-arity hash wrappers (component C4, plain
// variant). See gadget.go for the in-circuit counterparts.
package poseidon

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
	"github.com/MuriData/shielded-gadgets/pkg/params"
)

// Permute applies the Poseidon permutation to a copy of state and returns
// the permuted copy; state itself is left unchanged. len(state) must equal
// p.Width. Round structure: FullRoundsBeginning full
// rounds, then PartialRounds partial rounds, then FullRoundsEnd full rounds;
// each round adds the next Width round constants, applies the SBox (every
// lane in a full round, only lane 0 in a partial round), then multiplies by
// the MDS matrix.
//
// Out-of-circuit inverse-SBox edge case: x=0 maps to 0 rather than failing.
// The in-circuit gadget is stricter (see gadget.go) — a zero lane makes the
// witness unsatisfiable there, since that is the only way to forbid a
// degenerate prover input inside a constraint system.
func Permute(state []fr.Element, p *params.Params) ([]fr.Element, error) {
	if len(state) != p.Width {
		return nil, fmt.Errorf("poseidon: state width %d != params width %d", len(state), p.Width)
	}
	if len(p.RoundKeys) < p.TotalRounds()*p.Width {
		return nil, fmt.Errorf("poseidon: %w", gaderr.ErrBadParameters)
	}

	out := make([]fr.Element, p.Width)
	copy(out, state)

	for r := 0; r < p.TotalRounds(); r++ {
		for i := 0; i < p.Width; i++ {
			out[i].Add(&out[i], &p.RoundKeys[r*p.Width+i])
		}

		isFull := r < p.FullRoundsBeginning || r >= p.FullRoundsBeginning+p.PartialRounds
		if isFull {
			for i := 0; i < p.Width; i++ {
				out[i] = applySBoxPlain(out[i], p.SBox)
			}
		} else {
			out[0] = applySBoxPlain(out[0], p.SBox)
		}

		out = mulMDS(out, p.MDSMatrix)
	}

	return out, nil
}

func applySBoxPlain(x fr.Element, sbox params.SBox) fr.Element {
	switch sbox {
	case params.X3:
		var x2, x3 fr.Element
		x2.Mul(&x, &x)
		x3.Mul(&x2, &x)
		return x3
	case params.X5:
		var x2, x4, x5 fr.Element
		x2.Mul(&x, &x)
		x4.Mul(&x2, &x2)
		x5.Mul(&x4, &x)
		return x5
	case params.X17:
		var x2, x4, x8, x16, x17 fr.Element
		x2.Mul(&x, &x)
		x4.Mul(&x2, &x2)
		x8.Mul(&x4, &x4)
		x16.Mul(&x8, &x8)
		x17.Mul(&x16, &x)
		return x17
	case params.Inverse:
		if x.IsZero() {
			return x
		}
		var inv fr.Element
		inv.Inverse(&x)
		return inv
	default:
		return x
	}
}

func mulMDS(state []fr.Element, mds [][]fr.Element) []fr.Element {
	width := len(state)
	out := make([]fr.Element, width)
	for i := 0; i < width; i++ {
		var acc fr.Element
		for j := 0; j < width; j++ {
			var term fr.Element
			term.Mul(&mds[i][j], &state[j])
			acc.Add(&acc, &term)
		}
		out[i] = acc
	}
	return out
}

// Hash2 is the Poseidon sponge with rate 2 / capacity p.Width-2 (component
// C4): absorb (a,b) by addition into the first two lanes of a zero initial
// state, permute, and return lane 0.
func Hash2(a, b fr.Element, p *params.Params) (fr.Element, error) {
	if p.Width < 2 {
		return fr.Element{}, fmt.Errorf("poseidon: Hash2 needs width >= 2, got %d: %w", p.Width, gaderr.ErrBadParameters)
	}
	state := make([]fr.Element, p.Width)
	state[0] = a
	state[1] = b
	out, err := Permute(state, p)
	if err != nil {
		return fr.Element{}, err
	}
	return out[0], nil
}

// Hash4 is the Poseidon sponge with rate 4 / capacity p.Width-4.
func Hash4(a, b, c, d fr.Element, p *params.Params) (fr.Element, error) {
	if p.Width < 4 {
		return fr.Element{}, fmt.Errorf("poseidon: Hash4 needs width >= 4, got %d: %w", p.Width, gaderr.ErrBadParameters)
	}
	state := make([]fr.Element, p.Width)
	state[0] = a
	state[1] = b
	state[2] = c
	state[3] = d
	out, err := Permute(state, p)
	if err != nil {
		return fr.Element{}, err
	}
	return out[0], nil
}
