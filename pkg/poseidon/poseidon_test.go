package poseidon

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/MuriData/shielded-gadgets/pkg/params"
)

// permuteCircuit exposes PermuteGadget so the plain/gadget equivalence
// property (§8: "applying the permutation plain and in-circuit with
// identical parameters yields the same output") can be checked with a
// concrete witness.
type permuteCircuit struct {
	In  [4]frontend.Variable `gnark:",secret"`
	Out [4]frontend.Variable `gnark:",public"`
	p   *params.Params
}

func (c *permuteCircuit) Define(api frontend.API) error {
	out := PermuteGadget(api, c.In[:], c.p)
	for i := range out {
		api.AssertIsEqual(out[i], c.Out[i])
	}
	return nil
}

func TestPermuteGadgetMatchesPlain(t *testing.T) {
	for _, sbox := range []params.SBox{params.X3, params.X5, params.X17, params.Inverse} {
		sbox := sbox
		t.Run(sbox.String(), func(t *testing.T) {
			p, err := params.New(4, sbox)
			if err != nil {
				t.Fatalf("params.New: %v", err)
			}

			in := []fr.Element{
				field(1), field(2), field(3), field(4),
			}
			out, err := Permute(append([]fr.Element{}, in...), p)
			if err != nil {
				t.Fatalf("Permute: %v", err)
			}

			circuit := &permuteCircuit{p: p}
			assignment := &permuteCircuit{
				In:  [4]frontend.Variable{in[0], in[1], in[2], in[3]},
				Out: [4]frontend.Variable{out[0], out[1], out[2], out[3]},
				p:   p,
			}

			assert := test.NewAssert(t)
			assert.SolvingSucceeded(circuit, assignment, test.WithCurves(ecc.BN254))
		})
	}
}

func field(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

func TestHash2Deterministic(t *testing.T) {
	p, err := params.New(6, params.Inverse)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	a, b := field(11), field(22)
	h1, err := Hash2(a, b, p)
	if err != nil {
		t.Fatalf("Hash2: %v", err)
	}
	h2, err := Hash2(a, b, p)
	if err != nil {
		t.Fatalf("Hash2: %v", err)
	}
	if !h1.Equal(&h2) {
		t.Fatal("Hash2 not deterministic")
	}
	h3, err := Hash2(b, a, p)
	if err != nil {
		t.Fatalf("Hash2: %v", err)
	}
	if h1.Equal(&h3) {
		t.Fatal("Hash2(a,b) should differ from Hash2(b,a)")
	}
}

func TestHash4Deterministic(t *testing.T) {
	p, err := params.New(6, params.Inverse)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	h1, err := Hash4(field(1), field(2), field(3), field(4), p)
	if err != nil {
		t.Fatalf("Hash4: %v", err)
	}
	h2, err := Hash4(field(1), field(2), field(3), field(4), p)
	if err != nil {
		t.Fatalf("Hash4: %v", err)
	}
	if !h1.Equal(&h2) {
		t.Fatal("Hash4 not deterministic")
	}
}

func TestPermuteInverseSBoxZeroLane(t *testing.T) {
	p, err := params.New(4, params.Inverse)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	state := make([]fr.Element, 4) // all zero
	out, err := Permute(state, p)
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	// an all-zero input state permutes without error out of circuit (round
	// constants are added before the first SBox, so this does not by itself
	// feed a zero into the inverse SBox).
	if len(out) != 4 {
		t.Fatalf("unexpected output length %d", len(out))
	}
}
