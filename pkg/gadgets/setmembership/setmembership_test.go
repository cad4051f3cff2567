package setmembership

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
)

type membershipCircuit struct {
	V    frontend.Variable   `gnark:",secret"`
	Diff [3]frontend.Variable `gnark:",secret"`
	Set  [3]frontend.Variable `gnark:",public"`
}

func (c *membershipCircuit) Define(api frontend.API) error {
	Verify(api, c.V, c.Diff[:], c.Set[:])
	return nil
}

func TestMembershipAccepts(t *testing.T) {
	set := [3]frontend.Variable{10, 20, 30}
	v := 20
	diff := [3]frontend.Variable{10 - 20, 20 - 20, 30 - 20}

	circuit := &membershipCircuit{}
	assignment := &membershipCircuit{V: v, Diff: diff, Set: set}

	assert := test.NewAssert(t)
	assert.SolvingSucceeded(circuit, assignment, test.WithCurves(ecc.BN254))
}

func TestMembershipRejectsNonMember(t *testing.T) {
	set := [3]frontend.Variable{10, 20, 30}
	v := 99
	// diff[i] chosen so diff[i]+v = set[i] holds algebraically, but the
	// product of diffs will be nonzero since v is not in the set.
	diff := [3]frontend.Variable{10 - 99, 20 - 99, 30 - 99}

	circuit := &membershipCircuit{}
	assignment := &membershipCircuit{V: v, Diff: diff, Set: set}

	assert := test.NewAssert(t)
	assert.SolvingFailed(circuit, assignment, test.WithCurves(ecc.BN254))
}
