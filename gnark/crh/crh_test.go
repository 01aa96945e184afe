package crh

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidoncrh"
	"github.com/vocdoni/poseidoncrh/params"
)

func byteVars(b []byte) []frontend.Variable {
	out := make([]frontend.Variable, len(b))
	for i := range b {
		out[i] = b[i]
	}
	return out
}

type decodeCircuit struct {
	Input    []frontend.Variable
	Expected []frontend.Variable `gnark:",public"`
}

func (c *decodeCircuit) Define(api frontend.API) error {
	out := ToFieldVars(api, c.Input)
	if len(out) != len(c.Expected) {
		return ErrInputShape
	}
	for i := range out {
		api.AssertIsEqual(out[i], c.Expected[i])
	}
	return nil
}

func TestToFieldVarsMatchesNative(t *testing.T) {
	var a, b fr.Element
	a.SetRandom()
	b.SetUint64(0x0102)
	// second chunk is two bytes long
	input := poseidoncrh.FromFieldElements(a, b)[:FieldBytes+2]
	native, err := poseidoncrh.ToFieldElements(input)
	require.NoError(t, err)
	require.Len(t, native, 2)

	witness := &decodeCircuit{Input: byteVars(input), Expected: []frontend.Variable{native[0], native[1]}}
	circuit := &decodeCircuit{Input: make([]frontend.Variable, len(input)), Expected: make([]frontend.Variable, 2)}
	require.NoError(t, test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))

	// byte variables are range checked
	witness.Input[0] = 256
	require.Error(t, test.IsSolved(circuit, witness, ecc.BN254.ScalarField()))
}

type identityCircuit struct {
	Input    [FieldBytes]frontend.Variable
	Expected frontend.Variable `gnark:",public"`
}

func (c *identityCircuit) Define(api frontend.API) error {
	var g IdentityGadget
	pv, err := g.AllocateParameters(struct{}{})
	if err != nil {
		return err
	}
	out, err := g.Evaluate(api, pv, c.Input[:])
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Expected)
	return nil
}

func TestIdentityGadget(t *testing.T) {
	assert := test.NewAssert(t)

	var v fr.Element
	v.SetRandom()
	var witness identityCircuit
	copy(witness.Input[:], byteVars(poseidoncrh.FromFieldElements(v)))
	witness.Expected = v

	assert.CheckCircuit(&identityCircuit{}, test.WithValidAssignment(&witness), test.WithCurves(ecc.BN254))

	_, err := IdentityGadget{}.Evaluate(nil, struct{}{}, make([]frontend.Variable, FieldBytes+1))
	require.ErrorIs(t, err, ErrInputShape)
}

type bytesCircuit struct {
	Input    []frontend.Variable
	Expected frontend.Variable `gnark:",public"`

	params *params.Parameters `gnark:"-"`
}

func (c *bytesCircuit) Define(api frontend.API) error {
	g, err := NewPoseidonGadget(c.params.Schedule)
	if err != nil {
		return err
	}
	pv, err := g.AllocateParameters(c.params)
	if err != nil {
		return err
	}
	out, err := g.Evaluate(api, pv, c.Input)
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Expected)
	return nil
}

func TestPoseidonGadgetRejectsShapeAtBuildTime(t *testing.T) {
	p, err := params.BN254X5(3)
	require.NoError(t, err)

	for _, n := range []int{2 * FieldBytes, 3*FieldBytes + 1, 4 * FieldBytes} {
		_, err = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &bytesCircuit{
			Input:  make([]frontend.Variable, n),
			params: p,
		})
		require.ErrorIs(t, err, ErrInputShape, "input of %d bytes", n)
	}

	// a short last chunk still decodes to width elements
	_, err = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &bytesCircuit{
		Input:  make([]frontend.Variable, 2*FieldBytes+1),
		params: p,
	})
	require.NoError(t, err)
}

func TestAllocateParametersChecksSchedule(t *testing.T) {
	p3, err := params.BN254X5(3)
	require.NoError(t, err)
	p5, err := params.BN254X5(5)
	require.NoError(t, err)

	g, err := NewPoseidonGadget(p3.Schedule)
	require.NoError(t, err)
	_, err = g.AllocateParameters(p5)
	require.ErrorIs(t, err, params.ErrInvalidParameters)

	_, err = NewPoseidonGadget(params.Schedule{Width: 1, FullRounds: 8, Alpha: params.AlphaQuint})
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}

type countCircuit struct {
	Input [3 * FieldBytes]frontend.Variable

	params *params.Parameters `gnark:"-"`
}

func (c *countCircuit) Define(api frontend.API) error {
	g, err := NewPoseidonGadget(c.params.Schedule)
	if err != nil {
		return err
	}
	pv, err := g.AllocateParameters(c.params)
	if err != nil {
		return err
	}
	out, err := g.Evaluate(api, pv, c.Input[:])
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, out)
	return nil
}

func TestConstraintCountDependsOnlyOnSchedule(t *testing.T) {
	p, err := params.BN254X5(3)
	require.NoError(t, err)
	ccs1, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &countCircuit{params: p})
	require.NoError(t, err)

	// same schedule, different constants
	other, err := params.New(p.Schedule, p.RoundKeys, p.MDS)
	require.NoError(t, err)
	for i := range other.RoundKeys {
		other.RoundKeys[i].SetUint64(uint64(i + 7))
	}
	ccs2, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &countCircuit{params: other})
	require.NoError(t, err)
	require.Equal(t, ccs1.GetNbConstraints(), ccs2.GetNbConstraints())
	t.Logf("width-3 byte-level crh r1cs constraints: %d", ccs1.GetNbConstraints())

	ccs3, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, &countCircuit{params: p})
	require.NoError(t, err)
	t.Logf("width-3 byte-level crh scs constraints: %d", ccs3.GetNbConstraints())
}

type inverseCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *inverseCircuit) Define(api frontend.API) error {
	y, err := apiField{api}.Inverse(c.X)
	if err != nil {
		return err
	}
	api.AssertIsEqual(y, c.Y)
	return nil
}

func TestInverseOfZeroIsUnsatisfiable(t *testing.T) {
	var x, y fr.Element
	x.SetUint64(9)
	y.Inverse(&x)
	require.NoError(t, test.IsSolved(&inverseCircuit{}, &inverseCircuit{X: x, Y: y}, ecc.BN254.ScalarField()))
	require.Error(t, test.IsSolved(&inverseCircuit{}, &inverseCircuit{X: 0, Y: 0}, ecc.BN254.ScalarField()))

	_, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &constantZeroCircuit{})
	require.ErrorIs(t, err, ErrInverseOfZero)
}

type constantZeroCircuit struct {
	X frontend.Variable
}

func (c *constantZeroCircuit) Define(api frontend.API) error {
	y, err := apiField{api}.Inverse(api.Sub(c.X, c.X))
	if err != nil {
		return err
	}
	api.AssertIsEqual(y, c.X)
	return nil
}
