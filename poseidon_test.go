package poseidoncrh

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	iden3 "github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidoncrh/params"
)

func mustElement(t *testing.T, s string) fr.Element {
	t.Helper()
	var e fr.Element
	if _, err := e.SetString(s); err != nil {
		t.Fatalf("parse element: %v", err)
	}
	return e
}

func mustPreset(t *testing.T, width int) (*PoseidonCRH, *params.Parameters) {
	t.Helper()
	p, err := params.BN254X5(width)
	require.NoError(t, err)
	c, err := NewPoseidonCRH(p.Schedule)
	require.NoError(t, err)
	return c, p
}

func counter(n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := range out {
		out[i].SetUint64(uint64(i))
	}
	return out
}

// Outputs of the Poseidon reference implementation on the state 0, 1, ...
var referenceVectors = map[int][]string{
	3: {
		"0x115cc0f5e7d690413df64c6b9662e9cf2a3617f2743245519e19607a4417189a",
		"0x0fca49b798923ab0239de1c9e7a4a9a2210312b6a2f616d18b5a87f9b628ae29",
		"0x0e7ae82e40091e63cbd4f16a6d16310b3729d4b6e138fcf54110e2867045a30c",
	},
	5: {
		"0x299c867db6c1fdd79dcefa40e4510b9837e60ebb1ce0663dbaa525df65250465",
		"0x1148aaef609aa338b27dafd89bb98862d8bb2b429aceac47d86206154ffe053d",
		"0x24febb87fed7462e23f6665ff9a0111f4044c38ee1672c1ac6b0637d34f24907",
		"0x0eb08f6d809668a981c186beaf6110060707059576406b248e5d9cf6e78b3d3e",
		"0x07748bc6877c9b82c8b98666ee9d0626ec7f5be4205f79ee8528ef1c4a376fc7",
	},
}

func TestReferenceVectors(t *testing.T) {
	for _, width := range params.BN254X5Widths {
		c, p := mustPreset(t, width)
		state := counter(width)

		out, err := c.Permute(p, state)
		require.NoError(t, err)
		require.Len(t, out, width)
		for i, want := range referenceVectors[width] {
			w := mustElement(t, want)
			if !out[i].Equal(&w) {
				t.Fatalf("width %d slot %d mismatch\nexpected %s\ngot      %s", width, i, w.String(), out[i].String())
			}
		}

		h, err := c.Evaluate(p, FromFieldElements(state...))
		require.NoError(t, err)
		require.True(t, h.Equal(&out[OutputSlot]), "width %d: Evaluate must return slot %d", width, OutputSlot)
	}
}

func TestMatchesIden3(t *testing.T) {
	for _, width := range params.BN254X5Widths {
		c, p := mustPreset(t, width)
		for range 8 {
			state := make([]fr.Element, width)
			for i := range state {
				state[i].SetRandom()
			}
			out, err := c.Permute(p, state)
			require.NoError(t, err)

			inputs := make([]*big.Int, width-1)
			for i := range inputs {
				inputs[i] = state[i+1].BigInt(new(big.Int))
			}
			ref, err := iden3.HashWithStateEx(inputs, state[0].BigInt(new(big.Int)), width)
			require.NoError(t, err)
			for i := range ref {
				var r fr.Element
				r.SetBigInt(ref[i])
				require.True(t, out[i].Equal(&r), "width %d slot %d", width, i)
			}
		}
	}
}

func TestMatchesBigIntReference(t *testing.T) {
	inverse, err := params.New(
		params.Schedule{Width: 3, FullRounds: 4, PartialRounds: 3, Alpha: params.AlphaInverse},
		counter(22)[1:],
		[][]fr.Element{
			{fr.NewElement(2), fr.NewElement(1), fr.NewElement(1)},
			{fr.NewElement(1), fr.NewElement(2), fr.NewElement(1)},
			{fr.NewElement(1), fr.NewElement(1), fr.NewElement(3)},
		},
	)
	require.NoError(t, err)
	cube, err := params.New(
		params.Schedule{Width: 2, FullRounds: 2, PartialRounds: 5, Alpha: params.AlphaCube},
		counter(15)[1:],
		[][]fr.Element{counter(3)[1:], counter(4)[2:]},
	)
	require.NoError(t, err)
	_, x5 := mustPreset(t, 5)

	for _, p := range []*params.Parameters{inverse, cube, x5} {
		c, err := NewPoseidonCRH(p.Schedule)
		require.NoError(t, err)
		state := make([]fr.Element, p.Width)
		for i := range state {
			state[i].SetRandom()
		}
		out, err := c.Permute(p, state)
		require.NoError(t, err)
		ref := bigIntPermute(p, state)
		for i := range out {
			var r fr.Element
			r.SetBigInt(ref[i])
			require.True(t, out[i].Equal(&r), "schedule %+v slot %d", p.Schedule, i)
		}
	}
}

// bigIntPermute is a straightforward big.Int rendition of the permutation.
func bigIntPermute(p *params.Parameters, in []fr.Element) []*big.Int {
	mod := fr.Modulus()
	w := p.Width
	state := make([]*big.Int, w)
	for i := range in {
		state[i] = in[i].BigInt(new(big.Int))
	}
	exp := new(big.Int).SetUint64(uint64(p.Alpha.Exponent))
	if p.Alpha.Inverse {
		exp.Sub(mod, big.NewInt(2))
	}
	half := p.FullRounds / 2
	for r := range p.NbRounds() {
		for i := range state {
			k := p.RoundKeys[r*w+i].BigInt(new(big.Int))
			state[i].Add(state[i], k).Mod(state[i], mod)
		}
		full := r < half || r >= half+p.PartialRounds
		for i := range state {
			if full || i == 0 {
				state[i].Exp(state[i], exp, mod)
			}
		}
		next := make([]*big.Int, w)
		for i := range next {
			next[i] = new(big.Int)
			for j := range state {
				m := p.MDS[i][j].BigInt(new(big.Int))
				next[i].Add(next[i], m.Mul(m, state[j]))
			}
			next[i].Mod(next[i], mod)
		}
		state = next
	}
	return state
}

func TestSensitiveToEveryConstant(t *testing.T) {
	for _, width := range params.BN254X5Widths {
		c, p := mustPreset(t, width)
		input := FromFieldElements(counter(width)...)
		base, err := c.Evaluate(p, input)
		require.NoError(t, err)

		var one fr.Element
		one.SetOne()
		for k := range p.RoundKeys {
			q, err := params.New(p.Schedule, p.RoundKeys, p.MDS)
			require.NoError(t, err)
			q.RoundKeys[k].Add(&q.RoundKeys[k], &one)
			h, err := c.Evaluate(q, input)
			require.NoError(t, err)
			require.False(t, h.Equal(&base), "width %d: round key %d has no effect", width, k)
		}
		for i := range p.MDS {
			for j := range p.MDS[i] {
				q, err := params.New(p.Schedule, p.RoundKeys, p.MDS)
				require.NoError(t, err)
				q.MDS[i][j].Add(&q.MDS[i][j], &one)
				h, err := c.Evaluate(q, input)
				require.NoError(t, err)
				require.False(t, h.Equal(&base), "width %d: mds entry %d,%d has no effect", width, i, j)
			}
		}
	}
}

func TestEvaluateInputBoundaries(t *testing.T) {
	c, p := mustPreset(t, 3)

	t.Run("empty", func(t *testing.T) {
		h, err := c.Evaluate(p, nil)
		require.NoError(t, err)
		want, err := c.Hash(p)
		require.NoError(t, err)
		require.True(t, h.Equal(&want))
	})

	t.Run("short last chunk", func(t *testing.T) {
		var a fr.Element
		a.SetRandom()
		full := FromFieldElements(a, fr.NewElement(0x0201))
		h, err := c.Evaluate(p, full[:FieldBytes+2])
		require.NoError(t, err)
		want, err := c.Evaluate(p, full)
		require.NoError(t, err)
		require.True(t, h.Equal(&want))
	})

	t.Run("full width", func(t *testing.T) {
		_, err := c.Evaluate(p, make([]byte, c.InputSizeBits()/8))
		require.NoError(t, err)
	})

	t.Run("one byte too many", func(t *testing.T) {
		_, err := c.Evaluate(p, make([]byte, c.InputSizeBits()/8+1))
		require.ErrorIs(t, err, ErrIncorrectInputLength)
		var lengthErr *IncorrectInputLengthError
		require.True(t, errors.As(err, &lengthErr))
		require.Equal(t, 4, lengthErr.Elements)
		require.Equal(t, 3, lengthErr.Width)
	})

	t.Run("too many elements", func(t *testing.T) {
		_, err := c.Hash(p, counter(4)...)
		require.ErrorIs(t, err, ErrIncorrectInputLength)
	})

	t.Run("non-canonical chunk", func(t *testing.T) {
		input := make([]byte, 2*FieldBytes)
		for i := FieldBytes; i < len(input); i++ {
			input[i] = 0xff
		}
		_, err := c.Evaluate(p, input)
		require.ErrorIs(t, err, ErrNonCanonicalInput)

		// the modulus itself is the smallest rejected value
		modulus := fr.Modulus().FillBytes(make([]byte, FieldBytes))
		for i, j := 0, len(modulus)-1; i < j; i, j = i+1, j-1 {
			modulus[i], modulus[j] = modulus[j], modulus[i]
		}
		_, err = c.Evaluate(p, modulus)
		require.ErrorIs(t, err, ErrNonCanonicalInput)
	})
}

func TestParameterChecks(t *testing.T) {
	c, _ := mustPreset(t, 3)
	_, p5 := mustPreset(t, 5)

	_, err := c.Evaluate(p5, nil)
	require.ErrorIs(t, err, params.ErrInvalidParameters)
	_, err = c.Evaluate(nil, nil)
	require.ErrorIs(t, err, params.ErrInvalidParameters)
	_, err = c.Permute(p5, counter(3))
	require.ErrorIs(t, err, params.ErrInvalidParameters)

	// values built without params.New are validated on use
	malformed := []*params.Parameters{
		{Schedule: p5.Schedule, RoundKeys: p5.RoundKeys, MDS: p5.MDS[:2]},
		{Schedule: p5.Schedule, RoundKeys: p5.RoundKeys, MDS: [][]fr.Element{p5.MDS[0], p5.MDS[1], p5.MDS[2], p5.MDS[3], p5.MDS[4][:1]}},
		{Schedule: p5.Schedule, RoundKeys: p5.RoundKeys[1:], MDS: p5.MDS},
	}
	c5, err := NewPoseidonCRH(p5.Schedule)
	require.NoError(t, err)
	for i, m := range malformed {
		_, err = c5.Evaluate(m, FromFieldElements(counter(5)...))
		require.ErrorIs(t, err, params.ErrInvalidParameters, "case %d", i)
		_, err = c5.Permute(m, counter(5))
		require.ErrorIs(t, err, params.ErrInvalidParameters, "case %d", i)
	}

	_, err = NewPoseidonCRH(params.Schedule{Width: 1, FullRounds: 8, PartialRounds: 57, Alpha: params.AlphaQuint})
	require.ErrorIs(t, err, params.ErrInvalidParameters)
	_, err = NewPoseidonCRH(params.Schedule{Width: 3, FullRounds: 7, PartialRounds: 57, Alpha: params.AlphaQuint})
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}

func TestSetupAndInputSize(t *testing.T) {
	c, _ := mustPreset(t, 5)
	require.Equal(t, 5*256, c.InputSizeBits())
	_, err := c.Setup(nil)
	require.ErrorIs(t, err, ErrSetupUnsupported)
}

func inverseParameters(t *testing.T, keys []fr.Element, mds [][]fr.Element) *params.Parameters {
	t.Helper()
	p, err := params.New(params.Schedule{Width: 2, FullRounds: 2, Alpha: params.AlphaInverse}, keys, mds)
	require.NoError(t, err)
	return p
}

func TestInverseSBox(t *testing.T) {
	p := inverseParameters(t,
		[]fr.Element{fr.NewElement(1), fr.NewElement(2), fr.NewElement(3), fr.NewElement(4)},
		[][]fr.Element{{fr.NewElement(2), fr.NewElement(1)}, {fr.NewElement(1), fr.NewElement(3)}},
	)
	c, err := NewPoseidonCRH(p.Schedule)
	require.NoError(t, err)

	out, err := c.Permute(p, []fr.Element{fr.NewElement(5), fr.NewElement(6)})
	require.NoError(t, err)
	want0 := mustElement(t, "0x2161f92a8c4b59523b8be5ba2c10402796c479f406e3f3eccc4c9e01a0ebe18f")
	want1 := mustElement(t, "0x115b77ca864f7552ca95bb74bc37b4151391eccc09d14c8a03446d64516a328b")
	require.True(t, out[0].Equal(&want0))
	require.True(t, out[1].Equal(&want1))

	// zero keys and the identity matrix let a zero state reach the S-box
	zero := inverseParameters(t,
		make([]fr.Element, 4),
		[][]fr.Element{{fr.NewElement(1), fr.NewElement(0)}, {fr.NewElement(0), fr.NewElement(1)}},
	)
	_, err = c.Evaluate(zero, nil)
	require.ErrorIs(t, err, ErrInverseOfZero)
}
