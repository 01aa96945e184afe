package permutation

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidoncrh/params"
)

// counting wraps Native and records how many operations were issued.
type counting struct {
	Native
	adds, muls, invs int
}

func (c *counting) Add(a, b fr.Element) fr.Element { c.adds++; return c.Native.Add(a, b) }
func (c *counting) Mul(a, b fr.Element) fr.Element { c.muls++; return c.Native.Mul(a, b) }
func (c *counting) Inverse(a fr.Element) (fr.Element, error) {
	c.invs++
	return c.Native.Inverse(a)
}

func elementGen() gopter.Gen {
	return gen.SliceOfN(4, gen.UInt64()).Map(func(limbs []uint64) fr.Element {
		var b [fr.Bytes]byte
		for i, l := range limbs {
			binary.BigEndian.PutUint64(b[8*i:], l)
		}
		var e fr.Element
		e.SetBytes(b[:])
		return e
	})
}

func testParameters(t *testing.T) *params.Parameters {
	t.Helper()
	p, err := params.BN254X5(3)
	require.NoError(t, err)
	return p
}

func TestSBoxMultiplicationChains(t *testing.T) {
	var x fr.Element
	x.SetUint64(7)

	f := &counting{}
	y, err := SBox[fr.Element](f, params.AlphaCube, x)
	require.NoError(t, err)
	require.Equal(t, 2, f.muls)
	require.Equal(t, uint64(343), y.Uint64())

	f = &counting{}
	y, err = SBox[fr.Element](f, params.AlphaQuint, x)
	require.NoError(t, err)
	require.Equal(t, 3, f.muls)
	require.Equal(t, uint64(16807), y.Uint64())

	f = &counting{}
	y, err = SBox[fr.Element](f, params.AlphaInverse, x)
	require.NoError(t, err)
	require.Equal(t, 1, f.invs)
	var one fr.Element
	one.Mul(&y, &x)
	require.True(t, one.IsOne())

	_, err = SBox[fr.Element](Native{}, params.AlphaInverse, fr.Element{})
	require.ErrorIs(t, err, ErrInverseOfZero)

	_, err = SBox[fr.Element](Native{}, params.Alpha{Exponent: 7}, x)
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}

func TestPermuteOperationCount(t *testing.T) {
	p := testParameters(t)
	w, rounds := p.Width, p.NbRounds()

	f := &counting{}
	_, err := Permute[fr.Element](f, p.Schedule, NativeConstants(p), make([]fr.Element, w))
	require.NoError(t, err)

	// one key addition per position per round plus W² accumulations in the linear layer
	require.Equal(t, rounds*(w+w*w), f.adds)
	// three multiplications per S-box, W per full round and one per partial round
	require.Equal(t, 3*(p.FullRounds*w+p.PartialRounds)+rounds*w*w, f.muls)
}

func TestPermuteRejectsShapeErrors(t *testing.T) {
	p := testParameters(t)

	_, err := Permute[fr.Element](Native{}, p.Schedule, NativeConstants(p), make([]fr.Element, 2))
	require.ErrorIs(t, err, ErrStateWidth)

	c := NativeConstants(p)
	c.RoundKeys = c.RoundKeys[1:]
	_, err = Permute[fr.Element](Native{}, p.Schedule, c, make([]fr.Element, 3))
	require.ErrorIs(t, err, params.ErrInvalidParameters)

	c = NativeConstants(p)
	c.MDS = c.MDS[:2]
	_, err = Permute[fr.Element](Native{}, p.Schedule, c, make([]fr.Element, 3))
	require.ErrorIs(t, err, params.ErrInvalidParameters)

	c = NativeConstants(p)
	c.MDS = [][]fr.Element{c.MDS[0], c.MDS[1][:2], c.MDS[2]}
	_, err = Permute[fr.Element](Native{}, p.Schedule, c, make([]fr.Element, 3))
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}

func TestPermuteDoesNotModifyInput(t *testing.T) {
	p := testParameters(t)
	in := make([]fr.Element, 3)
	in[1].SetUint64(1)
	in[2].SetUint64(2)
	snapshot := append([]fr.Element(nil), in...)

	out, err := Permute[fr.Element](Native{}, p.Schedule, NativeConstants(p), in)
	require.NoError(t, err)
	require.Equal(t, snapshot, in)
	require.NotEqual(t, in, out)
}

func TestPermuteProperties(t *testing.T) {
	p := testParameters(t)
	c := NativeConstants(p)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("mix is linear", prop.ForAll(
		func(a, b []fr.Element) bool {
			sum := make([]fr.Element, len(a))
			for i := range a {
				sum[i].Add(&a[i], &b[i])
			}
			ma, mb, mab := Mix[fr.Element](Native{}, c.MDS, a), Mix[fr.Element](Native{}, c.MDS, b), Mix[fr.Element](Native{}, c.MDS, sum)
			for i := range mab {
				var s fr.Element
				s.Add(&ma[i], &mb[i])
				if !s.Equal(&mab[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, elementGen()),
		gen.SliceOfN(3, elementGen()),
	))

	properties.Property("permute is deterministic", prop.ForAll(
		func(s []fr.Element) bool {
			first, err1 := Permute[fr.Element](Native{}, p.Schedule, c, s)
			second, err2 := Permute[fr.Element](Native{}, p.Schedule, c, s)
			if err1 != nil || err2 != nil {
				return false
			}
			for i := range first {
				if !first[i].Equal(&second[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, elementGen()),
	))

	properties.TestingRun(t)
}
