// Package permutation implements the Poseidon round schedule once, over any
// realization of the field: plain values, native circuit variables or
// emulated circuit elements.
package permutation

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidoncrh/params"
)

var (
	// ErrInverseOfZero is returned by the inverse S-box on the additive identity.
	ErrInverseOfZero = errors.New("inverse of zero")
	// ErrStateWidth is returned when a state does not match the schedule width.
	ErrStateWidth = errors.New("state width mismatch")
)

// Field is the algebraic surface the permutation needs from a value type.
type Field[E any] interface {
	Zero() E
	Add(a, b E) E
	Mul(a, b E) E
	// Inverse returns a^-1, or ErrInverseOfZero when a is known to be zero.
	Inverse(a E) (E, error)
}

// Constants are the round keys and MDS matrix lifted into the value type E.
type Constants[E any] struct {
	RoundKeys []E
	MDS       [][]E
}

// Lift converts the native parameters into E using lift for every entry.
func Lift[E any](p *params.Parameters, lift func(fr.Element) E) Constants[E] {
	c := Constants[E]{
		RoundKeys: make([]E, len(p.RoundKeys)),
		MDS:       make([][]E, len(p.MDS)),
	}
	for i := range p.RoundKeys {
		c.RoundKeys[i] = lift(p.RoundKeys[i])
	}
	for i := range p.MDS {
		c.MDS[i] = make([]E, len(p.MDS[i]))
		for j := range p.MDS[i] {
			c.MDS[i][j] = lift(p.MDS[i][j])
		}
	}
	return c
}

// Permute runs F/2 full rounds, P partial rounds and F/2 full rounds over
// state and returns the new state. The input slice is not modified. The
// constants are assumed to have been lifted from validated parameters.
func Permute[E any](f Field[E], s params.Schedule, c Constants[E], state []E) ([]E, error) {
	if len(state) != s.Width {
		return nil, fmt.Errorf("%w: got %d elements, want %d", ErrStateWidth, len(state), s.Width)
	}
	if len(c.RoundKeys) != s.NbRoundKeys() {
		return nil, fmt.Errorf("%w: %d round keys for %d", params.ErrInvalidParameters, len(c.RoundKeys), s.NbRoundKeys())
	}
	if len(c.MDS) != s.Width {
		return nil, fmt.Errorf("%w: mds has %d rows, want %d", params.ErrInvalidParameters, len(c.MDS), s.Width)
	}
	for i := range c.MDS {
		if len(c.MDS[i]) != s.Width {
			return nil, fmt.Errorf("%w: mds row %d has %d entries, want %d", params.ErrInvalidParameters, i, len(c.MDS[i]), s.Width)
		}
	}
	out := make([]E, len(state))
	copy(out, state)

	var (
		offset int
		err    error
	)
	for r := 0; r < s.FullRounds/2; r++ {
		if out, offset, err = fullRound(f, s.Alpha, c, out, offset); err != nil {
			return nil, err
		}
	}
	for r := 0; r < s.PartialRounds; r++ {
		for i := range out {
			out[i] = f.Add(out[i], c.RoundKeys[offset])
			offset++
		}
		// partial rounds only touch position 0
		if out[0], err = SBox(f, s.Alpha, out[0]); err != nil {
			return nil, err
		}
		out = Mix(f, c.MDS, out)
	}
	for r := 0; r < s.FullRounds/2; r++ {
		if out, offset, err = fullRound(f, s.Alpha, c, out, offset); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fullRound[E any](f Field[E], alpha params.Alpha, c Constants[E], state []E, offset int) ([]E, int, error) {
	var err error
	for i := range state {
		if state[i], err = SBox(f, alpha, f.Add(state[i], c.RoundKeys[offset])); err != nil {
			return nil, 0, err
		}
		offset++
	}
	return Mix(f, c.MDS, state), offset, nil
}

// Mix applies the linear layer: out[i] = Σ_j mds[i][j]·state[j].
func Mix[E any](f Field[E], mds [][]E, state []E) []E {
	out := make([]E, len(state))
	for i := range state {
		sum := f.Zero()
		for j := range state {
			sum = f.Add(sum, f.Mul(mds[i][j], state[j]))
		}
		out[i] = sum
	}
	return out
}

// SBox applies the nonlinear map selected by alpha to x.
func SBox[E any](f Field[E], alpha params.Alpha, x E) (E, error) {
	switch {
	case alpha.Inverse:
		return f.Inverse(x)
	case alpha.Exponent == 3:
		x2 := f.Mul(x, x)
		return f.Mul(x, x2), nil
	case alpha.Exponent == 5:
		x2 := f.Mul(x, x)
		x4 := f.Mul(x2, x2)
		return f.Mul(x, x4), nil
	default:
		var zero E
		return zero, fmt.Errorf("%w: unsupported alpha exponent %d", params.ErrInvalidParameters, alpha.Exponent)
	}
}
