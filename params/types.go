// Package params defines the configuration consumed by the Poseidon
// permutation: the round schedule and the round-key/matrix bundle.
//
// A Parameters value is immutable once built by New (or decoded by
// UnmarshalBinary/UnmarshalJSON) and may be shared by any number of
// concurrent evaluations.
package params

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrInvalidParameters is wrapped by every configuration error: a schedule,
// round-key list or matrix that is inconsistent with itself.
var ErrInvalidParameters = errors.New("invalid poseidon parameters")

// Alpha captures the Poseidon S-box: x^Exponent, or x^-1 when Inverse is set.
type Alpha struct {
	Exponent uint32
	Inverse  bool
}

var (
	AlphaCube    = Alpha{Exponent: 3}
	AlphaQuint   = Alpha{Exponent: 5}
	AlphaInverse = Alpha{Inverse: true}
)

// Schedule is the round structure of a permutation instance.
type Schedule struct {
	Width         int
	FullRounds    int
	PartialRounds int
	Alpha         Alpha
}

// NbRounds returns F+P.
func (s Schedule) NbRounds() int {
	return s.FullRounds + s.PartialRounds
}

// NbRoundKeys returns the number of round keys consumed by one permutation.
func (s Schedule) NbRoundKeys() int {
	return s.Width * s.NbRounds()
}

// Parameters bundles the schedule with its round keys and MDS matrix.
type Parameters struct {
	Schedule

	// RoundKeys are ordered round by round, W keys per round.
	RoundKeys []fr.Element
	// MDS is the W×W mixing matrix: newState[i] = Σ_j MDS[i][j]·state[j].
	MDS [][]fr.Element
}

// New validates the inputs and returns a Parameters holding private copies
// of roundKeys and mds.
func New(schedule Schedule, roundKeys []fr.Element, mds [][]fr.Element) (*Parameters, error) {
	p := &Parameters{
		Schedule:  schedule,
		RoundKeys: append([]fr.Element(nil), roundKeys...),
		MDS:       make([][]fr.Element, len(mds)),
	}
	for i := range mds {
		p.MDS[i] = append([]fr.Element(nil), mds[i]...)
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}
