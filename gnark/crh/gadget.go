// Package crh is the circuit counterpart of package poseidoncrh: the same
// constructions synthesized as gnark constraints over native BN254
// variables.
//
// A circuit must be synthesized by a single goroutine; the gadgets hold no
// state of their own but write into the frontend.API they are given.
package crh

import (
	"errors"

	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/poseidoncrh/internal/permutation"
)

var (
	// ErrInputShape is returned at circuit build time when the input does
	// not have the number of elements the gadget requires.
	ErrInputShape = errors.New("circuit input shape mismatch")
	// ErrInverseOfZero is returned when the inverse S-box meets a constant zero.
	ErrInverseOfZero = permutation.ErrInverseOfZero
)

// Gadget is the circuit capability paired with a native CRH: P is the
// native parameter type and PV its in-circuit form.
type Gadget[P, PV any] interface {
	// AllocateParameters turns native parameters into circuit constants.
	AllocateParameters(parameters P) (PV, error)
	// Evaluate hashes input, one byte per variable.
	Evaluate(api frontend.API, parameters PV, input []frontend.Variable) (frontend.Variable, error)
}
