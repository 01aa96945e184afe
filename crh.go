// Package poseidoncrh provides collision-resistant compression functions over
// the BN254 scalar field: the Poseidon CRH and a trivial identity CRH, both
// behind the CRH capability consumed by Merkle trees, commitments and PRFs.
//
// Circuit counterparts live in gnark/crh (native BN254 circuits) and
// gnark/emulated/poseidon (emulated BN254 arithmetic).
package poseidoncrh

import (
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidoncrh/internal/permutation"
)

// CRH is a fixed-input-length hash producing one field element.
type CRH[P any] interface {
	// InputSizeBits is the largest input, in bits, Evaluate accepts.
	InputSizeBits() int
	// Setup produces parameters for the construction.
	Setup(rng io.Reader) (P, error)
	// Evaluate hashes input under parameters. It is pure and deterministic.
	Evaluate(parameters P, input []byte) (fr.Element, error)
}

var (
	// ErrIncorrectInputLength is matched by every *IncorrectInputLengthError.
	ErrIncorrectInputLength = errors.New("incorrect input length")
	// ErrNonCanonicalInput is returned when an input chunk encodes an integer
	// not smaller than the field modulus.
	ErrNonCanonicalInput = errors.New("non-canonical field element encoding")
	// ErrSetupUnsupported is returned by Setup for constructions whose
	// parameters must be supplied externally.
	ErrSetupUnsupported = errors.New("parameter generation is not supported")
	// ErrInverseOfZero is returned when the inverse S-box meets zero.
	ErrInverseOfZero = permutation.ErrInverseOfZero
)

// IncorrectInputLengthError reports an input that decodes to a number of
// field elements the construction cannot take.
type IncorrectInputLengthError struct {
	Bytes    int // input length
	Elements int // decoded element count
	Width    int // accepted element count
}

func (e *IncorrectInputLengthError) Error() string {
	return fmt.Sprintf("poseidoncrh: input length is wrong: %d bytes (%d elements) for width %d", e.Bytes, e.Elements, e.Width)
}

func (e *IncorrectInputLengthError) Is(target error) bool {
	return target == ErrIncorrectInputLength
}
