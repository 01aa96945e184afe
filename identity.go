package poseidoncrh

import (
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// IdentityCRH returns its single-element input unchanged. It is a no-op
// construction used to exercise consumers of the CRH capability.
type IdentityCRH struct{}

var _ CRH[struct{}] = IdentityCRH{}

func (IdentityCRH) InputSizeBits() int { return FieldBytes * 8 }

func (IdentityCRH) Setup(io.Reader) (struct{}, error) { return struct{}{}, nil }

// Evaluate decodes exactly one field element's worth of bytes.
func (IdentityCRH) Evaluate(_ struct{}, input []byte) (fr.Element, error) {
	if len(input) != FieldBytes {
		return fr.Element{}, &IncorrectInputLengthError{
			Bytes:    len(input),
			Elements: (len(input) + FieldBytes - 1) / FieldBytes,
			Width:    1,
		}
	}
	elements, err := ToFieldElements(input)
	if err != nil {
		return fr.Element{}, err
	}
	return elements[0], nil
}
