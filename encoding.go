package poseidoncrh

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FieldBytes is the length of the canonical little-endian element encoding.
const FieldBytes = fr.Bytes

// ToFieldElements splits b into FieldBytes chunks and decodes each one as a
// little-endian integer. The last chunk may be shorter and is zero-extended.
// Chunks encoding a value not below the modulus are rejected.
func ToFieldElements(b []byte) ([]fr.Element, error) {
	out := make([]fr.Element, 0, (len(b)+FieldBytes-1)/FieldBytes)
	for start := 0; start < len(b); start += FieldBytes {
		var chunk [FieldBytes]byte
		copy(chunk[:], b[start:min(start+FieldBytes, len(b))])
		e, err := fr.LittleEndian.Element(&chunk)
		if err != nil {
			return nil, fmt.Errorf("poseidoncrh: chunk %d: %w", start/FieldBytes, ErrNonCanonicalInput)
		}
		out = append(out, e)
	}
	return out, nil
}

// FromFieldElements concatenates the canonical encodings of elements.
func FromFieldElements(elements ...fr.Element) []byte {
	out := make([]byte, len(elements)*FieldBytes)
	for i := range elements {
		fr.LittleEndian.PutElement((*[FieldBytes]byte)(out[i*FieldBytes:]), elements[i])
	}
	return out
}
