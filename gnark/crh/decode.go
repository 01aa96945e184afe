package crh

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
)

// FieldBytes is the number of byte variables packed into one element.
const FieldBytes = fr.Bytes

// ToFieldVars range-checks every byte variable to 8 bits and packs
// FieldBytes-long chunks into field variables from their little-endian
// bits. The last chunk may be shorter.
func ToFieldVars(api frontend.API, input []frontend.Variable) []frontend.Variable {
	out := make([]frontend.Variable, 0, (len(input)+FieldBytes-1)/FieldBytes)
	for start := 0; start < len(input); start += FieldBytes {
		chunk := input[start:min(start+FieldBytes, len(input))]
		bits := make([]frontend.Variable, 0, 8*len(chunk))
		for _, b := range chunk {
			bits = append(bits, api.ToBinary(b, 8)...)
		}
		out = append(out, api.FromBinary(bits...))
	}
	return out
}
