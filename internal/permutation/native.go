package permutation

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidoncrh/params"
)

// Native is the Field realization over plain BN254 scalars.
type Native struct{}

func (Native) Zero() fr.Element { return fr.Element{} }

func (Native) Add(a, b fr.Element) fr.Element {
	var z fr.Element
	z.Add(&a, &b)
	return z
}

func (Native) Mul(a, b fr.Element) fr.Element {
	var z fr.Element
	z.Mul(&a, &b)
	return z
}

func (Native) Inverse(a fr.Element) (fr.Element, error) {
	if a.IsZero() {
		return fr.Element{}, ErrInverseOfZero
	}
	var z fr.Element
	z.Inverse(&a)
	return z, nil
}

// NativeConstants views the parameters as plain values without copying.
func NativeConstants(p *params.Parameters) Constants[fr.Element] {
	return Constants[fr.Element]{RoundKeys: p.RoundKeys, MDS: p.MDS}
}
