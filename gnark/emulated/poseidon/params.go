package poseidon

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"

	"github.com/vocdoni/poseidoncrh/internal/permutation"
	"github.com/vocdoni/poseidoncrh/params"
)

// FrParams defines the emulated parameters for the BN254 scalar field.
type FrParams = emparams.BN254Fr

func constElement(f *emulated.Field[FrParams], fe fr.Element) *emulated.Element[FrParams] {
	return f.NewElement(fe.BigInt(new(big.Int)))
}

func constants(f *emulated.Field[FrParams], p *params.Parameters) permutation.Constants[*emulated.Element[FrParams]] {
	return permutation.Lift(p, func(fe fr.Element) *emulated.Element[FrParams] {
		return constElement(f, fe)
	})
}
