// Package poseidon synthesizes the BN254 Poseidon permutation over emulated
// field elements, for circuits whose native field is not the BN254 scalar
// field.
package poseidon

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/vocdoni/poseidoncrh/gnark/crh"
	"github.com/vocdoni/poseidoncrh/internal/permutation"
	"github.com/vocdoni/poseidoncrh/params"
)

const outputSlot = 1

// ErrInputShape is returned when Hash gets more inputs than the width.
var ErrInputShape = crh.ErrInputShape

// Hash pads inputs with zeros to the width of p, permutes and returns the
// output slot reduced to canonical form.
func Hash(api frontend.API, p *params.Parameters, inputs ...emulated.Element[FrParams]) (emulated.Element[FrParams], error) {
	var zero emulated.Element[FrParams]
	if err := params.Validate(p); err != nil {
		return zero, err
	}
	if p.Width <= outputSlot {
		return zero, fmt.Errorf("%w: width %d has no output slot %d", params.ErrInvalidParameters, p.Width, outputSlot)
	}
	if len(inputs) > p.Width {
		return zero, fmt.Errorf("poseidon: %d inputs for width %d: %w", len(inputs), p.Width, ErrInputShape)
	}

	field, err := emulated.NewField[FrParams](api)
	if err != nil {
		return zero, err
	}

	state := make([]emulated.Element[FrParams], p.Width)
	copy(state, inputs)
	for i := len(inputs); i < p.Width; i++ {
		state[i] = *field.Zero()
	}
	if err := permute(api, field, p, state); err != nil {
		return zero, err
	}
	// Ensure canonical output.
	out := field.Reduce(&state[outputSlot])
	return *out, nil
}

// Permute permutes state in place.
func Permute(api frontend.API, p *params.Parameters, state []emulated.Element[FrParams]) error {
	if err := params.Validate(p); err != nil {
		return err
	}
	field, err := emulated.NewField[FrParams](api)
	if err != nil {
		return err
	}
	return permute(api, field, p, state)
}

func permute(api frontend.API, field *emulated.Field[FrParams], p *params.Parameters, state []emulated.Element[FrParams]) error {
	ptrState := make([]*emulated.Element[FrParams], len(state))
	for i := range state {
		ptrState[i] = field.NewElement(state[i])
	}
	out, err := permutation.Permute[*emulated.Element[FrParams]](emulatedField{api, field}, p.Schedule, constants(field, p), ptrState)
	if err != nil {
		return err
	}
	for i := range state {
		state[i] = *out[i]
	}
	return nil
}

type emulatedField struct {
	api frontend.API
	f   *emulated.Field[FrParams]
}

func (e emulatedField) Zero() *emulated.Element[FrParams] { return e.f.Zero() }

func (e emulatedField) Add(a, b *emulated.Element[FrParams]) *emulated.Element[FrParams] {
	return e.f.Add(a, b)
}

func (e emulatedField) Mul(a, b *emulated.Element[FrParams]) *emulated.Element[FrParams] {
	return e.f.Mul(a, b)
}

func (e emulatedField) Inverse(a *emulated.Element[FrParams]) (*emulated.Element[FrParams], error) {
	if e.isConstantZero(a) {
		return nil, permutation.ErrInverseOfZero
	}
	return e.f.Inverse(a), nil
}

func (e emulatedField) isConstantZero(a *emulated.Element[FrParams]) bool {
	compiler := e.api.Compiler()
	for _, limb := range a.Limbs {
		c, ok := compiler.ConstantValue(limb)
		if !ok || c.Sign() != 0 {
			return false
		}
	}
	return true
}
