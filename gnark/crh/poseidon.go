package crh

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/logger"

	"github.com/vocdoni/poseidoncrh/internal/permutation"
	"github.com/vocdoni/poseidoncrh/params"
)

// outputSlot matches poseidoncrh.OutputSlot.
const outputSlot = 1

// ParametersVar holds round keys and the MDS matrix as circuit constants.
// Nothing in it is ever part of the witness.
type ParametersVar struct {
	schedule  params.Schedule                          `gnark:"-"`
	constants permutation.Constants[frontend.Variable] `gnark:"-"`
}

// PoseidonGadget mirrors poseidoncrh.PoseidonCRH. For a given schedule the
// number and shape of the generated constraints is fixed.
type PoseidonGadget struct {
	schedule params.Schedule
}

var _ Gadget[*params.Parameters, ParametersVar] = (*PoseidonGadget)(nil)

// NewPoseidonGadget returns the gadget for schedule.
func NewPoseidonGadget(schedule params.Schedule) (*PoseidonGadget, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if schedule.Width <= outputSlot {
		return nil, fmt.Errorf("%w: width %d has no output slot %d", params.ErrInvalidParameters, schedule.Width, outputSlot)
	}
	log := logger.Logger()
	log.Debug().
		Int("width", schedule.Width).
		Int("fullRounds", schedule.FullRounds).
		Int("partialRounds", schedule.PartialRounds).
		Uint32("alpha", schedule.Alpha.Exponent).
		Bool("inverse", schedule.Alpha.Inverse).
		Int("sboxes", schedule.FullRounds*schedule.Width+schedule.PartialRounds).
		Msg("poseidon gadget")
	return &PoseidonGadget{schedule: schedule}, nil
}

// AllocateParameters bakes p into the circuit as constants.
func (g *PoseidonGadget) AllocateParameters(p *params.Parameters) (ParametersVar, error) {
	if err := params.Validate(p); err != nil {
		return ParametersVar{}, err
	}
	if p.Schedule != g.schedule {
		return ParametersVar{}, fmt.Errorf("%w: parameters built for %+v, gadget expects %+v", params.ErrInvalidParameters, p.Schedule, g.schedule)
	}
	return ParametersVar{
		schedule:  p.Schedule,
		constants: permutation.Lift(p, func(e fr.Element) frontend.Variable { return e }),
	}, nil
}

// Evaluate decodes input (one byte per variable) into exactly Width
// elements, permutes them and returns the output slot.
func (g *PoseidonGadget) Evaluate(api frontend.API, pv ParametersVar, input []frontend.Variable) (frontend.Variable, error) {
	if n := (len(input) + FieldBytes - 1) / FieldBytes; n != g.schedule.Width {
		return nil, fmt.Errorf("crh: %d input bytes decode to %d elements, want %d: %w", len(input), n, g.schedule.Width, ErrInputShape)
	}
	return g.Hash(api, pv, ToFieldVars(api, input)...)
}

// Hash pads elements with zeros to Width, permutes and returns the output
// slot.
func (g *PoseidonGadget) Hash(api frontend.API, pv ParametersVar, elements ...frontend.Variable) (frontend.Variable, error) {
	if len(elements) > g.schedule.Width {
		return nil, fmt.Errorf("crh: %d elements for width %d: %w", len(elements), g.schedule.Width, ErrInputShape)
	}
	state := make([]frontend.Variable, g.schedule.Width)
	for i := range state {
		state[i] = 0
	}
	copy(state, elements)
	out, err := g.Permute(api, pv, state)
	if err != nil {
		return nil, err
	}
	return out[outputSlot], nil
}

// Permute returns the permuted state.
func (g *PoseidonGadget) Permute(api frontend.API, pv ParametersVar, state []frontend.Variable) ([]frontend.Variable, error) {
	if pv.schedule != g.schedule {
		return nil, fmt.Errorf("%w: parameters allocated for %+v, gadget expects %+v", params.ErrInvalidParameters, pv.schedule, g.schedule)
	}
	return permutation.Permute[frontend.Variable](apiField{api}, g.schedule, pv.constants, state)
}

// apiField issues field operations as constraints.
type apiField struct {
	api frontend.API
}

func (f apiField) Zero() frontend.Variable { return 0 }

func (f apiField) Add(a, b frontend.Variable) frontend.Variable { return f.api.Add(a, b) }

func (f apiField) Mul(a, b frontend.Variable) frontend.Variable { return f.api.Mul(a, b) }

func (f apiField) Inverse(a frontend.Variable) (frontend.Variable, error) {
	if c, ok := f.api.Compiler().ConstantValue(a); ok && c.Sign() == 0 {
		return nil, ErrInverseOfZero
	}
	return f.api.Inverse(a), nil
}
