package poseidoncrh

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidoncrh/internal/permutation"
	"github.com/vocdoni/poseidoncrh/params"
)

// OutputSlot is the state position returned by the Poseidon CRH.
const OutputSlot = 1

// PoseidonCRH hashes up to Width field elements with one Poseidon
// permutation and returns state[OutputSlot].
type PoseidonCRH struct {
	schedule params.Schedule
}

var _ CRH[*params.Parameters] = (*PoseidonCRH)(nil)

// NewPoseidonCRH returns a CRH for the given round schedule. The width must
// be at least 2 so that the output slot exists.
func NewPoseidonCRH(schedule params.Schedule) (*PoseidonCRH, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if schedule.Width <= OutputSlot {
		return nil, fmt.Errorf("%w: width %d has no output slot %d", params.ErrInvalidParameters, schedule.Width, OutputSlot)
	}
	return &PoseidonCRH{schedule: schedule}, nil
}

// Schedule returns the round schedule the CRH was built for.
func (c *PoseidonCRH) Schedule() params.Schedule { return c.schedule }

func (c *PoseidonCRH) InputSizeBits() int { return FieldBytes * 8 * c.schedule.Width }

// Setup always fails: round keys and the mixing matrix must be supplied as
// validated configuration, see params.New and params.BN254X5.
func (c *PoseidonCRH) Setup(io.Reader) (*params.Parameters, error) {
	return nil, ErrSetupUnsupported
}

// Evaluate decodes input into at most Width elements, zero-pads the state,
// permutes it and returns the output slot.
func (c *PoseidonCRH) Evaluate(p *params.Parameters, input []byte) (fr.Element, error) {
	elements, err := ToFieldElements(input)
	if err != nil {
		return fr.Element{}, err
	}
	if len(elements) > c.schedule.Width {
		return fr.Element{}, &IncorrectInputLengthError{Bytes: len(input), Elements: len(elements), Width: c.schedule.Width}
	}
	return c.Hash(p, elements...)
}

// Hash is Evaluate on already decoded elements.
func (c *PoseidonCRH) Hash(p *params.Parameters, elements ...fr.Element) (fr.Element, error) {
	if err := c.check(p); err != nil {
		return fr.Element{}, err
	}
	if len(elements) > c.schedule.Width {
		return fr.Element{}, &IncorrectInputLengthError{Bytes: len(elements) * FieldBytes, Elements: len(elements), Width: c.schedule.Width}
	}
	state := make([]fr.Element, c.schedule.Width)
	copy(state, elements)
	out, err := permutation.Permute[fr.Element](permutation.Native{}, p.Schedule, permutation.NativeConstants(p), state)
	if err != nil {
		return fr.Element{}, err
	}
	return out[OutputSlot], nil
}

// Permute returns the full permuted state. state must hold exactly Width
// elements and is left untouched.
func (c *PoseidonCRH) Permute(p *params.Parameters, state []fr.Element) ([]fr.Element, error) {
	if err := c.check(p); err != nil {
		return nil, err
	}
	return permutation.Permute[fr.Element](permutation.Native{}, p.Schedule, permutation.NativeConstants(p), state)
}

func (c *PoseidonCRH) check(p *params.Parameters) error {
	if err := params.Validate(p); err != nil {
		return err
	}
	if p.Schedule != c.schedule {
		return fmt.Errorf("%w: parameters built for %+v, crh expects %+v", params.ErrInvalidParameters, p.Schedule, c.schedule)
	}
	return nil
}
