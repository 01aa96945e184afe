package crh

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// IdentityGadget mirrors poseidoncrh.IdentityCRH.
type IdentityGadget struct{}

var _ Gadget[struct{}, struct{}] = IdentityGadget{}

func (IdentityGadget) AllocateParameters(struct{}) (struct{}, error) { return struct{}{}, nil }

func (IdentityGadget) Evaluate(api frontend.API, _ struct{}, input []frontend.Variable) (frontend.Variable, error) {
	if len(input) != FieldBytes {
		return nil, fmt.Errorf("crh: identity takes %d bytes, got %d: %w", FieldBytes, len(input), ErrInputShape)
	}
	return ToFieldVars(api, input)[0], nil
}
