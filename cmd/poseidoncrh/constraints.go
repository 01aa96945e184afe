package main

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidoncrh/gnark/crh"
	emposeidon "github.com/vocdoni/poseidoncrh/gnark/emulated/poseidon"
	"github.com/vocdoni/poseidoncrh/params"
)

var withEmulated bool

func init() {
	constraintsCmd.Flags().BoolVar(&withEmulated, "emulated", false, "also report the emulated hash compiled over BLS12-377")
}

// byteCircuit evaluates the byte-level CRH gadget on a full-width input.
type byteCircuit struct {
	Input  []frontend.Variable
	Output frontend.Variable `gnark:",public"`

	params *params.Parameters
}

func (c *byteCircuit) Define(api frontend.API) error {
	g, err := crh.NewPoseidonGadget(c.params.Schedule)
	if err != nil {
		return err
	}
	pv, err := g.AllocateParameters(c.params)
	if err != nil {
		return err
	}
	out, err := g.Evaluate(api, pv, c.Input)
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Output)
	return nil
}

type emulatedCircuit struct {
	Inputs []emulated.Element[emposeidon.FrParams]
	Output emulated.Element[emposeidon.FrParams] `gnark:",public"`

	params *params.Parameters
}

func (c *emulatedCircuit) Define(api frontend.API) error {
	field, err := emulated.NewField[emposeidon.FrParams](api)
	if err != nil {
		return err
	}
	out, err := emposeidon.Hash(api, c.params, c.Inputs...)
	if err != nil {
		return err
	}
	field.AssertIsEqual(&out, &c.Output)
	return nil
}

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "Compile the CRH gadget for the selected schedule and print its size",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParameters(cmd)
		if err != nil {
			return err
		}
		circuit := &byteCircuit{Input: make([]frontend.Variable, p.Width*crh.FieldBytes), params: p}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "schedule: width=%d full=%d partial=%d alpha=%+v\n", p.Width, p.FullRounds, p.PartialRounds, p.Alpha)
		for _, b := range []struct {
			name    string
			field   *big.Int
			builder frontend.NewBuilder
		}{
			{"bn254 r1cs", ecc.BN254.ScalarField(), r1cs.NewBuilder[constraint.U64]},
			{"bn254 scs", ecc.BN254.ScalarField(), scs.NewBuilder[constraint.U64]},
		} {
			ccs, err := frontend.Compile(b.field, b.builder, circuit)
			if err != nil {
				return fmt.Errorf("%s: %w", b.name, err)
			}
			fmt.Fprintf(w, "%s: %d constraints\n", b.name, ccs.GetNbConstraints())
		}

		if withEmulated {
			ccs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, &emulatedCircuit{
				Inputs: make([]emulated.Element[emposeidon.FrParams], p.Width),
				params: p,
			})
			if err != nil {
				return fmt.Errorf("emulated: %w", err)
			}
			fmt.Fprintf(w, "emulated (bls12-377 host) r1cs: %d constraints\n", ccs.GetNbConstraints())
		}
		return nil
	},
}
