package params

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

type rawParameters struct {
	fullRounds    int
	partialRounds int
	roundKeys     []string
	mds           [][]string
}

// BN254X5Widths lists the widths served by BN254X5.
var BN254X5Widths = []int{3, 5}

// BN254X5 returns the published x^5 parameter set of the given width over
// the BN254 scalar field. Each call returns a fresh copy.
func BN254X5(width int) (*Parameters, error) {
	raw, ok := bn254X5[width]
	if !ok {
		return nil, fmt.Errorf("%w: no bn254 x5 preset for width %d", ErrInvalidParameters, width)
	}
	keys, err := parseElements(raw.roundKeys)
	if err != nil {
		return nil, err
	}
	mds := make([][]fr.Element, len(raw.mds))
	for i := range raw.mds {
		if mds[i], err = parseElements(raw.mds[i]); err != nil {
			return nil, err
		}
	}
	return New(Schedule{
		Width:         width,
		FullRounds:    raw.fullRounds,
		PartialRounds: raw.partialRounds,
		Alpha:         AlphaQuint,
	}, keys, mds)
}

func parseElements(in []string) ([]fr.Element, error) {
	out := make([]fr.Element, len(in))
	for i, s := range in {
		v, ok := new(big.Int).SetString(s, 0)
		if !ok || v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
			return nil, fmt.Errorf("%w: %q is not a canonical field element", ErrInvalidParameters, s)
		}
		out[i].SetBigInt(v)
	}
	return out, nil
}

func formatElements(in []fr.Element) []string {
	out := make([]string, len(in))
	var v big.Int
	for i := range in {
		out[i] = fmt.Sprintf("0x%064x", in[i].BigInt(&v))
	}
	return out
}
