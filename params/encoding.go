package params

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
)

// Parameters are exchanged between setup and every consumer in one of two
// stable encodings, both carrying the same fields:
//
//	width, fullRounds, partialRounds  integers
//	alphaExponent, alphaInverse       the S-box (exponent 0 when inverse)
//	roundKeys                         W·(F+P) elements, round by round
//	mds                               W rows of W elements, row-major
//
// The binary form is deterministic CBOR (RFC 8949 core deterministic
// encoding) keyed by small integers 1..7 in the order above, each element a
// 32-byte little-endian canonical encoding. The text form is JSON keyed by
// the names above, each element a 0x-prefixed 64-digit hex string.
// Decoding from either form validates the result.

type cborParameters struct {
	Width         int        `cbor:"1,keyasint"`
	FullRounds    int        `cbor:"2,keyasint"`
	PartialRounds int        `cbor:"3,keyasint"`
	AlphaExponent uint32     `cbor:"4,keyasint"`
	AlphaInverse  bool       `cbor:"5,keyasint"`
	RoundKeys     [][]byte   `cbor:"6,keyasint"`
	MDS           [][][]byte `cbor:"7,keyasint"`
}

type jsonParameters struct {
	Width         int        `json:"width"`
	FullRounds    int        `json:"fullRounds"`
	PartialRounds int        `json:"partialRounds"`
	AlphaExponent uint32     `json:"alphaExponent"`
	AlphaInverse  bool       `json:"alphaInverse"`
	RoundKeys     []string   `json:"roundKeys"`
	MDS           [][]string `json:"mds"`
}

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalBinary encodes p as deterministic CBOR.
func (p *Parameters) MarshalBinary() ([]byte, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	w := cborParameters{
		Width:         p.Width,
		FullRounds:    p.FullRounds,
		PartialRounds: p.PartialRounds,
		AlphaExponent: p.Alpha.Exponent,
		AlphaInverse:  p.Alpha.Inverse,
		RoundKeys:     elementsToBytes(p.RoundKeys),
		MDS:           make([][][]byte, len(p.MDS)),
	}
	for i := range p.MDS {
		w.MDS[i] = elementsToBytes(p.MDS[i])
	}
	return cborEncMode.Marshal(&w)
}

// UnmarshalBinary decodes the CBOR form produced by MarshalBinary.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var w cborParameters
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	keys, err := bytesToElements(w.RoundKeys)
	if err != nil {
		return err
	}
	mds := make([][]fr.Element, len(w.MDS))
	for i := range w.MDS {
		if mds[i], err = bytesToElements(w.MDS[i]); err != nil {
			return err
		}
	}
	return p.set(Schedule{
		Width:         w.Width,
		FullRounds:    w.FullRounds,
		PartialRounds: w.PartialRounds,
		Alpha:         Alpha{Exponent: w.AlphaExponent, Inverse: w.AlphaInverse},
	}, keys, mds)
}

// MarshalJSON encodes p in the hex text form.
func (p *Parameters) MarshalJSON() ([]byte, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	w := jsonParameters{
		Width:         p.Width,
		FullRounds:    p.FullRounds,
		PartialRounds: p.PartialRounds,
		AlphaExponent: p.Alpha.Exponent,
		AlphaInverse:  p.Alpha.Inverse,
		RoundKeys:     formatElements(p.RoundKeys),
		MDS:           make([][]string, len(p.MDS)),
	}
	for i := range p.MDS {
		w.MDS[i] = formatElements(p.MDS[i])
	}
	return json.Marshal(&w)
}

// UnmarshalJSON decodes the text form produced by MarshalJSON.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var w jsonParameters
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	keys, err := parseElements(w.RoundKeys)
	if err != nil {
		return err
	}
	mds := make([][]fr.Element, len(w.MDS))
	for i := range w.MDS {
		if mds[i], err = parseElements(w.MDS[i]); err != nil {
			return err
		}
	}
	return p.set(Schedule{
		Width:         w.Width,
		FullRounds:    w.FullRounds,
		PartialRounds: w.PartialRounds,
		Alpha:         Alpha{Exponent: w.AlphaExponent, Inverse: w.AlphaInverse},
	}, keys, mds)
}

func (p *Parameters) set(schedule Schedule, keys []fr.Element, mds [][]fr.Element) error {
	decoded, err := New(schedule, keys, mds)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

func elementsToBytes(in []fr.Element) [][]byte {
	out := make([][]byte, len(in))
	for i := range in {
		var b [fr.Bytes]byte
		fr.LittleEndian.PutElement(&b, in[i])
		out[i] = b[:]
	}
	return out
}

func bytesToElements(in [][]byte) ([]fr.Element, error) {
	out := make([]fr.Element, len(in))
	for i, raw := range in {
		if len(raw) != fr.Bytes {
			return nil, fmt.Errorf("%w: element %d is %d bytes, want %d", ErrInvalidParameters, i, len(raw), fr.Bytes)
		}
		e, err := fr.LittleEndian.Element((*[fr.Bytes]byte)(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidParameters, i, err)
		}
		out[i] = e
	}
	return out, nil
}
