package params

import "fmt"

// Validate checks the schedule on its own.
func (s Schedule) Validate() error {
	if s.Width < 1 {
		return fmt.Errorf("%w: width must be at least 1, got %d", ErrInvalidParameters, s.Width)
	}
	if s.FullRounds < 0 || s.FullRounds%2 != 0 {
		return fmt.Errorf("%w: full rounds must be even and non-negative, got %d", ErrInvalidParameters, s.FullRounds)
	}
	if s.PartialRounds < 0 {
		return fmt.Errorf("%w: partial rounds must be non-negative, got %d", ErrInvalidParameters, s.PartialRounds)
	}
	return s.Alpha.Validate()
}

// Validate rejects any S-box other than x^3, x^5 and x^-1.
func (a Alpha) Validate() error {
	switch {
	case a.Inverse && a.Exponent != 0:
		return fmt.Errorf("%w: inverse alpha cannot carry exponent %d", ErrInvalidParameters, a.Exponent)
	case a.Inverse:
		return nil
	case a.Exponent == 3, a.Exponent == 5:
		return nil
	default:
		return fmt.Errorf("%w: unsupported alpha exponent %d", ErrInvalidParameters, a.Exponent)
	}
}

// Validate checks the shape of the parameter set against its schedule.
func Validate(p *Parameters) error {
	if p == nil {
		return fmt.Errorf("%w: nil parameters", ErrInvalidParameters)
	}
	if err := p.Schedule.Validate(); err != nil {
		return err
	}
	if want := p.NbRoundKeys(); len(p.RoundKeys) != want {
		return fmt.Errorf("%w: round key count %d, want %d", ErrInvalidParameters, len(p.RoundKeys), want)
	}
	if len(p.MDS) != p.Width {
		return fmt.Errorf("%w: mds has %d rows, want %d", ErrInvalidParameters, len(p.MDS), p.Width)
	}
	for i, row := range p.MDS {
		if len(row) != p.Width {
			return fmt.Errorf("%w: mds row %d has %d entries, want %d", ErrInvalidParameters, i, len(row), p.Width)
		}
	}
	return nil
}
