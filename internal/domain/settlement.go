package domain

import (
	"fmt"
	"slices"
)

// SpecialDoubles are blanket challenges against the dealer covering every
// non-dealer seat.
type SpecialDoubles struct {
	MaximumTable bool
	FamilyFlanks bool
}

func (s SpecialDoubles) Any() bool {
	return s.MaximumTable || s.FamilyFlanks
}

// Doubles is the doubling declaration for a hand.
type Doubles struct {
	Doublers   []int
	Redoublers []int
	Special    SpecialDoubles
}

func (d Doubles) doubled(seat int) bool {
	return slices.Contains(d.Doublers, seat)
}

func (d Doubles) redoubled(seat int) bool {
	return slices.Contains(d.Redoublers, seat)
}

// Validate checks that every declared seat exists, is not the dealer, is
// declared once, and that redoublers also doubled.
func (d Doubles) Validate(dealer int) error {
	if !validSeat(dealer) {
		return fmt.Errorf("%w: dealer seat %d", ErrInvalidInput, dealer)
	}
	if len(d.Doublers) > NumSeats-1 {
		return fmt.Errorf("%w: at most %d doublers", ErrInvalidInput, NumSeats-1)
	}
	var seen [NumSeats]bool
	for _, seat := range d.Doublers {
		switch {
		case !validSeat(seat):
			return fmt.Errorf("%w: doubler seat %d", ErrInvalidInput, seat)
		case seat == dealer:
			return fmt.Errorf("%w: dealer cannot double themselves", ErrInvalidInput)
		case seen[seat]:
			return fmt.Errorf("%w: seat %d doubled twice", ErrInvalidInput, seat)
		}
		seen[seat] = true
	}
	var reseen [NumSeats]bool
	for _, seat := range d.Redoublers {
		if !validSeat(seat) || !seen[seat] {
			return fmt.Errorf("%w: seat %d redoubled without doubling", ErrInvalidInput, seat)
		}
		if reseen[seat] {
			return fmt.Errorf("%w: seat %d redoubled twice", ErrInvalidInput, seat)
		}
		reseen[seat] = true
	}
	return nil
}

// OverlapPolicy decides how a special double treats seats that also doubled
// individually.
type OverlapPolicy int

const (
	// OverlapSkip applies special doubles only to seats without an
	// individual declaration.
	OverlapSkip OverlapPolicy = iota
	// OverlapAdditive applies both the individual and the special
	// adjustment to the same seat.
	OverlapAdditive
)

func (p OverlapPolicy) String() string {
	switch p {
	case OverlapSkip:
		return "skip"
	case OverlapAdditive:
		return "additive"
	default:
		return fmt.Sprintf("overlap(%d)", int(p))
	}
}

// ParseOverlapPolicy accepts "skip" or "additive".
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch s {
	case "skip", "":
		return OverlapSkip, nil
	case "additive":
		return OverlapAdditive, nil
	default:
		return 0, fmt.Errorf("%w: unknown special double overlap %q", ErrInvalidInput, s)
	}
}

// Rules holds the house-rule choices that affect settlement.
type Rules struct {
	SpecialOverlap OverlapPolicy
}

func DefaultRules() Rules {
	return Rules{SpecialOverlap: OverlapSkip}
}

// multiplier is a rational factor applied to a pairwise difference.
type multiplier struct{ num, den int }

var (
	doubleMult       = multiplier{1, 1}
	redoubleMult     = multiplier{2, 1}
	maximumTableMult = multiplier{2, 1}
	familyFlanksMult = multiplier{3, 2}
)

// Settle turns raw scores into final scores for the given declarations.
func Settle(raw [NumSeats]int, c Contract, dealer int, d Doubles, rules Rules) ([NumSeats]int, error) {
	if !c.Valid() {
		return raw, fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
	if err := d.Validate(dealer); err != nil {
		return raw, err
	}

	if len(d.Doublers) == 0 && !d.Special.Any() {
		if c.Polarity() == Negative {
			return splitUnplayed(raw, dealer), nil
		}
		return raw, nil
	}

	final := raw
	for _, seat := range d.Doublers {
		m := doubleMult
		if d.redoubled(seat) {
			m = redoubleMult
		}
		transfer(&final, raw, seat, dealer, m)
	}

	for seat := 0; seat < NumSeats; seat++ {
		if seat == dealer {
			continue
		}
		if rules.SpecialOverlap == OverlapSkip && d.doubled(seat) {
			continue
		}
		if d.Special.MaximumTable {
			transfer(&final, raw, seat, dealer, maximumTableMult)
		}
		if d.Special.FamilyFlanks {
			transfer(&final, raw, seat, dealer, familyFlanksMult)
		}
	}

	return final, nil
}

// transfer moves the scaled raw difference between seat and dealer from the
// lower-scoring side to the higher-scoring side.
func transfer(final *[NumSeats]int, raw [NumSeats]int, seat, dealer int, m multiplier) {
	diff := abs(raw[seat]-raw[dealer]) * m.num / m.den
	switch {
	case raw[seat] > raw[dealer]:
		final[seat] += diff
		final[dealer] -= diff
	case raw[seat] < raw[dealer]:
		final[seat] -= diff
		final[dealer] += diff
	}
}

// splitUnplayed spreads the penalties of an unchallenged negative hand
// evenly over the non-dealers. The dealer takes a single point when the split
// leaves a remainder; the rest of the remainder is not assigned.
func splitUnplayed(raw [NumSeats]int, dealer int) [NumSeats]int {
	total := 0
	for _, score := range raw {
		total += score
	}
	share, rem := floorDivMod(total, NumSeats-1)

	var final [NumSeats]int
	for seat := range final {
		if seat == dealer {
			if rem > 0 {
				final[seat] = 1
			}
			continue
		}
		final[seat] = share
	}
	return final
}

func floorDivMod(a, b int) (int, int) {
	q, r := a/b, a%b
	if r != 0 && (r < 0) != (b < 0) {
		q--
		r += b
	}
	return q, r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
