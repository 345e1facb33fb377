package domain

import "fmt"

// ValidateScores checks a raw vector against the contract's cap and, where
// the contract counts tricks or queens, that the counts add up.
func ValidateScores(c Contract, raw [NumSeats]int) error {
	if !c.Valid() {
		return fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
	info := c.Info()

	for seat, score := range raw {
		switch info.Polarity {
		case Negative:
			if score < info.PointCap {
				return fmt.Errorf("%w: seat %d penalty %d exceeds %d points", ErrScoreOutOfBounds, seat, score, -info.PointCap)
			}
		case Positive:
			if score > info.PointCap {
				return fmt.Errorf("%w: seat %d score %d exceeds %d points", ErrScoreOutOfBounds, seat, score, info.PointCap)
			}
		}
	}

	switch c {
	case NoTricks, Trumps:
		return reconcile(raw, info.PerUnit, TricksInHand, "tricks")
	case NoQueens:
		return reconcile(raw, info.PerUnit, QueensInDeck, "queens")
	case NoHearts, NoKingOfHearts, NoLastTwo, Domino:
		return nil
	default:
		return fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
}

func reconcile(raw [NumSeats]int, divisor, want int, what string) error {
	total := 0
	for seat, score := range raw {
		if score%divisor != 0 {
			return fmt.Errorf("%w: seat %d score %d is not a whole number of %s", ErrReconciliationFailed, seat, score, what)
		}
		total += score / divisor
	}
	if total != want {
		return fmt.Errorf("%w: total %s must equal %d (currently %d)", ErrReconciliationFailed, what, want, total)
	}
	return nil
}
