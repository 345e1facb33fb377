package domain

import "fmt"

const (
	NumSeats     = 4
	TricksInHand = 13
	HeartsInDeck = 13
	QueensInDeck = 4

	kingOfHeartsPenalty  = -20
	secondLastTrickScore = -10
	lastTrickScore       = -20
)

// HandInputs carries the aggregated results of a played hand. Which fields
// are read depends on the contract:
//   - no-tricks, no-hearts, no-queens, trumps: Counts (per seat)
//   - no-king-hearts: Taker
//   - no-last-two: SecondLast and Last
//   - domino: Positions (finishing position 1..4 per seat)
type HandInputs struct {
	Counts     []int
	Taker      int
	SecondLast int
	Last       int
	Positions  []int
}

// DominoPoints maps a finishing position to its domino score.
func DominoPoints(position int) int {
	switch position {
	case 1:
		return 45
	case 2:
		return 20
	case 3:
		return 5
	case 4:
		return -5
	default:
		return 0
	}
}

// ComputeRawScores converts hand inputs into the pre-doubling point vector.
// Only per-datum domains are checked here; totals are left to ValidateScores.
func ComputeRawScores(c Contract, in HandInputs) ([NumSeats]int, error) {
	var scores [NumSeats]int

	switch c {
	case NoTricks:
		counts, err := perSeatCounts(in.Counts, TricksInHand, "tricks")
		if err != nil {
			return scores, err
		}
		return scaleCounts(counts, c.Info().PerUnit), nil
	case NoHearts:
		counts, err := perSeatCounts(in.Counts, HeartsInDeck, "hearts")
		if err != nil {
			return scores, err
		}
		return scaleCounts(counts, c.Info().PerUnit), nil
	case NoQueens:
		counts, err := perSeatCounts(in.Counts, QueensInDeck, "queens")
		if err != nil {
			return scores, err
		}
		return scaleCounts(counts, c.Info().PerUnit), nil
	case NoKingOfHearts:
		if !validSeat(in.Taker) {
			return scores, fmt.Errorf("%w: king of hearts taker seat %d", ErrInvalidInput, in.Taker)
		}
		scores[in.Taker] = kingOfHeartsPenalty
		return scores, nil
	case NoLastTwo:
		if !validSeat(in.SecondLast) || !validSeat(in.Last) {
			return scores, fmt.Errorf("%w: last tricks taken by seats %d and %d", ErrInvalidInput, in.SecondLast, in.Last)
		}
		scores[in.SecondLast] += secondLastTrickScore
		scores[in.Last] += lastTrickScore
		return scores, nil
	case Trumps:
		counts, err := perSeatCounts(in.Counts, TricksInHand, "tricks")
		if err != nil {
			return scores, err
		}
		return scaleCounts(counts, c.Info().PerUnit), nil
	case Domino:
		if err := checkPositions(in.Positions); err != nil {
			return scores, err
		}
		for seat, pos := range in.Positions {
			scores[seat] = DominoPoints(pos)
		}
		return scores, nil
	default:
		return scores, fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
}

func perSeatCounts(counts []int, max int, what string) ([NumSeats]int, error) {
	var out [NumSeats]int
	if len(counts) != NumSeats {
		return out, fmt.Errorf("%w: need %s for %d seats, got %d", ErrInvalidInput, what, NumSeats, len(counts))
	}
	for seat, n := range counts {
		if n < 0 || n > max {
			return out, fmt.Errorf("%w: invalid number of %s for seat %d: %d", ErrInvalidInput, what, seat, n)
		}
		out[seat] = n
	}
	return out, nil
}

func scaleCounts(counts [NumSeats]int, perUnit int) [NumSeats]int {
	var out [NumSeats]int
	for seat, n := range counts {
		out[seat] = n * perUnit
	}
	return out
}

// checkPositions requires a permutation of 1..NumSeats.
func checkPositions(positions []int) error {
	if len(positions) != NumSeats {
		return fmt.Errorf("%w: need a position for each of %d seats, got %d", ErrInvalidInput, NumSeats, len(positions))
	}
	var seen [NumSeats + 1]bool
	for seat, pos := range positions {
		if pos < 1 || pos > NumSeats {
			return fmt.Errorf("%w: invalid position %d for seat %d", ErrInvalidInput, pos, seat)
		}
		if seen[pos] {
			return fmt.Errorf("%w: each position must be assigned to exactly one seat", ErrInvalidInput)
		}
		seen[pos] = true
	}
	return nil
}

func validSeat(seat int) bool {
	return seat >= 0 && seat < NumSeats
}
