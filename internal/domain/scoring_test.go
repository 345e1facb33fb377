package domain

import (
	"errors"
	"testing"
)

func TestComputeRawScores(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		inputs   HandInputs
		want     [NumSeats]int
	}{
		{name: "no tricks", contract: NoTricks, inputs: HandInputs{Counts: []int{4, 3, 6, 0}}, want: [NumSeats]int{-8, -6, -12, 0}},
		{name: "no hearts flat", contract: NoHearts, inputs: HandInputs{Counts: []int{1, 12, 0, 0}}, want: [NumSeats]int{-2, -24, 0, 0}},
		{name: "no queens", contract: NoQueens, inputs: HandInputs{Counts: []int{0, 2, 1, 1}}, want: [NumSeats]int{0, -12, -6, -6}},
		{name: "king of hearts seat 2", contract: NoKingOfHearts, inputs: HandInputs{Taker: 2}, want: [NumSeats]int{0, 0, -20, 0}},
		{name: "last two split", contract: NoLastTwo, inputs: HandInputs{SecondLast: 1, Last: 3}, want: [NumSeats]int{0, -10, 0, -20}},
		{name: "last two same seat", contract: NoLastTwo, inputs: HandInputs{SecondLast: 0, Last: 0}, want: [NumSeats]int{-30, 0, 0, 0}},
		{name: "trumps", contract: Trumps, inputs: HandInputs{Counts: []int{5, 3, 3, 2}}, want: [NumSeats]int{25, 15, 15, 10}},
		{name: "domino in seat order", contract: Domino, inputs: HandInputs{Positions: []int{1, 2, 3, 4}}, want: [NumSeats]int{45, 20, 5, -5}},
		{name: "domino shuffled", contract: Domino, inputs: HandInputs{Positions: []int{4, 1, 3, 2}}, want: [NumSeats]int{-5, 45, 5, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeRawScores(tt.contract, tt.inputs)
			if err != nil {
				t.Fatalf("ComputeRawScores() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ComputeRawScores() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeRawScoresRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		inputs   HandInputs
	}{
		{name: "tricks above 13", contract: NoTricks, inputs: HandInputs{Counts: []int{14, 0, 0, 0}}},
		{name: "negative hearts", contract: NoHearts, inputs: HandInputs{Counts: []int{-1, 0, 0, 0}}},
		{name: "five queens for one seat", contract: NoQueens, inputs: HandInputs{Counts: []int{5, 0, 0, 0}}},
		{name: "missing counts", contract: Trumps, inputs: HandInputs{Counts: []int{13}}},
		{name: "taker out of range", contract: NoKingOfHearts, inputs: HandInputs{Taker: 4}},
		{name: "last taker missing", contract: NoLastTwo, inputs: HandInputs{SecondLast: 1, Last: -1}},
		{name: "domino repeated position", contract: Domino, inputs: HandInputs{Positions: []int{1, 1, 3, 4}}},
		{name: "domino position zero", contract: Domino, inputs: HandInputs{Positions: []int{0, 2, 3, 4}}},
		{name: "domino missing positions", contract: Domino, inputs: HandInputs{}},
		{name: "unknown contract", contract: Contract(42), inputs: HandInputs{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeRawScores(tt.contract, tt.inputs)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ComputeRawScores() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestValidateScores(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		raw      [NumSeats]int
		wantErr  error
	}{
		{name: "no tricks reconciles", contract: NoTricks, raw: [NumSeats]int{-26, 0, 0, 0}},
		{name: "no tricks short", contract: NoTricks, raw: [NumSeats]int{-2, -2, 0, 0}, wantErr: ErrReconciliationFailed},
		{name: "no tricks over cap", contract: NoTricks, raw: [NumSeats]int{-28, 2, 0, 0}, wantErr: ErrScoreOutOfBounds},
		{name: "no queens reconciles", contract: NoQueens, raw: [NumSeats]int{-6, -6, -6, -6}},
		{name: "no queens short", contract: NoQueens, raw: [NumSeats]int{-6, -6, 0, 0}, wantErr: ErrReconciliationFailed},
		{name: "no queens over cap", contract: NoQueens, raw: [NumSeats]int{-30, 0, 0, 0}, wantErr: ErrScoreOutOfBounds},
		{name: "hearts not reconciled", contract: NoHearts, raw: [NumSeats]int{-2, 0, 0, 0}},
		{name: "hearts over cap", contract: NoHearts, raw: [NumSeats]int{-32, 0, 0, 0}, wantErr: ErrScoreOutOfBounds},
		{name: "last two at cap", contract: NoLastTwo, raw: [NumSeats]int{-30, 0, 0, 0}},
		{name: "trumps reconciles", contract: Trumps, raw: [NumSeats]int{65, 0, 0, 0}},
		{name: "trumps too many", contract: Trumps, raw: [NumSeats]int{60, 10, 0, 0}, wantErr: ErrReconciliationFailed},
		{name: "trumps not a multiple", contract: Trumps, raw: [NumSeats]int{63, 2, 0, 0}, wantErr: ErrReconciliationFailed},
		{name: "trumps over cap", contract: Trumps, raw: [NumSeats]int{70, -5, 0, 0}, wantErr: ErrScoreOutOfBounds},
		{name: "domino", contract: Domino, raw: [NumSeats]int{45, 20, 5, -5}},
		{name: "unknown contract", contract: Contract(0), wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScores(tt.contract, tt.raw)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateScores() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateScores() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Every valid split of 13 tricks scores and validates, and the per-seat
// scores divide back to 13 tricks.
func TestTrickContractsReconcileForAllSplits(t *testing.T) {
	for _, c := range []Contract{NoTricks, Trumps} {
		per := c.Info().PerUnit
		for a := 0; a <= TricksInHand; a++ {
			for b := 0; a+b <= TricksInHand; b++ {
				counts := []int{a, b, TricksInHand - a - b, 0}
				raw, err := ComputeRawScores(c, HandInputs{Counts: counts})
				if err != nil {
					t.Fatalf("%s %v: %v", c, counts, err)
				}
				if err := ValidateScores(c, raw); err != nil {
					t.Fatalf("%s %v: ValidateScores() error: %v", c, counts, err)
				}
				total := 0
				for _, s := range raw {
					total += s / per
				}
				if total != TricksInHand {
					t.Fatalf("%s %v: tricks = %d, want %d", c, counts, total, TricksInHand)
				}
			}
		}
	}
}

func TestContractCatalog(t *testing.T) {
	all := Contracts()
	if len(all) != HandsPerDealer {
		t.Fatalf("len(Contracts()) = %d, want %d", len(all), HandsPerDealer)
	}
	for _, c := range all {
		parsed, err := ParseContract(c.String())
		if err != nil || parsed != c {
			t.Fatalf("ParseContract(%q) = %v, %v", c.String(), parsed, err)
		}
	}
	if Trumps.Polarity() != Positive || Domino.Polarity() != Positive {
		t.Fatalf("trumps and domino must be positive")
	}
	if NoQueens.Info().PointCap != -24 {
		t.Fatalf("no-queens cap = %d, want -24", NoQueens.Info().PointCap)
	}
	if _, err := ParseContract("barbu"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseContract(barbu) error = %v, want ErrInvalidInput", err)
	}
}
