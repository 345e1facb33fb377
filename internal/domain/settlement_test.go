package domain

import (
	"errors"
	"testing"
)

func sum(v [NumSeats]int) int {
	total := 0
	for _, s := range v {
		total += s
	}
	return total
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		raw      [NumSeats]int
		contract Contract
		dealer   int
		doubles  Doubles
		rules    Rules
		want     [NumSeats]int
	}{
		{
			name:     "single doubler takes the difference",
			raw:      [NumSeats]int{-26, 0, 0, 0},
			contract: NoTricks,
			dealer:   0,
			doubles:  Doubles{Doublers: []int{1}},
			want:     [NumSeats]int{-52, 26, 0, 0},
		},
		{
			name:     "doubler below dealer pays",
			raw:      [NumSeats]int{-26, 0, 0, 0},
			contract: NoTricks,
			dealer:   1,
			doubles:  Doubles{Doublers: []int{0}},
			want:     [NumSeats]int{-52, 26, 0, 0},
		},
		{
			name:     "redouble doubles the transfer",
			raw:      [NumSeats]int{-26, 0, 0, 0},
			contract: NoTricks,
			dealer:   1,
			doubles:  Doubles{Doublers: []int{0}, Redoublers: []int{0}},
			want:     [NumSeats]int{-78, 52, 0, 0},
		},
		{
			name:     "dealer nets every challenger",
			raw:      [NumSeats]int{-12, -6, 0, -6},
			contract: NoQueens,
			dealer:   2,
			doubles:  Doubles{Doublers: []int{0, 1, 3}},
			want:     [NumSeats]int{-24, -12, 24, -12},
		},
		{
			name:     "equal raws move nothing",
			raw:      [NumSeats]int{0, 0, -20, 0},
			contract: NoKingOfHearts,
			dealer:   0,
			doubles:  Doubles{Doublers: []int{1}},
			want:     [NumSeats]int{0, 0, -20, 0},
		},
		{
			name:     "positive contract without declarations keeps raw",
			raw:      [NumSeats]int{25, 15, 15, 10},
			contract: Trumps,
			dealer:   0,
			want:     [NumSeats]int{25, 15, 15, 10},
		},
		{
			name:     "unchallenged no tricks splits with dealer remainder",
			raw:      [NumSeats]int{-26, 0, 0, 0},
			contract: NoTricks,
			dealer:   0,
			want:     [NumSeats]int{1, -9, -9, -9},
		},
		{
			name:     "unchallenged no queens splits evenly",
			raw:      [NumSeats]int{0, -6, -12, -6},
			contract: NoQueens,
			dealer:   2,
			want:     [NumSeats]int{-8, -8, 0, -8},
		},
		{
			name:     "unchallenged king of hearts",
			raw:      [NumSeats]int{0, 0, -20, 0},
			contract: NoKingOfHearts,
			dealer:   3,
			want:     [NumSeats]int{-7, -7, -7, 1},
		},
		{
			name:     "maximum doubles every non-dealer at twice the difference",
			raw:      [NumSeats]int{45, 20, 5, -5},
			contract: Domino,
			dealer:   0,
			doubles:  Doubles{Special: SpecialDoubles{MaximumTable: true}},
			want:     [NumSeats]int{275, -30, -75, -105},
		},
		{
			name:     "family truncates half points",
			raw:      [NumSeats]int{25, 15, 15, 10},
			contract: Trumps,
			dealer:   3,
			doubles:  Doubles{Special: SpecialDoubles{FamilyFlanks: true}},
			want:     [NumSeats]int{47, 22, 22, -26},
		},
		{
			name:     "special skips individually declared seats",
			raw:      [NumSeats]int{45, 20, 5, -5},
			contract: Domino,
			dealer:   0,
			doubles:  Doubles{Doublers: []int{1}, Special: SpecialDoubles{MaximumTable: true}},
			rules:    Rules{SpecialOverlap: OverlapSkip},
			want:     [NumSeats]int{250, -5, -75, -105},
		},
		{
			name:     "additive overlap adjusts declared seats twice",
			raw:      [NumSeats]int{45, 20, 5, -5},
			contract: Domino,
			dealer:   0,
			doubles:  Doubles{Doublers: []int{1}, Special: SpecialDoubles{MaximumTable: true}},
			rules:    Rules{SpecialOverlap: OverlapAdditive},
			want:     [NumSeats]int{300, -55, -75, -105},
		},
		{
			name:     "special on negative contract skips fallback",
			raw:      [NumSeats]int{-26, 0, 0, 0},
			contract: NoTricks,
			dealer:   0,
			doubles:  Doubles{Special: SpecialDoubles{FamilyFlanks: true}},
			want:     [NumSeats]int{-143, 39, 39, 39},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Settle(tt.raw, tt.contract, tt.dealer, tt.doubles, tt.rules)
			if err != nil {
				t.Fatalf("Settle() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Settle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettleSingleDoublerIsZeroSum(t *testing.T) {
	raws := [][NumSeats]int{
		{-26, 0, 0, 0},
		{-8, -6, -12, 0},
		{0, -10, 0, -20},
		{45, 20, 5, -5},
		{25, 15, 15, 10},
	}
	for _, raw := range raws {
		for dealer := 0; dealer < NumSeats; dealer++ {
			for p := 0; p < NumSeats; p++ {
				if p == dealer {
					continue
				}
				plain, err := Settle(raw, NoHearts, dealer, Doubles{Doublers: []int{p}}, DefaultRules())
				if err != nil {
					t.Fatalf("Settle() error: %v", err)
				}
				if plain[p]+plain[dealer] != raw[p]+raw[dealer] {
					t.Fatalf("raw %v dealer %d doubler %d: pair sum %d, want %d", raw, dealer, p, plain[p]+plain[dealer], raw[p]+raw[dealer])
				}
				if abs(plain[p]-raw[p]) != abs(raw[p]-raw[dealer]) {
					t.Fatalf("raw %v dealer %d doubler %d: moved %d, want %d", raw, dealer, p, abs(plain[p]-raw[p]), abs(raw[p]-raw[dealer]))
				}

				re, err := Settle(raw, NoHearts, dealer, Doubles{Doublers: []int{p}, Redoublers: []int{p}}, DefaultRules())
				if err != nil {
					t.Fatalf("Settle() error: %v", err)
				}
				if abs(re[p]-raw[p]) != 2*abs(plain[p]-raw[p]) {
					t.Fatalf("raw %v dealer %d doubler %d: redouble moved %d, want %d", raw, dealer, p, abs(re[p]-raw[p]), 2*abs(plain[p]-raw[p]))
				}
			}
		}
	}
}

func TestSettleFallbackKeepsTotals(t *testing.T) {
	tests := []struct {
		raw    [NumSeats]int
		dealer int
	}{
		{raw: [NumSeats]int{-26, 0, 0, 0}, dealer: 1},
		{raw: [NumSeats]int{-6, -6, -6, -6}, dealer: 0},
		{raw: [NumSeats]int{-10, -20, 0, 0}, dealer: 2},
		{raw: [NumSeats]int{0, 0, 0, -20}, dealer: 3},
	}
	for _, tt := range tests {
		got, err := Settle(tt.raw, NoQueens, tt.dealer, Doubles{}, DefaultRules())
		if err != nil {
			t.Fatalf("Settle() error: %v", err)
		}
		if sum(got) != sum(tt.raw) {
			t.Fatalf("Settle(%v) = %v: total %d, want %d", tt.raw, got, sum(got), sum(tt.raw))
		}
		if d := got[tt.dealer]; d != 0 && d != 1 {
			t.Fatalf("dealer score = %d, want 0 or 1", d)
		}
	}
}

func TestSettleRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		doubles Doubles
	}{
		{name: "dealer doubles", doubles: Doubles{Doublers: []int{0}}},
		{name: "seat out of range", doubles: Doubles{Doublers: []int{4}}},
		{name: "duplicate doubler", doubles: Doubles{Doublers: []int{1, 1}}},
		{name: "redouble without double", doubles: Doubles{Doublers: []int{1}, Redoublers: []int{2}}},
		{name: "duplicate redouble", doubles: Doubles{Doublers: []int{1}, Redoublers: []int{1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Settle([NumSeats]int{-26, 0, 0, 0}, NoTricks, 0, tt.doubles, DefaultRules())
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Settle() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestParseOverlapPolicy(t *testing.T) {
	for in, want := range map[string]OverlapPolicy{"": OverlapSkip, "skip": OverlapSkip, "additive": OverlapAdditive} {
		got, err := ParseOverlapPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseOverlapPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOverlapPolicy("both"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseOverlapPolicy(both) error = %v, want ErrInvalidInput", err)
	}
}
