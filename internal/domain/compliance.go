package domain

// RequiredChallenges is how many times each non-dealer must double each
// dealer before the game can complete.
const RequiredChallenges = 2

// ComplianceMatrix counts, per dealer row and challenger column, the hands in
// which the challenger doubled that dealer. The diagonal is unused.
type ComplianceMatrix [NumSeats][NumSeats]int

// Pair is one (dealer, challenger) entry of the matrix.
type Pair struct {
	Dealer     int
	Challenger int
	Count      int
}

// Record counts one challenge of dealer by each doubler.
func (m *ComplianceMatrix) Record(dealer int, doublers []int) {
	for _, seat := range doublers {
		if seat == dealer || !validSeat(seat) {
			continue
		}
		m[dealer][seat]++
	}
}

// Reverse undoes a previous Record with the same arguments.
func (m *ComplianceMatrix) Reverse(dealer int, doublers []int) {
	for _, seat := range doublers {
		if seat == dealer || !validSeat(seat) {
			continue
		}
		if m[dealer][seat] > 0 {
			m[dealer][seat]--
		}
	}
}

func (m *ComplianceMatrix) Count(dealer, challenger int) int {
	if !validSeat(dealer) || !validSeat(challenger) || dealer == challenger {
		return 0
	}
	return m[dealer][challenger]
}

// IsComplete reports whether every pair has reached RequiredChallenges.
func (m *ComplianceMatrix) IsComplete() bool {
	return len(m.Shortfall()) == 0
}

// Shortfall lists the pairs still below RequiredChallenges, dealer-major.
func (m *ComplianceMatrix) Shortfall() []Pair {
	var out []Pair
	for dealer := 0; dealer < NumSeats; dealer++ {
		for challenger := 0; challenger < NumSeats; challenger++ {
			if dealer == challenger {
				continue
			}
			if n := m[dealer][challenger]; n < RequiredChallenges {
				out = append(out, Pair{Dealer: dealer, Challenger: challenger, Count: n})
			}
		}
	}
	return out
}
