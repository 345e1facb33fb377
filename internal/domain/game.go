package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	HandsPerDealer = 7
	TotalHands     = NumSeats * HandsPerDealer
)

// Phase is the step of the hand currently being scored.
type Phase string

const (
	PhaseSelectingContract  Phase = "selecting_contract"
	PhaseEnteringPositions  Phase = "entering_positions"
	PhaseEnteringBids       Phase = "entering_bids"
	PhaseCollectingInputs   Phase = "collecting_inputs"
	PhaseNegotiatingDoubles Phase = "negotiating_doubles"
	PhaseComplete           Phase = "complete"
)

// Player is a seated participant. Seats never change during a game.
type Player struct {
	Seat       int
	Name       string
	TotalScore int
}

// PendingHand is the hand in progress between contract choice and settlement.
type PendingHand struct {
	Contract  Contract
	Phase     Phase
	Positions []int
	Bids      []int
	Raw       [NumSeats]int
}

// Game is the whole scoresheet: players, settled hands, contract usage and
// doubling compliance. Every mutating method either applies completely or
// returns an error with the game unchanged, except DeclareDoubles on the last
// hand, which commits the hand and then reports ErrComplianceNotMet.
type Game struct {
	Players         [NumSeats]Player
	CurrentHand     int
	DealerContracts [NumSeats][]Contract
	Compliance      ComplianceMatrix
	Ledger          Ledger
	Completed       bool
	Pending         *PendingHand
	Rules           Rules
}

// NewGame seats four players. Names must be non-empty and unique.
func NewGame(names [NumSeats]string, rules Rules) (*Game, error) {
	g := &Game{CurrentHand: 1, Rules: rules}
	seen := make(map[string]bool, NumSeats)
	for seat, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: all player names are required", ErrInvalidPlayers)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: all player names must be unique", ErrInvalidPlayers)
		}
		seen[name] = true
		g.Players[seat] = Player{Seat: seat, Name: name}
	}
	return g, nil
}

// DealerForHand returns the dealing seat for a 1-based hand ordinal.
func DealerForHand(ordinal int) int {
	if ordinal < 1 {
		return 0
	}
	return ((ordinal - 1) / HandsPerDealer) % NumSeats
}

// Dealer returns the seat dealing the current hand.
func (g *Game) Dealer() int {
	return DealerForHand(g.CurrentHand)
}

func (g *Game) Phase() Phase {
	if g.Completed {
		return PhaseComplete
	}
	if g.Pending != nil {
		return g.Pending.Phase
	}
	return PhaseSelectingContract
}

// CompletionBlocked reports whether all hands are settled but the game could
// not complete because compliance is not met.
func (g *Game) CompletionBlocked() bool {
	return !g.Completed && g.Ledger.Len() >= TotalHands
}

// AvailableContracts lists the contracts the current dealer has not used.
func (g *Game) AvailableContracts() []Contract {
	used := g.DealerContracts[g.Dealer()]
	var out []Contract
	for _, c := range Contracts() {
		if !slices.Contains(used, c) {
			out = append(out, c)
		}
	}
	return out
}

// SelectContract starts the current hand under c.
func (g *Game) SelectContract(c Contract) error {
	if err := g.expectPhase(PhaseSelectingContract); err != nil {
		return err
	}
	if g.CompletionBlocked() {
		return fmt.Errorf("%w: undo hands to add the missing doubles", ErrComplianceNotMet)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
	if slices.Contains(g.DealerContracts[g.Dealer()], c) {
		return fmt.Errorf("%w: %s by %s", ErrDuplicateContract, c, g.Players[g.Dealer()].Name)
	}

	next := PhaseCollectingInputs
	switch c {
	case Domino:
		next = PhaseEnteringPositions
	case Trumps:
		next = PhaseEnteringBids
	}
	g.Pending = &PendingHand{Contract: c, Phase: next}
	return nil
}

// EnterPositions records domino finishing positions per seat.
func (g *Game) EnterPositions(positions []int) error {
	if err := g.expectPhase(PhaseEnteringPositions); err != nil {
		return err
	}
	raw, err := scoreAndValidate(Domino, HandInputs{Positions: positions})
	if err != nil {
		return err
	}
	g.Pending.Positions = slices.Clone(positions)
	g.Pending.Raw = raw
	g.Pending.Phase = PhaseNegotiatingDoubles
	return nil
}

// EnterBids records the advisory trumps bids. Bids are not scored.
func (g *Game) EnterBids(bids []int) error {
	if err := g.expectPhase(PhaseEnteringBids); err != nil {
		return err
	}
	if _, err := perSeatCounts(bids, TricksInHand, "bid tricks"); err != nil {
		return err
	}
	g.Pending.Bids = slices.Clone(bids)
	g.Pending.Phase = PhaseCollectingInputs
	return nil
}

// SubmitInputs scores the hand results and moves on to doubling.
func (g *Game) SubmitInputs(in HandInputs) error {
	if err := g.expectPhase(PhaseCollectingInputs); err != nil {
		return err
	}
	raw, err := scoreAndValidate(g.Pending.Contract, in)
	if err != nil {
		return err
	}
	g.Pending.Raw = raw
	g.Pending.Phase = PhaseNegotiatingDoubles
	return nil
}

// DeclareDoubles settles the pending hand and commits it to the ledger.
// When the final hand commits without compliance the record is still
// returned, together with an error wrapping ErrComplianceNotMet.
func (g *Game) DeclareDoubles(d Doubles) (HandRecord, error) {
	if err := g.expectPhase(PhaseNegotiatingDoubles); err != nil {
		return HandRecord{}, err
	}
	dealer := g.Dealer()
	p := g.Pending
	final, err := Settle(p.Raw, p.Contract, dealer, d, g.Rules)
	if err != nil {
		return HandRecord{}, err
	}

	doublers := slices.Clone(d.Doublers)
	slices.Sort(doublers)
	redoublers := slices.Clone(d.Redoublers)
	slices.Sort(redoublers)

	rec := HandRecord{
		Ordinal:    g.CurrentHand,
		Dealer:     dealer,
		Contract:   p.Contract,
		Raw:        p.Raw,
		Final:      final,
		Doublers:   doublers,
		Redoublers: redoublers,
		Special:    d.Special,
		Bids:       slices.Clone(p.Bids),
	}

	g.Ledger.Commit(rec)
	for seat := range g.Players {
		g.Players[seat].TotalScore += final[seat]
	}
	g.DealerContracts[dealer] = append(g.DealerContracts[dealer], p.Contract)
	g.Compliance.Record(dealer, doublers)
	g.Pending = nil
	g.CurrentHand++

	if g.CurrentHand > TotalHands {
		if err := g.TryComplete(); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// TryComplete marks the game complete once every hand is settled and every
// compliance pair is met. On failure the hand counter stays on the last hand.
func (g *Game) TryComplete() error {
	if g.Completed {
		return nil
	}
	if g.Ledger.Len() < TotalHands {
		return fmt.Errorf("%w: %d of %d hands settled", ErrWrongPhase, g.Ledger.Len(), TotalHands)
	}
	if !g.Compliance.IsComplete() {
		g.CurrentHand = TotalHands
		return fmt.Errorf("%w: %d pairs short", ErrComplianceNotMet, len(g.Compliance.Shortfall()))
	}
	g.CurrentHand = TotalHands + 1
	g.Completed = true
	return nil
}

// CancelHand abandons the hand in progress.
func (g *Game) CancelHand() error {
	if g.Completed {
		return ErrGameComplete
	}
	if g.Pending == nil {
		return fmt.Errorf("%w: no hand in progress", ErrWrongPhase)
	}
	g.Pending = nil
	return nil
}

// UndoLastHand reverses the most recently settled hand and discards any hand
// in progress.
func (g *Game) UndoLastHand() (HandRecord, error) {
	rec, err := g.Ledger.UndoLast()
	if err != nil {
		return HandRecord{}, err
	}
	for seat := range g.Players {
		g.Players[seat].TotalScore -= rec.Final[seat]
	}
	used := g.DealerContracts[rec.Dealer]
	if i := slices.Index(used, rec.Contract); i >= 0 {
		g.DealerContracts[rec.Dealer] = slices.Delete(used, i, i+1)
	}
	g.Compliance.Reverse(rec.Dealer, rec.Doublers)
	g.CurrentHand = rec.Ordinal
	g.Completed = false
	g.Pending = nil
	return rec, nil
}

// Check verifies that restored state is internally consistent.
func (g *Game) Check() error {
	n := g.Ledger.Len()
	switch {
	case g.Completed && (n != TotalHands || g.CurrentHand != TotalHands+1):
		return fmt.Errorf("%w: completed game with %d hands at hand %d", ErrInvalidInput, n, g.CurrentHand)
	case !g.Completed && n == TotalHands && g.CurrentHand != TotalHands:
		return fmt.Errorf("%w: blocked game at hand %d", ErrInvalidInput, g.CurrentHand)
	case !g.Completed && n < TotalHands && g.CurrentHand != n+1:
		return fmt.Errorf("%w: %d hands settled but current hand is %d", ErrInvalidInput, n, g.CurrentHand)
	case n > TotalHands:
		return fmt.Errorf("%w: %d hands exceed %d", ErrInvalidInput, n, TotalHands)
	}
	var played [NumSeats][]Contract
	for _, rec := range g.Ledger.Records() {
		played[rec.Dealer] = append(played[rec.Dealer], rec.Contract)
	}
	for dealer, used := range g.DealerContracts {
		if len(used) > HandsPerDealer {
			return fmt.Errorf("%w: dealer %d used %d contracts", ErrInvalidInput, dealer, len(used))
		}
		for i, c := range used {
			if slices.Contains(used[:i], c) {
				return fmt.Errorf("%w: dealer %d used %s twice", ErrDuplicateContract, dealer, c)
			}
		}
		if !sameContracts(used, played[dealer]) {
			return fmt.Errorf("%w: dealer %d used %v but played %v", ErrInvalidInput, dealer, used, played[dealer])
		}
	}
	return g.checkPending()
}

func (g *Game) checkPending() error {
	p := g.Pending
	if p == nil {
		return nil
	}
	if g.Completed || g.Ledger.Len() >= TotalHands || !p.Contract.Valid() {
		return fmt.Errorf("%w: unexpected hand in progress", ErrInvalidInput)
	}
	if slices.Contains(g.DealerContracts[g.Dealer()], p.Contract) {
		return fmt.Errorf("%w: hand in progress under %s", ErrDuplicateContract, p.Contract)
	}
	if !slices.Contains(pendingPhases(p.Contract), p.Phase) {
		return fmt.Errorf("%w: %s hand cannot be in %s", ErrInvalidInput, p.Contract, p.Phase)
	}
	return nil
}

// pendingPhases lists the phases a hand under c passes through before it is
// settled.
func pendingPhases(c Contract) []Phase {
	switch c {
	case Domino:
		return []Phase{PhaseEnteringPositions, PhaseNegotiatingDoubles}
	case Trumps:
		return []Phase{PhaseEnteringBids, PhaseCollectingInputs, PhaseNegotiatingDoubles}
	default:
		return []Phase{PhaseCollectingInputs, PhaseNegotiatingDoubles}
	}
}

func sameContracts(a, b []Contract) bool {
	if len(a) != len(b) {
		return false
	}
	for _, c := range a {
		if !slices.Contains(b, c) {
			return false
		}
	}
	return true
}

// RebuildCompliance recounts the compliance matrix from the settled hands. A
// blocked game whose recount meets every pair completes.
func (g *Game) RebuildCompliance() {
	g.Compliance = ComplianceMatrix{}
	for _, rec := range g.Ledger.Records() {
		g.Compliance.Record(rec.Dealer, rec.Doublers)
	}
	if g.CompletionBlocked() && g.Compliance.IsComplete() {
		g.CurrentHand = TotalHands + 1
		g.Completed = true
	}
}

func (g *Game) expectPhase(want Phase) error {
	if g.Completed {
		return ErrGameComplete
	}
	if got := g.Phase(); got != want {
		return fmt.Errorf("%w: in %s, want %s", ErrWrongPhase, got, want)
	}
	return nil
}

func scoreAndValidate(c Contract, in HandInputs) ([NumSeats]int, error) {
	raw, err := ComputeRawScores(c, in)
	if err != nil {
		return raw, err
	}
	if err := ValidateScores(c, raw); err != nil {
		return raw, err
	}
	return raw, nil
}

// IsScoringError reports whether err is a rejection of hand data rather than
// of the game flow.
func IsScoringError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrReconciliationFailed) ||
		errors.Is(err, ErrScoreOutOfBounds)
}
