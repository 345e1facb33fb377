package app

import "barbu/internal/domain"

// EventKind identifies events emitted by scoresheet use-cases.
type EventKind string

const (
	EventGameCreated       EventKind = "game_created"
	EventContractSelected  EventKind = "contract_selected"
	EventPositionsEntered  EventKind = "positions_entered"
	EventBidsEntered       EventKind = "bids_entered"
	EventInputsSubmitted   EventKind = "inputs_submitted"
	EventHandSettled       EventKind = "hand_settled"
	EventHandCancelled     EventKind = "hand_cancelled"
	EventHandUndone        EventKind = "hand_undone"
	EventGameCompleted     EventKind = "game_completed"
	EventCompletionBlocked EventKind = "completion_blocked"
)

// Event is an app event returned alongside the updated game.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameCreatedPayload struct {
	GameID  string
	Players [domain.NumSeats]string
}

type ContractSelectedPayload struct {
	Hand     int
	Dealer   int
	Contract domain.Contract
	Next     domain.Phase
}

type ScoresEnteredPayload struct {
	Hand int
	Raw  [domain.NumSeats]int
}

type BidsEnteredPayload struct {
	Hand int
	Bids []int
}

type HandSettledPayload struct {
	Record domain.HandRecord
	Totals [domain.NumSeats]int
}

type HandCancelledPayload struct {
	Hand     int
	Contract domain.Contract
}

type HandUndonePayload struct {
	Record domain.HandRecord
	Totals [domain.NumSeats]int
}

type GameCompletedPayload struct {
	Totals [domain.NumSeats]int
}

type CompletionBlockedPayload struct {
	Shortfall []domain.Pair
}

func totals(g *domain.Game) [domain.NumSeats]int {
	var out [domain.NumSeats]int
	for seat, p := range g.Players {
		out[seat] = p.TotalScore
	}
	return out
}
