package nakama

import (
	"barbu/internal/app"
	"barbu/internal/domain"
)

type playerView struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
}

type pendingView struct {
	Contract  string `json:"contract"`
	Phase     string `json:"phase"`
	Positions []int  `json:"positions,omitempty"`
	Bids      []int  `json:"bids,omitempty"`
	RawScores []int  `json:"raw_scores,omitempty"`
}

type handView struct {
	Hand        int    `json:"hand"`
	Dealer      int    `json:"dealer"`
	Contract    string `json:"contract"`
	RawScores   []int  `json:"raw_scores"`
	FinalScores []int  `json:"final_scores"`
	Doubles     []int  `json:"doubles"`
	Redoubles   []int  `json:"redoubles"`
	Maximum     bool   `json:"maximum,omitempty"`
	Family      bool   `json:"family,omitempty"`
	Bids        []int  `json:"bids,omitempty"`
}

type pairView struct {
	Dealer     int `json:"dealer"`
	Challenger int `json:"challenger"`
	Count      int `json:"count"`
}

// gameView is the RPC response body describing a game.
type gameView struct {
	GameID             string       `json:"game_id,omitempty"`
	Phase              string       `json:"phase"`
	CurrentHand        int          `json:"current_hand"`
	Dealer             int          `json:"dealer"`
	Players            []playerView `json:"players"`
	AvailableContracts []string     `json:"available_contracts"`
	Pending            *pendingView `json:"pending,omitempty"`
	Hands              []handView   `json:"hands"`
	Shortfall          []pairView   `json:"compliance_shortfall"`
	Completed          bool         `json:"completed"`
	CompletionBlocked  bool         `json:"completion_blocked"`
	Events             []string     `json:"events,omitempty"`
}

func toGameView(gameID string, g *domain.Game, events []app.Event) gameView {
	v := gameView{
		GameID:             gameID,
		Phase:              string(g.Phase()),
		CurrentHand:        g.CurrentHand,
		Dealer:             g.Dealer(),
		Players:            make([]playerView, 0, domain.NumSeats),
		AvailableContracts: []string{},
		Hands:              []handView{},
		Shortfall:          []pairView{},
		Completed:          g.Completed,
		CompletionBlocked:  g.CompletionBlocked(),
	}
	for _, p := range g.Players {
		v.Players = append(v.Players, playerView{Seat: p.Seat, Name: p.Name, TotalScore: p.TotalScore})
	}
	if !g.Completed {
		for _, c := range g.AvailableContracts() {
			v.AvailableContracts = append(v.AvailableContracts, c.String())
		}
	}
	if p := g.Pending; p != nil {
		pv := &pendingView{
			Contract:  p.Contract.String(),
			Phase:     string(p.Phase),
			Positions: p.Positions,
			Bids:      p.Bids,
		}
		if p.Phase == domain.PhaseNegotiatingDoubles {
			pv.RawScores = p.Raw[:]
		}
		v.Pending = pv
	}
	for _, rec := range g.Ledger.Records() {
		v.Hands = append(v.Hands, handView{
			Hand:        rec.Ordinal,
			Dealer:      rec.Dealer,
			Contract:    rec.Contract.String(),
			RawScores:   rec.Raw[:],
			FinalScores: rec.Final[:],
			Doubles:     append([]int{}, rec.Doublers...),
			Redoubles:   append([]int{}, rec.Redoublers...),
			Maximum:     rec.Special.MaximumTable,
			Family:      rec.Special.FamilyFlanks,
			Bids:        rec.Bids,
		})
	}
	for _, pair := range g.Compliance.Shortfall() {
		v.Shortfall = append(v.Shortfall, pairView{Dealer: pair.Dealer, Challenger: pair.Challenger, Count: pair.Count})
	}
	for _, ev := range events {
		v.Events = append(v.Events, string(ev.Kind))
	}
	return v
}

// inputsRequest carries the per-contract hand results. Seat fields are
// pointers so a missing seat is rejected instead of read as seat 0.
type inputsRequest struct {
	GameID     string `json:"game_id"`
	Counts     []int  `json:"counts"`
	Taker      *int   `json:"taker"`
	SecondLast *int   `json:"second_last"`
	Last       *int   `json:"last"`
}

func (r inputsRequest) toDomain() domain.HandInputs {
	in := domain.HandInputs{Counts: r.Counts, Taker: -1, SecondLast: -1, Last: -1}
	if r.Taker != nil {
		in.Taker = *r.Taker
	}
	if r.SecondLast != nil {
		in.SecondLast = *r.SecondLast
	}
	if r.Last != nil {
		in.Last = *r.Last
	}
	return in
}

type doublesRequest struct {
	GameID    string `json:"game_id"`
	Doubles   []int  `json:"doubles"`
	Redoubles []int  `json:"redoubles"`
	Maximum   bool   `json:"maximum"`
	Family    bool   `json:"family"`
}

func (r doublesRequest) toDomain() domain.Doubles {
	return domain.Doubles{
		Doublers:   r.Doubles,
		Redoublers: r.Redoubles,
		Special:    domain.SpecialDoubles{MaximumTable: r.Maximum, FamilyFlanks: r.Family},
	}
}
