package app

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"barbu/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidSnapshot = errors.New("invalid game snapshot")

//go:embed snapshot.schema.json
var snapshotSchemaSource string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaSource)

// Totals and final scores are numbers rather than integers: saves from earlier
// versions may hold half points from the family double.
type playerJSON struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	TotalScore float64 `json:"totalScore"`
}

type specialJSON struct {
	Maximum bool `json:"maximum,omitempty"`
	Family  bool `json:"family,omitempty"`
}

type handJSON struct {
	HandNumber     int                      `json:"handNumber"`
	DealerIndex    int                      `json:"dealerIndex"`
	Contract       domain.Contract          `json:"contract"`
	BaseScores     [domain.NumSeats]int     `json:"baseScores"`
	FinalScores    [domain.NumSeats]float64 `json:"finalScores"`
	Doubles        []int                    `json:"doubles"`
	Redoubles      []int                    `json:"redoubles"`
	SpecialDoubles specialJSON              `json:"specialDoubles"`
	Bids           []int                    `json:"bids,omitempty"`
}

type pendingJSON struct {
	Contract   domain.Contract       `json:"contract"`
	Phase      domain.Phase          `json:"phase"`
	Positions  []int                 `json:"positions,omitempty"`
	Bids       []int                 `json:"bids,omitempty"`
	BaseScores *[domain.NumSeats]int `json:"baseScores,omitempty"`
}

// snapshotJSON is the persisted game document. Keys follow the scoresheet
// files written by earlier versions, so old saves keep loading.
type snapshotJSON struct {
	Players            []playerJSON              `json:"players"`
	CurrentDealerIndex int                       `json:"currentDealerIndex"`
	CurrentHand        int                       `json:"currentHand"`
	Hands              []handJSON                `json:"hands"`
	DealerContracts    map[int][]domain.Contract `json:"dealerContracts,omitempty"`
	DoublingCompliance map[int]map[int]int       `json:"doublingCompliance,omitempty"`
	Completed          bool                      `json:"completed,omitempty"`
	PendingHand        *pendingJSON              `json:"pendingHand,omitempty"`
}

// exportJSON is the user-facing export. It leaves out compliance and any hand
// in progress.
type exportJSON struct {
	Players            []playerJSON              `json:"players"`
	CurrentDealerIndex int                       `json:"currentDealerIndex"`
	CurrentHand        int                       `json:"currentHand"`
	Hands              []handJSON                `json:"hands"`
	DealerContracts    map[int][]domain.Contract `json:"dealerContracts"`
}

// EncodeSnapshot serializes the full game state.
func EncodeSnapshot(g *domain.Game) ([]byte, error) {
	snap := snapshotJSON{
		Players:            playersToJSON(g),
		CurrentDealerIndex: g.Dealer(),
		CurrentHand:        g.CurrentHand,
		Hands:              handsToJSON(g.Ledger.Records()),
		DealerContracts:    dealerContractsToJSON(g),
		DoublingCompliance: make(map[int]map[int]int, domain.NumSeats),
		Completed:          g.Completed,
	}
	for dealer := 0; dealer < domain.NumSeats; dealer++ {
		row := make(map[int]int, domain.NumSeats-1)
		for challenger := 0; challenger < domain.NumSeats; challenger++ {
			if challenger != dealer {
				row[challenger] = g.Compliance.Count(dealer, challenger)
			}
		}
		snap.DoublingCompliance[dealer] = row
	}
	if p := g.Pending; p != nil {
		pj := &pendingJSON{
			Contract:  p.Contract,
			Phase:     p.Phase,
			Positions: slices.Clone(p.Positions),
			Bids:      slices.Clone(p.Bids),
		}
		if p.Phase == domain.PhaseNegotiatingDoubles {
			raw := p.Raw
			pj.BaseScores = &raw
		}
		snap.PendingHand = pj
	}
	return json.Marshal(snap)
}

// DecodeSnapshot validates and restores a persisted game. Older documents
// without compliance counts load with all counts at zero; contract usage
// missing from them is taken from the hands. Half points left by earlier
// versions are truncated toward zero per hand and the totals re-summed.
func DecodeSnapshot(data []byte, rules domain.Rules) (*domain.Game, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var snap snapshotJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	g := &domain.Game{
		CurrentHand: snap.CurrentHand,
		Completed:   snap.Completed || snap.CurrentHand > domain.TotalHands,
		Rules:       rules,
	}
	for i, p := range snap.Players {
		if p.ID != i {
			return nil, fmt.Errorf("%w: player %d has id %d", ErrInvalidSnapshot, i, p.ID)
		}
		g.Players[i] = domain.Player{Seat: i, Name: p.Name}
	}

	var stored [domain.NumSeats]float64
	records := make([]domain.HandRecord, 0, len(snap.Hands))
	for i, h := range snap.Hands {
		if h.HandNumber != i+1 {
			return nil, fmt.Errorf("%w: hand %d is numbered %d", ErrInvalidSnapshot, i+1, h.HandNumber)
		}
		if h.DealerIndex != domain.DealerForHand(h.HandNumber) {
			return nil, fmt.Errorf("%w: hand %d dealt by seat %d", ErrInvalidSnapshot, h.HandNumber, h.DealerIndex)
		}
		rec := domain.HandRecord{
			Ordinal:    h.HandNumber,
			Dealer:     h.DealerIndex,
			Contract:   h.Contract,
			Raw:        h.BaseScores,
			Doublers:   slices.Clone(h.Doubles),
			Redoublers: slices.Clone(h.Redoubles),
			Special:    domain.SpecialDoubles{MaximumTable: h.SpecialDoubles.Maximum, FamilyFlanks: h.SpecialDoubles.Family},
			Bids:       slices.Clone(h.Bids),
		}
		for seat, s := range h.FinalScores {
			stored[seat] += s
			rec.Final[seat] = int(s)
			g.Players[seat].TotalScore += rec.Final[seat]
		}
		records = append(records, rec)
	}
	g.Ledger = domain.NewLedger(records...)

	for seat, p := range snap.Players {
		if p.TotalScore != stored[seat] {
			return nil, fmt.Errorf("%w: %s total %g does not match hands (%g)", ErrInvalidSnapshot, p.Name, p.TotalScore, stored[seat])
		}
	}

	if snap.DealerContracts != nil {
		for dealer, used := range snap.DealerContracts {
			g.DealerContracts[dealer] = slices.Clone(used)
		}
	} else {
		for _, rec := range records {
			g.DealerContracts[rec.Dealer] = append(g.DealerContracts[rec.Dealer], rec.Contract)
		}
	}

	for dealer, row := range snap.DoublingCompliance {
		for challenger, n := range row {
			if challenger != dealer {
				g.Compliance[dealer][challenger] = n
			}
		}
	}

	if pj := snap.PendingHand; pj != nil {
		p := &domain.PendingHand{
			Contract:  pj.Contract,
			Phase:     pj.Phase,
			Positions: slices.Clone(pj.Positions),
			Bids:      slices.Clone(pj.Bids),
		}
		if pj.Phase == domain.PhaseNegotiatingDoubles {
			if pj.BaseScores == nil {
				return nil, fmt.Errorf("%w: hand in progress has no scores", ErrInvalidSnapshot)
			}
			p.Raw = *pj.BaseScores
		}
		g.Pending = p
	}

	// A finished document whose compliance does not add up is reopened as a
	// blocked game.
	if g.Completed && !g.Compliance.IsComplete() {
		g.Completed = false
		g.CurrentHand = domain.TotalHands
	}

	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return g, nil
}

// EncodeExport renders the indented export document.
func EncodeExport(g *domain.Game) ([]byte, error) {
	doc := exportJSON{
		Players:            playersToJSON(g),
		CurrentDealerIndex: g.Dealer(),
		CurrentHand:        g.CurrentHand,
		Hands:              handsToJSON(g.Ledger.Records()),
		DealerContracts:    dealerContractsToJSON(g),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportFileName names an export written on the given day.
func ExportFileName(now time.Time) string {
	return "barbu-game-" + now.UTC().Format("2006-01-02") + ".json"
}

func playersToJSON(g *domain.Game) []playerJSON {
	out := make([]playerJSON, 0, domain.NumSeats)
	for _, p := range g.Players {
		out = append(out, playerJSON{ID: p.Seat, Name: p.Name, TotalScore: float64(p.TotalScore)})
	}
	return out
}

func handsToJSON(records []domain.HandRecord) []handJSON {
	out := make([]handJSON, 0, len(records))
	for _, rec := range records {
		h := handJSON{
			HandNumber:     rec.Ordinal,
			DealerIndex:    rec.Dealer,
			Contract:       rec.Contract,
			BaseScores:     rec.Raw,
			Doubles:        append([]int{}, rec.Doublers...),
			Redoubles:      append([]int{}, rec.Redoublers...),
			SpecialDoubles: specialJSON{Maximum: rec.Special.MaximumTable, Family: rec.Special.FamilyFlanks},
			Bids:           rec.Bids,
		}
		for seat, s := range rec.Final {
			h.FinalScores[seat] = float64(s)
		}
		out = append(out, h)
	}
	return out
}

func dealerContractsToJSON(g *domain.Game) map[int][]domain.Contract {
	out := make(map[int][]domain.Contract, domain.NumSeats)
	for dealer, used := range g.DealerContracts {
		out[dealer] = append([]domain.Contract{}, used...)
	}
	return out
}
