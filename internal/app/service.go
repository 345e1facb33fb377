package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barbu/internal/domain"
	"barbu/internal/ports"

	"github.com/google/uuid"
)

var (
	ErrExportUnavailable = errors.New("no export destination configured")
	ErrMissingOwner      = errors.New("owner id is required")
	ErrMissingGameID     = errors.New("game id is required")
)

// Service contains scoresheet use-cases. Each mutating call loads the game,
// applies one domain operation and saves the whole snapshot back, so a
// rejected operation never reaches the store.
type Service struct {
	store   ports.GameStore
	exports ports.ExportWriter
	rules   domain.Rules
	newID   func() string
	now     func() time.Time
}

// NewService constructs a Service. exports may be nil when the deployment
// has nowhere to write export files.
func NewService(store ports.GameStore, exports ports.ExportWriter, rules domain.Rules) *Service {
	return &Service{
		store:   store,
		exports: exports,
		rules:   rules,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// CreateGame seats four players in a new game and stores it.
func (s *Service) CreateGame(ctx context.Context, ownerID string, names [domain.NumSeats]string) (string, *domain.Game, []Event, error) {
	if ownerID == "" {
		return "", nil, nil, ErrMissingOwner
	}
	g, err := domain.NewGame(names, s.rules)
	if err != nil {
		return "", nil, nil, err
	}
	gameID := s.newID()
	if err := s.create(ctx, ownerID, gameID, g); err != nil {
		return "", nil, nil, err
	}
	var seated [domain.NumSeats]string
	for seat, p := range g.Players {
		seated[seat] = p.Name
	}
	events := []Event{{Kind: EventGameCreated, Payload: GameCreatedPayload{GameID: gameID, Players: seated}}}
	return gameID, g, events, nil
}

// ImportGame stores a previously saved or exported document as a new game.
// Exports and older saves carry no compliance counts and import with every
// count at zero unless rebuildCompliance recounts them from the hands.
func (s *Service) ImportGame(ctx context.Context, ownerID string, data []byte, rebuildCompliance bool) (string, *domain.Game, error) {
	if ownerID == "" {
		return "", nil, ErrMissingOwner
	}
	g, err := DecodeSnapshot(data, s.rules)
	if err != nil {
		return "", nil, err
	}
	if rebuildCompliance {
		g.RebuildCompliance()
	}
	gameID := s.newID()
	if err := s.create(ctx, ownerID, gameID, g); err != nil {
		return "", nil, err
	}
	return gameID, g, nil
}

func (s *Service) GetGame(ctx context.Context, ownerID, gameID string) (*domain.Game, error) {
	g, _, err := s.load(ctx, ownerID, gameID)
	return g, err
}

func (s *Service) ListGames(ctx context.Context, ownerID string) ([]string, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	return s.store.List(ctx, ownerID)
}

func (s *Service) DeleteGame(ctx context.Context, ownerID, gameID string) error {
	if err := checkIDs(ownerID, gameID); err != nil {
		return err
	}
	return s.store.Delete(ctx, ownerID, gameID)
}

// SelectContract starts the current hand under the contract with the given id.
func (s *Service) SelectContract(ctx context.Context, ownerID, gameID, contractID string) (*domain.Game, []Event, error) {
	c, err := domain.ParseContract(contractID)
	if err != nil {
		return nil, nil, err
	}
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		if err := g.SelectContract(c); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventContractSelected, Payload: ContractSelectedPayload{
			Hand:     g.CurrentHand,
			Dealer:   g.Dealer(),
			Contract: c,
			Next:     g.Phase(),
		}}}, nil
	})
}

func (s *Service) EnterPositions(ctx context.Context, ownerID, gameID string, positions []int) (*domain.Game, []Event, error) {
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		if err := g.EnterPositions(positions); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventPositionsEntered, Payload: ScoresEnteredPayload{Hand: g.CurrentHand, Raw: g.Pending.Raw}}}, nil
	})
}

func (s *Service) EnterBids(ctx context.Context, ownerID, gameID string, bids []int) (*domain.Game, []Event, error) {
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		if err := g.EnterBids(bids); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventBidsEntered, Payload: BidsEnteredPayload{Hand: g.CurrentHand, Bids: g.Pending.Bids}}}, nil
	})
}

func (s *Service) SubmitInputs(ctx context.Context, ownerID, gameID string, in domain.HandInputs) (*domain.Game, []Event, error) {
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		if err := g.SubmitInputs(in); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventInputsSubmitted, Payload: ScoresEnteredPayload{Hand: g.CurrentHand, Raw: g.Pending.Raw}}}, nil
	})
}

// DeclareDoubles settles the pending hand. When the last hand settles without
// full doubling compliance the hand is still saved, and the returned error
// wraps domain.ErrComplianceNotMet.
func (s *Service) DeclareDoubles(ctx context.Context, ownerID, gameID string, d domain.Doubles) (*domain.Game, []Event, error) {
	var blocked error
	g, events, err := s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		rec, err := g.DeclareDoubles(d)
		if err != nil && !errors.Is(err, domain.ErrComplianceNotMet) {
			return nil, err
		}
		blocked = err
		events := []Event{{Kind: EventHandSettled, Payload: HandSettledPayload{Record: rec, Totals: totals(g)}}}
		switch {
		case g.Completed:
			events = append(events, Event{Kind: EventGameCompleted, Payload: GameCompletedPayload{Totals: totals(g)}})
		case blocked != nil:
			events = append(events, Event{Kind: EventCompletionBlocked, Payload: CompletionBlockedPayload{Shortfall: g.Compliance.Shortfall()}})
		}
		return events, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return g, events, blocked
}

// CancelHand abandons the hand in progress without scoring it.
func (s *Service) CancelHand(ctx context.Context, ownerID, gameID string) (*domain.Game, []Event, error) {
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		var c domain.Contract
		if g.Pending != nil {
			c = g.Pending.Contract
		}
		if err := g.CancelHand(); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventHandCancelled, Payload: HandCancelledPayload{Hand: g.CurrentHand, Contract: c}}}, nil
	})
}

// UndoLastHand reverses the most recently settled hand.
func (s *Service) UndoLastHand(ctx context.Context, ownerID, gameID string) (*domain.Game, []Event, error) {
	return s.apply(ctx, ownerID, gameID, func(g *domain.Game) ([]Event, error) {
		rec, err := g.UndoLastHand()
		if err != nil {
			return nil, err
		}
		return []Event{{Kind: EventHandUndone, Payload: HandUndonePayload{Record: rec, Totals: totals(g)}}}, nil
	})
}

// ExportGame renders the export document and its suggested file name.
func (s *Service) ExportGame(ctx context.Context, ownerID, gameID string) (string, []byte, error) {
	g, _, err := s.load(ctx, ownerID, gameID)
	if err != nil {
		return "", nil, err
	}
	doc, err := EncodeExport(g)
	if err != nil {
		return "", nil, err
	}
	return ExportFileName(s.now()), doc, nil
}

// ArchiveGame writes the export document to the configured destination.
func (s *Service) ArchiveGame(ctx context.Context, ownerID, gameID string) (string, error) {
	if s.exports == nil {
		return "", ErrExportUnavailable
	}
	name, doc, err := s.ExportGame(ctx, ownerID, gameID)
	if err != nil {
		return "", err
	}
	return s.exports.WriteExport(ctx, name, doc)
}

func (s *Service) apply(ctx context.Context, ownerID, gameID string, op func(g *domain.Game) ([]Event, error)) (*domain.Game, []Event, error) {
	g, version, err := s.load(ctx, ownerID, gameID)
	if err != nil {
		return nil, nil, err
	}
	events, err := op(g)
	if err != nil {
		return nil, nil, err
	}
	data, err := EncodeSnapshot(g)
	if err != nil {
		return nil, nil, fmt.Errorf("encode game %s: %w", gameID, err)
	}
	if _, err := s.store.Save(ctx, ownerID, gameID, data, version); err != nil {
		return nil, nil, err
	}
	return g, events, nil
}

func (s *Service) load(ctx context.Context, ownerID, gameID string) (*domain.Game, string, error) {
	if err := checkIDs(ownerID, gameID); err != nil {
		return nil, "", err
	}
	stored, err := s.store.Load(ctx, ownerID, gameID)
	if err != nil {
		return nil, "", err
	}
	g, err := DecodeSnapshot(stored.Data, s.rules)
	if err != nil {
		return nil, "", fmt.Errorf("load game %s: %w", gameID, err)
	}
	return g, stored.Version, nil
}

func (s *Service) create(ctx context.Context, ownerID, gameID string, g *domain.Game) error {
	data, err := EncodeSnapshot(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", gameID, err)
	}
	_, err = s.store.Save(ctx, ownerID, gameID, data, "")
	return err
}

func checkIDs(ownerID, gameID string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if gameID == "" {
		return ErrMissingGameID
	}
	return nil
}
