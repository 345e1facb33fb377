package ports

import (
	"context"
	"errors"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrVersionConflict = errors.New("game was modified concurrently")
)

// StoredGame is a serialized game snapshot together with its storage version.
type StoredGame struct {
	ID      string
	OwnerID string
	Data    []byte
	Version string
}

// GameStore persists game snapshots, one object per game.
type GameStore interface {
	// Load returns the snapshot of gameID owned by ownerID.
	// Returns ErrGameNotFound when no such game exists.
	Load(ctx context.Context, ownerID, gameID string) (StoredGame, error)

	// Save writes a whole snapshot in a single write. An empty version
	// creates the game; otherwise version must match the stored one.
	// Returns the new version, or ErrVersionConflict.
	Save(ctx context.Context, ownerID, gameID string, data []byte, version string) (string, error)

	// Delete removes a game. Deleting a missing game is not an error.
	Delete(ctx context.Context, ownerID, gameID string) error

	// List returns the ids of the games owned by ownerID.
	List(ctx context.Context, ownerID string) ([]string, error)
}
