package nakama

import (
	"context"
	"errors"
	"fmt"

	"barbu/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const storageListPage = 100

// storageModule is the part of runtime.NakamaModule the game store needs.
type storageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
}

// NakamaGameStore implements ports.GameStore on Nakama's storage engine.
// Object versions give optimistic concurrency between concurrent RPCs.
type NakamaGameStore struct {
	nk storageModule
}

// NewNakamaGameStore creates a new game store adapter.
func NewNakamaGameStore(nk storageModule) *NakamaGameStore {
	return &NakamaGameStore{nk: nk}
}

func (s *NakamaGameStore) Load(ctx context.Context, ownerID, gameID string) (ports.StoredGame, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: GameCollection, Key: gameID, UserID: ownerID},
	})
	if err != nil {
		return ports.StoredGame{}, fmt.Errorf("failed to read game %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return ports.StoredGame{}, ports.ErrGameNotFound
	}
	obj := objects[0]
	return ports.StoredGame{
		ID:      obj.GetKey(),
		OwnerID: obj.GetUserId(),
		Data:    []byte(obj.GetValue()),
		Version: obj.GetVersion(),
	}, nil
}

func (s *NakamaGameStore) Save(ctx context.Context, ownerID, gameID string, data []byte, version string) (string, error) {
	if version == "" {
		// Only write if the object does not exist yet.
		version = "*"
	}
	acks, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      GameCollection,
			Key:             gameID,
			UserID:          ownerID,
			Value:           string(data),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return "", ports.ErrVersionConflict
		}
		return "", fmt.Errorf("failed to write game %s: %w", gameID, err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("failed to write game %s: no acknowledgement", gameID)
	}
	return acks[0].GetVersion(), nil
}

func (s *NakamaGameStore) Delete(ctx context.Context, ownerID, gameID string) error {
	err := s.nk.StorageDelete(ctx, []*runtime.StorageDelete{
		{Collection: GameCollection, Key: gameID, UserID: ownerID},
	})
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

func (s *NakamaGameStore) List(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	cursor := ""
	for {
		objects, next, err := s.nk.StorageList(ctx, ownerID, ownerID, GameCollection, storageListPage, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list games: %w", err)
		}
		for _, obj := range objects {
			ids = append(ids, obj.GetKey())
		}
		if next == "" {
			return ids, nil
		}
		cursor = next
	}
}

var _ ports.GameStore = (*NakamaGameStore)(nil)
