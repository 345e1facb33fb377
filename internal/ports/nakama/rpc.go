package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"barbu/internal/app"
	"barbu/internal/domain"
	"barbu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcHandlers binds the scoresheet use-cases to Nakama RPCs.
type rpcHandlers struct {
	svc   *app.Service
	share *app.ShareService
}

type gameRequest struct {
	GameID string `json:"game_id"`
}

type createGameRequest struct {
	Players []string `json:"players"`
}

type importGameRequest struct {
	Document          json.RawMessage `json:"document"`
	RebuildCompliance bool            `json:"rebuild_compliance"`
}

type contractRequest struct {
	GameID   string `json:"game_id"`
	Contract string `json:"contract"`
}

type seatValuesRequest struct {
	GameID    string `json:"game_id"`
	Positions []int  `json:"positions"`
	Bids      []int  `json:"bids"`
}

type listGamesResponse struct {
	GameIDs []string `json:"game_ids"`
}

type exportResponse struct {
	FileName string          `json:"file_name"`
	Document json.RawMessage `json:"document"`
}

type shareResponse struct {
	Token string `json:"token"`
}

type shareRequest struct {
	Token string `json:"token"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, h *rpcHandlers) error {
	rpcs := map[string]rpcFunc{
		RpcCreateGame:     h.createGame,
		RpcImportGame:     h.importGame,
		RpcGetGame:        h.getGame,
		RpcListGames:      h.listGames,
		RpcDeleteGame:     h.deleteGame,
		RpcSelectContract: h.selectContract,
		RpcEnterPositions: h.enterPositions,
		RpcEnterBids:      h.enterBids,
		RpcSubmitInputs:   h.submitInputs,
		RpcDeclareDoubles: h.declareDoubles,
		RpcCancelHand:     h.cancelHand,
		RpcUndoHand:       h.undoHand,
		RpcExportGame:     h.exportGame,
		RpcShareGame:      h.shareGame,
		RpcViewShared:     h.viewShared,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *rpcHandlers) createGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req createGameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if len(req.Players) != domain.NumSeats {
		return "", runtime.NewError("Exactly four players required", codeInvalidArgument)
	}
	var names [domain.NumSeats]string
	copy(names[:], req.Players)

	gameID, game, events, err := h.svc.CreateGame(ctx, userID(ctx), names)
	if err != nil {
		return "", rpcError(logger, RpcCreateGame, err)
	}
	logger.WithField("game_id", gameID).Info("Barbu game created.")
	return encodeResponse(toGameView(gameID, game, events))
}

func (h *rpcHandlers) importGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req importGameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	gameID, game, err := h.svc.ImportGame(ctx, userID(ctx), req.Document, req.RebuildCompliance)
	if err != nil {
		return "", rpcError(logger, RpcImportGame, err)
	}
	logger.WithField("game_id", gameID).Info("Barbu game imported at hand %d.", game.CurrentHand)
	return encodeResponse(toGameView(gameID, game, nil))
}

func (h *rpcHandlers) getGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	game, err := h.svc.GetGame(ctx, userID(ctx), req.GameID)
	if err != nil {
		return "", rpcError(logger.WithField("game_id", req.GameID), RpcGetGame, err)
	}
	return encodeResponse(toGameView(req.GameID, game, nil))
}

func (h *rpcHandlers) listGames(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	ids, err := h.svc.ListGames(ctx, userID(ctx))
	if err != nil {
		return "", rpcError(logger, RpcListGames, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return encodeResponse(listGamesResponse{GameIDs: ids})
}

func (h *rpcHandlers) deleteGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if err := h.svc.DeleteGame(ctx, userID(ctx), req.GameID); err != nil {
		return "", rpcError(logger.WithField("game_id", req.GameID), RpcDeleteGame, err)
	}
	return "{}", nil
}

func (h *rpcHandlers) selectContract(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req contractRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcSelectContract, req.GameID)(h.svc.SelectContract(ctx, userID(ctx), req.GameID, req.Contract))
}

func (h *rpcHandlers) enterPositions(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req seatValuesRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcEnterPositions, req.GameID)(h.svc.EnterPositions(ctx, userID(ctx), req.GameID, req.Positions))
}

func (h *rpcHandlers) enterBids(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req seatValuesRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcEnterBids, req.GameID)(h.svc.EnterBids(ctx, userID(ctx), req.GameID, req.Bids))
}

func (h *rpcHandlers) submitInputs(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req inputsRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcSubmitInputs, req.GameID)(h.svc.SubmitInputs(ctx, userID(ctx), req.GameID, req.toDomain()))
}

func (h *rpcHandlers) declareDoubles(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req doublesRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	game, events, err := h.svc.DeclareDoubles(ctx, userID(ctx), req.GameID, req.toDomain())
	if errors.Is(err, domain.ErrComplianceNotMet) && game != nil {
		// The last hand is saved; the client is told completion is blocked
		// through the view rather than an error.
		logger.WithField("game_id", req.GameID).Warn("Barbu game %s blocked: %v", req.GameID, err)
		return encodeResponse(toGameView(req.GameID, game, events))
	}
	return h.respond(logger, RpcDeclareDoubles, req.GameID)(game, events, err)
}

func (h *rpcHandlers) cancelHand(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcCancelHand, req.GameID)(h.svc.CancelHand(ctx, userID(ctx), req.GameID))
}

func (h *rpcHandlers) undoHand(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	return h.respond(logger, RpcUndoHand, req.GameID)(h.svc.UndoLastHand(ctx, userID(ctx), req.GameID))
}

func (h *rpcHandlers) exportGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	name, doc, err := h.svc.ExportGame(ctx, userID(ctx), req.GameID)
	if err != nil {
		return "", rpcError(logger.WithField("game_id", req.GameID), RpcExportGame, err)
	}
	return encodeResponse(exportResponse{FileName: name, Document: doc})
}

func (h *rpcHandlers) shareGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req gameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	owner := userID(ctx)
	if _, err := h.svc.GetGame(ctx, owner, req.GameID); err != nil {
		return "", rpcError(logger.WithField("game_id", req.GameID), RpcShareGame, err)
	}
	token, err := h.share.IssueToken(owner, req.GameID)
	if err != nil {
		return "", rpcError(logger.WithField("game_id", req.GameID), RpcShareGame, err)
	}
	return encodeResponse(shareResponse{Token: token})
}

// viewShared returns the export document of a shared game to any caller
// holding a valid token.
func (h *rpcHandlers) viewShared(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req shareRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	owner, gameID, err := h.share.Verify(req.Token)
	if err != nil {
		return "", rpcError(logger, RpcViewShared, err)
	}
	name, doc, err := h.svc.ExportGame(ctx, owner, gameID)
	if err != nil {
		return "", rpcError(logger.WithField("game_id", gameID), RpcViewShared, err)
	}
	return encodeResponse(exportResponse{FileName: name, Document: doc})
}

func (h *rpcHandlers) respond(logger runtime.Logger, rpc, gameID string) func(*domain.Game, []app.Event, error) (string, error) {
	return func(game *domain.Game, events []app.Event, err error) (string, error) {
		if err != nil {
			return "", rpcError(logger.WithField("game_id", gameID), rpc, err)
		}
		return encodeResponse(toGameView(gameID, game, events))
	}
}

func userID(ctx context.Context) string {
	id, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return id
}

func decodePayload(payload string, v any) error {
	if payload == "" {
		payload = "{}"
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	return nil
}

func encodeResponse(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(b), nil
}

// rpcError logs err and maps it to a runtime error with a gRPC status code.
func rpcError(logger runtime.Logger, rpc string, err error) error {
	code := codeInternal
	switch {
	case domain.IsScoringError(err),
		errors.Is(err, domain.ErrInvalidPlayers),
		errors.Is(err, app.ErrInvalidSnapshot),
		errors.Is(err, app.ErrMissingGameID):
		code = codeInvalidArgument
	case errors.Is(err, ports.ErrGameNotFound):
		code = codeNotFound
	case errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrDuplicateContract),
		errors.Is(err, domain.ErrComplianceNotMet),
		errors.Is(err, domain.ErrNothingToUndo),
		errors.Is(err, domain.ErrGameComplete),
		errors.Is(err, app.ErrShareUnavailable):
		code = codeFailedPrecondition
	case errors.Is(err, ports.ErrVersionConflict):
		code = codeAborted
	case errors.Is(err, app.ErrMissingOwner),
		errors.Is(err, app.ErrInvalidShareToken):
		code = codeUnauthenticated
	}

	if code == codeInternal {
		logger.Error("%s failed: %v", rpc, err)
		return runtime.NewError("Internal error", code)
	}
	logger.Warn("%s rejected: %v", rpc, err)
	return runtime.NewError(err.Error(), code)
}
