package nakama

// RPC ids registered with the Nakama runtime.
const (
	RpcCreateGame     = "barbu_create_game"
	RpcImportGame     = "barbu_import_game"
	RpcGetGame        = "barbu_get_game"
	RpcListGames      = "barbu_list_games"
	RpcDeleteGame     = "barbu_delete_game"
	RpcSelectContract = "barbu_select_contract"
	RpcEnterPositions = "barbu_enter_positions"
	RpcEnterBids      = "barbu_enter_bids"
	RpcSubmitInputs   = "barbu_submit_inputs"
	RpcDeclareDoubles = "barbu_declare_doubles"
	RpcCancelHand     = "barbu_cancel_hand"
	RpcUndoHand       = "barbu_undo_hand"
	RpcExportGame     = "barbu_export_game"
	RpcShareGame      = "barbu_share_game"
	RpcViewShared     = "barbu_view_shared"
)

const (
	// GameCollection is the storage collection holding one object per game,
	// keyed by game id and owned by the creating user.
	GameCollection = "barbu_games"

	// Runtime env keys.
	EnvConfigPath  = "barbu_config_path"
	EnvShareSecret = "barbu_share_secret"
)

// gRPC status codes used in runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeInternal           = 13
	codeUnauthenticated    = 16
)
