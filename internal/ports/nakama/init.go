package nakama

import (
	"context"
	"database/sql"

	"barbu/internal/app"
	"barbu/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the scoresheet RPCs for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if err := config.LoadGameConfig(env[EnvConfigPath]); err != nil {
		logger.Error("Failed to load barbu config: %v", err)
		return err
	}
	cfg := config.GetGameConfig()

	secret := env[EnvShareSecret]
	if secret == "" {
		logger.Warn("Share secret missing from env, %s will be unavailable.", RpcShareGame)
	}

	h := &rpcHandlers{
		svc:   app.NewService(NewNakamaGameStore(nk), nil, cfg.DomainRules()),
		share: app.NewShareService(secret, cfg.Share.Issuer, cfg.ShareTTL()),
	}
	if err := RegisterRPCs(initializer, h); err != nil {
		return err
	}

	logger.WithField("special_double_overlap", cfg.Rules.SpecialDoubleOverlap).Info("Barbu Go module loaded.")
	return nil
}
