package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Jouiet/VocalIA-sub010/internal/app"
	"github.com/Jouiet/VocalIA-sub010/internal/app/bootstrap"
	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/Jouiet/VocalIA-sub010/pkg/oauth2"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gateway",
		Short:         "OAuth authorization gateway",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newCheckCmd(), newAuthURLCmd())
	return root
}

// openGateway builds a gateway for one-shot commands. It skips the Kafka
// producer and the HTTP stack.
func openGateway(ctx context.Context, config *cfg.Config) (*oauth2.Gateway, func(), error) {
	log := logger.NewWithWriter(config.AppEnv, os.Stderr)

	redis, err := bootstrap.InitCache(ctx, config.Redis)
	if err != nil {
		return nil, nil, err
	}

	credentialVault, database, err := bootstrap.InitVault(ctx, config)
	if err != nil {
		if redis != nil {
			_ = redis.Close()
		}
		return nil, nil, err
	}

	gw, err := bootstrap.InitGateway(&config.OAuth, redis, credentialVault, nil, log)
	closeAll := func() {
		if gw != nil {
			gw.Close()
		}
		if database != nil {
			_ = database.Close()
		}
		if redis != nil {
			_ = redis.Close()
		}
	}
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("oauth gateway: %w", err)
	}
	return gw, closeAll, nil
}
