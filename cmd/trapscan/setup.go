package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trapscan/internal/chain"
	"trapscan/internal/command"
	"trapscan/internal/config"
	"trapscan/internal/model"
	"trapscan/internal/storage"
	"trapscan/internal/storage/postgres"
)

type runEnv struct {
	cfg     config.Config
	logger  *zap.Logger
	sources []model.Source
}

func loadRuntime(cmd *cobra.Command) (*runEnv, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sources, err := config.ParseSources(cfg.Sources, cfg.AddressPrefix)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("source list is required")
	}

	return &runEnv{cfg: cfg, logger: logger, sources: sources}, nil
}

// newQuerier returns the configured backend and a func releasing it.
func newQuerier(ctx context.Context, cfg config.Config, logger *zap.Logger) (chain.Querier, func(), error) {
	if cfg.Backend != config.BackendRPC {
		return &chain.CLIQuerier{
			Binary:  cfg.Binary,
			Node:    cfg.Node,
			ChainID: cfg.ChainID,
			Runner:  command.NewExecRunner(),
		}, func() {}, nil
	}

	client, err := chain.NewClient(ctx, cfg.Node)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}

	network, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("get chain id: %w", err)
	}
	if network != cfg.ChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain id mismatch: node reports %s, expected %s", network, cfg.ChainID)
	}
	logger.Info("rpc connected", zap.String("node", cfg.Node), zap.String("chain_id", network))

	return client, client.Close, nil
}

// newStorage returns the bond check sinks and a func releasing them.
func newStorage(ctx context.Context, cfg config.Config) (storage.Storage, func(), error) {
	var sinks storage.Multi
	if cfg.Results != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Results))
	}
	if cfg.PGDSN == "" {
		return sinks, func() {}, nil
	}

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	sinks = append(sinks, store)
	return sinks, store.Close, nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
