package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trapscan/internal/config"
	"trapscan/internal/pending"
	"trapscan/internal/scan"
)

func runCheck(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := config.ValidateAddress(rt.cfg.Vault, rt.cfg.AddressPrefix); err != nil {
		return err
	}
	mode, err := pending.ParseMode(rt.cfg.NullCheck)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	querier, closeQuerier, err := newQuerier(ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeQuerier()

	sink, closeStorage, err := newStorage(ctx, rt.cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	pipeline := scan.NewPipeline(scan.Config{
		Sources:   rt.sources,
		Vault:     rt.cfg.Vault,
		NullCheck: mode,
	}, querier, sink, cmd.OutOrStdout(), rt.logger)

	rt.logger.Info("check start",
		zap.String("backend", rt.cfg.Backend),
		zap.String("bond_ids", rt.cfg.BondIDs),
		zap.String("vault", rt.cfg.Vault),
		zap.String("null_check", string(mode)),
		zap.String("pg_dsn", redactDSN(rt.cfg.PGDSN)),
	)

	return pipeline.CheckFile(ctx, rt.cfg.BondIDs)
}
