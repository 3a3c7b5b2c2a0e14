package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trapscan/internal/scan"
)

func runExtract(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	querier, closeQuerier, err := newQuerier(ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeQuerier()

	pipeline := scan.NewPipeline(scan.Config{
		Sources:     rt.sources,
		OutDir:      rt.cfg.OutDir,
		BondIDsPath: rt.cfg.BondIDs,
	}, querier, nil, cmd.OutOrStdout(), rt.logger)

	rt.logger.Info("extract start",
		zap.String("backend", rt.cfg.Backend),
		zap.String("node", rt.cfg.Node),
		zap.Int("sources", len(rt.sources)),
		zap.String("out_dir", rt.cfg.OutDir),
		zap.String("bond_ids", rt.cfg.BondIDs),
	)

	bondIDs, failures, err := pipeline.Extract(ctx)
	if err != nil {
		return err
	}

	for _, src := range rt.sources {
		rt.logger.Info("source extracted",
			zap.String("source", src.Label),
			zap.Int("bonds", len(bondIDs[src.Label])),
			zap.Bool("failed", failures[src.Label] != nil),
		)
	}
	return nil
}
