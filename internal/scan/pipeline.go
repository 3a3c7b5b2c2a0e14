package scan

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"trapscan/internal/chain"
	"trapscan/internal/extract"
	"trapscan/internal/model"
	"trapscan/internal/pending"
	"trapscan/internal/report"
	"trapscan/internal/storage"
)

// Config holds runtime settings for a scan.
type Config struct {
	Sources     []model.Source
	Vault       string
	OutDir      string
	BondIDsPath string
	NullCheck   pending.Mode
}

// Pipeline extracts trapped bonds, checks them against the vault and reports.
type Pipeline struct {
	cfg       Config
	querier   chain.Querier
	storage   storage.Storage
	out       io.Writer
	logger    *zap.Logger
	extractor *extract.Extractor
	checker   *pending.Checker
}

// NewPipeline builds a Pipeline with its dependencies. storageSink may be nil.
func NewPipeline(cfg Config, querier chain.Querier, storageSink storage.Storage, out io.Writer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{
		cfg:       cfg,
		querier:   querier,
		storage:   storageSink,
		out:       out,
		logger:    logger,
		extractor: extract.NewExtractor(querier, cfg.OutDir, logger),
		checker:   pending.NewChecker(querier, cfg.Vault, cfg.NullCheck, logger),
	}
}

// Run executes extraction, the bond id snapshot, null checks and the report.
func (p *Pipeline) Run(ctx context.Context) error {
	bondIDs, failures, err := p.Extract(ctx)
	if err != nil {
		return err
	}
	return p.checkAndReport(ctx, bondIDs, failures)
}

// Extract queries every source and saves the bond id snapshot.
func (p *Pipeline) Extract(ctx context.Context) (model.BondIDs, map[string]error, error) {
	if p.querier == nil {
		return nil, nil, fmt.Errorf("querier is nil")
	}
	if len(p.cfg.Sources) == 0 {
		return nil, nil, fmt.Errorf("at least one source is required")
	}
	if p.cfg.BondIDsPath == "" {
		return nil, nil, fmt.Errorf("bond ids path is required")
	}

	bondIDs, failures := p.extractor.ExtractAll(ctx, p.cfg.Sources)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err := storage.SaveBondIDs(p.cfg.BondIDsPath, bondIDs); err != nil {
		return nil, nil, err
	}
	p.logger.Info("bond ids saved",
		zap.String("path", p.cfg.BondIDsPath),
		zap.Int("sources", len(bondIDs)),
		zap.Int("failed", len(failures)),
	)

	return bondIDs, failures, nil
}

// CheckFile loads a saved bond id snapshot and runs the null checks and report.
func (p *Pipeline) CheckFile(ctx context.Context, path string) error {
	bondIDs, err := storage.LoadBondIDs(path)
	if err != nil {
		return err
	}
	return p.checkAndReport(ctx, bondIDs, nil)
}

// reportSources returns the configured sources followed by any label present in
// bondIDs that is not configured, sorted by label.
func (p *Pipeline) reportSources(bondIDs model.BondIDs) []model.Source {
	sources := make([]model.Source, 0, len(p.cfg.Sources)+len(bondIDs))
	known := make(map[string]struct{}, len(p.cfg.Sources))
	for _, src := range p.cfg.Sources {
		sources = append(sources, src)
		known[src.Label] = struct{}{}
	}

	var extra []string
	for label := range bondIDs {
		if _, ok := known[label]; !ok {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		p.logger.Warn("unconfigured source in bond ids",
			zap.String("source", label),
			zap.Int("bonds", len(bondIDs[label])),
		)
		sources = append(sources, model.Source{Label: label})
	}
	return sources
}

func (p *Pipeline) checkAndReport(ctx context.Context, bondIDs model.BondIDs, failures map[string]error) error {
	sources := p.reportSources(bondIDs)
	checks := make(map[string][]model.BondCheck, len(sources))
	for _, src := range sources {
		refs := bondIDs[src.Label]
		p.logger.Info("null check start", zap.String("source", src.Label), zap.Int("bonds", len(refs)))

		sourceChecks, err := p.checker.Check(ctx, src.Label, refs)
		if err != nil {
			return fmt.Errorf("check %s: %w", src.Label, err)
		}
		checks[src.Label] = sourceChecks

		if p.storage != nil {
			if err := p.storage.PutBondChecks(ctx, sourceChecks); err != nil {
				return fmt.Errorf("store bond checks: %w", err)
			}
		}

		p.logger.Info("null check complete",
			zap.String("source", src.Label),
			zap.Int("null", len(pending.NullRefs(sourceChecks))),
			zap.Int("checked", len(sourceChecks)),
		)
	}

	report.NewReporter(p.out).Print(report.Build(sources, bondIDs, checks, failures))
	return nil
}
