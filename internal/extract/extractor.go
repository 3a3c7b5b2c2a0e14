package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"trapscan/internal/chain"
	"trapscan/internal/model"
	"trapscan/internal/storage"
)

// TrappedErrorsQuery is the smart query sent to each primitive.
var TrappedErrorsQuery = []byte(`{"trapped_errors": {}}`)

// Extractor pulls trapped join swap bonds out of primitive contracts.
type Extractor struct {
	querier chain.Querier
	outDir  string
	logger  *zap.Logger
}

// NewExtractor builds an Extractor writing raw snapshots under outDir.
func NewExtractor(querier chain.Querier, outDir string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outDir == "" {
		outDir = "."
	}
	return &Extractor{querier: querier, outDir: outDir, logger: logger}
}

// SnapshotPath returns where the raw response for src is written.
func (e *Extractor) SnapshotPath(src model.Source) string {
	return filepath.Join(e.outDir, src.SnapshotName())
}

// Extract queries one source, saves its raw response and parses it.
func (e *Extractor) Extract(ctx context.Context, src model.Source) ([]model.BondRef, error) {
	if e.querier == nil {
		return nil, fmt.Errorf("querier is nil")
	}

	raw, qerr := e.querier.QuerySmart(ctx, src.Address, TrappedErrorsQuery)
	if raw != nil {
		if err := storage.WriteSnapshot(e.SnapshotPath(src), raw); err != nil {
			return nil, err
		}
	}
	if qerr != nil {
		return nil, fmt.Errorf("query trapped errors: %w", qerr)
	}

	refs, err := ParseTrappedErrors(raw)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ExtractAll runs Extract for every source in order. A failing source is
// logged, keeps an empty list and does not stop the others; its error is
// returned in the map keyed by label.
func (e *Extractor) ExtractAll(ctx context.Context, sources []model.Source) (model.BondIDs, map[string]error) {
	bondIDs := make(model.BondIDs, len(sources))
	failures := make(map[string]error)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			failures[src.Label] = err
			bondIDs[src.Label] = []model.BondRef{}
			continue
		}

		e.logger.Info("query trapped errors", zap.String("source", src.Label), zap.String("address", src.Address))

		refs, err := e.Extract(ctx, src)
		if err != nil {
			e.logger.Error("source failed", zap.String("source", src.Label), zap.Error(err))
			failures[src.Label] = err
			refs = []model.BondRef{}
		}
		bondIDs[src.Label] = refs

		e.logger.Info("extract complete",
			zap.String("source", src.Label),
			zap.Int("bonds", len(refs)),
			zap.String("snapshot", e.SnapshotPath(src)),
		)
	}

	return bondIDs, failures
}
