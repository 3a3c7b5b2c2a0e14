package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trapscan/internal/chain"
	"trapscan/internal/model"
)

// Checker looks up bonds in the vault's pending bond state.
type Checker struct {
	querier chain.Querier
	vault   string
	mode    Mode
	logger  *zap.Logger
	now     func() time.Time
}

func NewChecker(querier chain.Querier, vault string, mode Mode, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = ModeSubstring
	}
	return &Checker{
		querier: querier,
		vault:   vault,
		mode:    mode,
		logger:  logger,
		now:     time.Now,
	}
}

// PendingBondQuery builds the pending_bonds_by_id query for a bond id.
func PendingBondQuery(bondID string) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"pending_bonds_by_id": map[string]string{"bond_id": bondID},
	})
}

// Check queries each bond in order. A failed query is logged and the bond is
// classified from whatever output came back, with the error recorded.
func (c *Checker) Check(ctx context.Context, source string, refs []model.BondRef) ([]model.BondCheck, error) {
	if c.querier == nil {
		return nil, fmt.Errorf("querier is nil")
	}
	if c.vault == "" {
		return nil, fmt.Errorf("vault address is required")
	}

	checks := make([]model.BondCheck, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return checks, err
		}

		msg, err := PendingBondQuery(ref.BondID)
		if err != nil {
			return checks, fmt.Errorf("build query: %w", err)
		}

		raw, qerr := c.querier.QuerySmart(ctx, c.vault, msg)
		check := model.BondCheck{
			Source:    source,
			Key:       ref.Key,
			BondID:    ref.BondID,
			Null:      c.mode.classify(raw),
			CheckedAt: c.now().UTC().Format(time.RFC3339Nano),
		}
		if qerr != nil {
			check.Error = qerr.Error()
			c.logger.Warn("pending bond query failed",
				zap.String("source", source),
				zap.String("bond_id", ref.BondID),
				zap.Error(qerr),
			)
		}
		c.logger.Debug("bond checked",
			zap.String("source", source),
			zap.String("key", ref.Key),
			zap.String("bond_id", ref.BondID),
			zap.Bool("null", check.Null),
		)
		checks = append(checks, check)
	}

	return checks, nil
}

// NullRefs returns the refs of checks classified as null, in order.
func NullRefs(checks []model.BondCheck) []model.BondRef {
	refs := make([]model.BondRef, 0)
	for _, check := range checks {
		if check.Null {
			refs = append(refs, check.Ref())
		}
	}
	return refs
}
