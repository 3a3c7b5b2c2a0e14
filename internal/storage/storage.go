package storage

import (
	"context"

	"trapscan/internal/model"
)

// Storage defines a sink for bond check results.
type Storage interface {
	PutBondChecks(ctx context.Context, checks []model.BondCheck) error
}

// Multi fans a batch out to several sinks in order, stopping at the first error.
type Multi []Storage

func (m Multi) PutBondChecks(ctx context.Context, checks []model.BondCheck) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.PutBondChecks(ctx, checks); err != nil {
			return err
		}
	}
	return nil
}
