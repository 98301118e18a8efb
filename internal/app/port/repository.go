package port

import (
	"context"

	"wealth_aggregator/internal/domain/entity"
)

// WealthRepository persists resolved balance slots, one row per
// (maker, chain, token, value, precision) tuple.
type WealthRepository interface {
	SaveWealths(ctx context.Context, chains []*entity.WealthChain) error
	Close() error
}
