package port

import (
	"context"

	"wealth_aggregator/internal/domain/entity"
)

// WealthService aggregates token balances for a maker address across all
// chains the registry associates with it.
type WealthService interface {
	// ShapeRequests builds the per-chain requests for a maker without any
	// balance I/O. It fails only on an empty maker address.
	ShapeRequests(makerAddress string) ([]*entity.WealthChain, error)

	// FetchWealth shapes the requests and resolves every slot in parallel.
	// Individual adapter faults never fail the call as a whole.
	FetchWealth(ctx context.Context, makerAddress string) ([]*entity.WealthChain, error)

	// PersistWealth writes the resolved slots to durable storage.
	PersistWealth(ctx context.Context, chains []*entity.WealthChain) error
}
