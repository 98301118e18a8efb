package port

import (
	"context"

	"wealth_aggregator/internal/domain/entity"
)

// BalanceAdapter knows how to query a single balance on one chain family.
// FetchRawBalance returns the raw (unscaled) balance string. found=false means
// the adapter could not produce a value for this query without it being an
// error, e.g. a missing endpoint or credential mapping for that address/chain.
type BalanceAdapter interface {
	Family() entity.ChainFamily
	FetchRawBalance(ctx context.Context, query entity.BalanceQuery) (raw string, found bool, err error)
}

// AdapterProvider routes a chain ID to the adapter of its chain family.
type AdapterProvider interface {
	AdapterFor(chainID int64) (BalanceAdapter, bool)
}
