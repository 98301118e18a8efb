package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// zkAccountState is the committed account state returned by the zkSync REST
// API. Balances are keyed by uppercased token symbol.
type zkAccountState struct {
	Result *struct {
		Committed struct {
			Balances map[string]string `json:"balances"`
		} `json:"committed"`
	} `json:"result"`
}

// zkSyncAdapter resolves balances with a single committed-state lookup per
// slot, keyed by uppercased token symbol.
type zkSyncAdapter struct {
	client    *fasthttp.Client
	endpoints map[int64]string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewZkSyncAdapter creates the zkSync chain-family adapter. endpoints maps
// chain IDs to REST base URLs.
func NewZkSyncAdapter(endpoints map[int64]string, timeout time.Duration, logger *zap.Logger) port.BalanceAdapter {
	return &zkSyncAdapter{
		client:    &fasthttp.Client{},
		endpoints: endpoints,
		timeout:   timeout,
		logger:    logger.Named("ZkSyncAdapter"),
	}
}

func (a *zkSyncAdapter) Family() entity.ChainFamily {
	return entity.FamilyZkSync
}

func (a *zkSyncAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	endpoint, ok := a.endpoints[q.ChainID]
	if !ok || endpoint == "" {
		a.logger.Debug("No zkSync endpoint configured for chain", zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}

	requestURL := fmt.Sprintf("%s/accounts/%s/committed", strings.TrimRight(endpoint, "/"), q.MakerAddress)
	var state zkAccountState
	if err := getJSON(ctx, a.client, requestURL, a.timeout, &state); err != nil {
		return "", false, fmt.Errorf("zksync committed-state lookup failed: %w", err)
	}
	if state.Result == nil {
		// Account unknown to the rollup: it simply holds nothing yet.
		return "0", true, nil
	}

	raw, ok := state.Result.Committed.Balances[strings.ToUpper(q.TokenSymbol)]
	if !ok {
		return "0", true, nil
	}
	return raw, true, nil
}
