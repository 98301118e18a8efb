package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const loopringAccountCacheTTL = 30 * time.Minute

// loopringAccount is the response of the account lookup by owner address.
type loopringAccount struct {
	AccountID int64 `json:"accountId"`
}

// loopringBalance is one entry of the user balance listing. Token 0 is ETH.
type loopringBalance struct {
	TokenID int64  `json:"tokenId"`
	Total   string `json:"total"`
	Locked  string `json:"locked"`
}

// loopringAdapter resolves balances in two REST steps: an account lookup by
// owner (cached, the account id never changes) followed by a balance lookup.
type loopringAdapter struct {
	client       *fasthttp.Client
	endpoints    map[int64]string
	timeout      time.Duration
	accountCache *cache.Cache
	logger       *zap.Logger
}

// NewLoopringAdapter creates the Loopring chain-family adapter.
func NewLoopringAdapter(endpoints map[int64]string, timeout time.Duration, logger *zap.Logger) port.BalanceAdapter {
	return &loopringAdapter{
		client:       &fasthttp.Client{},
		endpoints:    endpoints,
		timeout:      timeout,
		accountCache: cache.New(loopringAccountCacheTTL, 10*time.Minute),
		logger:       logger.Named("LoopringAdapter"),
	}
}

func (a *loopringAdapter) Family() entity.ChainFamily {
	return entity.FamilyLoopring
}

func (a *loopringAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	endpoint, ok := a.endpoints[q.ChainID]
	if !ok || endpoint == "" {
		a.logger.Debug("No Loopring endpoint configured for chain", zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}
	if q.TokenAddress != "" && !strings.EqualFold(q.TokenAddress, entity.ZeroAddress) {
		// Only the native ETH balance (token id 0) is looked up on Loopring.
		a.logger.Debug("Loopring token balance lookup not supported, skipping",
			zap.Int64("chainId", q.ChainID),
			zap.String("tokenAddress", q.TokenAddress))
		return "", false, nil
	}

	accountID, err := a.accountIDFor(ctx, endpoint, q)
	if err != nil {
		return "", false, err
	}

	requestURL := fmt.Sprintf("%s/api/v3/user/balances?accountId=%d&tokens=0", strings.TrimRight(endpoint, "/"), accountID)
	var balances []loopringBalance
	if err := getJSON(ctx, a.client, requestURL, a.timeout, &balances); err != nil {
		return "", false, fmt.Errorf("loopring balance lookup failed: %w", err)
	}

	for _, b := range balances {
		if b.TokenID == 0 {
			return b.Total, true, nil
		}
	}
	return "0", true, nil
}

func (a *loopringAdapter) accountIDFor(ctx context.Context, endpoint string, q entity.BalanceQuery) (int64, error) {
	cacheKey := fmt.Sprintf("%d_%s", q.ChainID, strings.ToLower(q.MakerAddress))
	if cached, ok := a.accountCache.Get(cacheKey); ok {
		return cached.(int64), nil
	}

	requestURL := fmt.Sprintf("%s/api/v3/account?owner=%s", strings.TrimRight(endpoint, "/"), q.MakerAddress)
	var account loopringAccount
	if err := getJSON(ctx, a.client, requestURL, a.timeout, &account); err != nil {
		return 0, fmt.Errorf("loopring account lookup failed: %w", err)
	}
	if account.AccountID <= 0 {
		return 0, fmt.Errorf("loopring account lookup for %s returned no account id", q.MakerAddress)
	}

	a.accountCache.Set(cacheKey, account.AccountID, cache.DefaultExpiration)
	return account.AccountID, nil
}
