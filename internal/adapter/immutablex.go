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

// imxBalanceList is the ImmutableX balances listing for one address.
type imxBalanceList struct {
	Result []struct {
		Symbol       string `json:"symbol"`
		TokenAddress string `json:"token_address"`
		Balance      string `json:"balance"`
	} `json:"result"`
}

// immutableXAdapter lists every balance for the address in one REST call and
// matches the requested slot by token address, or by symbol for the native
// asset.
type immutableXAdapter struct {
	client    *fasthttp.Client
	endpoints map[int64]string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewImmutableXAdapter creates the ImmutableX chain-family adapter.
func NewImmutableXAdapter(endpoints map[int64]string, timeout time.Duration, logger *zap.Logger) port.BalanceAdapter {
	return &immutableXAdapter{
		client:    &fasthttp.Client{},
		endpoints: endpoints,
		timeout:   timeout,
		logger:    logger.Named("ImmutableXAdapter"),
	}
}

func (a *immutableXAdapter) Family() entity.ChainFamily {
	return entity.FamilyImmutableX
}

func (a *immutableXAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	endpoint, ok := a.endpoints[q.ChainID]
	if !ok || endpoint == "" {
		a.logger.Debug("No ImmutableX endpoint configured for chain", zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}

	requestURL := fmt.Sprintf("%s/v2/balances/%s", strings.TrimRight(endpoint, "/"), q.MakerAddress)
	var list imxBalanceList
	if err := getJSON(ctx, a.client, requestURL, a.timeout, &list); err != nil {
		return "", false, fmt.Errorf("immutablex balance listing failed: %w", err)
	}

	wantNative := q.TokenAddress == "" || strings.EqualFold(q.TokenAddress, entity.ZeroAddress)
	for _, b := range list.Result {
		if wantNative {
			if strings.EqualFold(b.Symbol, "ETH") {
				return b.Balance, true, nil
			}
			continue
		}
		if strings.EqualFold(b.TokenAddress, q.TokenAddress) {
			return b.Balance, true, nil
		}
	}
	return "0", true, nil
}
