package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/domain/entity"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dydxQuoteDecimals is the precision of the USDC quote asset all Dydx account
// balances are denominated in. The adapter reports balances at this raw scale
// so the normalizer can divide them back down like any on-chain value.
const dydxQuoteDecimals = 6

type dydxAccountsResponse struct {
	Accounts []struct {
		QuoteBalance string `json:"quoteBalance"`
	} `json:"accounts"`
}

// dydxAdapter queries the Dydx exchange API. Every call must be signed with
// the maker's own API credential; makers without a configured credential
// resolve to no value.
type dydxAdapter struct {
	client      *resty.Client
	credentials map[string]config.DydxCredential
	logger      *zap.Logger
}

// NewDydxAdapter creates the Dydx chain-family adapter.
func NewDydxAdapter(cfg config.DydxConfig, timeout time.Duration, logger *zap.Logger) port.BalanceAdapter {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.dydx.exchange"
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetTimeout(timeout)

	credentials := make(map[string]config.DydxCredential, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		credentials[strings.ToLower(cred.MakerAddress)] = cred
	}
	return &dydxAdapter{
		client:      client,
		credentials: credentials,
		logger:      logger.Named("DydxAdapter"),
	}
}

func (a *dydxAdapter) Family() entity.ChainFamily {
	return entity.FamilyDydx
}

func (a *dydxAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	cred, ok := a.credentials[strings.ToLower(q.MakerAddress)]
	if !ok {
		a.logger.Debug("No Dydx API credential for maker",
			zap.String("makerAddress", q.MakerAddress),
			zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}

	requestPath := "/v3/accounts"
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	signature, err := signDydxRequest(cred.APISecret, timestamp, "GET", requestPath, "")
	if err != nil {
		return "", false, fmt.Errorf("failed to sign dydx request: %w", err)
	}

	var accounts dydxAccountsResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("DYDX-API-KEY", cred.APIKey).
		SetHeader("DYDX-SIGNATURE", signature).
		SetHeader("DYDX-TIMESTAMP", timestamp).
		SetHeader("DYDX-PASSPHRASE", cred.Passphrase).
		SetResult(&accounts).
		Get(requestPath)
	if err != nil {
		return "", false, fmt.Errorf("dydx accounts lookup failed: %w", err)
	}
	if resp.IsError() {
		return "", false, fmt.Errorf("dydx accounts lookup failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(accounts.Accounts) == 0 {
		return "0", true, nil
	}

	quote, err := decimal.NewFromString(accounts.Accounts[0].QuoteBalance)
	if err != nil {
		return "", false, fmt.Errorf("invalid dydx quote balance %q: %w", accounts.Accounts[0].QuoteBalance, err)
	}
	return quote.Shift(dydxQuoteDecimals).Truncate(0).String(), true, nil
}

// signDydxRequest produces the HMAC-SHA256 request signature the Dydx v3 API
// expects: base64(hmac(secret, timestamp + method + path + body)) with the
// secret itself base64url-encoded.
func signDydxRequest(apiSecret, timestamp, method, requestPath, body string) (string, error) {
	secret, err := base64.URLEncoding.DecodeString(apiSecret)
	if err != nil {
		return "", fmt.Errorf("api secret is not base64url: %w", err)
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp + method + requestPath + body))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}
