package adapter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// starknetETHContract is the ETH ERC20 contract, identical on every Starknet
// network.
const starknetETHContract = "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

// starknetBalanceOfSelector is the sn_keccak entry point selector for
// balanceOf.
const starknetBalanceOfSelector = "0x2e4263afad30923c891518314c3c95dbe830a16874e8abc5777a9a20b54c76e"

// starknetNetworkIDs resolves an internal chain id to the Starknet network
// identifier; routing to a gateway is impossible without this step.
var starknetNetworkIDs = map[int64]string{
	4:  "mainnet-alpha",
	44: "goerli-alpha",
}

var starknetGateways = map[string]string{
	"mainnet-alpha": "https://alpha-mainnet.starknet.io",
	"goerli-alpha":  "https://alpha4.starknet.io",
}

// starknetCallRequest is the feeder gateway call_contract payload. Calldata
// felts are decimal strings.
type starknetCallRequest struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

type starknetCallResponse struct {
	Result []string `json:"result"`
}

// starknetAdapter queries balances through the feeder gateway of the network
// resolved from the chain id. Makers are mapped to their Starknet account
// addresses via configuration; an unmapped maker resolves to no value.
type starknetAdapter struct {
	client    *fasthttp.Client
	endpoints map[int64]string
	accounts  map[string]string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewStarknetAdapter creates the Starknet chain-family adapter. accounts maps
// lowercased L1 maker addresses to Starknet account addresses; endpoints may
// override the default gateway per chain id.
func NewStarknetAdapter(endpoints map[int64]string, accounts map[string]string, timeout time.Duration, logger *zap.Logger) port.BalanceAdapter {
	return &starknetAdapter{
		client:    &fasthttp.Client{},
		endpoints: endpoints,
		accounts:  accounts,
		timeout:   timeout,
		logger:    logger.Named("StarknetAdapter"),
	}
}

func (a *starknetAdapter) Family() entity.ChainFamily {
	return entity.FamilyStarknet
}

func (a *starknetAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	networkID, ok := starknetNetworkIDs[q.ChainID]
	if !ok {
		a.logger.Debug("No Starknet network id for chain", zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}
	gateway := a.endpoints[q.ChainID]
	if gateway == "" {
		gateway = starknetGateways[networkID]
	}

	account, ok := a.accounts[strings.ToLower(q.MakerAddress)]
	if !ok {
		a.logger.Debug("No Starknet account mapping for maker",
			zap.String("makerAddress", q.MakerAddress),
			zap.Int64("chainId", q.ChainID))
		return "", false, nil
	}
	accountFelt, err := feltFromHex(account)
	if err != nil {
		return "", false, fmt.Errorf("invalid starknet account address %q: %w", account, err)
	}

	contract := starknetETHContract
	if q.TokenAddress != "" && !strings.EqualFold(q.TokenAddress, entity.ZeroAddress) {
		contract = q.TokenAddress
	}

	requestURL := fmt.Sprintf("%s/feeder_gateway/call_contract?blockNumber=pending", strings.TrimRight(gateway, "/"))
	payload := starknetCallRequest{
		ContractAddress:    contract,
		EntryPointSelector: starknetBalanceOfSelector,
		Calldata:           []string{accountFelt.String()},
	}

	var resp starknetCallResponse
	if err := postJSON(ctx, a.client, requestURL, payload, a.timeout, &resp); err != nil {
		return "", false, fmt.Errorf("starknet call_contract failed: %w", err)
	}
	if len(resp.Result) < 2 {
		return "", false, fmt.Errorf("starknet balanceOf returned %d felts, expected uint256 pair", len(resp.Result))
	}

	balance, err := combineUint256(resp.Result[0], resp.Result[1])
	if err != nil {
		return "", false, fmt.Errorf("failed to decode starknet balance: %w", err)
	}
	return balance.String(), true, nil
}

func feltFromHex(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("not a hex felt: %q", s)
	}
	return v, nil
}

// combineUint256 folds the (low, high) felt pair of a Cairo Uint256 into one
// integer: low + high<<128.
func combineUint256(lowHex, highHex string) (*big.Int, error) {
	low, err := feltFromHex(lowHex)
	if err != nil {
		return nil, err
	}
	high, err := feltFromHex(highHex)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(low, new(big.Int).Lsh(high, 128)), nil
}
