package adapter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	erc20MethodID   []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		erc20MethodID = balanceOfMethod.ID
	})
}

// EVMAdapterOptions tune the node RPC clients.
type EVMAdapterOptions struct {
	CallTimeout       time.Duration
	ConnectionTimeout time.Duration
	RateLimit         int
	BurstLimit        int
}

type evmChainClient struct {
	client  *ethclient.Client
	limiter *rate.Limiter
}

// evmAdapter implements the generic EVM chain family with a node RPC balance
// call: eth_getBalance for the native asset, a single-element eth_call batch
// for ERC20 tokens. Clients are dialed lazily per chain and reused.
type evmAdapter struct {
	mu        sync.Mutex
	clients   map[int64]*evmChainClient
	endpoints map[int64]string
	opts      EVMAdapterOptions
	logger    *zap.Logger
}

// NewEVMAdapter creates the generic EVM chain-family adapter. endpoints maps
// chain IDs to node RPC URLs; chains without an endpoint resolve slots to
// "no value" without attempting any call.
func NewEVMAdapter(endpoints map[int64]string, opts EVMAdapterOptions, logger *zap.Logger) port.BalanceAdapter {
	initParsedERC20ABI()
	if opts.ConnectionTimeout <= 0 {
		opts.ConnectionTimeout = 10 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.BurstLimit <= 0 {
		opts.BurstLimit = 5
	}
	return &evmAdapter{
		clients:   make(map[int64]*evmChainClient),
		endpoints: endpoints,
		opts:      opts,
		logger:    logger.Named("EVMAdapter"),
	}
}

func (a *evmAdapter) Family() entity.ChainFamily {
	return entity.FamilyEVM
}

func (a *evmAdapter) FetchRawBalance(ctx context.Context, q entity.BalanceQuery) (string, bool, error) {
	endpoint, ok := a.endpoints[q.ChainID]
	if !ok || endpoint == "" {
		a.logger.Debug("No RPC endpoint configured for EVM chain",
			zap.Int64("chainId", q.ChainID),
			zap.String("chainName", q.ChainName))
		return "", false, nil
	}

	chainClient, err := a.clientFor(ctx, q.ChainID, endpoint)
	if err != nil {
		return "", false, err
	}
	if err := chainClient.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
	defer cancel()

	if q.TokenAddress == "" || strings.EqualFold(q.TokenAddress, entity.ZeroAddress) {
		balance, err := chainClient.client.BalanceAt(callCtx, common.HexToAddress(q.MakerAddress), nil)
		if err != nil {
			return "", false, fmt.Errorf("eth_getBalance failed on chain %d: %w", q.ChainID, err)
		}
		return balance.String(), true, nil
	}

	balance, err := a.tokenBalance(callCtx, chainClient.client, q)
	if err != nil {
		return "", false, err
	}
	return balance.String(), true, nil
}

// tokenBalance issues the balanceOf lookup with a single address in the
// query set.
func (a *evmAdapter) tokenBalance(ctx context.Context, client *ethclient.Client, q entity.BalanceQuery) (*big.Int, error) {
	paddedWalletAddress := common.LeftPadBytes(common.HexToAddress(q.MakerAddress).Bytes(), 32)
	callData := append(append([]byte{}, erc20MethodID...), paddedWalletAddress...)

	callArgs := map[string]interface{}{
		"to":   common.HexToAddress(q.TokenAddress),
		"data": hexutil.Bytes(callData),
	}
	batchElems := []rpc.BatchElem{{
		Method: "eth_call",
		Args:   []interface{}{callArgs, "latest"},
		Result: new(hexutil.Bytes),
	}}

	if err := client.Client().BatchCallContext(ctx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed on chain %d: %w", q.ChainID, err)
	}
	if batchElems[0].Error != nil {
		return nil, fmt.Errorf("failed to fetch %s balance for %s on chain %d: %w",
			q.TokenSymbol, q.MakerAddress, q.ChainID, batchElems[0].Error)
	}

	result, ok := batchElems[0].Result.(*hexutil.Bytes)
	if !ok || result == nil {
		return nil, fmt.Errorf("failed to decode token balance for %s: unexpected result type", q.TokenSymbol)
	}
	if len(*result) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", *result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result for %s: %w. Raw: %s", q.TokenSymbol, err, hexutil.Encode(*result))
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", q.TokenSymbol)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", q.TokenSymbol, unpacked[0])
	}
	return balance, nil
}

// clientFor returns the cached client for a chain, dialing on first use.
func (a *evmAdapter) clientFor(ctx context.Context, chainID int64, endpoint string) (*evmChainClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if chainClient, exists := a.clients[chainID]; exists {
		return chainClient, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, a.opts.ConnectionTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s for chain %d: %w", endpoint, chainID, err)
	}

	chainClient := &evmChainClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(a.opts.RateLimit), a.opts.BurstLimit),
	}
	a.clients[chainID] = chainClient
	a.logger.Info("Created new EVM client", zap.Int64("chainId", chainID), zap.String("endpoint", endpoint))
	return chainClient, nil
}
