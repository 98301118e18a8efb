package adapter

import (
	"fmt"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/domain/entity"

	"go.uber.org/zap"
)

// adapterProvider routes chain IDs to chain-family adapters through a static
// table built once from configuration. Chains the table does not know fall
// back to the generic EVM family, which resolves to "no value" when no
// endpoint is configured either.
type adapterProvider struct {
	byFamily      map[entity.ChainFamily]port.BalanceAdapter
	familyByChain map[int64]entity.ChainFamily
	logger        *zap.Logger
}

// NewAdapterProvider builds the routing table and one adapter per chain
// family from the configured chains.
func NewAdapterProvider(cfg *config.Config, logger *zap.Logger) (port.AdapterProvider, error) {
	familyByChain := make(map[int64]entity.ChainFamily, len(cfg.Chains))
	endpointsByFamily := make(map[entity.ChainFamily]map[int64]string)

	for _, chain := range cfg.Chains {
		family, err := entity.ParseChainFamily(chain.Family)
		if err != nil {
			return nil, fmt.Errorf("chain %q (chainId %d): %w", chain.Name, chain.ChainID, err)
		}
		familyByChain[chain.ChainID] = family
		if endpointsByFamily[family] == nil {
			endpointsByFamily[family] = make(map[int64]string)
		}
		endpointsByFamily[family][chain.ChainID] = chain.Endpoint
	}

	restTimeout := time.Duration(cfg.RpcClient.CallTimeoutMs) * time.Millisecond
	starknetAccounts := make(map[string]string, len(cfg.Starknet.Accounts))
	for _, account := range cfg.Starknet.Accounts {
		starknetAccounts[strings.ToLower(account.MakerAddress)] = account.StarknetAddress
	}

	byFamily := map[entity.ChainFamily]port.BalanceAdapter{
		entity.FamilyEVM: NewEVMAdapter(endpointsByFamily[entity.FamilyEVM], EVMAdapterOptions{
			CallTimeout: restTimeout,
			RateLimit:   cfg.RpcClient.RateLimit,
			BurstLimit:  cfg.RpcClient.BurstLimit,
		}, logger),
		entity.FamilyZkSync:     NewZkSyncAdapter(endpointsByFamily[entity.FamilyZkSync], restTimeout, logger),
		entity.FamilyLoopring:   NewLoopringAdapter(endpointsByFamily[entity.FamilyLoopring], restTimeout, logger),
		entity.FamilyStarknet:   NewStarknetAdapter(endpointsByFamily[entity.FamilyStarknet], starknetAccounts, restTimeout, logger),
		entity.FamilyImmutableX: NewImmutableXAdapter(endpointsByFamily[entity.FamilyImmutableX], restTimeout, logger),
		entity.FamilyDydx:       NewDydxAdapter(cfg.Dydx, restTimeout, logger),
	}

	return &adapterProvider{
		byFamily:      byFamily,
		familyByChain: familyByChain,
		logger:        logger.Named("AdapterProvider"),
	}, nil
}

// AdapterFor resolves a chain ID to its family's adapter.
func (p *adapterProvider) AdapterFor(chainID int64) (port.BalanceAdapter, bool) {
	family, ok := p.familyByChain[chainID]
	if !ok {
		family = entity.FamilyEVM
	}
	adapter, ok := p.byFamily[family]
	return adapter, ok
}
