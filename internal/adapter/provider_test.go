package adapter

import (
	"context"
	"testing"
	"time"

	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdapterProviderRouting(t *testing.T) {
	cfg := &config.Config{
		RpcClient: config.RpcClientConfig{CallTimeoutMs: 1000, RateLimit: 10, BurstLimit: 5},
		Chains: []config.ChainConfig{
			{ChainID: 1, Name: "mainnet", Family: "evm", Endpoint: "http://localhost:8545"},
			{ChainID: 3, Name: "zksync", Family: "zksync", Endpoint: "http://localhost:3030"},
			{ChainID: 9, Name: "loopring", Family: "loopring", Endpoint: "http://localhost:3031"},
			{ChainID: 4, Name: "starknet", Family: "starknet"},
			{ChainID: 8, Name: "immutablex", Family: "immutablex"},
			{ChainID: 11, Name: "dydx", Family: "dydx"},
		},
	}

	provider, err := NewAdapterProvider(cfg, zap.NewNop())
	require.NoError(t, err)

	cases := map[int64]entity.ChainFamily{
		1:  entity.FamilyEVM,
		3:  entity.FamilyZkSync,
		9:  entity.FamilyLoopring,
		4:  entity.FamilyStarknet,
		8:  entity.FamilyImmutableX,
		11: entity.FamilyDydx,
	}
	for chainID, family := range cases {
		adapter, ok := provider.AdapterFor(chainID)
		require.True(t, ok, "chain %d", chainID)
		assert.Equal(t, family, adapter.Family(), "chain %d", chainID)
	}
}

func TestAdapterProviderUnknownChainFallsBackToEVM(t *testing.T) {
	provider, err := NewAdapterProvider(&config.Config{}, zap.NewNop())
	require.NoError(t, err)

	adapter, ok := provider.AdapterFor(424242)
	require.True(t, ok)
	assert.Equal(t, entity.FamilyEVM, adapter.Family())
}

func TestAdapterProviderRejectsUnknownFamily(t *testing.T) {
	cfg := &config.Config{Chains: []config.ChainConfig{{ChainID: 1, Name: "bogus", Family: "cosmos"}}}
	_, err := NewAdapterProvider(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestEVMAdapterNoEndpointResolvesToNoValue(t *testing.T) {
	adapter := NewEVMAdapter(map[int64]string{}, EVMAdapterOptions{}, zap.NewNop())
	assert.Equal(t, entity.FamilyEVM, adapter.Family())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// No endpoint configured: must return immediately without dialing anything.
	raw, found, err := adapter.FetchRawBalance(ctx, entity.BalanceQuery{
		MakerAddress: "0x80C67432656d59144cEFf962E8fAF8926599bCF8",
		ChainID:      1,
		TokenSymbol:  "ETH",
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, raw)
}
