package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wealth_aggregator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZkSyncAdapterCommittedLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/0xABC/committed", r.URL.Path)
		fmt.Fprint(w, `{"status":"success","result":{"committed":{"balances":{"ETH":"1500000000000000000","USDC":"2000000"}}}}`)
	}))
	defer server.Close()

	adapter := NewZkSyncAdapter(map[int64]string{3: server.URL}, 2*time.Second, zap.NewNop())
	assert.Equal(t, entity.FamilyZkSync, adapter.Family())

	raw, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 3, TokenSymbol: "eth",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1500000000000000000", raw, "symbol lookup must be case-insensitive via uppercasing")
}

func TestZkSyncAdapterMissingSymbolIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","result":{"committed":{"balances":{"ETH":"1"}}}}`)
	}))
	defer server.Close()

	adapter := NewZkSyncAdapter(map[int64]string{3: server.URL}, 2*time.Second, zap.NewNop())
	raw, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 3, TokenSymbol: "DAI",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0", raw)
}

func TestZkSyncAdapterUnknownAccountIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","result":null}`)
	}))
	defer server.Close()

	adapter := NewZkSyncAdapter(map[int64]string{3: server.URL}, 2*time.Second, zap.NewNop())
	raw, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xNEW", ChainID: 3, TokenSymbol: "ETH",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0", raw)
}

func TestZkSyncAdapterNoEndpoint(t *testing.T) {
	adapter := NewZkSyncAdapter(map[int64]string{}, 2*time.Second, zap.NewNop())
	_, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 3, TokenSymbol: "ETH",
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestZkSyncAdapterServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewZkSyncAdapter(map[int64]string{3: server.URL}, 2*time.Second, zap.NewNop())
	_, _, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 3, TokenSymbol: "ETH",
	})
	assert.Error(t, err)
}
