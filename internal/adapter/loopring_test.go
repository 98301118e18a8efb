package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wealth_aggregator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoopringAdapterTwoStepLookup(t *testing.T) {
	var accountLookups int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/account":
			atomic.AddInt64(&accountLookups, 1)
			assert.Equal(t, "0xABC", r.URL.Query().Get("owner"))
			fmt.Fprint(w, `{"accountId":4321,"owner":"0xABC"}`)
		case "/api/v3/user/balances":
			assert.Equal(t, "4321", r.URL.Query().Get("accountId"))
			fmt.Fprint(w, `[{"tokenId":0,"total":"5000000000000000000","locked":"0"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := NewLoopringAdapter(map[int64]string{9: server.URL}, 2*time.Second, zap.NewNop())
	assert.Equal(t, entity.FamilyLoopring, adapter.Family())

	query := entity.BalanceQuery{MakerAddress: "0xABC", ChainID: 9, TokenSymbol: "ETH"}

	raw, found, err := adapter.FetchRawBalance(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5000000000000000000", raw)

	// Second call reuses the cached account id.
	_, _, err = adapter.FetchRawBalance(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&accountLookups))
}

func TestLoopringAdapterTokenSlotNotSupported(t *testing.T) {
	adapter := NewLoopringAdapter(map[int64]string{9: "http://unused"}, 2*time.Second, zap.NewNop())
	_, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 9, TokenAddress: "0xTOKEN", TokenSymbol: "USDC",
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoopringAdapterUnknownAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accountId":0}`)
	}))
	defer server.Close()

	adapter := NewLoopringAdapter(map[int64]string{9: server.URL}, 2*time.Second, zap.NewNop())
	_, _, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xNOBODY", ChainID: 9, TokenSymbol: "ETH",
	})
	assert.Error(t, err)
}
