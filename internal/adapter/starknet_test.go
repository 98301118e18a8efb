package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wealth_aggregator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStarknetAdapterBalanceCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/feeder_gateway/call_contract", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), starknetBalanceOfSelector)
		// 1.5 ETH as a Uint256 (low, high) pair.
		fmt.Fprint(w, `{"result":["0x14d1120d7b160000","0x0"]}`)
	}))
	defer server.Close()

	accounts := map[string]string{"0xabc": "0x0123"}
	adapter := NewStarknetAdapter(map[int64]string{4: server.URL}, accounts, 2*time.Second, zap.NewNop())
	assert.Equal(t, entity.FamilyStarknet, adapter.Family())

	raw, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 4, TokenSymbol: "ETH",
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1500000000000000000", raw)
}

func TestStarknetAdapterNoAccountMapping(t *testing.T) {
	adapter := NewStarknetAdapter(map[int64]string{4: "http://unused"}, map[string]string{}, 2*time.Second, zap.NewNop())
	_, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 4, TokenSymbol: "ETH",
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStarknetAdapterUnknownNetwork(t *testing.T) {
	adapter := NewStarknetAdapter(nil, map[string]string{"0xabc": "0x1"}, 2*time.Second, zap.NewNop())
	_, found, err := adapter.FetchRawBalance(context.Background(), entity.BalanceQuery{
		MakerAddress: "0xABC", ChainID: 999, TokenSymbol: "ETH",
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCombineUint256(t *testing.T) {
	v, err := combineUint256("0x1", "0x0")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	// high<<128 + low
	v, err = combineUint256("0x0", "0x1")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211456", v.String())

	_, err = combineUint256("zzz", "0x0")
	assert.Error(t, err)
}
