package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"wealth_aggregator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func openTestRepository(t *testing.T) (*sqliteWealthRepository, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wealths.db")
	repo, err := NewSQLiteWealthRepository(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	impl := repo.(*sqliteWealthRepository)
	return impl, impl.db
}

func TestSaveWealthsOneRowPerSlot(t *testing.T) {
	repo, db := openTestRepository(t)

	chains := []*entity.WealthChain{
		{
			MakerAddress: "0xABC", ChainID: 1, ChainName: "mainnet",
			Slots: []*entity.BalanceSlot{
				{TokenAddress: "", TokenSymbol: "ETH", Decimals: 18, Value: strPtr("1.5")},
				{TokenAddress: "0xUSDC", TokenSymbol: "USDC", Decimals: 6, Value: strPtr("42")},
			},
		},
		{
			MakerAddress: "0xABC", ChainID: 137, ChainName: "polygon",
			Slots: []*entity.BalanceSlot{
				{TokenAddress: "", TokenSymbol: "ETH", Decimals: 18, Value: strPtr("0")},
				{TokenAddress: "0xTOKEN", TokenSymbol: "USDC", Decimals: 6, Value: strPtr("7.25")},
			},
		},
	}

	require.NoError(t, repo.SaveWealths(context.Background(), chains))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM maker_wealths`).Scan(&count))
	assert.Equal(t, 4, count, "two requests with two slots each must produce four rows")

	var value string
	var decimals int
	require.NoError(t, db.QueryRow(
		`SELECT value, decimals FROM maker_wealths WHERE chain_id = 137 AND token_address = '0xTOKEN'`,
	).Scan(&value, &decimals))
	assert.Equal(t, "7.25", value)
	assert.Equal(t, 6, decimals)
}

func TestSaveWealthsSkipsUnresolvedSlots(t *testing.T) {
	repo, db := openTestRepository(t)

	chains := []*entity.WealthChain{{
		MakerAddress: "0xABC", ChainID: 1, ChainName: "mainnet",
		Slots: []*entity.BalanceSlot{
			{TokenAddress: "", TokenSymbol: "ETH", Decimals: 18, Value: strPtr("0")},
			{TokenAddress: "0xFAILED", TokenSymbol: "USDC", Decimals: 6, Value: nil},
		},
	}}

	require.NoError(t, repo.SaveWealths(context.Background(), chains))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM maker_wealths`).Scan(&count))
	assert.Equal(t, 1, count, "unresolved slots are skipped, fetched zeros are written")
}

func TestSaveWealthsEmptyBatch(t *testing.T) {
	repo, db := openTestRepository(t)

	require.NoError(t, repo.SaveWealths(context.Background(), nil))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM maker_wealths`).Scan(&count))
	assert.Equal(t, 0, count)
}
