package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
chains:
  - chainId: 1
    name: mainnet
    family: evm
    endpoint: "https://rpc.example"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Aggregator.MaxConcurrentFetches)
	assert.Equal(t, int64(15000), cfg.Aggregator.SlotTimeoutMs)
	assert.Equal(t, int64(10000), cfg.RpcClient.CallTimeoutMs)
	assert.Equal(t, "config/makers.yaml", cfg.Registry.File)
	assert.Equal(t, "data/wealths.db", cfg.Storage.Path)
}

func TestLoadConfigExplicitValuesKept(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: ":9090"
logging:
  level: debug
aggregator:
  maxConcurrentFetches: 3
  slotTimeoutMs: 2000
chains:
  - chainId: 3
    name: zksync
    family: zksync
    endpoint: "https://api.zksync.io/api/v0.2"
dydx:
  endpoint: "https://api.dydx.exchange"
  credentials:
    - makerAddress: "0xABC"
      apiKey: key
      apiSecret: secret
      passphrase: phrase
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Aggregator.MaxConcurrentFetches)
	assert.Equal(t, int64(2000), cfg.Aggregator.SlotTimeoutMs)
	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "zksync", cfg.Chains[0].Family)
	require.Len(t, cfg.Dydx.Credentials, 1)
	assert.Equal(t, "0xABC", cfg.Dydx.Credentials[0].MakerAddress)
}

func TestLoadConfigDuplicateChainID(t *testing.T) {
	path := writeConfigFile(t, `
chains:
  - chainId: 1
    name: mainnet
    family: evm
  - chainId: 1
    name: mainnet-copy
    family: evm
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate chainId")
}

func TestLoadConfigInvalidChainID(t *testing.T) {
	path := writeConfigFile(t, `
chains:
  - chainId: 0
    name: broken
    family: evm
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
