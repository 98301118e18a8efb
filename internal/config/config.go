package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Registry   RegistryConfig   `yaml:"registry"`
	Storage    StorageConfig    `yaml:"storage"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	RpcClient  RpcClientConfig  `yaml:"rpcClient"`
	Chains     []ChainConfig    `yaml:"chains"`
	Dydx       DydxConfig       `yaml:"dydx"`
	Starknet   StarknetConfig   `yaml:"starknet"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// RegistryConfig points at the maker pair registry file.
type RegistryConfig struct {
	File string `yaml:"file"`
}

// StorageConfig holds the persistence configuration.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AggregatorConfig bounds the balance fan-out.
type AggregatorConfig struct {
	MaxConcurrentFetches int   `yaml:"maxConcurrentFetches"`
	SlotTimeoutMs        int64 `yaml:"slotTimeoutMs"`
}

// RpcClientConfig holds configuration shared by the node RPC clients.
type RpcClientConfig struct {
	CallTimeoutMs int64 `yaml:"callTimeoutMs"`
	RateLimit     int   `yaml:"rateLimit"`
	BurstLimit    int   `yaml:"burstLimit"`
}

// ChainConfig describes one network: its internal chain ID, display name,
// chain family and query endpoint (node RPC URL for the EVM family, REST base
// URL for the L2 families). A chain without an endpoint resolves every slot
// to "no value".
type ChainConfig struct {
	ChainID  int64  `yaml:"chainId"`
	Name     string `yaml:"name"`
	Family   string `yaml:"family"`
	Endpoint string `yaml:"endpoint"`
}

// DydxCredential is the per-maker API credential required before any Dydx
// balance call.
type DydxCredential struct {
	MakerAddress string `yaml:"makerAddress"`
	APIKey       string `yaml:"apiKey"`
	APISecret    string `yaml:"apiSecret"`
	Passphrase   string `yaml:"passphrase"`
}

// DydxConfig holds the Dydx exchange configuration.
type DydxConfig struct {
	Endpoint    string           `yaml:"endpoint"`
	Credentials []DydxCredential `yaml:"credentials"`
}

// StarknetAccount maps an L1 maker address to its Starknet account address.
type StarknetAccount struct {
	MakerAddress    string `yaml:"makerAddress"`
	StarknetAddress string `yaml:"starknetAddress"`
}

// StarknetConfig holds the Starknet account mapping.
type StarknetConfig struct {
	Accounts []StarknetAccount `yaml:"accounts"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Aggregator.MaxConcurrentFetches <= 0 {
		cfg.Aggregator.MaxConcurrentFetches = 10
		logrus.Infof("Aggregator.MaxConcurrentFetches not set, defaulting to %d", cfg.Aggregator.MaxConcurrentFetches)
	}
	if cfg.Aggregator.SlotTimeoutMs <= 0 {
		cfg.Aggregator.SlotTimeoutMs = 15000
		logrus.Infof("Aggregator.SlotTimeoutMs not set, defaulting to %d ms", cfg.Aggregator.SlotTimeoutMs)
	}
	if cfg.RpcClient.CallTimeoutMs <= 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 10
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 5
	}
	if cfg.Registry.File == "" {
		cfg.Registry.File = "config/makers.yaml"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/wealths.db"
	}

	seen := make(map[int64]bool, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		if chain.ChainID <= 0 {
			return nil, fmt.Errorf("chain %q has invalid chainId %d", chain.Name, chain.ChainID)
		}
		if seen[chain.ChainID] {
			return nil, fmt.Errorf("duplicate chainId %d in chains section", chain.ChainID)
		}
		seen[chain.ChainID] = true
		if chain.Endpoint == "" {
			logrus.Warnf("Chain %q (chainId %d) has no endpoint configured; its balances will resolve to no value", chain.Name, chain.ChainID)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
