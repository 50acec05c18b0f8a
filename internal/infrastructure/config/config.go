// Package config loads client configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	App       AppConfig
	Network   NetworkConfig
	Contracts ContractsConfig
	Store     StoreConfig
	Sync      SyncConfig
	Log       LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// NetworkConfig holds ledger connection settings
type NetworkConfig struct {
	RPCURL             string // JSON-RPC endpoint of the ledger node
	ExpectedChainID    int64  // chain the client is built for
	KeystoreDir        string // directory holding encrypted key files
	KeystorePassphrase string // passphrase for signing (dev chains only)
}

// ContractsConfig holds the deployed contract addresses
type ContractsConfig struct {
	Projects       string
	Certifications string
	Tenders        string
}

// StoreConfig holds content store settings
type StoreConfig struct {
	APIURL     string // IPFS HTTP RPC endpoint
	GatewayURL string // public gateway prefix for resolving CIDs
}

// SyncConfig holds read-model synchronization settings
type SyncConfig struct {
	ScanChunkSize uint64 // block range per event-scan request
	GenesisBlock  uint64 // first block worth scanning
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with OBRALINK_ prefix (e.g. OBRALINK_NETWORK_RPC_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.obralink")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("OBRALINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Network: NetworkConfig{
			RPCURL:             v.GetString("network.rpc_url"),
			ExpectedChainID:    v.GetInt64("network.expected_chain_id"),
			KeystoreDir:        v.GetString("network.keystore_dir"),
			KeystorePassphrase: v.GetString("network.keystore_passphrase"),
		},
		Contracts: ContractsConfig{
			Projects:       v.GetString("contracts.projects"),
			Certifications: v.GetString("contracts.certifications"),
			Tenders:        v.GetString("contracts.tenders"),
		},
		Store: StoreConfig{
			APIURL:     v.GetString("store.api_url"),
			GatewayURL: v.GetString("store.gateway_url"),
		},
		Sync: SyncConfig{
			ScanChunkSize: v.GetUint64("sync.scan_chunk_size"),
			GenesisBlock:  v.GetUint64("sync.genesis_block"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "obralink-client"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Network.RPCURL == "" {
		cfg.Network.RPCURL = "http://127.0.0.1:8545"
	}
	if cfg.Network.ExpectedChainID == 0 {
		cfg.Network.ExpectedChainID = 1337 // local Besu network
	}
	if cfg.Network.KeystoreDir == "" {
		cfg.Network.KeystoreDir = "keystore"
	}
	if cfg.Store.APIURL == "" {
		cfg.Store.APIURL = "localhost:5001"
	}
	if cfg.Store.GatewayURL == "" {
		cfg.Store.GatewayURL = "https://ipfs.io/ipfs/"
	}
	if cfg.Sync.ScanChunkSize == 0 {
		// Keep chunks well under common provider range limits.
		cfg.Sync.ScanChunkSize = 2000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Network.ExpectedChainID <= 0 {
		return fmt.Errorf("network.expected_chain_id must be positive")
	}
	if c.Sync.ScanChunkSize == 0 {
		return fmt.Errorf("sync.scan_chunk_size must be positive")
	}
	for name, addr := range map[string]string{
		"contracts.projects":       c.Contracts.Projects,
		"contracts.certifications": c.Contracts.Certifications,
		"contracts.tenders":        c.Contracts.Tenders,
	} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("%s is not a valid hex address: %s", name, addr)
		}
	}
	if !strings.HasSuffix(c.Store.GatewayURL, "/") {
		return fmt.Errorf("store.gateway_url must end with a trailing slash")
	}
	if c.App.Env == "production" {
		if c.Contracts.Projects == "" || c.Contracts.Certifications == "" || c.Contracts.Tenders == "" {
			return fmt.Errorf("all contract addresses are required in production")
		}
	}
	return nil
}
