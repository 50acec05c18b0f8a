package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "obralink-client", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://127.0.0.1:8545", cfg.Network.RPCURL)
	assert.Equal(t, int64(1337), cfg.Network.ExpectedChainID)
	assert.Equal(t, "localhost:5001", cfg.Store.APIURL)
	assert.Equal(t, "https://ipfs.io/ipfs/", cfg.Store.GatewayURL)
	assert.Equal(t, uint64(2000), cfg.Sync.ScanChunkSize)
	assert.Equal(t, uint64(0), cfg.Sync.GenesisBlock)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OBRALINK_NETWORK_RPC_URL", "http://besu.internal:8545")
	t.Setenv("OBRALINK_NETWORK_EXPECTED_CHAIN_ID", "2018")
	t.Setenv("OBRALINK_SYNC_SCAN_CHUNK_SIZE", "500")
	t.Setenv("OBRALINK_CONTRACTS_PROJECTS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://besu.internal:8545", cfg.Network.RPCURL)
	assert.Equal(t, int64(2018), cfg.Network.ExpectedChainID)
	assert.Equal(t, uint64(500), cfg.Sync.ScanChunkSize)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Contracts.Projects)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects malformed contract address", func(t *testing.T) {
		t.Setenv("OBRALINK_CONTRACTS_TENDERS", "not-an-address")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contracts.tenders")
	})

	t.Run("rejects negative chain id", func(t *testing.T) {
		t.Setenv("OBRALINK_NETWORK_EXPECTED_CHAIN_ID", "-5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected_chain_id")
	})

	t.Run("rejects gateway without trailing slash", func(t *testing.T) {
		t.Setenv("OBRALINK_STORE_GATEWAY_URL", "https://ipfs.io/ipfs")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trailing slash")
	})

	t.Run("production requires contract addresses", func(t *testing.T) {
		t.Setenv("OBRALINK_APP_ENV", "production")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contract addresses")
	})
}
