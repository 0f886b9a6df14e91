package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringSlice_MixedTypes(t *testing.T) {
	var f FlexibleStringSlice
	require.NoError(t, json.Unmarshal([]byte(`["alice", 123456789, "42"]`), &f))
	assert.Equal(t, FlexibleStringSlice{"alice", "123456789", "42"}, f)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, int64(1), cfg.Chains.Ethereum.ChainID)
	assert.Equal(t, int64(56), cfg.Chains.BSC.ChainID)
	assert.Equal(t, "ETH", cfg.Chains.Ethereum.Currency)
	assert.Equal(t, "BNB", cfg.Chains.BSC.Currency)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Zero(t, cfg.Session.TTL, "pending prompts never expire by default")
	assert.False(t, cfg.Bot.ExposeErrors)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("MONGO_URI", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, 15*time.Second, cfg.BalanceTimeout())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"telegram": {"token": "from-file", "allow_from": [1001, "bob"]},
		"chains": {"ethereum": {"rpc": "http://file-eth"}},
		"store": {"driver": "memory"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("ETHEREUM_RPC_URL", "http://env-eth")
	t.Setenv("BSC_RPC_URL", "http://env-bsc")
	t.Setenv("BSC_CHAIN_ID", "97")
	t.Setenv("MONGO_URI", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, FlexibleStringSlice{"1001", "bob"}, cfg.Telegram.AllowFrom)
	assert.Equal(t, "http://env-eth", cfg.Chains.Ethereum.RPC)
	assert.Equal(t, "http://env-bsc", cfg.Chains.BSC.RPC)
	assert.Equal(t, int64(97), cfg.Chains.BSC.ChainID)
	assert.Equal(t, int64(1), cfg.Chains.Ethereum.ChainID)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
}

func TestLoadConfig_MongoURISelectsMongo(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("WALLETBOT_STORE_DRIVER", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			mutate:  func(c *Config) {},
			wantErr: "telegram token",
		},
		{
			name: "mongo without uri",
			mutate: func(c *Config) {
				c.Telegram.Token = "t"
				c.Store.Driver = StoreMongo
			},
			wantErr: "MONGO_URI",
		},
		{
			name: "redis without url",
			mutate: func(c *Config) {
				c.Telegram.Token = "t"
				c.Store.Driver = StoreMemory
				c.Session.Backend = SessionRedis
			},
			wantErr: "REDIS_URL",
		},
		{
			name: "unknown driver",
			mutate: func(c *Config) {
				c.Telegram.Token = "t"
				c.Store.Driver = "postgres"
			},
			wantErr: "unknown store driver",
		},
		{
			name: "valid",
			mutate: func(c *Config) {
				c.Telegram.Token = "t"
				c.Store.Driver = StoreSQLite
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Telegram.Token = "saved"
	require.NoError(t, SaveConfig(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.Telegram.Token)
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "wallets.db"), ExpandHome("~/wallets.db"))
	assert.Equal(t, "/tmp/x.db", ExpandHome("/tmp/x.db"))
	assert.Equal(t, "", ExpandHome(""))
}
