package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Chains   ChainsConfig   `json:"chains"`
	Store    StoreConfig    `json:"store"`
	Session  SessionConfig  `json:"session"`
	Bot      BotConfig      `json:"bot"`
	Gateway  GatewayConfig  `json:"gateway"`
	Log      LogConfig      `json:"log"`
	mu       sync.RWMutex
}

type TelegramConfig struct {
	Token     string              `json:"token" env:"TELEGRAM_BOT_TOKEN"`
	Proxy     string              `json:"proxy" env:"TELEGRAM_PROXY"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"TELEGRAM_ALLOW_FROM"`
	// Outbound messages per second across all chats; 0 disables limiting.
	SendRate  float64 `json:"send_rate" env:"TELEGRAM_SEND_RATE"`
	SendBurst int     `json:"send_burst" env:"TELEGRAM_SEND_BURST"`
}

// EVMChain describes one EVM-compatible network the bot queries.
type EVMChain struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	ChainID  int64  `json:"chain_id"`
	RPC      string `json:"rpc"`
	Currency string `json:"currency"`
	Decimals int32  `json:"decimals"`
	Explorer string `json:"explorer,omitempty"`
}

type ChainsConfig struct {
	Ethereum EVMChain `json:"ethereum"`
	BSC      EVMChain `json:"bsc"`
}

// envChain carries the env-overridable subset of EVMChain. EVMChain itself
// stays tag-free so both chains can share it.
type envChain struct {
	RPC     string `env:"RPC_URL"`
	ChainID int64  `env:"CHAIN_ID"`
}

type StoreConfig struct {
	Driver         string        `json:"driver" env:"WALLETBOT_STORE_DRIVER"`
	SQLitePath     string        `json:"sqlite_path" env:"WALLETBOT_SQLITE_PATH"`
	MongoURI       string        `json:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase  string        `json:"mongo_database" env:"MONGO_DATABASE"`
	ConnectTimeout time.Duration `json:"connect_timeout" env:"WALLETBOT_STORE_CONNECT_TIMEOUT"`
}

type SessionConfig struct {
	Backend  string        `json:"backend" env:"WALLETBOT_SESSION_BACKEND"`
	RedisURL string        `json:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `json:"ttl" env:"WALLETBOT_SESSION_TTL"`
}

type BotConfig struct {
	// ExposeErrors shows raw RPC error text to users instead of a generic message.
	ExposeErrors          bool   `json:"expose_errors" env:"WALLETBOT_EXPOSE_ERRORS"`
	BalanceTimeoutSeconds int    `json:"balance_timeout_seconds" env:"WALLETBOT_BALANCE_TIMEOUT_SECONDS"`
	TimeLayout            string `json:"time_layout" env:"WALLETBOT_TIME_LAYOUT"`
}

type GatewayConfig struct {
	Enabled bool   `json:"enabled" env:"WALLETBOT_GATEWAY_ENABLED"`
	Host    string `json:"host" env:"WALLETBOT_GATEWAY_HOST"`
	Port    int    `json:"port" env:"WALLETBOT_GATEWAY_PORT"`
}

type LogConfig struct {
	Level string `json:"level" env:"WALLETBOT_LOG_LEVEL"`
	JSON  bool   `json:"json" env:"WALLETBOT_LOG_JSON"`
}

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:     "",
			AllowFrom: FlexibleStringSlice{},
			SendRate:  25,
			SendBurst: 5,
		},
		Chains: ChainsConfig{
			Ethereum: EVMChain{
				Name:     "Ethereum",
				Label:    "ETH (ERC-20)",
				ChainID:  1,
				RPC:      "",
				Currency: "ETH",
				Decimals: 18,
				Explorer: "https://etherscan.io",
			},
			BSC: EVMChain{
				Name:     "BNB Smart Chain",
				Label:    "BSC (BEP-20)",
				ChainID:  56,
				RPC:      "",
				Currency: "BNB",
				Decimals: 18,
				Explorer: "https://bscscan.com",
			},
		},
		Store: StoreConfig{
			Driver:         "",
			SQLitePath:     "~/.walletbot/wallets.db",
			MongoDatabase:  "walletbot",
			ConnectTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend: SessionMemory,
			TTL:     0,
		},
		Bot: BotConfig{
			ExposeErrors:          false,
			BalanceTimeoutSeconds: 15,
			TimeLayout:            "2006-01-02 15:04:05 MST",
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    18790,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// LoadConfig reads the JSON config at path (a missing file is not an error),
// loads a .env file from the working directory when present and finally
// applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	// .env is optional; real environment variables take precedence over it.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}

	for prefix, chain := range map[string]*EVMChain{
		"ETHEREUM_": &cfg.Chains.Ethereum,
		"BSC_":      &cfg.Chains.BSC,
	} {
		overlay := envChain{RPC: chain.RPC, ChainID: chain.ChainID}
		if err := env.ParseWithOptions(&overlay, env.Options{Prefix: prefix}); err != nil {
			return err
		}
		chain.RPC = overlay.RPC
		chain.ChainID = overlay.ChainID
	}
	return nil
}

// applyDefaults fills in values that depend on other settings.
func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		if c.Store.MongoURI != "" {
			c.Store.Driver = StoreMongo
		} else {
			c.Store.Driver = StoreSQLite
		}
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	if c.Store.ConnectTimeout <= 0 {
		c.Store.ConnectTimeout = 10 * time.Second
	}
	if c.Session.Backend == "" {
		c.Session.Backend = SessionMemory
	}
	c.Session.Backend = strings.ToLower(c.Session.Backend)
	for _, chain := range []*EVMChain{&c.Chains.Ethereum, &c.Chains.BSC} {
		if chain.Decimals == 0 {
			chain.Decimals = 18
		}
	}
	if c.Bot.BalanceTimeoutSeconds <= 0 {
		c.Bot.BalanceTimeoutSeconds = 15
	}
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (set TELEGRAM_BOT_TOKEN)")
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store driver %q requires MONGO_URI", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session backend %q requires REDIS_URL", c.Session.Backend)
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) SQLitePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ExpandHome(c.Store.SQLitePath)
}

// BalanceTimeout bounds a single balance lookup across both chains.
func (c *Config) BalanceTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.Bot.BalanceTimeoutSeconds) * time.Second
}

// ChainList returns the configured chains in display order.
func (c *Config) ChainList() []EVMChain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return []EVMChain{c.Chains.Ethereum, c.Chains.BSC}
}

func ExpandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
