package blockchain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
)

const dialTimeout = 10 * time.Second

// Client manages connections to multiple EVM blockchains
type Client struct {
	mu         sync.RWMutex
	rpcClients map[int64]*ethclient.Client
	chains     map[int64]*config.EVMChain
}

// NewClient creates a new blockchain client
func NewClient() *Client {
	return &Client{
		rpcClients: make(map[int64]*ethclient.Client),
		chains:     make(map[int64]*config.EVMChain),
	}
}

// AddChain adds a new EVM chain configuration and connects to it.
// When chain.ChainID is non-zero the node must report the same id.
func (c *Client) AddChain(ctx context.Context, chain *config.EVMChain) error {
	if chain.RPC == "" {
		return fmt.Errorf("%w: %s", ErrNoRPCURL, chain.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if already connected
	if _, exists := c.rpcClients[chain.ChainID]; exists {
		logger.InfoCF("blockchain", "Chain already connected", map[string]any{
			"chain": chain.Name,
		})
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	// Connect to RPC
	client, err := ethclient.DialContext(dialCtx, chain.RPC)
	if err != nil {
		return fmt.Errorf("failed to connect to %s RPC: %w", chain.Name, err)
	}

	// Verify chain ID
	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to get chain ID for %s: %w", chain.Name, err)
	}

	if chain.ChainID != 0 && chainID.Int64() != chain.ChainID {
		client.Close()
		return fmt.Errorf("%w: expected %d, got %d", ErrChainIDMismatch, chain.ChainID, chainID.Int64())
	}

	stored := *chain
	stored.ChainID = chainID.Int64()
	c.rpcClients[stored.ChainID] = client
	c.chains[stored.ChainID] = &stored

	logger.InfoCF("blockchain", "Connected to chain", map[string]any{
		"name":    stored.Name,
		"chainId": stored.ChainID,
		"rpc":     stored.RPC,
	})

	return nil
}

// GetClient returns the RPC client for a specific chain
func (c *Client) GetClient(chainID int64) (*ethclient.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	client, ok := c.rpcClients[chainID]
	return client, ok
}

// GetChain returns chain configuration
func (c *Client) GetChain(chainID int64) (*config.EVMChain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chain, ok := c.chains[chainID]
	return chain, ok
}

// ListChains returns all connected chains ordered by chain id
func (c *Client) ListChains() []*config.EVMChain {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chains := make([]*config.EVMChain, 0, len(c.chains))
	for _, chain := range c.chains {
		chains = append(chains, chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainID < chains[j].ChainID })
	return chains
}

// Close closes all RPC connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for chainID, client := range c.rpcClients {
		client.Close()
		delete(c.rpcClients, chainID)
		logger.InfoCF("blockchain", "Disconnected from chain", map[string]any{
			"chainId": chainID,
		})
	}
}
