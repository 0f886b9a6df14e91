package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sipeed/walletbot/pkg/metrics"
)

var (
	// ErrChainNotConnected is returned when no RPC client exists for a chain id
	ErrChainNotConnected = errors.New("chain not connected")

	// ErrChainIDMismatch is returned when the node serves a different chain
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrNoRPCURL is returned when a chain has no RPC endpoint configured
	ErrNoRPCURL = errors.New("no RPC URL configured")
)

// GetNativeBalance gets native token balance for an address, in the
// chain's smallest unit.
func (c *Client) GetNativeBalance(ctx context.Context, chainID int64, address common.Address) (*big.Int, error) {
	label := strconv.FormatInt(chainID, 10)

	client, ok := c.GetClient(chainID)
	if !ok {
		metrics.RPCCallsTotal.WithLabelValues(label, "eth_getBalance", "not_connected").Inc()
		return nil, fmt.Errorf("%w: %d", ErrChainNotConnected, chainID)
	}

	start := time.Now()
	balance, err := client.BalanceAt(ctx, address, nil)
	metrics.RPCLatency.WithLabelValues(label, "eth_getBalance").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RPCCallsTotal.WithLabelValues(label, "eth_getBalance", "error").Inc()
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	metrics.RPCCallsTotal.WithLabelValues(label, "eth_getBalance", "ok").Inc()

	return balance, nil
}

// GetBalance gets the native balance together with chain metadata
func (c *Client) GetBalance(ctx context.Context, chainID int64, address common.Address) (*BalanceInfo, error) {
	chain, ok := c.GetChain(chainID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrChainNotConnected, chainID)
	}

	balance, err := c.GetNativeBalance(ctx, chainID, address)
	if err != nil {
		return nil, err
	}

	return &BalanceInfo{
		ChainID:   chainID,
		ChainName: chain.Name,
		Address:   address,
		Balance:   balance,
		TokenName: chain.Currency,
		Decimals:  chain.Decimals,
	}, nil
}

// BalanceInfo contains balance information
type BalanceInfo struct {
	ChainID   int64
	ChainName string
	Address   common.Address
	Balance   *big.Int
	TokenName string
	Decimals  int32
}

// FormattedBalance returns balance as a decimal string with 5 places
func (b *BalanceInfo) FormattedBalance() string {
	return FormatUnits(b.Balance, b.Decimals, 5)
}

// FormatUnits renders raw / 10^decimals rounded to places decimal digits
// (half away from zero). A nil raw value formats as zero.
func FormatUnits(raw *big.Int, decimals int32, places int) string {
	if raw == nil {
		raw = new(big.Int)
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(raw, divisor).FloatString(places)
}
