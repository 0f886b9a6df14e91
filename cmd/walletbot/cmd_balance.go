package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/sipeed/walletbot/pkg/flow"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Print the ETH and BNB balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	if !flow.IsAddress(args[0]) {
		return fmt.Errorf("invalid address %q", args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.BalanceTimeout())
	defer cancel()

	chains := connectChains(ctx, cfg)
	defer chains.Close()

	address := common.HexToAddress(args[0])
	fmt.Printf("Balances for %s:\n", address.Hex())
	for _, chain := range cfg.ChainList() {
		info, err := chains.GetBalance(ctx, chain.ChainID, address)
		if err != nil {
			fmt.Printf("  %-16s error: %v\n", chain.Label, err)
			continue
		}
		fmt.Printf("  %-16s %s %s\n", chain.Label, info.FormattedBalance(), info.TokenName)
	}
	return nil
}
