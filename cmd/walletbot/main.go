package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

const logo = "👛"

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:           "walletbot",
	Short:         "Telegram bot for ETH and BSC wallets",
	Long:          `walletbot creates named Ethereum / BNB Smart Chain wallets per Telegram chat and looks up their balances.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the walletbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s walletbot %s\n", logo, version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.walletbot/config.json)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, balanceCmd, genwalletCmd, onboardCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".walletbot", "config.json")
}

// loadConfig reads the config and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.JSON); err != nil {
		return nil, err
	}
	if isDebug {
		logger.SetLevel(logger.DEBUG)
	}
	return cfg, nil
}
