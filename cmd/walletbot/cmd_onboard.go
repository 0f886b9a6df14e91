package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sipeed/walletbot/pkg/config"
)

var onboardForce bool

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Write a default config file",
	RunE:  onboard,
}

func init() {
	onboardCmd.Flags().BoolVar(&onboardForce, "force", false, "overwrite an existing config")
}

func onboard(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !onboardForce {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Println("Run 'walletbot onboard --force' to overwrite it.")
		return nil
	}

	if err := config.SaveConfig(configPath, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Printf("Created config at %s\n", configPath)

	fmt.Printf("%s walletbot is ready!\n", logo)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set your bot token in", configPath, "or export TELEGRAM_BOT_TOKEN")
	fmt.Println("     Get one from https://t.me/BotFather")
	fmt.Println("  2. Set RPC endpoints (chains.ethereum.rpc / chains.bsc.rpc,")
	fmt.Println("     or ETHEREUM_RPC_URL / BSC_RPC_URL)")
	fmt.Println("  3. Optional: MONGO_URI for MongoDB storage, REDIS_URL for shared prompts")
	fmt.Println("  4. Run: walletbot run")
	return nil
}
