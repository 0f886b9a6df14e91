package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipeed/walletbot/pkg/wallet"
)

var (
	genPath  string
	genWords int
)

var genwalletCmd = &cobra.Command{
	Use:   "genwallet",
	Short: "Generate a wallet locally without storing it",
	RunE:  runGenwallet,
}

func init() {
	genwalletCmd.Flags().StringVar(&genPath, "path", "", "BIP-32 derivation path (default m/44'/60'/0'/0/0)")
	genwalletCmd.Flags().IntVar(&genWords, "words", 12, "mnemonic length: 12, 15, 18, 21 or 24")
}

func runGenwallet(cmd *cobra.Command, args []string) error {
	bits, ok := map[int]int{12: 128, 15: 160, 18: 192, 21: 224, 24: 256}[genWords]
	if !ok {
		return fmt.Errorf("unsupported mnemonic length %d", genWords)
	}

	km, err := wallet.NewGeneratorWithEntropy(bits).GenerateRandomWallet(genPath)
	if err != nil {
		return err
	}

	fmt.Printf("Address:     %s\n", km.Address.Hex())
	fmt.Printf("Private key: %s\n", km.PrivateKey)
	fmt.Printf("Mnemonic:    %s\n", km.Mnemonic)
	fmt.Printf("Path:        %s\n", km.Path)
	return nil
}
