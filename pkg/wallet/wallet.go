package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/sipeed/walletbot/pkg/logger"
)

// DefaultEntropyBits yields a 12-word mnemonic.
const DefaultEntropyBits = 128

// Generator creates BIP-39 / BIP-32 wallets for EVM chains.
type Generator struct {
	entropyBits int
}

// NewGenerator creates a generator producing 12-word mnemonics
func NewGenerator() *Generator {
	return &Generator{entropyBits: DefaultEntropyBits}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy size
// (128 to 256 bits, multiple of 32).
func NewGeneratorWithEntropy(bits int) *Generator {
	return &Generator{entropyBits: bits}
}

// GenerateRandomWallet creates a new mnemonic and derives the key at path.
// An empty path means m/44'/60'/0'/0/0.
func (g *Generator) GenerateRandomWallet(path string) (*KeyMaterial, error) {
	entropy, err := bip39.NewEntropy(g.entropyBits)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}

	km, err := g.FromMnemonic(mnemonic, path)
	if err != nil {
		return nil, err
	}

	logger.DebugCF("wallet", "Generated wallet", map[string]any{
		"address": km.Address.Hex(),
		"path":    km.Path,
	})
	return km, nil
}

// FromMnemonic derives the key at path from an existing mnemonic.
func (g *Generator) FromMnemonic(mnemonic, path string) (*KeyMaterial, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	derivation := accounts.DefaultBaseDerivationPath
	if path != "" {
		parsed, err := accounts.ParseDerivationPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDerivationPath, err)
		}
		derivation = parsed
	}

	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
	}
	for _, index := range derivation {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
		}
	}

	ecPriv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
	}
	privateKey, err := crypto.ToECDSA(ecPriv.Serialize())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
	}

	return &KeyMaterial{
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(privateKey)),
		Mnemonic:   mnemonic,
		Path:       derivation.String(),
	}, nil
}

// DeriveFromPrivateKey returns the address controlled by a hex private key
// (with or without 0x prefix).
func (g *Generator) DeriveFromPrivateKey(privateKeyHex string) (*KeyMaterial, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return &KeyMaterial{
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(privateKey)),
	}, nil
}
