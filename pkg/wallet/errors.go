package wallet

import "errors"

var (
	// ErrInvalidPrivateKey is returned when a private key is not 32 bytes of hex
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidDerivationPath is returned when a BIP-32 path cannot be parsed
	ErrInvalidDerivationPath = errors.New("invalid derivation path")

	// ErrInvalidMnemonic is returned when a mnemonic fails BIP-39 validation
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrKeyDerivationFailed is returned when a child key cannot be derived
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
