package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateRandomWallet(t *testing.T) {
	g := NewGenerator()

	km, err := g.GenerateRandomWallet("")
	require.NoError(t, err)

	assert.Len(t, strings.Fields(km.Mnemonic), 12)
	assert.Equal(t, "m/44'/60'/0'/0/0", km.Path)
	assert.True(t, strings.HasPrefix(km.PrivateKey, "0x"))
	assert.Len(t, km.PrivateKey, 66)

	// The address must be the one controlled by the returned private key.
	derived, err := g.DeriveFromPrivateKey(km.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, km.Address, derived.Address)
}

func TestGenerateRandomWallet_Unique(t *testing.T) {
	g := NewGenerator()
	a, err := g.GenerateRandomWallet("")
	require.NoError(t, err)
	b, err := g.GenerateRandomWallet("")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.Mnemonic, b.Mnemonic)
}

func TestGenerateRandomWallet_EntropySize(t *testing.T) {
	km, err := NewGeneratorWithEntropy(256).GenerateRandomWallet("")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(km.Mnemonic), 24)
}

func TestFromMnemonic_KnownVector(t *testing.T) {
	g := NewGenerator()

	km, err := g.FromMnemonic(testMnemonic, "m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", km.Address.Hex())

	// Empty path uses the same default.
	def, err := g.FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, km.Address, def.Address)
	assert.Equal(t, km.PrivateKey, def.PrivateKey)

	other, err := g.FromMnemonic(testMnemonic, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, km.Address, other.Address)
}

func TestFromMnemonic_Errors(t *testing.T) {
	g := NewGenerator()

	_, err := g.FromMnemonic("not a real mnemonic", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)

	_, err = g.FromMnemonic(testMnemonic, "m/not/a/path")
	assert.ErrorIs(t, err, ErrInvalidDerivationPath)
}

func TestDeriveFromPrivateKey(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name string
		key  string
	}{
		{name: "with prefix", key: "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"},
		{name: "without prefix", key: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := g.DeriveFromPrivateKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", km.Address.Hex())
			assert.Empty(t, km.Mnemonic)
		})
	}

	_, err := g.DeriveFromPrivateKey("0x1234")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}
