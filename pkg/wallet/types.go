package wallet

import (
	"github.com/ethereum/go-ethereum/common"
)

// KeyMaterial is a freshly generated or derived key. Mnemonic and Path are
// empty when the key was derived from a bare private key.
type KeyMaterial struct {
	Address    common.Address
	PrivateKey string // 0x-prefixed hex
	Mnemonic   string
	Path       string
}
