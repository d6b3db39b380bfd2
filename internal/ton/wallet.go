// Package ton generates and validates TON wallets for the panel.
package ton

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton/wallet"
)

// GeneratedWallet is freshly derived wallet material: a 24-word
// mnemonic, the ed25519 key pair and the V4R2 address in workchain 0.
type GeneratedWallet struct {
	Address    string `json:"address"`
	Mnemonics  string `json:"mnemonics"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Workchain  int    `json:"workchain"`
	Version    string `json:"version"`
}

// GenerateWallet derives a new V4R2 wallet offline. No liteserver
// connection is needed for address derivation.
func GenerateWallet() (*GeneratedWallet, error) {
	words := wallet.NewSeed()

	w, err := wallet.FromSeed(nil, words, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("derive wallet from seed: %w", err)
	}

	priv := w.PrivateKey()
	pub := priv.Public().(ed25519.PublicKey)

	return &GeneratedWallet{
		Address:    w.WalletAddress().String(),
		Mnemonics:  strings.Join(words, " "),
		PublicKey:  hex.EncodeToString(pub),
		PrivateKey: hex.EncodeToString(priv.Seed()),
		Workchain:  0,
		Version:    "v4r2",
	}, nil
}

// ValidateAddress accepts both raw (0:<hex>) and friendly (EQ.../UQ...)
// forms.
func ValidateAddress(addr string) error {
	if strings.Contains(addr, ":") {
		_, err := address.ParseRawAddr(addr)
		if err != nil {
			return fmt.Errorf("invalid raw TON address: %w", err)
		}
		return nil
	}
	if _, err := address.ParseAddr(addr); err != nil {
		return fmt.Errorf("invalid TON address: %w", err)
	}
	return nil
}
