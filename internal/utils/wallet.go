package utils

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

const walletKeyLength = 64

// LoadWallet reads a 64-byte secret key from path.
func LoadWallet(path string) (solana.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewExecError(types.ErrInvalidWalletFormat, "failed to read wallet file", err)
	}

	return ParseWallet(data)
}

// ParseWallet accepts the solana-keygen JSON array format, the raw 64 bytes,
// or a base58 encoded secret key.
func ParseWallet(data []byte) (solana.PrivateKey, error) {
	var numbers []int
	if err := json.Unmarshal(data, &numbers); err == nil && len(numbers) == walletKeyLength {
		raw := make([]byte, walletKeyLength)
		for i, n := range numbers {
			if n < 0 || n > 255 {
				return nil, types.NewExecError(types.ErrInvalidWalletFormat, fmt.Sprintf("byte %d out of range: %d", i, n), nil)
			}
			raw[i] = byte(n)
		}
		return validKey(raw)
	}

	if len(data) == walletKeyLength {
		return validKey(data)
	}

	if key, err := solana.PrivateKeyFromBase58(strings.TrimSpace(string(data))); err == nil {
		return validKey(key)
	}

	return nil, types.NewExecError(types.ErrInvalidWalletFormat, "Invalid wallet file format", nil)
}

func validKey(raw []byte) (solana.PrivateKey, error) {
	if len(raw) != walletKeyLength {
		return nil, types.NewExecError(types.ErrInvalidWalletFormat, fmt.Sprintf("expected %d bytes, got %d", walletKeyLength, len(raw)), nil)
	}

	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, types.NewExecError(types.ErrInvalidWalletFormat, "secret key does not match its public key", nil)
	}

	return solana.PrivateKey(derived), nil
}
