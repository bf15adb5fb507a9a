// Package rpc (format.go) provides the hex parsing helpers shared by the
// formatter and the builder. Ethereum JSON-RPC encodes every quantity as a
// "0x"-prefixed hex string.
package rpc

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseHexUint64 converts a hex-encoded string (with or without "0x" prefix) to uint64.
// Used for gas limits, nonces and block numbers.
//
// Examples:
//   - "0x5208" -> 21000
//   - "0x0" -> 0
//   - "" -> 0 (empty string treated as zero)
func ParseHexUint64(hex string) (uint64, error) {
	val, err := ParseHexBigInt(hex)
	if err != nil {
		return 0, err
	}
	if !val.IsUint64() {
		return 0, fmt.Errorf("value overflows uint64: %s", hex)
	}
	return val.Uint64(), nil
}

// ParseHexBigInt converts a hex-encoded string to *big.Int for values that may
// exceed uint64 range (wei amounts).
//
// Examples:
//   - "0xde0b6b3a7640000" -> 1000000000000000000
//   - "0x" -> 0
func ParseHexBigInt(hex string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if digits == "" {
		return big.NewInt(0), nil
	}

	val := new(big.Int)
	if _, ok := val.SetString(digits, 16); !ok || val.Sign() < 0 {
		return nil, fmt.Errorf("invalid hex: %s", hex)
	}
	return val, nil
}

// IsHex reports whether s carries a "0x" prefix.
func IsHex(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
