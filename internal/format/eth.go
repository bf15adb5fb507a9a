// =============================================================================
// FILE: internal/format/eth.go
// ROLE: Amount and gas formatting for the trace tree and signature panel
// =============================================================================
//
// Wei amounts routinely exceed 2^64 (anything above ~18.4 ether), so they are
// parsed into *big.Int and scaled with shopspring/decimal. float64 is never
// used on this path: 0.1 ether must print as "0.1", not "0.09999999999".
//
//   trace frame "value": "0xde0b6b3a7640000" ──▶ big.Int 10^18 ──▶ "1"
//   transaction "value": "1500000000000000000" ──▶ big.Int      ──▶ "1.5"
// =============================================================================

package format

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

// EtherDecimals is the exponent between wei and ether.
const EtherDecimals = 18

// ErrFieldAbsent is returned for optional fields that were not present in the
// node's reply. Callers treat it as "no information", never as zero.
var ErrFieldAbsent = errors.New("field absent")

// ParseWei parses a wei quantity given either as a 0x-prefixed hex string or
// as a plain decimal string.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if rpc.IsHex(s) {
		return rpc.ParseHexBigInt(s)
	}
	if s == "" {
		return nil, fmt.Errorf("invalid wei amount: empty")
	}

	wei, ok := new(big.Int).SetString(s, 10)
	if !ok || wei.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount: %s", s)
	}
	return wei, nil
}

// WeiToEther renders wei as an ether amount without trailing zeros.
func WeiToEther(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// FormatEth converts a hex or decimal wei string into an ether string.
//
// Examples:
//   - "0x0" -> "0"
//   - "0" -> "0"
//   - "0xde0b6b3a7640000" -> "1"
//   - "1500000000000000000" -> "1.5"
func FormatEth(s string) (string, error) {
	wei, err := ParseWei(s)
	if err != nil {
		return "", err
	}
	return WeiToEther(wei), nil
}

// FormatGas parses a hex gas field. A nil field yields ErrFieldAbsent.
func FormatGas(s *string) (uint64, error) {
	if s == nil {
		return 0, ErrFieldAbsent
	}
	return rpc.ParseHexUint64(*s)
}

// FormatNumber adds thousand separators to n.
//
//   - 21000 -> "21,000"
//   - 123 -> "123"
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatGwei renders a wei amount in gwei with up to 9 decimals.
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "—"
	}
	return decimal.NewFromBigInt(wei, -9).String() + " gwei"
}
