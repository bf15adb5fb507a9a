package analyzer

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

// InfoField is one row of the transaction-info panel. When ValueKey is set
// the value is itself a message (for example "Pending").
type InfoField struct {
	Key      i18n.Key `json:"key"`
	Value    string   `json:"value,omitempty"`
	ValueKey i18n.Key `json:"valueKey,omitempty"`
}

// Render returns the localized label, without any trailing colon, and value.
func (f InfoField) Render(loc i18n.Localizer) (label, value string) {
	value = f.Value
	if f.ValueKey != "" {
		value = loc.T(f.ValueKey)
	}
	return strings.TrimSuffix(loc.T(f.Key), ":"), value
}

// TransactionInfo lays out the lookup result. Fields the node returned in an
// unexpected shape are shown verbatim.
func TransactionInfo(tx *rpc.Transaction) []InfoField {
	if tx == nil {
		return nil
	}

	fields := []InfoField{
		{Key: i18n.HashLabel, Value: tx.Hash},
		{Key: i18n.From, Value: checksum(tx.From)},
	}

	if tx.To != nil {
		fields = append(fields, InfoField{Key: i18n.To, Value: checksum(*tx.To)})
	} else {
		fields = append(fields, InfoField{Key: i18n.To, ValueKey: i18n.CreateContract})
	}

	value := tx.Value
	if eth, err := format.FormatEth(tx.Value); err == nil {
		value = eth + " ETH"
	}
	fields = append(fields, InfoField{Key: i18n.Value, Value: value})

	gas := tx.Gas
	if n, err := rpc.ParseHexUint64(tx.Gas); err == nil {
		gas = format.FormatNumber(n)
	}
	fields = append(fields, InfoField{Key: i18n.Gas, Value: gas})

	if tx.GasPrice != "" {
		price := tx.GasPrice
		if wei, err := rpc.ParseHexBigInt(tx.GasPrice); err == nil {
			price = format.FormatGwei(wei)
		}
		fields = append(fields, InfoField{Key: i18n.GasPrice, Value: price})
	}

	nonce := tx.Nonce
	if n, err := rpc.ParseHexUint64(tx.Nonce); err == nil {
		nonce = strconv.FormatUint(n, 10)
	}
	fields = append(fields, InfoField{Key: i18n.Nonce, Value: nonce})

	if tx.BlockNumber == nil {
		fields = append(fields, InfoField{Key: i18n.Block, ValueKey: i18n.Pending})
	} else {
		block := *tx.BlockNumber
		if n, err := rpc.ParseHexUint64(block); err == nil {
			block = format.FormatNumber(n)
		}
		fields = append(fields, InfoField{Key: i18n.Block, Value: block})
	}

	return fields
}

func checksum(addr string) string {
	if !common.IsHexAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}
