package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

func TestDecodeSignature(t *testing.T) {
	tests := []struct {
		name     string
		tx       *rpc.Transaction
		wantKind SignatureKind
		wantEN   []string
	}{
		{
			name:     "plain transfer",
			tx:       &rpc.Transaction{Input: "0x", Value: "0xde0b6b3a7640000"},
			wantKind: SignatureTransfer,
			wantEN:   []string{"ETH Transfer", "Amount: 1 ETH"},
		},
		{
			name:     "empty input",
			tx:       &rpc.Transaction{Input: "", Value: "0x0"},
			wantKind: SignatureTransfer,
			wantEN:   []string{"ETH Transfer", "Amount: 0 ETH"},
		},
		{
			name:     "function call",
			tx:       &rpc.Transaction{Input: "0xA9059CBB00000001", Value: "0x0"},
			wantKind: SignatureFunction,
			wantEN: []string{
				"Function: 0xa9059cbb (Unrecognized function)",
				"Call Data:",
				"0xA9059CBB00000001",
			},
		},
		{
			name:     "not hex",
			tx:       &rpc.Transaction{Input: "0xzzzzzzzz00", Value: "0x0"},
			wantKind: SignatureUnparsed,
			wantEN:   []string{"Cannot parse function signature: 0xzzzzzzzz"},
		},
		{
			name:     "shorter than a selector",
			tx:       &rpc.Transaction{Input: "0x1234", Value: "0x0"},
			wantKind: SignatureUnparsed,
			wantEN:   []string{"Cannot parse function signature: 0x1234"},
		},
		{
			name:     "bad value",
			tx:       &rpc.Transaction{Input: "0x", Value: "lots"},
			wantKind: SignatureFailed,
			wantEN:   []string{"Cannot display function signature: invalid wei amount: lots"},
		},
		{
			name:     "no transaction",
			tx:       nil,
			wantKind: SignatureFailed,
			wantEN:   []string{"Cannot display function signature: no transaction"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := DecodeSignature(tt.tx)
			assert.Equal(t, tt.wantKind, sig.Kind)
			assert.Equal(t, tt.wantEN, sig.Lines(en))
		})
	}
}

func TestSignatureLinesLocalized(t *testing.T) {
	sig := DecodeSignature(&rpc.Transaction{Input: "0x", Value: "0x0"})
	lines := sig.Lines(zh)

	require.Len(t, lines, 2)
	assert.Equal(t, zh.T(i18n.ETHTransfer), lines[0])
	assert.Equal(t, zh.T(i18n.Amount)+": 0 ETH", lines[1])
}

func TestTransactionInfo(t *testing.T) {
	block := "0x10"
	to := "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	tx := &rpc.Transaction{
		Hash:        testHash,
		From:        "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		To:          &to,
		Value:       "0x16345785d8a0000",
		Gas:         "0x5208",
		GasPrice:    "0x3b9aca00",
		Nonce:       "0x2a",
		BlockNumber: &block,
	}

	rows := map[string]string{}
	for _, f := range TransactionInfo(tx) {
		label, value := f.Render(en)
		rows[label] = value
	}

	assert.Equal(t, map[string]string{
		"Transaction Hash": testHash,
		"From":             "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"To":               "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"Value":            "0.1 ETH",
		"Gas":              "21,000",
		"Gas Price":        "1 gwei",
		"Nonce":            "42",
		"Block":            "16",
	}, rows)
}

func TestTransactionInfoCreationAndPending(t *testing.T) {
	tx := &rpc.Transaction{Hash: testHash, From: "0x1", Value: "0x0", Gas: "bogus", Nonce: "0x0"}

	rows := map[string]string{}
	for _, f := range TransactionInfo(tx) {
		label, value := f.Render(zh)
		rows[label] = value
	}

	assert.Equal(t, zh.T(i18n.CreateContract), rows[zh.T(i18n.To)])
	assert.Equal(t, zh.T(i18n.Pending), rows[zh.T(i18n.Block)])
	assert.Equal(t, "bogus", rows[zh.T(i18n.Gas)], "unparsable values are shown verbatim")
	assert.Equal(t, "0x1", rows[zh.T(i18n.From)], "short addresses are not checksummed")
	assert.NotContains(t, rows, zh.T(i18n.GasPrice))

	assert.Nil(t, TransactionInfo(nil))
}
