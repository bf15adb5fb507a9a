package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
	"github.com/dmagro/evm-tx-analyzer/internal/trace"
)

var (
	catalog = i18n.MustLoad()
	en      = catalog.Localizer(i18n.English)
	zh      = catalog.Localizer(i18n.Chinese)
)

func strPtr(s string) *string { return &s }

func testResult(t *testing.T) *analyzer.Result {
	t.Helper()

	tx := &rpc.Transaction{
		Hash:  "0x01",
		From:  "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		Value: "0xde0b6b3a7640000",
		Gas:   "0x5208",
		Nonce: "0x1",
		Input: "0x",
	}

	node, err := trace.Build(&rpc.RawCallTrace{
		Type:  strPtr("CREATE"),
		Value: strPtr("0xde0b6b3a7640000"),
		Calls: []rpc.RawCallTrace{{To: strPtr("0xdef"), Input: strPtr("0x1234")}},
	}, trace.Options{})
	require.NoError(t, err)

	return &analyzer.Result{
		ID:          "req-1",
		Endpoint:    "test",
		TxHash:      "0x01",
		Transaction: tx,
		Info:        analyzer.TransactionInfo(tx),
		Signature:   analyzer.DecodeSignature(tx),
		Trace:       node,
	}
}

func TestRenderTerminal(t *testing.T) {
	format.DisableColors()
	res := testResult(t)

	var buf bytes.Buffer
	require.NoError(t, RenderTerminal(&buf, res, res.Tree(en), en))
	out := buf.String()

	assert.Contains(t, out, "EVM Transaction Analyzer")
	assert.Contains(t, out, "Transaction Information")
	assert.Contains(t, out, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Contains(t, out, "ETH Transfer")
	assert.Contains(t, out, "Amount: 1 ETH")
	assert.Contains(t, out, "Call Trace")
	assert.Contains(t, out, "[0] − CREATE → Create Contract (1 ETH)")
	assert.Contains(t, out, "[0.0] + CALL → 0xdef")
	assert.NotContains(t, out, "0x1234", "collapsed content is hidden")
}

func TestRenderTerminalTraceFailure(t *testing.T) {
	format.DisableColors()
	res := testResult(t)
	res.Trace = nil
	res.TraceErr = &analyzer.Error{Kind: analyzer.ProcessingError, Key: i18n.ProcessingError, Detail: "call trace exceeds maximum depth"}

	var buf bytes.Buffer
	require.NoError(t, RenderTerminal(&buf, res, nil, zh))
	out := buf.String()

	assert.Contains(t, out, zh.T(i18n.ETHTransfer), "the signature panel still renders")
	assert.Contains(t, out, zh.T(i18n.ProcessingError)+": call trace exceeds maximum depth")
}

func TestRenderBanner(t *testing.T) {
	format.DisableColors()

	var b analyzer.Banner
	var buf bytes.Buffer
	RenderBanner(&buf, &b, en)
	assert.Empty(t, buf.String())

	b.Show(&analyzer.Error{Kind: analyzer.TransactionUnavailable, Key: i18n.CantGetTxInfo})
	RenderBanner(&buf, &b, en)
	assert.Contains(t, buf.String(), "Cannot get transaction information")

	buf.Reset()
	RenderBanner(&buf, &b, zh)
	assert.Contains(t, buf.String(), zh.T(i18n.CantGetTxInfo))
}

func TestJSONReport(t *testing.T) {
	res := testResult(t)
	tr := res.Tree(zh)
	_, err := tr.Toggle("0.0")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewJSONReport(res, tr, zh)))

	var got struct {
		Metadata struct {
			RequestID string `json:"requestId"`
			Language  string `json:"language"`
		} `json:"metadata"`
		Transaction []JSONField `json:"transaction"`
		Signature   struct {
			Kind   string   `json:"kind"`
			Amount string   `json:"amount"`
			Lines  []string `json:"lines"`
		} `json:"signature"`
		Trace struct {
			Target   string `json:"target"`
			Value    string `json:"value"`
			Expanded bool   `json:"expanded"`
			Children []struct {
				ID       string      `json:"id"`
				Expanded bool        `json:"expanded"`
				Details  []JSONField `json:"details"`
			} `json:"children"`
		} `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "req-1", got.Metadata.RequestID)
	assert.Equal(t, "zh", got.Metadata.Language)
	require.NotEmpty(t, got.Transaction)
	assert.Equal(t, i18n.HashLabel, got.Transaction[0].Key)

	assert.Equal(t, "transfer", got.Signature.Kind)
	assert.Equal(t, "1", got.Signature.Amount)
	assert.Len(t, got.Signature.Lines, 2)

	assert.Equal(t, "创建合约", got.Trace.Target)
	assert.Equal(t, "1", got.Trace.Value)
	assert.True(t, got.Trace.Expanded)
	require.Len(t, got.Trace.Children, 1)
	assert.Equal(t, "0.0", got.Trace.Children[0].ID)
	assert.True(t, got.Trace.Children[0].Expanded)
	require.Len(t, got.Trace.Children[0].Details, 1)
	assert.Equal(t, i18n.InputData, got.Trace.Children[0].Details[0].Key)
	assert.Equal(t, "0x1234", got.Trace.Children[0].Details[0].Value)
}

func TestJSONErrorReport(t *testing.T) {
	_, err := analyzer.ValidateInput("", "0x12")
	report := NewJSONErrorReport(err, en)

	require.NotNil(t, report.Error)
	assert.Equal(t, analyzer.InputMissing, report.Error.Kind)
	assert.Equal(t, i18n.RPCURLEmpty, report.Error.Key)
	assert.Equal(t, "RPC URL cannot be empty", report.Error.Message)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))
	assert.Contains(t, buf.String(), `"kind": "input_missing"`)
	assert.Contains(t, buf.String(), `"errorKey": "rpcUrlEmpty"`)
}
