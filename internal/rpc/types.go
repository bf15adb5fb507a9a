// =============================================================================
// FILE: internal/rpc/types.go
// ROLE: Wire vocabulary for the two JSON-RPC calls the analyzer makes
// =============================================================================
//
// Two methods are consumed from the node:
//
//   eth_getTransactionByHash [hash]                         -> Transaction
//   debug_traceTransaction   [hash, {tracer, timeout}]      -> RawCallTrace
//
// Both return hex strings for every numeric field. The types below keep the
// wire representation untouched; turning it into display strings is the job
// of internal/format and internal/trace.
//
// OPTIONAL FIELDS
// ===============
// Call-trace fields are pointers. A nil pointer means the key was absent (or
// null) in the node's reply, which is different from a present empty string.
// The builder relies on that distinction when it decides whether a frame is a
// contract creation or whether it should fall back to the "CALL" label.
// =============================================================================

package rpc

import "encoding/json"

// Request represents a JSON-RPC 2.0 request sent to an Ethereum node.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

// Response represents a JSON-RPC 2.0 response. Result stays raw until the
// caller knows which shape to expect; Error is nil on success.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// TraceConfig is the second parameter of debug_traceTransaction.
type TraceConfig struct {
	Tracer  string `json:"tracer"`
	Timeout string `json:"timeout,omitempty"`
}

// RawCallTrace is one frame of the callTracer output. Calls holds the nested
// internal calls in execution order.
//
// Example:
//
//	{
//	    "type":  "CALL",
//	    "from":  "0x1f9090aae28b8a3dceadf281b0f12828e676c326",
//	    "to":    "0x388c818ca8b9251b393131c08a736a67ccb19297",
//	    "value": "0x2386f26fc10000",
//	    "gas":   "0x5208",
//	    "input": "0x",
//	    "calls": [ ... ]
//	}
type RawCallTrace struct {
	Type         *string        `json:"type,omitempty"`
	From         *string        `json:"from,omitempty"`
	To           *string        `json:"to,omitempty"`
	Value        *string        `json:"value,omitempty"`
	Gas          *string        `json:"gas,omitempty"`
	GasUsed      *string        `json:"gasUsed,omitempty"`
	Input        *string        `json:"input,omitempty"`
	Output       *string        `json:"output,omitempty"`
	Error        *string        `json:"error,omitempty"`
	RevertReason *string        `json:"revertReason,omitempty"`
	Calls        []RawCallTrace `json:"calls,omitempty"`
}

// Transaction holds the eth_getTransactionByHash fields the analyzer shows.
// To is nil for contract-creation transactions; BlockNumber is nil while the
// transaction is pending.
type Transaction struct {
	Hash             string  `json:"hash"`
	From             string  `json:"from"`
	To               *string `json:"to"`
	Value            string  `json:"value"`
	Gas              string  `json:"gas"`
	GasPrice         string  `json:"gasPrice,omitempty"`
	Nonce            string  `json:"nonce"`
	Input            string  `json:"input"`
	BlockNumber      *string `json:"blockNumber"`
	TransactionIndex *string `json:"transactionIndex"`
}
