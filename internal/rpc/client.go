package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	MethodTraceTransaction  = "debug_traceTransaction"
	MethodTransactionByHash = "eth_getTransactionByHash"

	// CallTracer is the built-in geth tracer producing nested call frames.
	CallTracer = "callTracer"
)

// ErrNullResult is returned when the node answers with a null result, which
// both methods use for "unknown transaction".
var ErrNullResult = errors.New("null result")

// ErrMalformedResult wraps results that arrived but could not be decoded.
var ErrMalformedResult = errors.New("malformed result")

// ClientConfig configures a single endpoint binding.
type ClientConfig struct {
	Name    string
	URL     string
	Timeout time.Duration // 0 disables the local HTTP timeout
	Logger  logrus.FieldLogger
}

type Client struct {
	name       string
	url        string
	httpClient *http.Client
	log        logrus.FieldLogger
	nextID     atomic.Int64
}

func NewClient(cfg ClientConfig) *Client {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Client{
		name:       cfg.Name,
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithField("endpoint", cfg.Name),
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) URL() string { return c.url }

// Call executes one JSON-RPC request. Transport and HTTP failures are returned
// wrapped; a JSON-RPC error object is returned as *RPCError so callers can
// tell the two apart with errors.As.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (*Response, time.Duration, error) {
	if params == nil {
		params = []interface{}{}
	}

	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s request: %w", method, err)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, body)
	latency := time.Since(start)

	observeCall(c.name, method, err, latency)

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"latency": latency,
	}).WithError(err).Debug("rpc call finished")

	return resp, latency, err
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	return &resp, nil
}

// TraceTransaction calls debug_traceTransaction with the callTracer. timeout
// is a hint for the remote tracer (e.g. "60s"); it is not enforced locally.
func (c *Client) TraceTransaction(ctx context.Context, txHash, timeout string) (*RawCallTrace, json.RawMessage, error) {
	resp, _, err := c.Call(ctx, MethodTraceTransaction, txHash, TraceConfig{
		Tracer:  CallTracer,
		Timeout: timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	if isNull(resp.Result) {
		return nil, nil, ErrNullResult
	}

	var frame RawCallTrace
	if err := json.Unmarshal(resp.Result, &frame); err != nil {
		return nil, resp.Result, fmt.Errorf("%w: call trace: %v", ErrMalformedResult, err)
	}

	return &frame, resp.Result, nil
}

// TransactionByHash calls eth_getTransactionByHash.
func (c *Client) TransactionByHash(ctx context.Context, txHash string) (*Transaction, error) {
	resp, _, err := c.Call(ctx, MethodTransactionByHash, txHash)
	if err != nil {
		return nil, err
	}

	if isNull(resp.Result) {
		return nil, ErrNullResult
	}

	var tx Transaction
	if err := json.Unmarshal(resp.Result, &tx); err != nil {
		return nil, fmt.Errorf("%w: transaction: %v", ErrMalformedResult, err)
	}

	return &tx, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
