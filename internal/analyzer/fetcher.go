package analyzer

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/evm-tx-analyzer/internal/config"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

// DefaultTraceTimeout is the tracer timeout hint sent to the node.
const DefaultTraceTimeout = "60s"

// Fetcher retrieves a transaction and its call trace from one endpoint.
type Fetcher struct {
	traceTimeout string
	log          logrus.FieldLogger
}

func NewFetcher(traceTimeout string, log logrus.FieldLogger) *Fetcher {
	if traceTimeout == "" {
		traceTimeout = DefaultTraceTimeout
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Fetcher{traceTimeout: traceTimeout, log: log.WithField("component", "fetcher")}
}

// Fetch issues the trace and lookup calls concurrently against endpoint.
// Both must succeed; when both fail the trace failure is reported. Every
// returned error is an *Error.
func (f *Fetcher) Fetch(ctx context.Context, endpoint config.Endpoint, txHash string) (*rpc.Transaction, *rpc.RawCallTrace, error) {
	// The binding is rebuilt for every request.
	client := rpc.NewClient(rpc.ClientConfig{
		Name:    endpoint.Name,
		URL:     endpoint.URL,
		Timeout: endpoint.Timeout,
		Logger:  f.log,
	})

	var (
		tx       *rpc.Transaction
		frame    *rpc.RawCallTrace
		traceErr error
		txErr    error
	)

	// Neither call cancels the other; both results are needed to pick the
	// error to report.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		frame, _, traceErr = client.TraceTransaction(gctx, txHash, f.traceTimeout)
		return nil
	})
	g.Go(func() error {
		tx, txErr = client.TransactionByHash(gctx, txHash)
		return nil
	})
	_ = g.Wait()

	log := f.log.WithFields(logrus.Fields{"endpoint": endpoint.Name, "tx": txHash})

	if traceErr != nil {
		log.WithError(traceErr).Debug("trace call failed")
		return nil, nil, classifyTraceError(traceErr)
	}
	if txErr != nil {
		log.WithError(txErr).Debug("transaction lookup failed")
		return nil, nil, classifyLookupError(txErr)
	}

	log.Debug("fetched transaction and trace")
	return tx, frame, nil
}

func classifyTraceError(err error) *Error {
	var rpcErr *rpc.RPCError
	switch {
	case errors.Is(err, rpc.ErrNullResult):
		return &Error{Kind: TraceUnavailable, Key: i18n.CantGetTraceData, Err: err}
	case errors.As(err, &rpcErr):
		return &Error{Kind: TraceUnavailable, Key: i18n.TraceAPIError, Detail: rpcErr.Message, Err: err}
	case errors.Is(err, rpc.ErrMalformedResult):
		return newError(ProcessingError, i18n.ProcessingError, err)
	default:
		return newError(TransportError, i18n.TraceAPIError, err)
	}
}

func classifyLookupError(err error) *Error {
	var rpcErr *rpc.RPCError
	switch {
	case errors.Is(err, rpc.ErrNullResult):
		return &Error{Kind: TransactionUnavailable, Key: i18n.CantGetTxInfo, Err: err}
	case errors.As(err, &rpcErr):
		return &Error{Kind: TransactionUnavailable, Key: i18n.TxAPIError, Detail: rpcErr.Message, Err: err}
	case errors.Is(err, rpc.ErrMalformedResult):
		return newError(ProcessingError, i18n.ProcessingError, err)
	default:
		return newError(TransportError, i18n.TxAPIError, err)
	}
}
