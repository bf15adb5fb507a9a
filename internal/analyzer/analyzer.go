// Package analyzer runs one analysis end to end: validate input, fetch the
// transaction and its call trace, then build the signature panel, the
// transaction-info panel and the display tree.
//
// Panels are computed independently. A failure while building one is
// recorded on that panel and the others still render; only fetch-phase
// failures abort the analysis.
package analyzer

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dmagro/evm-tx-analyzer/internal/config"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
	"github.com/dmagro/evm-tx-analyzer/internal/trace"
	"github.com/dmagro/evm-tx-analyzer/internal/tree"
)

type Options struct {
	TraceTimeout     string
	MaxDepth         int
	MaxDisplayLength int
}

// OptionsFromConfig maps the defaults section onto Options.
func OptionsFromConfig(d config.Defaults) Options {
	return Options{
		TraceTimeout:     d.TraceTimeout,
		MaxDepth:         d.MaxDepth,
		MaxDisplayLength: d.MaxDisplayLength,
	}
}

// Request is one analysis. ID is assigned when empty.
type Request struct {
	ID       string
	Endpoint config.Endpoint
	TxHash   string
}

// Result holds every panel of a completed analysis. Trace is nil when
// TraceErr is set.
type Result struct {
	ID          string             `json:"requestId"`
	Endpoint    string             `json:"endpoint"`
	TxHash      string             `json:"txHash"`
	Transaction *rpc.Transaction   `json:"-"`
	Info        []InfoField        `json:"info"`
	Signature   *Signature         `json:"signature"`
	Trace       *trace.DisplayNode `json:"-"`
	TraceErr    *Error             `json:"-"`
}

// Tree renders the call trace with the root expanded. It returns nil when
// the trace could not be built.
func (r *Result) Tree(loc i18n.Localizer) *tree.Tree {
	if r.Trace == nil {
		return nil
	}
	return tree.New(r.Trace, loc)
}

type Analyzer struct {
	fetcher *Fetcher
	opts    Options
	log     logrus.FieldLogger
}

func New(opts Options, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = trace.DefaultMaxDepth
	}

	return &Analyzer{
		fetcher: NewFetcher(opts.TraceTimeout, log),
		opts:    opts,
		log:     log.WithField("component", "analyzer"),
	}
}

// Analyze runs req. The returned error is always an *Error and means nothing
// was fetched; panel failures are reported on the Result instead.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log := a.log.WithField("request", req.ID)

	txHash, err := ValidateInput(req.Endpoint.URL, req.TxHash)
	if err != nil {
		AnalysesTotal.WithLabelValues(InputMissing.String()).Inc()
		return nil, err
	}

	log.WithFields(logrus.Fields{"endpoint": req.Endpoint.Name, "tx": txHash}).Info("analyzing transaction")

	tx, frame, err := a.fetcher.Fetch(ctx, req.Endpoint, txHash)
	if err != nil {
		log.WithError(err).Warn("analysis failed")
		AnalysesTotal.WithLabelValues(AsError(err).Kind.String()).Inc()
		return nil, err
	}

	res := &Result{
		ID:          req.ID,
		Endpoint:    req.Endpoint.Name,
		TxHash:      txHash,
		Transaction: tx,
		Info:        TransactionInfo(tx),
		Signature:   DecodeSignature(tx),
	}

	// The creation label is filled per language by the tree renderer.
	node, err := trace.Build(frame, trace.Options{
		MaxDepth:         a.opts.MaxDepth,
		MaxDisplayLength: a.opts.MaxDisplayLength,
	})
	if err != nil {
		log.WithError(err).Warn("failed to build call tree")
		res.TraceErr = newError(ProcessingError, i18n.ProcessingError, err)
		AnalysesTotal.WithLabelValues("partial").Inc()
	} else {
		res.Trace = node
		log.WithField("calls", node.Count()).Debug("built call tree")
		AnalysesTotal.WithLabelValues("ok").Inc()
	}

	return res, nil
}
