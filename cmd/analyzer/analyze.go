package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/output"
)

type analyzeOptions struct {
	rpcURL      string
	endpoint    string
	lang        string
	format      string
	expandAll   bool
	interactive bool
}

func analyzeCmd(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [tx-hash]",
		Short: "Fetch a transaction and render its call trace",
		Long: `Fetch the transaction and its callTracer trace in parallel, then print the
transaction information, the function signature and the call tree.

Only the root of the tree is expanded. Use --expand-all to print every call,
or --interactive to toggle calls by id afterwards.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var txHash string
			if len(args) == 1 {
				txHash = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAnalyze(ctx, global, opts, txHash, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.rpcURL, "rpc", "", "JSON-RPC endpoint URL (overrides --endpoint)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Configured endpoint name (default: defaults.endpoint)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Display language (en, zh)")
	cmd.Flags().StringVar(&opts.format, "format", "terminal", "Output format: terminal, json")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "Expand every call in the tree")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Keep the tree open and toggle calls by id")

	return cmd
}

func runAnalyze(ctx context.Context, global *globalOptions, opts *analyzeOptions, txHash string, in io.Reader, out io.Writer) error {
	if opts.format != "terminal" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (expected terminal or json)", opts.format)
	}
	if opts.interactive && opts.format == "json" {
		return fmt.Errorf("--interactive cannot be combined with --format json")
	}

	cfg, err := global.load()
	if err != nil {
		return err
	}
	log, err := global.logger(cfg)
	if err != nil {
		return err
	}

	catalog, err := i18n.Load()
	if err != nil {
		return err
	}
	lang := i18n.Language(cfg.Defaults.Language)
	if opts.lang != "" {
		lang = i18n.Language(opts.lang)
	}
	if !catalog.Supports(lang) {
		return fmt.Errorf("unsupported language %q (supported: %v)", lang, catalog.Languages())
	}
	loc := catalog.Localizer(lang)

	ep, err := resolveEndpoint(cfg, opts.rpcURL, opts.endpoint)
	if err != nil {
		return err
	}

	a := analyzer.New(analyzer.OptionsFromConfig(cfg.Defaults), log)
	req := analyzer.Request{Endpoint: ep, TxHash: txHash}

	if opts.format == "json" {
		format.DisableColors()
		res, err := a.Analyze(ctx, req)
		if err != nil {
			if werr := output.WriteJSON(out, output.NewJSONErrorReport(err, loc)); werr != nil {
				return werr
			}
			return err
		}
		tr := res.Tree(loc)
		if tr != nil && opts.expandAll {
			tr.ExpandAll(true)
		}
		return output.WriteJSON(out, output.NewJSONReport(res, tr, loc))
	}

	if !format.IsTerminal() {
		format.DisableColors()
	}

	r := &repl{
		in:       in,
		out:      out,
		catalog:  catalog,
		loc:      loc,
		session:  analyzer.NewSession(a),
		endpoint: ep,
	}

	output.RenderLoading(os.Stderr, loc)
	analyzeErr := r.analyze(ctx, txHash)
	if r.tr != nil && opts.expandAll {
		r.tr.ExpandAll(true)
	}
	if err := r.render(); err != nil {
		return err
	}

	if opts.interactive {
		return r.run(ctx)
	}
	return analyzeErr
}
