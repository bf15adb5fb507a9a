package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/config"
	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/output"
	"github.com/dmagro/evm-tx-analyzer/internal/tree"
)

const replHelp = `Commands:
  <id>, t <id>     toggle the call with that id (e.g. 0.1.2)
  e, expand        expand every call
  c, collapse      collapse every call
  lang <en|zh>     switch display language
  a <tx-hash>      analyze another transaction on the same endpoint
  p, print         print the current view again
  h, help          show this help
  q, quit          exit`

var errQuit = errors.New("quit")

// repl holds one terminal view: the latest result, its tree with the
// user's expand state, and the error banner.
type repl struct {
	in       io.Reader
	out      io.Writer
	catalog  *i18n.Catalog
	loc      i18n.Localizer
	session  *analyzer.Session
	endpoint config.Endpoint

	banner analyzer.Banner
	res    *analyzer.Result
	tr     *tree.Tree
}

type outcome struct {
	res *analyzer.Result
	err error
}

// analyze runs one analysis synchronously and applies its outcome.
func (r *repl) analyze(ctx context.Context, txHash string) error {
	res, err := r.session.Analyze(ctx, analyzer.Request{Endpoint: r.endpoint, TxHash: txHash})
	return r.apply(outcome{res: res, err: err})
}

// apply swaps in a finished analysis. Stale results are dropped.
func (r *repl) apply(o outcome) error {
	if errors.Is(o.err, analyzer.ErrStaleResult) {
		return nil
	}
	if o.err != nil {
		r.banner.Show(o.err)
		r.res, r.tr = nil, nil
		return o.err
	}

	r.banner.Hide()
	r.res = o.res
	r.tr = o.res.Tree(r.loc)
	return nil
}

func (r *repl) render() error {
	output.RenderBanner(r.out, &r.banner, r.loc)
	if r.res == nil {
		return nil
	}
	return output.RenderTerminal(r.out, r.res, r.tr, r.loc)
}

func (r *repl) renderTree() error {
	if r.tr == nil {
		return r.render()
	}
	fmt.Fprintln(r.out)
	return output.RenderTree(r.out, r.tr)
}

// run reads commands until quit, EOF or ctx is done. New analyses run in the
// background so a later request can supersede one still in flight.
func (r *repl) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make(chan outcome)
	r.prompt()

	for {
		select {
		case <-ctx.Done():
			r.session.Cancel()
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := r.handle(ctx, line, results)
			if errors.Is(err, errQuit) {
				r.session.Cancel()
				return nil
			}
			if err != nil {
				fmt.Fprintf(r.out, "%s %v\n", format.Red("✗"), err)
			}
			r.prompt()

		case o := <-results:
			if errors.Is(o.err, analyzer.ErrStaleResult) {
				continue
			}
			_ = r.apply(o)
			if err := r.render(); err != nil {
				return err
			}
			r.prompt()
		}
	}
}

func (r *repl) prompt() {
	fmt.Fprint(r.out, "> ")
}

func (r *repl) handle(ctx context.Context, line string, results chan<- outcome) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "q", "quit", "exit":
		return errQuit

	case "h", "help":
		fmt.Fprintln(r.out, replHelp)
		return nil

	case "p", "print":
		return r.render()

	case "e", "expand", "c", "collapse":
		if r.tr == nil {
			return fmt.Errorf("no call trace to %s", cmd)
		}
		r.tr.ExpandAll(cmd == "e" || cmd == "expand")
		return r.renderTree()

	case "t", "toggle":
		if len(args) != 1 {
			return fmt.Errorf("usage: t <id>")
		}
		return r.toggle(args[0])

	case "lang":
		if len(args) != 1 {
			return fmt.Errorf("usage: lang <%s>", r.languages())
		}
		return r.switchLanguage(i18n.Language(args[0]))

	case "a", "analyze":
		if len(args) != 1 {
			return fmt.Errorf("usage: a <tx-hash>")
		}
		output.RenderLoading(r.out, r.loc)
		go func(txHash string) {
			res, err := r.session.Analyze(ctx, analyzer.Request{Endpoint: r.endpoint, TxHash: txHash})
			select {
			case results <- outcome{res: res, err: err}:
			case <-ctx.Done():
			}
		}(args[0])
		return nil

	default:
		if r.tr != nil && r.tr.Find(cmd) != nil {
			return r.toggle(cmd)
		}
		return fmt.Errorf("unknown command %q (h for help)", cmd)
	}
}

func (r *repl) toggle(id string) error {
	if r.tr == nil {
		return fmt.Errorf("no call trace loaded")
	}
	if _, err := r.tr.Toggle(id); err != nil {
		return err
	}
	return r.renderTree()
}

// switchLanguage relabels the open view in place. Expand state and the
// banner's error survive the switch.
func (r *repl) switchLanguage(lang i18n.Language) error {
	if !r.catalog.Supports(lang) {
		return fmt.Errorf("unsupported language %q (supported: %s)", lang, r.languages())
	}

	r.loc = r.catalog.Localizer(lang)
	if r.tr != nil {
		r.tr.Relocalize(r.loc)
	}
	return r.render()
}

func (r *repl) languages() string {
	langs := r.catalog.Languages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = string(l)
	}
	return strings.Join(names, "|")
}
