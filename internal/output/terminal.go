package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/tree"
)

const rule = "═══════════════════════════════════════════════════════"

var headerFmt = color.New(color.FgCyan, color.Underline).SprintfFunc()

// RenderTerminal writes every panel of res. tr is the caller's tree so its
// expand state is what gets printed; nil means the trace panel failed.
func RenderTerminal(w io.Writer, res *analyzer.Result, tr *tree.Tree, loc i18n.Localizer) error {
	renderHeader(w, loc)
	renderTxInfo(w, res.Info, loc)
	renderSignature(w, res.Signature, loc)

	fmt.Fprintln(w, format.Bold(loc.T(i18n.TraceTitle)))
	fmt.Fprintln(w, rule)
	if tr == nil {
		msg := loc.T(i18n.ProcessingError)
		if res.TraceErr != nil {
			msg = res.TraceErr.Localize(loc)
		}
		fmt.Fprintf(w, "  %s %s\n\n", format.Red("✗"), msg)
		return nil
	}

	if err := RenderTree(w, tr); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// RenderTree writes the visible part of tr.
func RenderTree(w io.Writer, tr *tree.Tree) error {
	return tree.WriteText(w, tr)
}

// RenderBanner writes the error banner, if visible.
func RenderBanner(w io.Writer, b *analyzer.Banner, loc i18n.Localizer) {
	if !b.Visible() {
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", format.Red("✗"), format.Red(b.Render(loc)))
}

// RenderLoading writes the loading indicator line.
func RenderLoading(w io.Writer, loc i18n.Localizer) {
	fmt.Fprintln(w, format.Dim(loc.T(i18n.Loading)))
}

func renderHeader(w io.Writer, loc i18n.Localizer) {
	title := loc.T(i18n.AppTitle)
	fmt.Fprintln(w)
	fmt.Fprintln(w, format.Cyan("╭"+strings.Repeat("─", 55)+"╮"))
	fmt.Fprintf(w, "%s %s%s\n", format.Cyan("│"), format.PadRight(format.Bold(title), 54), format.Cyan("│"))
	fmt.Fprintln(w, format.Cyan("╰"+strings.Repeat("─", 55)+"╯"))
	fmt.Fprintln(w)
}

func renderTxInfo(w io.Writer, info []analyzer.InfoField, loc i18n.Localizer) {
	if len(info) == 0 {
		return
	}

	tbl := table.New(loc.T(i18n.TxInfoTitle), "")
	tbl.WithWriter(w)
	tbl.WithHeaderFormatter(headerFmt)
	tbl.WithFirstColumnFormatter(color.New(color.FgCyan).SprintfFunc())

	for _, f := range info {
		label, value := f.Render(loc)
		tbl.AddRow(label, value)
	}

	tbl.Print()
	fmt.Fprintln(w)
}

func renderSignature(w io.Writer, sig *analyzer.Signature, loc i18n.Localizer) {
	if sig == nil {
		return
	}

	lines := sig.Lines(loc)
	for i, line := range lines {
		switch {
		case i == 0 && sig.Kind >= analyzer.SignatureUnparsed:
			fmt.Fprintf(w, "  %s\n", format.Yellow(line))
		case i == 0:
			fmt.Fprintf(w, "  %s\n", format.Bold(line))
		default:
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintln(w)
}
