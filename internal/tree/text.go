package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
)

const indentUnit = "  "

// HeaderText renders the header line without glyph or colour, e.g.
// "CALL → 0xdef (1 ETH) [Gas: 21000]".
func HeaderText(h Header) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s", h.Type, h.Target)
	if h.Value != nil {
		fmt.Fprintf(&b, " (%s ETH)", *h.Value)
	}
	if h.Gas != nil {
		fmt.Fprintf(&b, " [Gas: %d]", *h.Gas)
	}
	return b.String()
}

func headerColored(h Header) string {
	target := h.Target
	if h.IsCreation {
		target = format.Magenta(target)
	} else {
		target = format.Bold(target)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s", format.ColorCallType(h.Type), target)
	if h.Value != nil {
		b.WriteString(format.Green(fmt.Sprintf(" (%s ETH)", *h.Value)))
	}
	if h.Gas != nil {
		b.WriteString(format.Dim(fmt.Sprintf(" [Gas: %d]", *h.Gas)))
	}
	return b.String()
}

// WriteText prints the visible part of t, one header per element, with the
// content region of expanded elements indented beneath it.
func WriteText(w io.Writer, t *Tree) error {
	var err error
	t.Walk(func(e *Element) bool {
		if err != nil {
			return false
		}

		indent := strings.Repeat(indentUnit, e.Depth)
		_, err = fmt.Fprintf(w, "%s%s %s %s\n", indent, format.Dim("["+e.ID+"]"), e.Glyph(), headerColored(e.Header))
		if err != nil || !e.expanded {
			return false
		}

		for _, d := range e.Details {
			if _, err = fmt.Fprintf(w, "%s%s%s: %s\n", indent, indentUnit+indentUnit, format.Cyan(d.Label), d.Value); err != nil {
				return false
			}
		}
		return true
	})
	return err
}
