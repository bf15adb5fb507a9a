package tree

import (
	"html/template"
	"io"
	"strings"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
)

// Each element is a <details> block, so the browser keeps expand state per
// node and a click on a nested <summary> only toggles its own <details>.
const nodeTemplate = `{{define "node"}}<div class="trace-item" id="trace-{{.ID}}">
<details{{if .Expanded}} open{{end}}>
<summary class="trace-item-header"><span class="trace-item-toggle" data-collapsed="{{collapsed}}" data-expanded="{{expanded}}"></span> <span class="trace-item-function">{{.Header.Type}} → {{if .Header.IsCreation}}<span class="trace-item-address">{{.Header.Target}}</span>{{else}}<span class="trace-item-address" title="{{.Header.Target}}">{{short .Header.Target}}</span>{{end}}{{with .Header.Value}}<span class="trace-item-value"> ({{.}} ETH)</span>{{end}}{{with .Header.Gas}}<span class="trace-item-gas"> [Gas: {{.}}]</span>{{end}}</span></summary>
<div class="trace-item-content">{{range .Details}}
<div class="trace-item-detail">{{.Label}}: {{.Value}}</div>{{end}}{{if .Children}}
<div class="trace-item-children">{{range .Children}}{{template "node" .}}{{end}}</div>{{end}}
</div>
</details>
</div>
{{end}}{{template "node" .}}`

var htmlTemplate = template.Must(template.New("trace").Funcs(template.FuncMap{
	"collapsed": func() string { return GlyphCollapsed },
	"expanded":  func() string { return GlyphExpanded },
	"short":     format.ShortenAddress,
}).Parse(nodeTemplate))

// WriteHTML renders the whole tree, hidden subtrees included.
func WriteHTML(w io.Writer, t *Tree) error {
	if t.Root == nil {
		return nil
	}
	return htmlTemplate.Execute(w, t.Root)
}

// HTML renders the tree for embedding in a page template.
func HTML(t *Tree) (template.HTML, error) {
	var b strings.Builder
	if err := WriteHTML(&b, t); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
