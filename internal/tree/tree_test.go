package tree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
	"github.com/dmagro/evm-tx-analyzer/internal/trace"
)

var catalog = i18n.MustLoad()

func buildTree(t *testing.T, js string, lang i18n.Language) *Tree {
	t.Helper()

	var raw rpc.RawCallTrace
	require.NoError(t, json.Unmarshal([]byte(js), &raw))

	loc := catalog.Localizer(lang)
	node, err := trace.Build(&raw, trace.Options{ContractCreationLabel: loc.T(i18n.CreateContract)})
	require.NoError(t, err)

	return New(node, loc)
}

const nestedTrace = `{
	"type": "CALL", "to": "0xroot", "gas": "0x5208", "input": "0xa9059cbb",
	"calls": [
		{"type": "STATICCALL", "to": "0xaaa", "output": "0x01",
		 "calls": [{"type": "CALL", "to": "0xccc"}]},
		{"type": "CREATE", "value": "0xde0b6b3a7640000"}
	]
}`

func TestNewExpandsOnlyRoot(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	assert.Equal(t, 4, tr.Len())
	assert.True(t, tr.Root.Expanded())
	assert.Equal(t, GlyphExpanded, tr.Root.Glyph())

	tr.Walk(func(e *Element) bool {
		if e != tr.Root {
			assert.False(t, e.Expanded(), e.ID)
			assert.Equal(t, GlyphCollapsed, e.Glyph(), e.ID)
		}
		return true
	})
}

func TestChildrenMaterializedWhileCollapsed(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	child := tr.Find("0.0")
	require.NotNil(t, child)
	assert.False(t, child.Expanded())
	require.Len(t, child.Children, 1)
	assert.Equal(t, "0xccc", child.Children[0].Header.Target)
	assert.Equal(t, "0.0.0", child.Children[0].ID)
	assert.Equal(t, 2, child.Children[0].Depth)
}

func TestCreateWithValueChildCollapsed(t *testing.T) {
	tr := buildTree(t, `{"type":"CREATE","calls":[{"to":"0xDEF","value":"0xDE0B6B3A7640000"}]}`, i18n.English)

	assert.Equal(t, "Create Contract", tr.Root.Header.Target)
	assert.True(t, tr.Root.Expanded())

	require.Len(t, tr.Root.Children, 1)
	child := tr.Root.Children[0]
	assert.Equal(t, "0xDEF", child.Header.Target)
	require.NotNil(t, child.Header.Value)
	assert.Equal(t, "1", *child.Header.Value)
	assert.False(t, child.Expanded())
}

func TestToggleChildDoesNotAffectParent(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	state, err := tr.Toggle("0.0")
	require.NoError(t, err)
	assert.True(t, state)

	assert.True(t, tr.Root.Expanded(), "parent state must not change")
	assert.True(t, tr.Find("0.0").Expanded())
	assert.False(t, tr.Find("0.1").Expanded(), "sibling state must not change")
	assert.False(t, tr.Find("0.0.0").Expanded(), "descendant state must not change")

	state, err = tr.Toggle("0.0.0")
	require.NoError(t, err)
	assert.True(t, state)
	assert.True(t, tr.Find("0.0").Expanded())
	assert.True(t, tr.Root.Expanded())

	state, err = tr.Toggle("0")
	require.NoError(t, err)
	assert.False(t, state)
	assert.True(t, tr.Find("0.0").Expanded(), "collapsing the root keeps descendant state")

	_, err = tr.Toggle("9.9")
	assert.Error(t, err)
}

func TestToggleSwapsGlyph(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)
	el := tr.Find("0.1")

	assert.Equal(t, GlyphCollapsed, el.Glyph())
	el.Toggle()
	assert.Equal(t, GlyphExpanded, el.Glyph())
	el.Toggle()
	assert.Equal(t, GlyphCollapsed, el.Glyph())
}

func TestVisible(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	ids := func() []string {
		var out []string
		for _, e := range tr.Visible() {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"0", "0.0", "0.1"}, ids())

	_, _ = tr.Toggle("0.0")
	assert.Equal(t, []string{"0", "0.0", "0.0.0", "0.1"}, ids())

	_, _ = tr.Toggle("0")
	assert.Equal(t, []string{"0"}, ids())

	tr.ExpandAll(true)
	assert.Len(t, tr.Visible(), 4)
}

func TestDetailsAreLocalized(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.Chinese)

	require.Len(t, tr.Root.Details, 1)
	assert.Equal(t, "输入数据", tr.Root.Details[0].Label)
	assert.Equal(t, "0xa9059cbb", tr.Root.Details[0].Value)
	assert.Equal(t, "创建合约", tr.Find("0.1").Header.Target)

	_, _ = tr.Toggle("0.1")
	tr.Relocalize(catalog.Localizer(i18n.English))

	assert.Equal(t, "Input Data", tr.Root.Details[0].Label)
	assert.Equal(t, "Output Data", tr.Find("0.0").Details[0].Label)
	assert.Equal(t, "Create Contract", tr.Find("0.1").Header.Target)
	assert.True(t, tr.Find("0.1").Expanded(), "relocalizing keeps expand state")
}

func TestHeaderText(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	assert.Equal(t, "CALL → 0xroot [Gas: 21000]", HeaderText(tr.Root.Header))
	assert.Equal(t, "CREATE → Create Contract (1 ETH)", HeaderText(tr.Find("0.1").Header))
}

func TestWriteText(t *testing.T) {
	format.DisableColors()
	tr := buildTree(t, nestedTrace, i18n.English)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, tr))

	want := strings.Join([]string{
		"[0] − CALL → 0xroot [Gas: 21000]",
		"    Input Data: 0xa9059cbb",
		"  [0.0] + STATICCALL → 0xaaa",
		"  [0.1] + CREATE → Create Contract (1 ETH)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteHTML(t *testing.T) {
	tr := buildTree(t, nestedTrace, i18n.English)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, tr))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "<details open>"), "only the root starts open")
	assert.Equal(t, 4, strings.Count(out, "<details"), "every node is materialized")
	assert.Contains(t, out, `id="trace-0.0.0"`)
	assert.Contains(t, out, "Input Data: 0xa9059cbb")
	assert.Contains(t, out, "[Gas: 21000]")
	assert.Contains(t, out, "(1 ETH)")
}

func TestWriteHTMLShortensAddress(t *testing.T) {
	addr := "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	tr := buildTree(t, `{"to":"`+addr+`","calls":[{"type":"CREATE"}]}`, i18n.English)

	html, err := HTML(tr)
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, `<span class="trace-item-address" title="`+addr+`">0xfb69...d359</span>`)
	assert.Contains(t, out, `<span class="trace-item-address">Create Contract</span>`)
	assert.NotContains(t, out, `title="0xfb69...d359"`)
}

func TestWriteHTMLEscapes(t *testing.T) {
	tr := buildTree(t, `{"to":"<script>alert(1)</script>"}`, i18n.English)

	html, err := HTML(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
	assert.Contains(t, string(html), "&lt;script&gt;")
}
