package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/tree"
)

// JSONReport is the machine-readable form of one analysis. Every label is
// already localized; the message keys are kept next to them so a client can
// re-render in another language.
type JSONReport struct {
	Metadata    JSONMetadata   `json:"metadata"`
	Transaction []JSONField    `json:"transaction,omitempty"`
	Signature   *JSONSignature `json:"signature,omitempty"`
	Trace       *JSONNode      `json:"trace,omitempty"`
	TraceError  *JSONError     `json:"traceError,omitempty"`
	Error       *JSONError     `json:"error,omitempty"`
}

type JSONMetadata struct {
	RequestID string        `json:"requestId,omitempty"`
	Endpoint  string        `json:"endpoint,omitempty"`
	TxHash    string        `json:"txHash,omitempty"`
	Language  i18n.Language `json:"language"`
	Timestamp time.Time     `json:"timestamp"`
}

type JSONField struct {
	Key   i18n.Key `json:"key"`
	Label string   `json:"label"`
	Value string   `json:"value"`
}

type JSONSignature struct {
	analyzer.Signature
	Lines []string `json:"lines"`
}

// JSONNode mirrors one tree element, expand state included.
type JSONNode struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Target     string      `json:"target"`
	IsCreation bool        `json:"isCreation,omitempty"`
	Value      *string     `json:"value,omitempty"`
	Gas        *uint64     `json:"gas,omitempty"`
	Expanded   bool        `json:"expanded"`
	Details    []JSONField `json:"details,omitempty"`
	Children   []*JSONNode `json:"children,omitempty"`
}

type JSONError struct {
	Kind    analyzer.Kind `json:"kind"`
	Key     i18n.Key      `json:"errorKey"`
	Message string        `json:"message"`
	Detail  string        `json:"detail,omitempty"`
}

// NewJSONReport builds the report for a completed analysis.
func NewJSONReport(res *analyzer.Result, tr *tree.Tree, loc i18n.Localizer) *JSONReport {
	r := &JSONReport{
		Metadata: JSONMetadata{
			RequestID: res.ID,
			Endpoint:  res.Endpoint,
			TxHash:    res.TxHash,
			Language:  loc.Language(),
			Timestamp: time.Now().UTC(),
		},
	}

	for _, f := range res.Info {
		label, value := f.Render(loc)
		r.Transaction = append(r.Transaction, JSONField{Key: f.Key, Label: label, Value: value})
	}

	if res.Signature != nil {
		r.Signature = &JSONSignature{Signature: *res.Signature, Lines: res.Signature.Lines(loc)}
	}

	if tr != nil {
		r.Trace = NewJSONTree(tr)
	} else if res.TraceErr != nil {
		r.TraceError = NewJSONError(res.TraceErr, loc)
	}

	return r
}

// NewJSONErrorReport builds the report for an analysis that failed before
// any panel was computed.
func NewJSONErrorReport(err error, loc i18n.Localizer) *JSONReport {
	return &JSONReport{
		Metadata: JSONMetadata{Language: loc.Language(), Timestamp: time.Now().UTC()},
		Error:    NewJSONError(analyzer.AsError(err), loc),
	}
}

func NewJSONError(e *analyzer.Error, loc i18n.Localizer) *JSONError {
	return &JSONError{
		Kind:    e.Kind,
		Key:     e.Key,
		Message: e.Localize(loc),
		Detail:  e.Detail,
	}
}

// NewJSONTree converts the rendered tree without recursion.
func NewJSONTree(tr *tree.Tree) *JSONNode {
	if tr.Root == nil {
		return nil
	}

	type pending struct {
		el   *tree.Element
		node *JSONNode
	}

	root := newJSONNode(tr.Root)
	stack := []pending{{el: tr.Root, node: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range item.el.Children {
			n := newJSONNode(child)
			item.node.Children = append(item.node.Children, n)
			stack = append(stack, pending{el: child, node: n})
		}
	}
	return root
}

func newJSONNode(el *tree.Element) *JSONNode {
	n := &JSONNode{
		ID:         el.ID,
		Type:       el.Header.Type,
		Target:     el.Header.Target,
		IsCreation: el.Header.IsCreation,
		Value:      el.Header.Value,
		Gas:        el.Header.Gas,
		Expanded:   el.Expanded(),
	}
	for _, d := range el.Details {
		n.Details = append(n.Details, JSONField{Key: d.Key, Label: d.Label, Value: d.Value})
	}
	return n
}

// WriteJSON encodes v with indentation.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
