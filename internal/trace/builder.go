// Package trace turns a raw callTracer frame tree into display-ready nodes.
//
// The conversion is structure preserving: every raw frame produces exactly one
// DisplayNode and children keep their order. Traversal uses an explicit stack,
// so a deep trace cannot exhaust the goroutine stack; MaxDepth bounds how deep
// a trace may go before it is rejected as malformed.
package trace

import (
	"errors"
	"fmt"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

const (
	// DefaultCallType labels frames whose type field is absent.
	DefaultCallType = "CALL"

	// DefaultMaxDepth counts frames from the root as 1. The EVM allows the
	// top-level frame plus 1024 nested calls, and callTracer also records the
	// failed call one level below that, so a real trace holds up to 1026.
	DefaultMaxDepth = 1026
)

// ErrMaxDepthExceeded is returned when a trace nests deeper than MaxDepth.
var ErrMaxDepthExceeded = errors.New("call trace exceeds maximum depth")

// Options controls how nodes are labelled.
type Options struct {
	// ContractCreationLabel is shown as the target of frames without a
	// recipient. Callers pass the localized "create contract" message.
	ContractCreationLabel string
	// MaxDepth of the root frame's subtree; the root is depth 1. Zero selects
	// DefaultMaxDepth.
	MaxDepth int
	// MaxDisplayLength for input/output strings. Zero selects
	// format.DefaultMaxDisplayLength.
	MaxDisplayLength int
}

// DisplayNode is one call frame with its display fields computed. Optional
// annotations are nil when the source field was absent or carried nothing.
type DisplayNode struct {
	Type       string
	Target     string
	IsCreation bool
	From       *string

	Value  *string // ether amount, present iff the raw value is non-zero
	Gas    *uint64
	Input  *string // truncated
	Output *string // truncated

	Error        *string
	RevertReason *string

	Depth    int
	Children []*DisplayNode
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *DisplayNode) Count() int {
	if n == nil {
		return 0
	}

	total := 0
	stack := []*DisplayNode{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, top.Children...)
	}
	return total
}

// Build converts raw into a DisplayNode tree. It only fails for a nil root or
// a trace deeper than opts.MaxDepth; malformed optional fields are dropped.
func Build(raw *rpc.RawCallTrace, opts Options) (*DisplayNode, error) {
	if raw == nil {
		return nil, errors.New("nil call trace")
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	type pending struct {
		raw    *rpc.RawCallTrace
		parent *DisplayNode
		slot   int
		depth  int
	}

	var root *DisplayNode
	stack := []pending{{raw: raw, depth: 1}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth > maxDepth {
			return nil, fmt.Errorf("%w (%d)", ErrMaxDepthExceeded, maxDepth)
		}

		node := buildNode(item.raw, opts)
		node.Depth = item.depth

		if item.parent == nil {
			root = node
		} else {
			item.parent.Children[item.slot] = node
		}

		if len(item.raw.Calls) == 0 {
			continue
		}

		node.Children = make([]*DisplayNode, len(item.raw.Calls))
		// Push in reverse so the first child is popped first.
		for i := len(item.raw.Calls) - 1; i >= 0; i-- {
			stack = append(stack, pending{
				raw:    &item.raw.Calls[i],
				parent: node,
				slot:   i,
				depth:  item.depth + 1,
			})
		}
	}

	return root, nil
}

func buildNode(raw *rpc.RawCallTrace, opts Options) *DisplayNode {
	node := &DisplayNode{
		Type:         DefaultCallType,
		From:         raw.From,
		Error:        raw.Error,
		RevertReason: raw.RevertReason,
	}

	if raw.Type != nil {
		node.Type = *raw.Type
	}

	if raw.To != nil {
		node.Target = *raw.To
	} else {
		node.Target = opts.ContractCreationLabel
		node.IsCreation = true
	}

	if raw.Value != nil {
		if wei, err := rpc.ParseHexBigInt(*raw.Value); err == nil && wei.Sign() != 0 {
			eth := format.WeiToEther(wei)
			node.Value = &eth
		}
	}

	if gas, err := format.FormatGas(raw.Gas); err == nil {
		node.Gas = &gas
	}

	if !format.IsEmptyData(raw.Input) {
		in := format.TruncateData(*raw.Input, opts.MaxDisplayLength)
		node.Input = &in
	}

	if !format.IsEmptyData(raw.Output) {
		out := format.TruncateData(*raw.Output, opts.MaxDisplayLength)
		node.Output = &out
	}

	return node
}
