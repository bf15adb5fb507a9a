// Package tree materialises a DisplayNode tree into collapsible elements.
//
// Every DisplayNode gets exactly one Element, children included, whether or
// not they are visible: collapsing only hides an already-built subtree.
// Expand state lives on each Element and toggling one never touches another,
// so a toggle on a child cannot bubble up to its parent.
package tree

import (
	"fmt"
	"strconv"

	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/trace"
)

const (
	GlyphCollapsed = "+"
	GlyphExpanded  = "−"

	// RootID identifies the root element. Child IDs append ".<index>".
	RootID = "0"
)

// Header is the always-visible line of an element.
type Header struct {
	Type       string
	Target     string
	IsCreation bool
	Value      *string
	Gas        *uint64
}

// Detail is one labelled line of the collapsible content region.
type Detail struct {
	Key   i18n.Key
	Label string
	Value string
}

// Element is the rendered form of one DisplayNode.
type Element struct {
	ID       string
	Depth    int
	Header   Header
	Details  []Detail
	Children []*Element

	expanded bool
}

// Expanded reports whether the content region is shown.
func (e *Element) Expanded() bool { return e.expanded }

// Glyph is the toggle affordance for the current state.
func (e *Element) Glyph() string {
	if e.expanded {
		return GlyphExpanded
	}
	return GlyphCollapsed
}

// Toggle flips this element's expand state and returns the new state. It
// does not rebuild anything and does not affect any other element.
func (e *Element) Toggle() bool {
	e.expanded = !e.expanded
	return e.expanded
}

// SetExpanded forces the expand state.
func (e *Element) SetExpanded(expanded bool) { e.expanded = expanded }

// Render builds the element for node and, eagerly, its whole subtree. Only
// the returned element takes the expanded flag; every descendant starts
// collapsed.
func Render(node *trace.DisplayNode, expanded bool, loc i18n.Localizer) *Element {
	return renderFrom(node, RootID, expanded, loc)
}

func renderFrom(node *trace.DisplayNode, id string, expanded bool, loc i18n.Localizer) *Element {
	if node == nil {
		return nil
	}

	type pending struct {
		node *trace.DisplayNode
		el   *Element
	}

	top := newElement(node, id, loc)
	top.expanded = expanded

	stack := []pending{{node: node, el: top}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(item.node.Children) == 0 {
			continue
		}

		item.el.Children = make([]*Element, len(item.node.Children))
		for i, child := range item.node.Children {
			el := newElement(child, item.el.ID+"."+strconv.Itoa(i), loc)
			el.Depth = item.el.Depth + 1
			item.el.Children[i] = el
			stack = append(stack, pending{node: child, el: el})
		}
	}

	return top
}

func newElement(node *trace.DisplayNode, id string, loc i18n.Localizer) *Element {
	el := &Element{
		ID: id,
		Header: Header{
			Type:       node.Type,
			Target:     node.Target,
			IsCreation: node.IsCreation,
			Value:      node.Value,
			Gas:        node.Gas,
		},
	}

	if node.Input != nil {
		el.Details = append(el.Details, Detail{Key: i18n.InputData, Value: *node.Input})
	}
	if node.Output != nil {
		el.Details = append(el.Details, Detail{Key: i18n.OutputData, Value: *node.Output})
	}
	if node.Error != nil {
		el.Details = append(el.Details, Detail{Key: i18n.CallError, Value: *node.Error})
	}
	if node.RevertReason != nil {
		el.Details = append(el.Details, Detail{Key: i18n.RevertReason, Value: *node.RevertReason})
	}

	el.localize(loc)
	return el
}

func (e *Element) localize(loc i18n.Localizer) {
	for i := range e.Details {
		e.Details[i].Label = loc.T(e.Details[i].Key)
	}
	if e.Header.IsCreation {
		e.Header.Target = loc.T(i18n.CreateContract)
	}
}

// Tree is a rendered call trace with an ID index for toggling.
type Tree struct {
	Root *Element

	byID map[string]*Element
}

// New renders node with the root expanded and everything else collapsed.
func New(node *trace.DisplayNode, loc i18n.Localizer) *Tree {
	t := &Tree{
		Root: Render(node, true, loc),
		byID: make(map[string]*Element),
	}
	t.Walk(func(e *Element) bool {
		t.byID[e.ID] = e
		return true
	})
	return t
}

// Find returns the element with id, or nil.
func (t *Tree) Find(id string) *Element {
	return t.byID[id]
}

// Toggle flips the element with id and returns its new state.
func (t *Tree) Toggle(id string) (bool, error) {
	el := t.Find(id)
	if el == nil {
		return false, fmt.Errorf("no trace element %q", id)
	}
	return el.Toggle(), nil
}

// ExpandAll sets every element's state.
func (t *Tree) ExpandAll(expanded bool) {
	t.Walk(func(e *Element) bool {
		e.expanded = expanded
		return true
	})
}

// Relocalize refreshes every label for a new language while keeping the
// expand state of each element.
func (t *Tree) Relocalize(loc i18n.Localizer) {
	t.Walk(func(e *Element) bool {
		e.localize(loc)
		return true
	})
}

// Len is the number of elements in the tree.
func (t *Tree) Len() int { return len(t.byID) }

// Walk visits elements depth first, parent before children, in order. fn
// returning false skips that element's children.
func (t *Tree) Walk(fn func(e *Element) bool) {
	if t.Root == nil {
		return
	}

	stack := []*Element{t.Root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(e) {
			continue
		}
		for i := len(e.Children) - 1; i >= 0; i-- {
			stack = append(stack, e.Children[i])
		}
	}
}

// Visible returns the elements a reader currently sees: the root plus the
// children of every expanded, visible element.
func (t *Tree) Visible() []*Element {
	var out []*Element
	t.Walk(func(e *Element) bool {
		out = append(out, e)
		return e.expanded
	})
	return out
}
