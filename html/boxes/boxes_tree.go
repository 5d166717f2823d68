// Package boxes defines the layout tree: one node per retained element, plus
// the anonymous boxes normalizing mixed inline and block content.
//
// Nodes are stored in a flat arena owned by [Tree] and referenced by integer
// [NodeID] handles, so that the two layout passes (bottom-up intrinsic
// sizing, then top-down sizing and positioning) can walk the same tree
// without pointer cycles.
package boxes

import (
	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
)

// Point is a (width, height) or (x, y) pair.
type Point [2]pr.Float

// Rect is an axis aligned rectangle, positioned in the coordinate system of
// the layout root.
type Rect struct {
	X, Y, Width, Height pr.Float
}

// LayoutMode is the closed set of layout behaviors a node may have,
// fixed by the CSS specification.
type LayoutMode uint8

const (
	Block LayoutMode = iota
	AnonymousBlock
	Inline
	FlexContainer
	FlexItem
	GridContainer
	GridItem
	Replaced
	Text
)

func (m LayoutMode) String() string {
	switch m {
	case Block:
		return "Block"
	case AnonymousBlock:
		return "AnonymousBlock"
	case Inline:
		return "Inline"
	case FlexContainer:
		return "FlexContainer"
	case FlexItem:
		return "FlexItem"
	case GridContainer:
		return "GridContainer"
	case GridItem:
		return "GridItem"
	case Replaced:
		return "Replaced"
	case Text:
		return "Text"
	default:
		return "<invalid mode>"
	}
}

// NodeID is the handle of one node inside its [Tree].
type NodeID int32

// NoNode is the zero handle, used for the root's parent and empty trees.
const NoNode NodeID = -1

// BoxResult is the outcome of the top-down pass for one node: the used
// values of its box, in absolute coordinates.
// On a [LayoutNode], it is nil until the pass has visited the node.
type BoxResult struct {
	// PositionX, PositionY is the content box origin, relative to the
	// layout root origin.
	PositionX, PositionY pr.Float

	// Width, Height is the content box size.
	Width, Height pr.Float

	MarginTop, MarginRight, MarginBottom, MarginLeft                      pr.Float
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft                  pr.Float
	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth pr.Float

	// Baseline is the absolute y coordinate of the first line's baseline,
	// only meaningful for nodes with inline content.
	Baseline pr.Float

	// Overflow records that the content did not fit the available space.
	// Overflow is not an error: visibility is the painter's concern.
	Overflow bool

	// Indeterminate records that a percentage was resolved against an
	// indefinite ancestor dimension (and defaulted), so that a later pass
	// may re-resolve it once the ancestor size is definite.
	Indeterminate bool
}

// ContentBox returns the content rectangle.
func (b *BoxResult) ContentBox() Rect {
	return Rect{b.PositionX, b.PositionY, b.Width, b.Height}
}

// PaddingBox returns the rectangle of the content plus padding.
func (b *BoxResult) PaddingBox() Rect {
	return Rect{
		b.PositionX - b.PaddingLeft,
		b.PositionY - b.PaddingTop,
		b.Width + b.PaddingLeft + b.PaddingRight,
		b.Height + b.PaddingTop + b.PaddingBottom,
	}
}

// BorderBox returns the rectangle of the content plus padding and borders,
// the area a painter fills with backgrounds and strokes with borders.
func (b *BoxResult) BorderBox() Rect {
	p := b.PaddingBox()
	return Rect{
		p.X - b.BorderLeftWidth,
		p.Y - b.BorderTopWidth,
		p.Width + b.BorderLeftWidth + b.BorderRightWidth,
		p.Height + b.BorderTopWidth + b.BorderBottomWidth,
	}
}

// MarginBox returns the outermost rectangle, margins included.
func (b *BoxResult) MarginBox() Rect {
	bb := b.BorderBox()
	return Rect{
		bb.X - b.MarginLeft,
		bb.Y - b.MarginTop,
		bb.Width + b.MarginLeft + b.MarginRight,
		bb.Height + b.MarginTop + b.MarginBottom,
	}
}

// BorderWidth returns the width of the border box.
func (b *BoxResult) BorderWidth() pr.Float {
	return b.Width + b.PaddingLeft + b.PaddingRight + b.BorderLeftWidth + b.BorderRightWidth
}

// BorderHeight returns the height of the border box.
func (b *BoxResult) BorderHeight() pr.Float {
	return b.Height + b.PaddingTop + b.PaddingBottom + b.BorderTopWidth + b.BorderBottomWidth
}

// MarginWidth returns the width of the margin box.
func (b *BoxResult) MarginWidth() pr.Float {
	return b.BorderWidth() + b.MarginLeft + b.MarginRight
}

// MarginHeight returns the height of the margin box.
func (b *BoxResult) MarginHeight() pr.Float {
	return b.BorderHeight() + b.MarginTop + b.MarginBottom
}

// LayoutNode is one node of the layout tree.
type LayoutNode struct {
	Mode LayoutMode

	// Style is the computed style record, borrowed from the style
	// resolution collaborator for the duration of the pass; layout never
	// mutates it. Anonymous boxes own a synthesized record.
	Style pr.Properties

	// Element is the source element, nil for anonymous boxes.
	// Text nodes point to their enclosing element.
	Element *html.Node

	// Text is the collapsed text content, Text mode only.
	Text string

	// IntrinsicSize is the natural size of replaced content, Replaced mode
	// only.
	IntrinsicSize Point

	Parent   NodeID
	Children []NodeID

	// IntrinsicMinWidth and IntrinsicMaxWidth are the min-content and
	// max-content widths of the content box, set by the intrinsic sizing
	// pass before any top-down sizing occurs.
	IntrinsicMinWidth, IntrinsicMaxWidth pr.Float

	// PaintOrder is the children traversal order for painting when `order`
	// or grid placement reorders it; nil means DOM order.
	PaintOrder []NodeID

	// Dirty marks the subtree for the incremental relayout scheduler;
	// the full pass implemented here clears it.
	Dirty bool

	// Box is nil until the top-down pass visits the node.
	Box *BoxResult
}

// ElementTag returns the tag of the source element, or "(anonymous)".
func (n *LayoutNode) ElementTag() string {
	if n.Element != nil {
		return n.Element.Data
	}
	return "(anonymous)"
}

// IsBlockLevel reports whether the node stacks vertically in normal flow.
func (n *LayoutNode) IsBlockLevel() bool {
	switch n.Mode {
	case Block, AnonymousBlock, FlexContainer, GridContainer, FlexItem, GridItem:
		return true
	case Replaced:
		return n.Style.GetDisplay() == "block"
	default:
		return false
	}
}

// IsInlineLevel reports whether the node takes part in inline layout.
func (n *LayoutNode) IsInlineLevel() bool { return !n.IsBlockLevel() }

// Tree is the layout tree of one pass. It is exclusively owned by the
// in-progress pass: no external reader observes partial results.
type Tree struct {
	nodes []LayoutNode
	root  NodeID
}

// Root returns the root handle, or [NoNode] for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node for [id]. The pointer is only valid until the next
// allocation (allocations happen during building only).
func (t *Tree) Node(id NodeID) *LayoutNode { return &t.nodes[id] }

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int { return len(t.nodes) }

func (t *Tree) allocate(node LayoutNode) NodeID {
	t.nodes = append(t.nodes, node)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) appendChild(parent, child NodeID) {
	t.nodes[child].Parent = parent
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// MarkDirty marks [id] and its ancestor chain, so that an incremental
// scheduler can re-run only the layouts whose constraints may have changed.
func (t *Tree) MarkDirty(id NodeID) {
	for id != NoNode {
		if t.nodes[id].Dirty {
			return
		}
		t.nodes[id].Dirty = true
		id = t.nodes[id].Parent
	}
}

// ClearDirty resets all dirty marks, after a completed pass.
func (t *Tree) ClearDirty() {
	for i := range t.nodes {
		t.nodes[i].Dirty = false
	}
}
