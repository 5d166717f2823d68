// Package layout sizes and positions the boxes of a layout tree.
//
// The entry point is [Layout]. It runs two strictly ordered traversals: a
// bottom-up pass computing intrinsic (content driven) widths, then a single
// top-down pass resolving each box against the constraint derived from its
// parent's content box, dispatching on the node's layout mode to normal
// flow, flexbox or grid.
//
// Layout is single threaded and performs no I/O: the result is a pure
// function of the tree, the viewport size and the text metrics.
package layout

import (
	bo "github.com/velora-engine/velora/html/boxes"

	pr "github.com/velora-engine/velora/css/properties"
	"github.com/velora-engine/velora/text"
)

// SizeKind describes how much is known about one axis of the space a
// containing block offers.
type SizeKind uint8

const (
	// Definite space has a resolved numeric value.
	Definite SizeKind = iota
	// Indefinite space has no usable value; percentages against it are
	// indeterminate.
	Indefinite
	// MinContent asks the box for its narrowest reasonable size.
	MinContent
	// MaxContent asks the box for its widest unwrapped size.
	MaxContent
)

// AvailableSize is one axis of a [Constraint].
type AvailableSize struct {
	Value pr.Float
	Kind  SizeKind
}

// DefiniteSize returns a definite available size.
func DefiniteSize(v pr.Float) AvailableSize { return AvailableSize{Value: v, Kind: Definite} }

// IndefiniteSize is the available size of an axis with no resolved value.
var IndefiniteSize = AvailableSize{Kind: Indefinite}

// IsDefinite reports whether the axis has a resolved numeric value.
func (a AvailableSize) IsDefinite() bool { return a.Kind == Definite }

// Constraint is the available space descriptor a parent passes to a child
// during the top-down pass. Every sizing algorithm is a function of
// (node, constraint), which keeps layout re-entrant.
type Constraint struct {
	Width, Height AvailableSize
}

// maxSizingIterations caps the freeze and redistribute loops of flex and
// grid sizing. Reaching it means a logic defect, reported as a warning
// instead of looping forever.
const maxSizingIterations = 64

type layoutContext struct {
	tree    *bo.Tree
	metrics text.Metrics
}

// Layout fills the [bo.BoxResult] of every node of the tree, using
// (width, height) as the viewport, that is the containing block of the root.
// A nil metrics falls back to [text.FixedMetrics].
//
// The tree is left untouched until the call returns: no external reader
// observes partial results.
func Layout(tree *bo.Tree, width, height pr.Float, metrics text.Metrics) {
	root := tree.Root()
	if root == bo.NoNode {
		return
	}
	if metrics == nil {
		metrics = text.FixedMetrics{}
	}
	ctx := &layoutContext{tree: tree, metrics: metrics}

	// The intrinsic pass must complete before any auto width is resolved:
	// a width:auto box inside a min-content ancestor is sized from values
	// computed here.
	ctx.intrinsicSizes(root)

	c := Constraint{Width: DefiniteSize(width), Height: DefiniteSize(height)}
	// Margins escaping through the root's top edge still offset it in the
	// viewport.
	top := collapseMargin(ctx.collapsibleMarginsTop(root, c))
	ctx.blockLevelLayout(root, c, 0, top)

	tree.ClearDirty()
}

// contentKind tells which algorithm lays out the children of a box.
// A box's outer behavior (block-level or flex/grid item) is its layout mode;
// its inner behavior follows its display value, so that a flex item with
// display:grid establishes a grid formatting context for its own children.
type contentKind uint8

const (
	flowContent contentKind = iota
	flexContent
	gridContent
	replacedContent
)

func contentKindOf(node *bo.LayoutNode) contentKind {
	switch node.Mode {
	case bo.FlexContainer:
		return flexContent
	case bo.GridContainer:
		return gridContent
	case bo.Replaced:
		return replacedContent
	}
	switch node.Style.GetDisplay() {
	case "flex":
		return flexContent
	case "grid":
		return gridContent
	}
	return flowContent
}

// contentLayout positions the children of [id] inside its content box, whose
// top-left corner is (cx, cy) and whose width is resolved. height is the used
// content height when definite, or [pr.AutoF] when it depends on the content.
// collapseTop is set when the box's top margin adjoins its first child's.
//
// It returns the height of the content, the absolute y of the first baseline
// ([pr.AutoF] when there is none) and whether the content overflows the
// given width or height.
func (ctx *layoutContext) contentLayout(id bo.NodeID, width pr.Float, height pr.MaybeFloat, cx, cy pr.Float, collapseTop bool) (contentHeight pr.Float, baseline pr.MaybeFloat, overflow bool) {
	node := ctx.tree.Node(id)
	switch contentKindOf(node) {
	case flexContent:
		return ctx.flexContentLayout(id, width, height, cx, cy)
	case gridContent:
		return ctx.gridContentLayout(id, width, height, cx, cy)
	default:
		return ctx.flowContentLayout(id, width, height, cx, cy, collapseTop)
	}
}
