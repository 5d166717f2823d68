package layout

// Block-level layout: vertical stacking and margin collapsing.

import (
	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
)

// blockLevelLayout lays out one block-level box in normal flow and fills its
// BoxResult. containerX is the content box left edge of the containing
// block; borderTop is the y of the box's top border edge, its collapsed top
// margin having been applied by the caller.
func (ctx *layoutContext) blockLevelLayout(id bo.NodeID, c Constraint, containerX, borderTop pr.Float) {
	node := ctx.tree.Node(id)
	uv := resolveUsedValues(node.Style, c)

	var width pr.Float
	if node.Mode == bo.Replaced {
		width, _ = replacedSize(node, &uv)
		width = uv.clampWidth(width)
	} else {
		width = ctx.usedBlockWidth(node, &uv, c)
	}

	ml, mr := resolveInlineMargins(&uv, c, width, node.Style.GetDirection() == "rtl")
	uv.marginLeft, uv.marginRight = ml, mr

	box := &bo.BoxResult{Width: width}
	uv.fillBox(box)
	box.PositionX = containerX + ml + uv.borderLeft + uv.paddingLeft
	box.PositionY = borderTop + uv.borderTop + uv.paddingTop
	node.Box = box

	if node.Mode == bo.Replaced {
		_, h := replacedSize(node, &uv)
		box.Height = pr.Max(0, uv.clampHeight(h))
		box.Baseline = box.PositionY + box.Height
		return
	}

	collapseTop := ctx.marginsCollapseWithFirstChild(node)
	contentHeight, baseline, overflow := ctx.contentLayout(id, width, uv.height, box.PositionX, box.PositionY, collapseTop)

	height := contentHeight
	if h, ok := uv.height.(pr.Float); ok {
		height = h
	}
	height = pr.Max(0, uv.clampHeight(height))
	box.Height = height

	// Content taller than a definite height is overflow, never an error.
	box.Overflow = overflow || contentHeight > height
	if b, ok := baseline.(pr.Float); ok {
		box.Baseline = b
	} else {
		box.Baseline = box.PositionY + height
	}
}

// usedBlockWidth resolves the used content width of a block-level box.
// https://www.w3.org/TR/CSS21/visudet.html#blockwidth
func (ctx *layoutContext) usedBlockWidth(node *bo.LayoutNode, uv *usedValues, c Constraint) pr.Float {
	var width pr.Float
	switch {
	case uv.width != pr.AutoF:
		width = uv.width.V()
	case node.Style.GetWidth().S == "min-content":
		width = node.IntrinsicMinWidth
	case node.Style.GetWidth().S == "max-content":
		width = node.IntrinsicMaxWidth
	case c.Width.Kind == Definite:
		// Auto width fills the containing block.
		width = pr.Max(0, c.Width.Value-uv.horizontalExtras()-uv.marginLeft.V()-uv.marginRight.V())
	case c.Width.Kind == MinContent:
		width = node.IntrinsicMinWidth
	default:
		width = node.IntrinsicMaxWidth
	}
	return uv.clampWidth(width)
}

// resolveInlineMargins resolves the horizontal margins once the used width
// is known: auto margins share the leftover space, and an over-constrained
// box pushes the difference into its end margin.
// https://www.w3.org/TR/CSS21/visudet.html#blockwidth
func resolveInlineMargins(uv *usedValues, c Constraint, width pr.Float, rtl bool) (left, right pr.Float) {
	if !c.Width.IsDefinite() {
		return uv.marginLeft.V(), uv.marginRight.V()
	}
	leftover := c.Width.Value - width - uv.horizontalExtras()
	autoL, autoR := uv.marginLeft == pr.AutoF, uv.marginRight == pr.AutoF
	switch {
	case autoL && autoR:
		m := pr.Max(0, leftover) / 2
		return m, m
	case autoL:
		return leftover - uv.marginRight.V(), uv.marginRight.V()
	case autoR:
		return uv.marginLeft.V(), leftover - uv.marginLeft.V()
	case rtl:
		return leftover - uv.marginRight.V(), uv.marginRight.V()
	default:
		return uv.marginLeft.V(), leftover - uv.marginLeft.V()
	}
}

// replacedSize resolves the content size of replaced content from its
// natural size, keeping the aspect ratio when only one axis is specified.
// https://www.w3.org/TR/CSS21/visudet.html#inline-replaced-width
func replacedSize(node *bo.LayoutNode, uv *usedValues) (w, h pr.Float) {
	nw, nh := node.IntrinsicSize[0], node.IntrinsicSize[1]
	w, h = nw, nh
	sw, okW := uv.width.(pr.Float)
	sh, okH := uv.height.(pr.Float)
	switch {
	case okW && okH:
		w, h = sw, sh
	case okW:
		w = sw
		if nw > 0 {
			h = sw * nh / nw
		}
	case okH:
		h = sh
		if nh > 0 {
			w = sh * nw / nh
		}
	}
	return w, h
}

// flowContentLayout lays out the children of a block container: line boxes
// when every child is inline-level, vertical stacking otherwise.
func (ctx *layoutContext) flowContentLayout(id bo.NodeID, width pr.Float, height pr.MaybeFloat, cx, cy pr.Float, collapseTop bool) (pr.Float, pr.MaybeFloat, bool) {
	node := ctx.tree.Node(id)
	if len(node.Children) == 0 {
		return 0, pr.AutoF, false
	}
	for _, childID := range node.Children {
		if ctx.tree.Node(childID).IsBlockLevel() {
			return ctx.blockChildrenLayout(id, width, height, cx, cy, collapseTop)
		}
	}
	return ctx.inlineLayout(id, width, cx, cy)
}

// blockChildrenLayout stacks the block-level children of [id] vertically,
// collapsing adjoining vertical margins along the walk.
func (ctx *layoutContext) blockChildrenLayout(id bo.NodeID, width pr.Float, height pr.MaybeFloat, cx, cy pr.Float, collapseTop bool) (contentHeight pr.Float, baseline pr.MaybeFloat, overflow bool) {
	node := ctx.tree.Node(id)
	hAvail := IndefiniteSize
	if h, ok := height.(pr.Float); ok {
		hAvail = DefiniteSize(h)
	}
	cc := Constraint{Width: DefiniteSize(width), Height: hAvail}

	baseline = pr.AutoF
	// position tracks the bottom border edge of the previous child;
	// adjoining accumulates the margins met since then.
	position := cy
	var adjoining []pr.Float
	for i, childID := range node.Children {
		adjoining = append(adjoining, ctx.collapsibleMarginsTop(childID, cc)...)
		offset := collapseMargin(adjoining)
		if i == 0 && collapseTop {
			// The collapsed margin escaped through the container's top
			// edge: the caller has already applied it outside.
			offset = 0
		}
		ctx.blockLevelLayout(childID, cc, cx, position+offset)

		box := ctx.tree.Node(childID).Box
		if box.BorderWidth() > width {
			overflow = true
		}
		if box.Overflow {
			overflow = true
		}
		if baseline == pr.AutoF {
			baseline = box.Baseline
		}
		position = box.PositionY + box.Height + box.PaddingBottom + box.BorderBottomWidth
		adjoining = ctx.collapsibleMarginsBottom(childID, cc)
	}

	contentHeight = position - cy
	if !ctx.marginsCollapseWithLastChild(node) {
		// The last bottom margin is contained by the border or padding
		// below it instead of escaping.
		contentHeight += collapseMargin(adjoining)
	}
	return pr.Max(0, contentHeight), baseline, overflow
}

// collapseMargin collapses a sequence of adjoining vertical margins: the
// maximum of the positives plus the minimum of the negatives.
// https://www.w3.org/TR/CSS21/box.html#collapsing-margins
func collapseMargin(margins []pr.Float) pr.Float {
	var maxPos, minNeg pr.Float
	for _, m := range margins {
		maxPos = pr.Max(maxPos, m)
		minNeg = pr.Min(minNeg, m)
	}
	return maxPos + minNeg
}

// collapsibleMarginsTop returns the adjoining top margins of [id]: its own,
// plus those of its first in-flow descendants while no border or padding
// separates them.
func (ctx *layoutContext) collapsibleMarginsTop(id bo.NodeID, c Constraint) []pr.Float {
	node := ctx.tree.Node(id)
	top, _ := verticalMargins(node.Style, c)
	out := []pr.Float{top}
	for ctx.marginsCollapseWithFirstChild(node) {
		node = ctx.tree.Node(node.Children[0])
		t, _ := verticalMargins(node.Style, c)
		out = append(out, t)
	}
	return out
}

// collapsibleMarginsBottom is the symmetric walk along last children.
func (ctx *layoutContext) collapsibleMarginsBottom(id bo.NodeID, c Constraint) []pr.Float {
	node := ctx.tree.Node(id)
	_, bottom := verticalMargins(node.Style, c)
	out := []pr.Float{bottom}
	for ctx.marginsCollapseWithLastChild(node) {
		node = ctx.tree.Node(node.Children[len(node.Children)-1])
		_, b := verticalMargins(node.Style, c)
		out = append(out, b)
	}
	return out
}

// marginsCollapseWithFirstChild reports whether the top margin of [node]
// adjoins the top margin of its first in-flow child: a plain block container
// with block-level content and no top border or padding.
func (ctx *layoutContext) marginsCollapseWithFirstChild(node *bo.LayoutNode) bool {
	if !isPlainBlock(node) || len(node.Children) == 0 {
		return false
	}
	if !isZeroLength(node.Style.GetBorderTopWidth()) || !isZeroLength(node.Style.GetPaddingTop()) {
		return false
	}
	return ctx.tree.Node(node.Children[0]).IsBlockLevel()
}

// marginsCollapseWithLastChild additionally requires an auto height, since a
// definite height separates the container's bottom edge from its content.
func (ctx *layoutContext) marginsCollapseWithLastChild(node *bo.LayoutNode) bool {
	if !isPlainBlock(node) || len(node.Children) == 0 {
		return false
	}
	if !isZeroLength(node.Style.GetBorderBottomWidth()) || !isZeroLength(node.Style.GetPaddingBottom()) {
		return false
	}
	if !node.Style.GetHeight().IsAuto() {
		return false
	}
	return ctx.tree.Node(node.Children[len(node.Children)-1]).IsBlockLevel()
}

func isPlainBlock(node *bo.LayoutNode) bool {
	if node.Mode != bo.Block && node.Mode != bo.AnonymousBlock {
		return false
	}
	return contentKindOf(node) == flowContent
}

func isZeroLength(v pr.DimOrS) bool { return v.S == "" && v.Value == 0 }

// shiftSubtree translates an already laid out subtree, used after measuring
// a box away from its final position.
func (ctx *layoutContext) shiftSubtree(id bo.NodeID, dx, dy pr.Float) {
	if dx == 0 && dy == 0 {
		return
	}
	node := ctx.tree.Node(id)
	if node.Box != nil {
		node.Box.PositionX += dx
		node.Box.PositionY += dy
		node.Box.Baseline += dy
	}
	for _, child := range node.Children {
		ctx.shiftSubtree(child, dx, dy)
	}
}
