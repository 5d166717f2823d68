package layout

// Bottom-up intrinsic sizing.

import (
	"strings"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/text"
)

// intrinsicSizes computes IntrinsicMinWidth and IntrinsicMaxWidth for the
// whole subtree, in post order: children first, since a container's
// intrinsic widths aggregate its children's.
func (ctx *layoutContext) intrinsicSizes(id bo.NodeID) {
	node := ctx.tree.Node(id)
	for _, child := range node.Children {
		ctx.intrinsicSizes(child)
	}

	min, max := ctx.contentIntrinsic(node)

	// A definite width overrides the content driven sizes; percentages
	// stay content driven since they have no containing block yet.
	style := node.Style
	if w := style.GetWidth(); w.S == "" && w.Unit != pr.Perc {
		v := w.Value
		if style.GetBoxSizing() == "border-box" {
			v = pr.Max(0, v-fixedHorizontalExtras(style, false))
		}
		min, max = v, v
	}
	if mw := style.GetMinWidth(); mw.S == "" && mw.Unit != pr.Perc {
		min = pr.Max(min, mw.Value)
		max = pr.Max(max, mw.Value)
	}
	if mw := style.GetMaxWidth(); mw.S == "" && mw.Unit != pr.Perc {
		min = pr.Min(min, mw.Value)
		max = pr.Min(max, mw.Value)
	}
	if max < min {
		max = min
	}

	node.IntrinsicMinWidth, node.IntrinsicMaxWidth = min, max
}

// contentIntrinsic returns the content box intrinsic widths of one node,
// its children's being already computed.
func (ctx *layoutContext) contentIntrinsic(node *bo.LayoutNode) (min, max pr.Float) {
	switch node.Mode {
	case bo.Text:
		return ctx.textIntrinsic(node)
	case bo.Replaced:
		return node.IntrinsicSize[0], node.IntrinsicSize[0]
	}

	switch contentKindOf(node) {
	case flexContent:
		return ctx.flexIntrinsic(node)
	case gridContent:
		return ctx.gridIntrinsic(node)
	}

	// Normal flow: inline-level children lay out side by side when never
	// wrapped, block-level children stack. Anonymous wrapping guarantees
	// the container is not mixed.
	for _, childID := range node.Children {
		child := ctx.tree.Node(childID)
		childMin, childMax := outerIntrinsic(child)
		min = pr.Max(min, childMin)
		if child.IsBlockLevel() {
			max = pr.Max(max, childMax)
		} else {
			max += childMax
		}
	}
	return min, max
}

// textIntrinsic measures a run: the min-content width is the widest
// unbreakable unit (a single word), the max-content width the unwrapped run.
func (ctx *layoutContext) textIntrinsic(node *bo.LayoutNode) (min, max pr.Float) {
	style := text.StyleFromProperties(node.Style)
	words := strings.Split(node.Text, " ")
	space := ctx.metrics.SpaceWidth(style)
	for i, word := range words {
		w := ctx.metrics.RunWidth(word, style)
		min = pr.Max(min, w)
		if i > 0 {
			max += space
		}
		max += w
	}
	return min, max
}

// flexIntrinsic aggregates flex items: items along the main axis sum, items
// across it take the max.
func (ctx *layoutContext) flexIntrinsic(node *bo.LayoutNode) (min, max pr.Float) {
	style := node.Style
	row := strings.HasPrefix(string(style.GetFlexDirection()), "row")
	wrap := style.GetFlexWrap() != "nowrap"
	gap := fixedGap(style.GetColumnGap())

	var sumMin, sumMax, maxMin, maxMax pr.Float
	for i, childID := range node.Children {
		child := ctx.tree.Node(childID)
		childMin, childMax := outerIntrinsic(child)
		if i > 0 {
			sumMin += gap
			sumMax += gap
		}
		sumMin += childMin
		sumMax += childMax
		maxMin = pr.Max(maxMin, childMin)
		maxMax = pr.Max(maxMax, childMax)
	}
	if !row {
		// Column main axis: the inline axis is the cross axis.
		return maxMin, maxMax
	}
	if wrap {
		// Wrapping lets every item stand alone on a line.
		return maxMin, sumMax
	}
	return sumMin, sumMax
}

// gridIntrinsic aggregates the column tracks: fixed tracks contribute their
// length, content sized and flexible tracks contribute the largest item.
func (ctx *layoutContext) gridIntrinsic(node *bo.LayoutNode) (min, max pr.Float) {
	style := node.Style
	template := style.GetGridTemplateColumns()
	gap := fixedGap(style.GetColumnGap())

	var fixed pr.Float
	contentSized := template.IsNone()
	for _, dims := range template {
		sizing := dims.SizingFunctions()
		if maxSizing := sizing[1]; maxSizing.S == "" && maxSizing.Unit != pr.Perc && maxSizing.Unit != pr.Fr {
			fixed += maxSizing.Value
		} else {
			contentSized = true
		}
	}
	if n := len(template); n > 1 {
		fixed += gap * pr.Float(n-1)
	}

	min, max = fixed, fixed
	if contentSized {
		var maxItemMin, maxItemMax pr.Float
		for _, childID := range node.Children {
			childMin, childMax := outerIntrinsic(ctx.tree.Node(childID))
			maxItemMin = pr.Max(maxItemMin, childMin)
			maxItemMax = pr.Max(maxItemMax, childMax)
		}
		min += maxItemMin
		max += maxItemMax
	}
	return min, max
}

// outerIntrinsic returns the margin box intrinsic widths of a node. Only
// definite lengths contribute: percentage edges resolve to zero here, since
// no containing block exists during this pass.
func outerIntrinsic(node *bo.LayoutNode) (min, max pr.Float) {
	extra := fixedHorizontalExtras(node.Style, true)
	return node.IntrinsicMinWidth + extra, node.IntrinsicMaxWidth + extra
}

// fixedHorizontalExtras sums the definite horizontal paddings and border
// widths of [style], plus its margins when withMargins is set.
func fixedHorizontalExtras(style pr.Properties, withMargins bool) pr.Float {
	var sum pr.Float
	add := func(v pr.DimOrS) {
		if v.S == "" && v.Unit != pr.Perc {
			sum += v.Value
		}
	}
	add(style.GetPaddingLeft())
	add(style.GetPaddingRight())
	add(style.GetBorderLeftWidth())
	add(style.GetBorderRightWidth())
	if withMargins {
		add(style.GetMarginLeft())
		add(style.GetMarginRight())
	}
	return sum
}

// fixedGap returns the definite part of a gap value, where the normal
// keyword and (containing block dependent) percentages count as zero.
func fixedGap(v pr.DimOrS) pr.Float {
	if v.S != "" || v.Unit == pr.Perc {
		return 0
	}
	return v.Value
}
