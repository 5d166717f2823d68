package layout

// Inline layout: line boxes.

import (
	"strings"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/text"
)

// inlineItem is one atomic unit of inline layout: a single word, or an
// inline-block or replaced box laid out as an opaque rectangle.
type inlineItem struct {
	node bo.NodeID
	word string

	width, ascent, descent pr.Float

	// spaceBefore is set when a collapsed space separates the item from
	// its predecessor.
	spaceBefore bool
	spaceWidth  pr.Float

	align pr.String // vertical-align

	atomic bool
}

func (it *inlineItem) height() pr.Float { return it.ascent + it.descent }

// inlineLayout lays out the inline-level children of [id] as a stack of line
// boxes of width [width], wrapping greedily between words.
func (ctx *layoutContext) inlineLayout(id bo.NodeID, width pr.Float, cx, cy pr.Float) (contentHeight pr.Float, baseline pr.MaybeFloat, overflow bool) {
	node := ctx.tree.Node(id)
	items := ctx.collectInlineItems(id)
	if len(items) == 0 {
		return 0, pr.AutoF, false
	}

	minLineHeight := lineHeightOf(node.Style)

	// Word extents are accumulated per node, so that text and inline
	// element boxes can expose the bounding rectangle of their fragments.
	extents := map[bo.NodeID]*bo.Rect{}

	baseline = pr.AutoF
	y := cy
	var line []inlineItem
	var lineWidth pr.Float

	flush := func() {
		if len(line) == 0 {
			return
		}
		// The line's baseline sits below the tallest ascent; items align
		// per their vertical-align value.
		var maxAscent, maxDescent, maxHeight pr.Float
		for i := range line {
			it := &line[i]
			maxHeight = pr.Max(maxHeight, it.height())
			if it.align == "baseline" {
				maxAscent = pr.Max(maxAscent, it.ascent)
				maxDescent = pr.Max(maxDescent, it.descent)
			}
		}
		lineHeight := pr.Max(minLineHeight, pr.Max(maxHeight, maxAscent+maxDescent))
		baselineY := y + (lineHeight-(maxAscent+maxDescent))/2 + maxAscent

		x := cx
		for i := range line {
			it := &line[i]
			if it.spaceBefore && i > 0 {
				x += it.spaceWidth
			}
			var top pr.Float
			switch it.align {
			case "top":
				top = y
			case "bottom":
				top = y + lineHeight - it.height()
			case "middle":
				top = y + (lineHeight-it.height())/2
			default: // baseline
				top = baselineY - it.ascent
			}
			if it.atomic {
				// The box was measured at the origin; move it in place.
				mb := ctx.tree.Node(it.node).Box.MarginBox()
				ctx.shiftSubtree(it.node, x-mb.X, top-mb.Y)
			} else {
				growExtent(extents, it.node, bo.Rect{X: x, Y: top, Width: it.width, Height: it.height()})
			}
			x += it.width
		}
		if x > cx+width {
			overflow = true
		}
		if baseline == pr.AutoF {
			baseline = baselineY
		}
		y += lineHeight
		line = line[:0]
		lineWidth = 0
	}

	for _, it := range items {
		w := it.width
		if len(line) > 0 && it.spaceBefore {
			w += it.spaceWidth
		}
		if len(line) > 0 && lineWidth+w > width {
			flush()
			w = it.width
		}
		line = append(line, it)
		lineWidth += w
	}
	flush()

	ctx.fillInlineBoxes(id, extents, cx, cy)
	return y - cy, baseline, overflow
}

// collectInlineItems flattens the inline subtree of [id] into measurable
// items, in text order.
func (ctx *layoutContext) collectInlineItems(id bo.NodeID) []inlineItem {
	var items []inlineItem
	var walk func(id bo.NodeID)
	walk = func(id bo.NodeID) {
		node := ctx.tree.Node(id)
		switch {
		case node.Mode == bo.Text:
			style := text.StyleFromProperties(node.Style)
			ascent, descent := ctx.metrics.Ascent(style), ctx.metrics.Descent(style)
			space := ctx.metrics.SpaceWidth(style)
			align := node.Style.GetVerticalAlign()
			for i, word := range strings.Split(node.Text, " ") {
				items = append(items, inlineItem{
					node:        id,
					word:        word,
					width:       ctx.metrics.RunWidth(word, style),
					ascent:      ascent,
					descent:     descent,
					spaceBefore: i > 0,
					spaceWidth:  space,
					align:       align,
				})
			}
		case node.Mode == bo.Replaced || node.Style.GetDisplay() == "inline-block":
			// Atomic inline-level box: measured at the origin, positioned
			// when its line is known.
			ctx.blockLevelLayout(id, Constraint{Width: AvailableSize{Kind: MaxContent}, Height: IndefiniteSize}, 0, 0)
			box := node.Box
			items = append(items, inlineItem{
				node:   id,
				width:  box.MarginWidth(),
				ascent: box.MarginHeight(),
				align:  node.Style.GetVerticalAlign(),
				atomic: true,
			})
		default:
			// Inline element: only its content takes part in line layout.
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	for _, child := range ctx.tree.Node(id).Children {
		walk(child)
	}
	return items
}

func growExtent(extents map[bo.NodeID]*bo.Rect, id bo.NodeID, r bo.Rect) {
	cur, has := extents[id]
	if !has {
		c := r
		extents[id] = &c
		return
	}
	x0, y0 := pr.Min(cur.X, r.X), pr.Min(cur.Y, r.Y)
	x1 := pr.Max(cur.X+cur.Width, r.X+r.Width)
	y1 := pr.Max(cur.Y+cur.Height, r.Y+r.Height)
	*cur = bo.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// fillInlineBoxes assigns a BoxResult to the text runs and inline elements
// of the subtree: the bounding rectangle of their line fragments.
func (ctx *layoutContext) fillInlineBoxes(id bo.NodeID, extents map[bo.NodeID]*bo.Rect, cx, cy pr.Float) {
	var fill func(id bo.NodeID) *bo.Rect
	fill = func(id bo.NodeID) *bo.Rect {
		node := ctx.tree.Node(id)
		if node.Box != nil {
			// Atomic boxes are already laid out.
			r := node.Box.MarginBox()
			return &r
		}
		rect := extents[id]
		for _, child := range node.Children {
			if r := fill(child); r != nil {
				if rect == nil {
					c := *r
					rect = &c
				} else {
					x0, y0 := pr.Min(rect.X, r.X), pr.Min(rect.Y, r.Y)
					x1 := pr.Max(rect.X+rect.Width, r.X+r.Width)
					y1 := pr.Max(rect.Y+rect.Height, r.Y+r.Height)
					*rect = bo.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
				}
			}
		}
		box := &bo.BoxResult{}
		if rect != nil {
			box.PositionX, box.PositionY = rect.X, rect.Y
			box.Width, box.Height = rect.Width, rect.Height
			box.Baseline = rect.Y + rect.Height
		} else {
			box.PositionX, box.PositionY = cx, cy
			box.Baseline = cy
		}
		node.Box = box
		if rect == nil {
			return nil
		}
		return rect
	}
	for _, child := range ctx.tree.Node(id).Children {
		fill(child)
	}
}

// lineHeightOf resolves the minimum line height of a container: zero for
// the normal keyword, where lines are sized by their content.
func lineHeightOf(style pr.Properties) pr.Float {
	lh := style.GetLineHeight()
	switch {
	case lh.S != "":
		return 0
	case lh.Unit == pr.Scalar:
		return lh.Value * style.GetFontSize()
	case lh.Unit == pr.Perc:
		return lh.Value / 100 * style.GetFontSize()
	default:
		return lh.Value
	}
}
