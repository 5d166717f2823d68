package layout

// Flex container layout.
// https://www.w3.org/TR/css-flexbox-1/#layout-algorithm

import (
	"sort"
	"strings"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/logger"
)

// flexItem is the transient per-item state of one container's layout call,
// discarded when the call returns.
type flexItem struct {
	id bo.NodeID
	uv usedValues

	grow, shrink pr.Float

	base      pr.Float // flex base size, content box
	min, max  pr.Float // main axis limits, content box
	target    pr.Float // used main size, content box
	frozen    bool
	violation pr.Float

	crossSpecified pr.MaybeFloat
	cross          pr.Float // used cross size, content box

	// Border, padding and non auto margin sums along each axis. Auto
	// margins are counted apart, they absorb free space before alignment.
	mainBP, mainMargins   pr.Float
	crossBP, crossMargins pr.Float
	autoMainMargins       int
	autoCrossMargins      int

	align pr.String // resolved align-self
}

// hypothetical returns the clamped base size, the main size before flexing.
func (it *flexItem) hypothetical() pr.Float { return pr.Clamp(it.base, it.min, it.max) }

// outerMain returns the margin box main size, auto margins at zero.
func (it *flexItem) outerMain() pr.Float { return it.target + it.mainBP + it.mainMargins }

// outerCross returns the margin box cross size, auto margins at zero.
func (it *flexItem) outerCross() pr.Float { return it.cross + it.crossBP + it.crossMargins }

type flexLine struct {
	items []*flexItem
	cross pr.Float // line cross size, margin boxes included
}

// usedMain returns the sum of the outer main sizes and gaps of the line.
func (l *flexLine) usedMain(gap pr.Float) pr.Float {
	var sum pr.Float
	for i, it := range l.items {
		if i > 0 {
			sum += gap
		}
		sum += it.outerMain()
	}
	return sum
}

func (ctx *layoutContext) flexContentLayout(id bo.NodeID, width pr.Float, height pr.MaybeFloat, cx, cy pr.Float) (pr.Float, pr.MaybeFloat, bool) {
	node := ctx.tree.Node(id)
	style := node.Style
	direction := string(style.GetFlexDirection())
	row := strings.HasPrefix(direction, "row")
	reverse := strings.HasSuffix(direction, "-reverse")
	wrap := style.GetFlexWrap() != "nowrap"
	wrapReverse := style.GetFlexWrap() == "wrap-reverse"

	c := Constraint{Width: DefiniteSize(width), Height: IndefiniteSize}
	if h, ok := height.(pr.Float); ok {
		c.Height = DefiniteSize(h)
	}
	mainAvail := DefiniteSize(width)
	if !row {
		mainAvail = c.Height
	}

	// The order property changes the layout and paint order, not the DOM
	// order kept in Children.
	ordered := append([]bo.NodeID(nil), node.Children...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ctx.tree.Node(ordered[i]).Style.GetOrder() < ctx.tree.Node(ordered[j]).Style.GetOrder()
	})
	for i := range ordered {
		if ordered[i] != node.Children[i] {
			node.PaintOrder = ordered
			break
		}
	}

	if len(ordered) == 0 {
		// No flex line: the auto content size is zero on the main axis.
		return 0, pr.AutoF, false
	}

	items := make([]flexItem, len(ordered))
	for i, childID := range ordered {
		items[i] = ctx.makeFlexItem(childID, c, row, width)
	}

	gapMain := resolveGap(style.GetColumnGap(), mainAvail)
	gapCross := resolveGap(style.GetRowGap(), c.Height)
	if !row {
		gapMain = resolveGap(style.GetRowGap(), c.Height)
		gapCross = resolveGap(style.GetColumnGap(), DefiniteSize(width))
	}

	// Line building: an item starts a new line when the running sum of
	// hypothetical outer sizes would exceed the available main space.
	var lines []flexLine
	var cur flexLine
	var curSize pr.Float
	for i := range items {
		it := &items[i]
		hyp := it.hypothetical() + it.mainBP + it.mainMargins
		add := hyp
		if len(cur.items) > 0 {
			add += gapMain
		}
		if wrap && mainAvail.IsDefinite() && len(cur.items) > 0 && curSize+add > mainAvail.Value {
			lines = append(lines, cur)
			cur, curSize = flexLine{}, 0
			add = hyp
		}
		cur.items = append(cur.items, it)
		curSize += add
	}
	lines = append(lines, cur)

	// Main sizes.
	for li := range lines {
		line := &lines[li]
		if mainAvail.IsDefinite() {
			space := mainAvail.Value
			for i, it := range line.items {
				if i > 0 {
					space -= gapMain
				}
				space -= it.mainBP + it.mainMargins
			}
			resolveFlexibleLengths(line.items, space)
		} else {
			for _, it := range line.items {
				it.target = it.hypothetical()
			}
		}
	}

	// Cross sizes: the hypothetical cross size of an item is its specified
	// one, or the natural size of its content at its used main size.
	for li := range lines {
		line := &lines[li]
		for _, it := range line.items {
			if row {
				if h, ok := it.crossSpecified.(pr.Float); ok {
					it.cross = it.uv.clampHeight(h)
				} else {
					ctx.layoutItemBox(it.id, it.uv, c, cx, cy, it.target, pr.AutoF)
					it.cross = ctx.tree.Node(it.id).Box.Height
				}
			}
			// In a column container the cross (inline) size was resolved
			// with the base size.
		}
		for _, it := range line.items {
			line.cross = pr.Max(line.cross, it.outerCross())
		}
	}

	// Cross sizes of the lines: align-content distributes the leftover of
	// a definite cross size.
	crossAvail := c.Height
	if !row {
		crossAvail = DefiniteSize(width)
	}
	var linesCross pr.Float
	for i := range lines {
		if i > 0 {
			linesCross += gapCross
		}
		linesCross += lines[i].cross
	}
	var crossLead, crossBetween pr.Float
	if crossAvail.IsDefinite() {
		free := crossAvail.Value - linesCross
		if style.GetAlignContent() == "stretch" && free > 0 {
			extra := free / pr.Float(len(lines))
			for i := range lines {
				lines[i].cross += extra
			}
		} else {
			crossLead, crossBetween = distributeFree(style.GetAlignContent(), free, len(lines))
		}
	}

	// Positioning and final layout.
	mainSize := mainAvail.Value
	if !mainAvail.IsDefinite() {
		for i := range lines {
			mainSize = pr.Max(mainSize, lines[i].usedMain(gapMain))
		}
	}

	orderedLines := lines
	if wrapReverse {
		orderedLines = make([]flexLine, len(lines))
		for i := range lines {
			orderedLines[len(lines)-1-i] = lines[i]
		}
	}

	overflow := false
	crossCursor := crossLead
	for li := range orderedLines {
		line := &orderedLines[li]
		if li > 0 {
			crossCursor += gapCross + crossBetween
		}

		free := mainSize - line.usedMain(gapMain)
		if free < 0 {
			overflow = true
		}
		var autoAdd pr.Float
		autoCount := 0
		for _, it := range line.items {
			autoCount += it.autoMainMargins
		}
		if autoCount > 0 && free > 0 {
			// Auto main margins absorb the free space before
			// justify-content applies.
			autoAdd = free / pr.Float(autoCount)
			free = 0
		}
		lead, between := distributeFree(style.GetJustifyContent(), free, len(line.items))

		mainCursor := lead
		for j, it := range line.items {
			if j > 0 {
				mainCursor += gapMain + between
			}
			outer := it.outerMain() + autoAdd*pr.Float(it.autoMainMargins)

			// Cross placement: auto cross margins win over alignment.
			crossFree := line.cross - it.outerCross()
			var crossOff pr.Float
			switch {
			case it.autoCrossMargins > 0 && crossFree > 0:
				switch {
				case it.autoCrossMargins == 2:
					crossOff = crossFree / 2
				case crossStartMarginAuto(it, row):
					crossOff = crossFree
				}
			case it.align == "flex-end" || it.align == "end":
				crossOff = crossFree
			case it.align == "center":
				crossOff = crossFree / 2
			case it.align == "stretch" && it.crossSpecified == pr.AutoF:
				it.cross = pr.Max(0, line.cross-it.crossBP-it.crossMargins)
				if row {
					it.cross = it.uv.clampHeight(it.cross)
				} else {
					it.cross = it.uv.clampWidth(it.cross)
				}
			}

			mainPos := mainCursor
			if reverse {
				mainPos = mainSize - mainCursor - outer
			}
			resolveItemAutoMargins(it, row, autoAdd, crossFree)
			if row {
				x := cx + mainPos
				y := cy + crossCursor + crossOff
				ctx.layoutItemBox(it.id, it.uv, c, x, y, it.target, it.cross)
			} else {
				x := cx + crossCursor + crossOff
				y := cy + mainPos
				ctx.layoutItemBox(it.id, it.uv, c, x, y, it.cross, it.target)
			}
			if box := ctx.tree.Node(it.id).Box; box.Overflow {
				overflow = true
			}
			mainCursor += outer
		}
		crossCursor += line.cross
	}

	// Natural content size on the block axis.
	var contentHeight pr.Float
	if row {
		contentHeight = linesCross
	} else {
		for i := range lines {
			contentHeight = pr.Max(contentHeight, lines[i].usedMain(gapMain))
		}
		if linesCross > width {
			overflow = true
		}
	}
	baseline := ctx.tree.Node(lines[0].items[0].id).Box.Baseline
	return contentHeight, baseline, overflow
}

// makeFlexItem resolves the style of one item into its flex inputs.
func (ctx *layoutContext) makeFlexItem(id bo.NodeID, c Constraint, row bool, containerWidth pr.Float) flexItem {
	child := ctx.tree.Node(id)
	style := child.Style
	uv := resolveUsedValues(style, c)
	it := flexItem{
		id:     id,
		uv:     uv,
		grow:   style.GetFlexGrow(),
		shrink: style.GetFlexShrink(),
		align:  style.GetAlignSelf(),
	}
	if it.align == "auto" {
		it.align = ctx.tree.Node(child.Parent).Style.GetAlignItems()
	}

	sum := func(ms ...pr.MaybeFloat) (s pr.Float, auto int) {
		for _, m := range ms {
			if m == pr.AutoF {
				auto++
			} else {
				s += m.V()
			}
		}
		return s, auto
	}
	if row {
		it.mainMargins, it.autoMainMargins = sum(uv.marginLeft, uv.marginRight)
		it.crossMargins, it.autoCrossMargins = sum(uv.marginTop, uv.marginBottom)
		it.mainBP, it.crossBP = uv.horizontalExtras(), uv.verticalExtras()
		it.min, it.max = uv.minWidth, uv.maxWidth
		if style.GetMinWidth().IsAuto() {
			// The automatic minimum size of a flex item is its
			// min-content size.
			// https://www.w3.org/TR/css-flexbox-1/#min-size-auto
			it.min = child.IntrinsicMinWidth
		}
		it.crossSpecified = uv.height
	} else {
		it.mainMargins, it.autoMainMargins = sum(uv.marginTop, uv.marginBottom)
		it.crossMargins, it.autoCrossMargins = sum(uv.marginLeft, uv.marginRight)
		it.mainBP, it.crossBP = uv.verticalExtras(), uv.horizontalExtras()
		it.min, it.max = uv.minHeight, uv.maxHeight
		it.crossSpecified = uv.width
	}

	// In a column container the inline (cross) size does not depend on
	// flexing and is resolved now, it is needed to measure the base size.
	if !row {
		it.cross = ctx.columnItemWidth(child, &uv, containerWidth, it)
	}

	it.base = ctx.flexBaseSize(id, &uv, c, row, it)
	return it
}

// crossStartMarginAuto reports whether the margin on the cross start side
// of the item is auto.
func crossStartMarginAuto(it *flexItem, row bool) bool {
	if row {
		return it.uv.marginTop == pr.AutoF
	}
	return it.uv.marginLeft == pr.AutoF
}

// flexBaseSize resolves the flex base size of one item.
// https://www.w3.org/TR/css-flexbox-1/#flex-base-size
func (ctx *layoutContext) flexBaseSize(id bo.NodeID, uv *usedValues, c Constraint, row bool, it flexItem) pr.Float {
	child := ctx.tree.Node(id)
	style := child.Style
	basis := style.GetFlexBasis()
	mainAvail := c.Width
	if !row {
		mainAvail = c.Height
	}

	if !basis.IsAuto() && basis.S != "content" {
		var indet bool
		if b, ok := resolveLength(basis, mainAvail, &indet).(pr.Float); ok {
			if style.GetBoxSizing() == "border-box" {
				b = pr.Max(0, b-it.mainBP)
			}
			return b
		}
	}
	// An auto basis defers to the main size property.
	if basis.IsAuto() {
		main := uv.width
		if !row {
			main = uv.height
		}
		if m, ok := main.(pr.Float); ok {
			return m
		}
	}
	// Content sized.
	if row {
		return child.IntrinsicMaxWidth
	}
	ctx.layoutItemBox(id, *uv, c, 0, 0, it.cross, pr.AutoF)
	return child.Box.Height
}

// columnItemWidth resolves the inline size of an item in a column
// container, where the default stretch alignment fills the line.
func (ctx *layoutContext) columnItemWidth(child *bo.LayoutNode, uv *usedValues, containerWidth pr.Float, it flexItem) pr.Float {
	if w, ok := uv.width.(pr.Float); ok {
		return uv.clampWidth(w)
	}
	avail := pr.Max(0, containerWidth-it.crossBP-it.crossMargins)
	if it.align == "stretch" && it.autoCrossMargins == 0 {
		return uv.clampWidth(avail)
	}
	// Shrink to fit.
	return uv.clampWidth(pr.Min(pr.Max(child.IntrinsicMinWidth, avail), child.IntrinsicMaxWidth))
}

// resolveFlexibleLengths distributes the main space left in one line among
// its items: grow when positive, shrink (scaled by base size) when negative.
// Items reaching a min or max limit are frozen and the loop redistributes
// among the rest until no new item freezes.
// https://www.w3.org/TR/css-flexbox-1/#resolve-flexible-lengths
func resolveFlexibleLengths(items []*flexItem, space pr.Float) {
	var sumHyp pr.Float
	for _, it := range items {
		sumHyp += it.hypothetical()
	}
	grow := space > sumHyp

	for _, it := range items {
		it.target = it.hypothetical()
		factor := it.grow
		if !grow {
			factor = it.shrink
		}
		// Inflexible items, and items whose base already violates the
		// relevant limit, are frozen at their hypothetical size.
		it.frozen = factor == 0 ||
			(grow && it.base > it.target) ||
			(!grow && it.base < it.target)
	}

	for iter := 0; ; iter++ {
		if iter >= maxSizingIterations {
			logger.WarningLogger.Printf("flex sizing did not converge after %d iterations", maxSizingIterations)
			return
		}
		free := space
		var unfrozen []*flexItem
		var sumFactors pr.Float
		for _, it := range items {
			if it.frozen {
				free -= it.target
			} else {
				free -= it.base
				unfrozen = append(unfrozen, it)
				if grow {
					sumFactors += it.grow
				} else {
					sumFactors += it.shrink * it.base
				}
			}
		}
		if len(unfrozen) == 0 {
			return
		}
		if sumFactors <= 0 {
			for _, it := range unfrozen {
				it.target = it.hypothetical()
				it.frozen = true
			}
			return
		}

		var totalViolation pr.Float
		for _, it := range unfrozen {
			var t pr.Float
			if grow {
				t = it.base + free*it.grow/sumFactors
			} else {
				t = it.base + free*it.shrink*it.base/sumFactors
			}
			clamped := pr.Clamp(t, it.min, it.max)
			it.violation = clamped - t
			it.target = clamped
			totalViolation += it.violation
		}
		switch {
		case totalViolation > 0:
			for _, it := range unfrozen {
				if it.violation > 0 {
					it.frozen = true
				}
			}
		case totalViolation < 0:
			for _, it := range unfrozen {
				if it.violation < 0 {
					it.frozen = true
				}
			}
		default:
			for _, it := range unfrozen {
				it.frozen = true
			}
			return
		}
	}
}

// layoutItemBox lays out a flex or grid item with imposed content sizes,
// its margin box corner at (x, y). Auto margins must already be resolved in
// [uv]; [h] may be [pr.AutoF] when measuring the natural height.
func (ctx *layoutContext) layoutItemBox(id bo.NodeID, uv usedValues, c Constraint, x, y pr.Float, w pr.Float, h pr.MaybeFloat) {
	node := ctx.tree.Node(id)
	box := &bo.BoxResult{Width: w}
	uv.fillBox(box)
	box.PositionX = x + uv.marginLeft.V() + uv.borderLeft + uv.paddingLeft
	box.PositionY = y + uv.marginTop.V() + uv.borderTop + uv.paddingTop
	node.Box = box

	if node.Mode == bo.Replaced {
		_, nh := replacedSize(node, &uv)
		if hh, ok := h.(pr.Float); ok {
			nh = hh
		}
		box.Height = pr.Max(0, nh)
		box.Baseline = box.PositionY + box.Height
		return
	}

	contentHeight, baseline, overflow := ctx.contentLayout(id, w, h, box.PositionX, box.PositionY, false)
	height := contentHeight
	if hh, ok := h.(pr.Float); ok {
		height = hh
	}
	height = pr.Max(0, height)
	box.Height = height
	box.Overflow = overflow || contentHeight > height
	if b, ok := baseline.(pr.Float); ok {
		box.Baseline = b
	} else {
		box.Baseline = box.PositionY + height
	}
}

// distributeFree converts a distribution keyword into a leading offset and
// an extra spacing between consecutive boxes. Distributed spacing keywords
// fall back to the start when the free space is negative.
func distributeFree(keyword pr.String, free pr.Float, count int) (lead, between pr.Float) {
	if count == 0 {
		return 0, 0
	}
	if free < 0 && strings.HasPrefix(string(keyword), "space") {
		return 0, 0
	}
	switch keyword {
	case "flex-end", "end":
		return free, 0
	case "center":
		return free / 2, 0
	case "space-between":
		if count > 1 {
			return 0, free / pr.Float(count-1)
		}
		return 0, 0
	case "space-around":
		s := free / pr.Float(count)
		return s / 2, s
	case "space-evenly":
		s := free / pr.Float(count+1)
		return s, s
	default:
		return 0, 0
	}
}

// resolveGap returns the used value of a gap, where normal computes to zero.
func resolveGap(v pr.DimOrS, avail AvailableSize) pr.Float {
	if v.S != "" {
		return 0
	}
	var indet bool
	return resolveLength(v, avail, &indet).V()
}

// resolveItemAutoMargins replaces the auto margins of an item by their used
// values, so that its BoxResult records resolved numbers.
func resolveItemAutoMargins(it *flexItem, row bool, mainAutoAdd, crossFree pr.Float) {
	crossAdd := pr.Float(0)
	if it.autoCrossMargins > 0 && crossFree > 0 {
		crossAdd = crossFree / pr.Float(it.autoCrossMargins)
	}
	resolve := func(m pr.MaybeFloat, v pr.Float) pr.MaybeFloat {
		if m == pr.AutoF {
			return v
		}
		return m
	}
	uv := &it.uv
	if row {
		uv.marginLeft = resolve(uv.marginLeft, mainAutoAdd)
		uv.marginRight = resolve(uv.marginRight, mainAutoAdd)
		uv.marginTop = resolve(uv.marginTop, crossAdd)
		uv.marginBottom = resolve(uv.marginBottom, crossAdd)
	} else {
		uv.marginTop = resolve(uv.marginTop, mainAutoAdd)
		uv.marginBottom = resolve(uv.marginBottom, mainAutoAdd)
		uv.marginLeft = resolve(uv.marginLeft, crossAdd)
		uv.marginRight = resolve(uv.marginRight, crossAdd)
	}
}
