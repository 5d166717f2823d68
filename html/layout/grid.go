package layout

// Grid container layout: item placement, then per-axis track sizing.
// https://www.w3.org/TR/css-grid-1/#layout-algorithm

import (
	"sort"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/logger"
	"github.com/velora-engine/velora/utils"
)

// gridItem is the transient placement of one item, discarded when the
// container's layout call returns.
type gridItem struct {
	id               bo.NodeID
	row, col         int // first spanned cell, 0-based
	rowSpan, colSpan int
	uv               usedValues
}

// track is the transient sizing state of one grid row or column.
type track struct {
	base  pr.Float // current size
	limit pr.Float // growth limit, Inf when unbounded
	flex  pr.Float // fr factor, 0 for inflexible tracks

	sizing [2]pr.DimOrS // min and max sizing functions
}

// contentSized reports whether the track grows to fit its items.
func (t *track) contentSized() bool {
	max := t.sizing[1]
	return max.S == "auto" || max.S == "min-content" || max.S == "max-content"
}

func (ctx *layoutContext) gridContentLayout(id bo.NodeID, width pr.Float, height pr.MaybeFloat, cx, cy pr.Float) (pr.Float, pr.MaybeFloat, bool) {
	node := ctx.tree.Node(id)
	style := node.Style

	c := Constraint{Width: DefiniteSize(width), Height: IndefiniteSize}
	if h, ok := height.(pr.Float); ok {
		c.Height = DefiniteSize(h)
	}
	colGap := resolveGap(style.GetColumnGap(), DefiniteSize(width))
	rowGap := resolveGap(style.GetRowGap(), c.Height)

	if len(node.Children) == 0 {
		var total pr.Float
		for _, dims := range style.GetGridTemplateRows() {
			var indet bool
			total += resolveLength(dims.SizingFunctions()[1], c.Height, &indet).V()
		}
		return total, pr.AutoF, false
	}

	items := ctx.placeGridItems(node, c)

	// Column and row counts follow the explicit templates, grown by the
	// implicit tracks the placement required.
	colCount, rowCount := len(style.GetGridTemplateColumns()), len(style.GetGridTemplateRows())
	for i := range items {
		it := &items[i]
		colCount = utils.MaxInt(colCount, it.col+it.colSpan)
		rowCount = utils.MaxInt(rowCount, it.row+it.rowSpan)
	}

	// Columns are sized first, from the intrinsic widths of the items;
	// rows then see items already constrained to their column width.
	cols := buildTracks(style.GetGridTemplateColumns(), style.GetGridAutoColumns(), colCount, c.Width)
	ctx.sizeTracks(cols, items, c.Width, colGap, true, nil)

	rowHeights := make([]pr.Float, len(items))
	for i := range items {
		it := &items[i]
		w := cellSpanSize(cols, it.col, it.colSpan, colGap)
		itemW := ctx.gridItemWidth(it, w)
		ctx.layoutItemBox(it.id, it.uv, c, cx, cy, itemW, pr.AutoF)
		rowHeights[i] = ctx.tree.Node(it.id).Box.MarginHeight()
	}
	rows := buildTracks(style.GetGridTemplateRows(), style.GetGridAutoRows(), rowCount, c.Height)
	ctx.sizeTracks(rows, items, c.Height, rowGap, false, rowHeights)

	// Final pass: each item fills its cell area, stretched on the axes
	// left auto.
	overflow := false
	baseline := pr.MaybeFloat(pr.AutoF)
	for i := range items {
		it := &items[i]
		x := cx + trackOffset(cols, it.col, colGap)
		y := cy + trackOffset(rows, it.row, rowGap)
		cellW := cellSpanSize(cols, it.col, it.colSpan, colGap)
		cellH := cellSpanSize(rows, it.row, it.rowSpan, rowGap)

		w := ctx.gridItemWidth(it, cellW)
		var h pr.Float
		if hh, ok := it.uv.height.(pr.Float); ok {
			h = it.uv.clampHeight(hh)
		} else {
			h = pr.Max(0, cellH-it.uv.verticalExtras()-it.uv.marginTop.V()-it.uv.marginBottom.V())
		}
		resolveGridAutoMargins(&it.uv, cellW, cellH, w, h)
		ctx.layoutItemBox(it.id, it.uv, c, x, y, w, h)

		box := ctx.tree.Node(it.id).Box
		if box.Overflow {
			overflow = true
		}
		if baseline == pr.AutoF && it.row == 0 {
			baseline = box.Baseline
		}
	}

	totalWidth := cellSpanSize(cols, 0, len(cols), colGap)
	if totalWidth > width {
		overflow = true
	}
	contentHeight := cellSpanSize(rows, 0, len(rows), rowGap)

	ctx.recordGridPaintOrder(node, items)
	return contentHeight, baseline, overflow
}

// placeGridItems computes the cell of every item: explicitly placed items
// first, the rest auto-placed by scanning for the first free area, growing
// the implicit grid when needed.
// https://www.w3.org/TR/css-grid-1/#auto-placement-algo
func (ctx *layoutContext) placeGridItems(node *bo.LayoutNode, c Constraint) []gridItem {
	style := node.Style
	explicitCols := utils.MaxInt(len(style.GetGridTemplateColumns()), 1)
	explicitRows := len(style.GetGridTemplateRows())
	rowFlow := style.GetGridAutoFlow() != "column"

	items := make([]gridItem, 0, len(node.Children))
	occupied := map[[2]int]bool{}
	occupy := func(it *gridItem) {
		for r := it.row; r < it.row+it.rowSpan; r++ {
			for col := it.col; col < it.col+it.colSpan; col++ {
				occupied[[2]int{r, col}] = true
			}
		}
	}
	free := func(row, col, rowSpan, colSpan int) bool {
		for r := row; r < row+rowSpan; r++ {
			for cc := col; cc < col+colSpan; cc++ {
				if occupied[[2]int{r, cc}] {
					return false
				}
			}
		}
		return true
	}

	var deferred []gridItem
	for _, childID := range node.Children {
		child := ctx.tree.Node(childID)
		it := gridItem{id: childID, rowSpan: 1, colSpan: 1, uv: resolveUsedValues(child.Style, c)}

		colPos, colSpan, colOK := spanFromLines(child.Style.GetGridColumnStart(), child.Style.GetGridColumnEnd(), explicitCols)
		rowPos, rowSpan, rowOK := spanFromLines(child.Style.GetGridRowStart(), child.Style.GetGridRowEnd(), explicitRows)
		if colSpan < 1 || rowSpan < 1 || (colOK && colPos < 0) || (rowOK && rowPos < 0) {
			logger.WarningLogger.Printf("unresolvable grid placement for <%s>, auto-placing", child.ElementTag())
			colOK, rowOK = false, false
			colSpan, rowSpan = utils.MaxInt(colSpan, 1), utils.MaxInt(rowSpan, 1)
		}
		it.colSpan, it.rowSpan = colSpan, rowSpan

		if colOK && rowOK {
			it.col, it.row = colPos, rowPos
			occupy(&it)
			items = append(items, it)
			continue
		}
		if colOK {
			it.col = colPos
		} else {
			it.col = -1
		}
		if rowOK {
			it.row = rowPos
		} else {
			it.row = -1
		}
		deferred = append(deferred, it)
	}

	// Auto placement scans row-major (or column-major) for the first area
	// large enough.
	colCount := explicitCols
	if !rowFlow {
		for i := range items {
			colCount = utils.MaxInt(colCount, items[i].col+items[i].colSpan)
		}
	}
	for i := range deferred {
		it := deferred[i]
		switch {
		case it.row >= 0: // locked row, scan columns
			for col := 0; ; col++ {
				if free(it.row, col, it.rowSpan, it.colSpan) {
					it.col = col
					break
				}
			}
		case it.col >= 0: // locked column, scan rows
			for r := 0; ; r++ {
				if free(r, it.col, it.rowSpan, it.colSpan) {
					it.row = r
					break
				}
			}
		case rowFlow:
			placed := false
			for r := 0; !placed; r++ {
				for col := 0; col+it.colSpan <= utils.MaxInt(colCount, it.colSpan); col++ {
					if free(r, col, it.rowSpan, it.colSpan) {
						it.row, it.col = r, col
						placed = true
						break
					}
				}
			}
		default: // column flow
			rowCount := utils.MaxInt(explicitRows, 1)
			for r := range items {
				rowCount = utils.MaxInt(rowCount, items[r].row+items[r].rowSpan)
			}
			placed := false
			for col := 0; !placed; col++ {
				for r := 0; r+it.rowSpan <= utils.MaxInt(rowCount, it.rowSpan); r++ {
					if free(r, col, it.rowSpan, it.colSpan) {
						it.row, it.col = r, col
						placed = true
						break
					}
				}
			}
		}
		occupy(&it)
		items = append(items, it)
	}
	return items
}

// spanFromLines resolves a start and end grid line into a 0-based track and
// a span. definite is false when the item must be auto-placed on this axis;
// a non positive span reports a malformed placement.
func spanFromLines(start, end pr.GridLine, explicit int) (pos, span int, definite bool) {
	line := func(gl pr.GridLine) (int, bool) {
		if gl.IsAuto() || gl.IsSpan() || gl.Val == 0 {
			return 0, false
		}
		v := gl.Val
		if v < 0 {
			// Negative lines count from the end of the explicit grid.
			v = explicit + 2 + v
		}
		return v, true
	}
	s, sOK := line(start)
	e, eOK := line(end)
	switch {
	case sOK && eOK:
		return s - 1, e - s, true
	case sOK && end.IsSpan():
		return s - 1, end.Val, true
	case sOK:
		return s - 1, 1, true
	case eOK && start.IsSpan():
		return e - 1 - start.Val, start.Val, true
	case eOK:
		return e - 2, 1, true
	case start.IsSpan():
		return 0, start.Val, false
	case end.IsSpan():
		return 0, end.Val, false
	default:
		return 0, 1, false
	}
}

// buildTracks initializes the sizing state of [count] tracks: the template
// ones first, then implicit tracks cycling through the auto list.
func buildTracks(template pr.GridTemplate, auto pr.GridAuto, count int, avail AvailableSize) []track {
	iter := auto.Cycle()
	tracks := make([]track, count)
	for i := range tracks {
		var dims pr.GridDims
		if i < len(template) {
			dims = template[i]
		} else {
			dims = iter.Next()
		}
		t := &tracks[i]
		t.sizing = dims.SizingFunctions()

		var indet bool
		if min, ok := resolveLength(t.sizing[0], avail, &indet).(pr.Float); ok {
			t.base = min
		}
		t.limit = pr.Inf
		max := t.sizing[1]
		switch {
		case max.Unit == pr.Fr && max.S == "":
			t.flex = max.Value
		case max.S == "":
			if v, ok := resolveLength(max, avail, &indet).(pr.Float); ok {
				t.limit = v
			}
		}
	}
	return tracks
}

// sizeTracks runs the track sizing algorithm for one axis: content-sized
// tracks grow to fit their items, spanning items distribute their excess
// over the spanned tracks, and the remaining free space goes to flexible
// tracks in proportion to their factors.
// [contributions] carries the measured outer heights when sizing rows; for
// columns the intrinsic widths are used instead.
func (ctx *layoutContext) sizeTracks(tracks []track, items []gridItem, avail AvailableSize, gap pr.Float, columns bool, contributions []pr.Float) {
	span := func(it *gridItem) (int, int) {
		if columns {
			return it.col, it.colSpan
		}
		return it.row, it.rowSpan
	}
	contribution := func(i int) pr.Float {
		if columns {
			_, max := outerIntrinsic(ctx.tree.Node(items[i].id))
			return max
		}
		return contributions[i]
	}

	// Single-track items first, then spanning items by increasing span.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		_, sa := span(&items[order[a]])
		_, sb := span(&items[order[b]])
		return sa < sb
	})

	for _, i := range order {
		it := &items[i]
		start, n := span(it)
		if start+n > len(tracks) {
			continue
		}
		need := contribution(i)
		if n == 1 {
			t := &tracks[start]
			if t.contentSized() {
				t.base = pr.Max(t.base, need)
			}
			continue
		}
		// A spanning item distributes the part of its size not already
		// covered by the spanned tracks and gaps.
		have := cellSpanSize(tracks, start, n, gap)
		if need > have {
			distributeToTracks(tracks[start:start+n], need-have)
		}
	}

	// Flexible tracks share the free space, like flex-grow does.
	if !avail.IsDefinite() {
		for i := range tracks {
			t := &tracks[i]
			if t.flex > 0 {
				var maxContribution pr.Float
				for j := range items {
					start, n := span(&items[j])
					if n == 1 && start == i {
						maxContribution = pr.Max(maxContribution, contribution(j))
					}
				}
				t.base = pr.Max(t.base, maxContribution)
			}
		}
		return
	}
	var used, sumFlex pr.Float
	for i := range tracks {
		if i > 0 {
			used += gap
		}
		used += tracks[i].base
		sumFlex += tracks[i].flex
	}
	if free := avail.Value - used; free > 0 && sumFlex > 0 {
		for i := range tracks {
			t := &tracks[i]
			if t.flex > 0 {
				t.base += free * t.flex / sumFlex
			}
		}
	}
}

// distributeToTracks grows the given tracks by [amount] in equal shares,
// freezing tracks at their growth limit and redistributing the rest, the
// same technique flexbox uses for flexible lengths.
func distributeToTracks(tracks []track, amount pr.Float) {
	grown := make([]bool, len(tracks))
	for iter := 0; amount > 0; iter++ {
		if iter >= maxSizingIterations {
			logger.WarningLogger.Printf("grid track sizing did not converge after %d iterations", maxSizingIterations)
			return
		}
		var open []int
		for i := range tracks {
			if !grown[i] && tracks[i].contentSized() && tracks[i].base < tracks[i].limit {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			// No content-sized track left: flexible tracks will take the
			// space at the free space step, otherwise the last spanned
			// track absorbs the rest.
			for i := range tracks {
				if tracks[i].flex > 0 {
					return
				}
			}
			tracks[len(tracks)-1].base += amount
			return
		}
		share := amount / pr.Float(len(open))
		for _, i := range open {
			t := &tracks[i]
			add := share
			if t.base+add > t.limit {
				add = t.limit - t.base
				grown[i] = true
			}
			t.base += add
			amount -= add
		}
		if amount <= 0 {
			return
		}
	}
}

// gridItemWidth resolves the inline size of an item inside a cell of width
// [cellW]: its own width when specified, stretched to the cell otherwise.
func (ctx *layoutContext) gridItemWidth(it *gridItem, cellW pr.Float) pr.Float {
	if w, ok := it.uv.width.(pr.Float); ok {
		return it.uv.clampWidth(w)
	}
	avail := cellW - it.uv.horizontalExtras() - it.uv.marginLeft.V() - it.uv.marginRight.V()
	return it.uv.clampWidth(pr.Max(0, avail))
}

// resolveGridAutoMargins centers an item in its cell through auto margins,
// the leftover of the cell not taken by the used sizes.
func resolveGridAutoMargins(uv *usedValues, cellW, cellH, w, h pr.Float) {
	freeW := cellW - w - uv.horizontalExtras()
	freeH := cellH - h - uv.verticalExtras()
	uv.marginLeft, uv.marginRight = splitAutoPair(uv.marginLeft, uv.marginRight, freeW)
	uv.marginTop, uv.marginBottom = splitAutoPair(uv.marginTop, uv.marginBottom, freeH)
}

func splitAutoPair(a, b pr.MaybeFloat, free pr.Float) (pr.MaybeFloat, pr.MaybeFloat) {
	autoA, autoB := a == pr.AutoF, b == pr.AutoF
	if !autoA && !autoB {
		return a, b
	}
	free -= a.V() + b.V()
	free = pr.Max(0, free)
	switch {
	case autoA && autoB:
		return free / 2, free / 2
	case autoA:
		return free, b
	default:
		return a, free
	}
}

// trackOffset returns the offset of the start edge of track [i].
func trackOffset(tracks []track, i int, gap pr.Float) pr.Float {
	var off pr.Float
	for j := 0; j < i; j++ {
		off += tracks[j].base + gap
	}
	return off
}

// cellSpanSize returns the size of [n] consecutive tracks, gaps included.
func cellSpanSize(tracks []track, start, n int, gap pr.Float) pr.Float {
	var size pr.Float
	for i := start; i < start+n && i < len(tracks); i++ {
		if i > start {
			size += gap
		}
		size += tracks[i].base
	}
	return size
}

// recordGridPaintOrder stores the visual (row-major) traversal order when
// placement reordered the items.
func (ctx *layoutContext) recordGridPaintOrder(node *bo.LayoutNode, items []gridItem) {
	ordered := make([]int, len(items))
	for i := range ordered {
		ordered[i] = i
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		ia, ib := &items[ordered[a]], &items[ordered[b]]
		if ia.row != ib.row {
			return ia.row < ib.row
		}
		return ia.col < ib.col
	})
	reordered := false
	out := make([]bo.NodeID, len(items))
	for i, idx := range ordered {
		out[i] = items[idx].id
		if idx != i {
			reordered = true
		}
	}
	if reordered {
		node.PaintOrder = out
	}
}
