package layout

// Resolve percentages into used values.

import (
	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
)

// usedValues holds the used values of one box's sizing properties, resolved
// against its containing block and normalized to the content box.
type usedValues struct {
	// width and height are [pr.AutoF] for auto, content keywords, or an
	// indeterminate percentage.
	width, height pr.MaybeFloat

	minWidth, minHeight pr.Float
	// maxWidth and maxHeight are [pr.Inf] for none.
	maxWidth, maxHeight pr.Float

	// Auto margins are kept as [pr.AutoF], resolved later by the flow or
	// alignment step owning the leftover space.
	marginTop, marginRight, marginBottom, marginLeft pr.MaybeFloat

	paddingTop, paddingRight, paddingBottom, paddingLeft pr.Float
	borderTop, borderRight, borderBottom, borderLeft     pr.Float

	// indeterminate records that at least one percentage was resolved
	// against an indefinite dimension and defaulted.
	indeterminate bool
}

// resolveLength resolves one length or percentage against an axis of the
// containing block. Keywords resolve to [pr.AutoF]; a percentage against a
// non definite axis resolves to [pr.AutoF] and sets *indeterminate, the
// documented default for this CSS edge case.
func resolveLength(v pr.DimOrS, avail AvailableSize, indeterminate *bool) pr.MaybeFloat {
	switch {
	case v.S != "":
		return pr.AutoF
	case v.Unit == pr.Perc:
		if !avail.IsDefinite() {
			*indeterminate = true
			return pr.AutoF
		}
		return avail.Value * v.Value / 100
	default:
		return v.Value
	}
}

// resolveMaxLength is resolveLength with none mapping to [pr.Inf].
func resolveMaxLength(v pr.DimOrS, avail AvailableSize, indeterminate *bool) pr.Float {
	r := resolveLength(v, avail, indeterminate)
	if r == pr.AutoF {
		return pr.Inf
	}
	return r.V()
}

// resolveUsedValues resolves the sizing properties of [style] against the
// containing block [c]. Percentage margins and paddings resolve against the
// inline size of the containing block, including the vertical ones.
// https://www.w3.org/TR/CSS21/box.html#margin-properties
func resolveUsedValues(style pr.Properties, c Constraint) usedValues {
	var uv usedValues

	var margins [4]pr.MaybeFloat
	var paddings, borders [4]pr.Float
	for s := 0; s < 4; s++ {
		side := pr.KnownProp(s)
		margins[s] = resolveLength(style.Get(pr.PMarginTop+side).(pr.DimOrS), c.Width, &uv.indeterminate)
		paddings[s] = resolveLength(style.Get(pr.PPaddingTop+side).(pr.DimOrS), c.Width, &uv.indeterminate).V()
		borders[s] = resolveLength(style.Get(pr.PBorderTopWidth+side).(pr.DimOrS), c.Width, &uv.indeterminate).V()
	}
	uv.marginTop, uv.marginRight, uv.marginBottom, uv.marginLeft = margins[0], margins[1], margins[2], margins[3]
	uv.paddingTop, uv.paddingRight, uv.paddingBottom, uv.paddingLeft = paddings[0], paddings[1], paddings[2], paddings[3]
	uv.borderTop, uv.borderRight, uv.borderBottom, uv.borderLeft = borders[0], borders[1], borders[2], borders[3]

	uv.width = resolveLength(style.GetWidth(), c.Width, &uv.indeterminate)
	uv.height = resolveLength(style.GetHeight(), c.Height, &uv.indeterminate)
	uv.minWidth = resolveLength(style.GetMinWidth(), c.Width, &uv.indeterminate).V()
	uv.minHeight = resolveLength(style.GetMinHeight(), c.Height, &uv.indeterminate).V()
	uv.maxWidth = resolveMaxLength(style.GetMaxWidth(), c.Width, &uv.indeterminate)
	uv.maxHeight = resolveMaxLength(style.GetMaxHeight(), c.Height, &uv.indeterminate)

	// Normalize border-box sizes to content-box before anything is handed
	// to children.
	// https://www.w3.org/TR/css-sizing-3/#box-sizing
	if style.GetBoxSizing() == "border-box" {
		hExtra, vExtra := uv.horizontalExtras(), uv.verticalExtras()
		if w, ok := uv.width.(pr.Float); ok {
			uv.width = pr.Max(0, w-hExtra)
		}
		if h, ok := uv.height.(pr.Float); ok {
			uv.height = pr.Max(0, h-vExtra)
		}
		uv.minWidth = pr.Max(0, uv.minWidth-hExtra)
		uv.minHeight = pr.Max(0, uv.minHeight-vExtra)
		uv.maxWidth = pr.Max(0, uv.maxWidth-hExtra)
		uv.maxHeight = pr.Max(0, uv.maxHeight-vExtra)
	}
	return uv
}

// horizontalExtras returns the width added around the content box by
// paddings and borders.
func (uv *usedValues) horizontalExtras() pr.Float {
	return uv.paddingLeft + uv.paddingRight + uv.borderLeft + uv.borderRight
}

func (uv *usedValues) verticalExtras() pr.Float {
	return uv.paddingTop + uv.paddingBottom + uv.borderTop + uv.borderBottom
}

// clampWidth applies the min and max width constraints; when they conflict,
// the min wins.
// https://www.w3.org/TR/CSS21/visudet.html#min-max-widths
func (uv *usedValues) clampWidth(w pr.Float) pr.Float {
	return pr.Max(uv.minWidth, pr.Min(w, uv.maxWidth))
}

func (uv *usedValues) clampHeight(h pr.Float) pr.Float {
	return pr.Max(uv.minHeight, pr.Min(h, uv.maxHeight))
}

// fillBox copies the resolved edges into [box]. Auto margins must have been
// resolved by the caller beforehand; any remaining [pr.AutoF] copies as zero.
func (uv *usedValues) fillBox(box *bo.BoxResult) {
	box.MarginTop, box.MarginRight = uv.marginTop.V(), uv.marginRight.V()
	box.MarginBottom, box.MarginLeft = uv.marginBottom.V(), uv.marginLeft.V()
	box.PaddingTop, box.PaddingRight = uv.paddingTop, uv.paddingRight
	box.PaddingBottom, box.PaddingLeft = uv.paddingBottom, uv.paddingLeft
	box.BorderTopWidth, box.BorderRightWidth = uv.borderTop, uv.borderRight
	box.BorderBottomWidth, box.BorderLeftWidth = uv.borderBottom, uv.borderLeft
	box.Indeterminate = uv.indeterminate
}

// verticalMargins returns the used top and bottom margins of a box in normal
// flow, where auto vertical margins compute to zero.
// https://www.w3.org/TR/CSS21/visudet.html#normal-block
func verticalMargins(style pr.Properties, c Constraint) (top, bottom pr.Float) {
	var indet bool
	top = resolveLength(style.GetMarginTop(), c.Width, &indet).V()
	bottom = resolveLength(style.GetMarginBottom(), c.Width, &indet).V()
	return top, bottom
}
