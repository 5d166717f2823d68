// Package properties defines the computed values consumed by the layout
// engine. The cascade and style computation happen upstream: a style
// resolver hands the builder one immutable [Properties] record per element,
// and layout only ever reads it.
package properties

import "github.com/velora-engine/velora/utils"

type Fl = utils.Fl

// CssProperty is the final form of a css input, a.k.a. the computed value.
type CssProperty interface {
	isCssProperty()
}

// KnownProp efficiently encode a known CSS property
type KnownProp uint8

func (p KnownProp) String() string { return propsNames[p] }

const (
	_ KnownProp = iota
	PDisplay
	PWidth
	PHeight
	PMinWidth
	PMinHeight
	PMaxWidth
	PMaxHeight

	// the following properties are grouped by side,
	// in the [top, right, bottom, left] order, so that
	// for a side index s (0 to 3), the property is PMarginTop + s
	PMarginTop
	PMarginRight
	PMarginBottom
	PMarginLeft
	PPaddingTop
	PPaddingRight
	PPaddingBottom
	PPaddingLeft
	PBorderTopWidth
	PBorderRightWidth
	PBorderBottomWidth
	PBorderLeftWidth

	PBoxSizing
	POverflow
	PDirection

	PFlexDirection
	PFlexWrap
	PFlexGrow
	PFlexShrink
	PFlexBasis
	PAlignItems
	PAlignSelf
	PAlignContent
	PJustifyContent
	POrder
	PRowGap
	PColumnGap

	PGridTemplateRows
	PGridTemplateColumns
	PGridAutoRows
	PGridAutoColumns
	PGridAutoFlow
	PGridRowStart
	PGridRowEnd
	PGridColumnStart
	PGridColumnEnd

	PFontSize
	PFontWeight
	PLineHeight
	PVerticalAlign

	NbProperties
)

var propsNames = [NbProperties]string{
	PDisplay:   "display",
	PWidth:     "width",
	PHeight:    "height",
	PMinWidth:  "min-width",
	PMinHeight: "min-height",
	PMaxWidth:  "max-width",
	PMaxHeight: "max-height",

	PMarginTop:         "margin-top",
	PMarginRight:       "margin-right",
	PMarginBottom:      "margin-bottom",
	PMarginLeft:        "margin-left",
	PPaddingTop:        "padding-top",
	PPaddingRight:      "padding-right",
	PPaddingBottom:     "padding-bottom",
	PPaddingLeft:       "padding-left",
	PBorderTopWidth:    "border-top-width",
	PBorderRightWidth:  "border-right-width",
	PBorderBottomWidth: "border-bottom-width",
	PBorderLeftWidth:   "border-left-width",

	PBoxSizing: "box-sizing",
	POverflow:  "overflow",
	PDirection: "direction",

	PFlexDirection:  "flex-direction",
	PFlexWrap:       "flex-wrap",
	PFlexGrow:       "flex-grow",
	PFlexShrink:     "flex-shrink",
	PFlexBasis:      "flex-basis",
	PAlignItems:     "align-items",
	PAlignSelf:      "align-self",
	PAlignContent:   "align-content",
	PJustifyContent: "justify-content",
	POrder:          "order",
	PRowGap:         "row-gap",
	PColumnGap:      "column-gap",

	PGridTemplateRows:    "grid-template-rows",
	PGridTemplateColumns: "grid-template-columns",
	PGridAutoRows:        "grid-auto-rows",
	PGridAutoColumns:     "grid-auto-columns",
	PGridAutoFlow:        "grid-auto-flow",
	PGridRowStart:        "grid-row-start",
	PGridRowEnd:          "grid-row-end",
	PGridColumnStart:     "grid-column-start",
	PGridColumnEnd:       "grid-column-end",

	PFontSize:      "font-size",
	PFontWeight:    "font-weight",
	PLineHeight:    "line-height",
	PVerticalAlign: "vertical-align",
}
