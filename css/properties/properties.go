package properties

// Properties is the computed style record for one element: a mapping from
// property to computed value. Missing entries default to [InitialValues].
type Properties map[KnownProp]CssProperty

// InitialValues stores the default values of the supported CSS properties.
var InitialValues = Properties{
	PDisplay:   String("inline"),
	PWidth:     SToV("auto"),
	PHeight:    SToV("auto"),
	PMinWidth:  SToV("auto"),
	PMinHeight: SToV("auto"),
	PMaxWidth:  SToV("none"),
	PMaxHeight: SToV("none"),

	PMarginTop:         ZeroPixels.ToValue(),
	PMarginRight:       ZeroPixels.ToValue(),
	PMarginBottom:      ZeroPixels.ToValue(),
	PMarginLeft:        ZeroPixels.ToValue(),
	PPaddingTop:        ZeroPixels.ToValue(),
	PPaddingRight:      ZeroPixels.ToValue(),
	PPaddingBottom:     ZeroPixels.ToValue(),
	PPaddingLeft:       ZeroPixels.ToValue(),
	PBorderTopWidth:    ZeroPixels.ToValue(),
	PBorderRightWidth:  ZeroPixels.ToValue(),
	PBorderBottomWidth: ZeroPixels.ToValue(),
	PBorderLeftWidth:   ZeroPixels.ToValue(),

	PBoxSizing: String("content-box"),
	POverflow:  String("visible"),
	PDirection: String("ltr"),

	PFlexDirection:  String("row"),
	PFlexWrap:       String("nowrap"),
	PFlexGrow:       Float(0),
	PFlexShrink:     Float(1),
	PFlexBasis:      SToV("auto"),
	PAlignItems:     String("stretch"),
	PAlignSelf:      String("auto"),
	PAlignContent:   String("stretch"),
	PJustifyContent: String("flex-start"),
	POrder:          Int(0),
	PRowGap:         SToV("normal"),
	PColumnGap:      SToV("normal"),

	PGridTemplateRows:    GridTemplate(nil),
	PGridTemplateColumns: GridTemplate(nil),
	PGridAutoRows:        GridAuto{NewGridDimsValue(SToV("auto"))},
	PGridAutoColumns:     GridAuto{NewGridDimsValue(SToV("auto"))},
	PGridAutoFlow:        String("row"),
	PGridRowStart:        GridLine{Tag: Auto},
	PGridRowEnd:          GridLine{Tag: Auto},
	PGridColumnStart:     GridLine{Tag: Auto},
	PGridColumnEnd:       GridLine{Tag: Auto},

	PFontSize:      Float(16),
	PFontWeight:    Int(400),
	PLineHeight:    SToV("normal"),
	PVerticalAlign: String("baseline"),
}

// InheritedProps lists the properties propagated to anonymous boxes:
// only the inherited text properties matter for inline layout.
var InheritedProps = [...]KnownProp{
	PDirection,
	PFontSize,
	PFontWeight,
	PLineHeight,
}

// Get returns the computed value for [key], defaulting to the initial value.
func (p Properties) Get(key KnownProp) CssProperty {
	if v, has := p[key]; has {
		return v
	}
	return InitialValues[key]
}

func (p Properties) Set(key KnownProp, value CssProperty) { p[key] = value }

// Copy returns a shallow copy.
func (p Properties) Copy() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Properties) GetDisplay() String { return p.Get(PDisplay).(String) }

func (p Properties) GetWidth() DimOrS     { return p.Get(PWidth).(DimOrS) }
func (p Properties) GetHeight() DimOrS    { return p.Get(PHeight).(DimOrS) }
func (p Properties) GetMinWidth() DimOrS  { return p.Get(PMinWidth).(DimOrS) }
func (p Properties) GetMinHeight() DimOrS { return p.Get(PMinHeight).(DimOrS) }
func (p Properties) GetMaxWidth() DimOrS  { return p.Get(PMaxWidth).(DimOrS) }
func (p Properties) GetMaxHeight() DimOrS { return p.Get(PMaxHeight).(DimOrS) }

func (p Properties) GetMarginTop() DimOrS    { return p.Get(PMarginTop).(DimOrS) }
func (p Properties) GetMarginRight() DimOrS  { return p.Get(PMarginRight).(DimOrS) }
func (p Properties) GetMarginBottom() DimOrS { return p.Get(PMarginBottom).(DimOrS) }
func (p Properties) GetMarginLeft() DimOrS   { return p.Get(PMarginLeft).(DimOrS) }

func (p Properties) GetPaddingTop() DimOrS    { return p.Get(PPaddingTop).(DimOrS) }
func (p Properties) GetPaddingRight() DimOrS  { return p.Get(PPaddingRight).(DimOrS) }
func (p Properties) GetPaddingBottom() DimOrS { return p.Get(PPaddingBottom).(DimOrS) }
func (p Properties) GetPaddingLeft() DimOrS   { return p.Get(PPaddingLeft).(DimOrS) }

func (p Properties) GetBorderTopWidth() DimOrS    { return p.Get(PBorderTopWidth).(DimOrS) }
func (p Properties) GetBorderRightWidth() DimOrS  { return p.Get(PBorderRightWidth).(DimOrS) }
func (p Properties) GetBorderBottomWidth() DimOrS { return p.Get(PBorderBottomWidth).(DimOrS) }
func (p Properties) GetBorderLeftWidth() DimOrS   { return p.Get(PBorderLeftWidth).(DimOrS) }

func (p Properties) GetBoxSizing() String { return p.Get(PBoxSizing).(String) }
func (p Properties) GetOverflow() String  { return p.Get(POverflow).(String) }
func (p Properties) GetDirection() String { return p.Get(PDirection).(String) }

func (p Properties) GetFlexDirection() String  { return p.Get(PFlexDirection).(String) }
func (p Properties) GetFlexWrap() String       { return p.Get(PFlexWrap).(String) }
func (p Properties) GetFlexGrow() Float        { return p.Get(PFlexGrow).(Float) }
func (p Properties) GetFlexShrink() Float      { return p.Get(PFlexShrink).(Float) }
func (p Properties) GetFlexBasis() DimOrS      { return p.Get(PFlexBasis).(DimOrS) }
func (p Properties) GetAlignItems() String     { return p.Get(PAlignItems).(String) }
func (p Properties) GetAlignSelf() String      { return p.Get(PAlignSelf).(String) }
func (p Properties) GetAlignContent() String   { return p.Get(PAlignContent).(String) }
func (p Properties) GetJustifyContent() String { return p.Get(PJustifyContent).(String) }
func (p Properties) GetOrder() Int             { return p.Get(POrder).(Int) }
func (p Properties) GetRowGap() DimOrS         { return p.Get(PRowGap).(DimOrS) }
func (p Properties) GetColumnGap() DimOrS      { return p.Get(PColumnGap).(DimOrS) }

func (p Properties) GetGridTemplateRows() GridTemplate {
	return p.Get(PGridTemplateRows).(GridTemplate)
}

func (p Properties) GetGridTemplateColumns() GridTemplate {
	return p.Get(PGridTemplateColumns).(GridTemplate)
}

func (p Properties) GetGridAutoRows() GridAuto    { return p.Get(PGridAutoRows).(GridAuto) }
func (p Properties) GetGridAutoColumns() GridAuto { return p.Get(PGridAutoColumns).(GridAuto) }
func (p Properties) GetGridAutoFlow() String      { return p.Get(PGridAutoFlow).(String) }
func (p Properties) GetGridRowStart() GridLine    { return p.Get(PGridRowStart).(GridLine) }
func (p Properties) GetGridRowEnd() GridLine      { return p.Get(PGridRowEnd).(GridLine) }
func (p Properties) GetGridColumnStart() GridLine { return p.Get(PGridColumnStart).(GridLine) }
func (p Properties) GetGridColumnEnd() GridLine   { return p.Get(PGridColumnEnd).(GridLine) }

func (p Properties) GetFontSize() Float        { return p.Get(PFontSize).(Float) }
func (p Properties) GetFontWeight() Int        { return p.Get(PFontWeight).(Int) }
func (p Properties) GetLineHeight() DimOrS     { return p.Get(PLineHeight).(DimOrS) }
func (p Properties) GetVerticalAlign() String  { return p.Get(PVerticalAlign).(String) }

// Anonymous returns the style of an anonymous block generated inside a
// parent with style [parent]: a block box with every non inherited property
// at its initial value.
func Anonymous(parent Properties) Properties {
	out := Properties{PDisplay: String("block")}
	for _, key := range InheritedProps {
		out[key] = parent.Get(key)
	}
	return out
}
