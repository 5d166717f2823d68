package properties

import (
	"fmt"
	"math"
)

// ------------------------- numeric values -------------------------

type Float Fl

var Inf = Float(math.Inf(1))

// MaybeFloat is a resolved numeric value, or the "auto" keyword.
type MaybeFloat interface {
	V() Float
}

func (f Float) V() Float { return f }

type special string

func (special) V() Float { return 0 }

// AutoF is the "auto" keyword as a [MaybeFloat].
const AutoF special = "auto"

func Min(x, y Float) Float {
	if x < y {
		return x
	}
	return y
}

func Max(x, y Float) Float {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts value to [min, max].
func Clamp(value, min, max Float) Float {
	return Max(min, Min(value, max))
}

type Unit uint8

const (
	Scalar Unit = iota // no unit, but a valid value
	Perc               // percentage (%)
	Px
	Fr
)

func (u Unit) String() string {
	switch u {
	case Scalar:
		return ""
	case Perc:
		return "%"
	case Px:
		return "px"
	case Fr:
		return "fr"
	default:
		return "<invalid unit>"
	}
}

// Dimension without unit is interpreted as float
type Dimension struct {
	Value Float
	Unit  Unit
}

func NewDim(v Float, u Unit) Dimension { return Dimension{Value: v, Unit: u} }

func (d Dimension) String() string {
	return fmt.Sprintf("<%g %s>", d.Value, d.Unit)
}

func (d Dimension) IsNone() bool { return d == Dimension{} }

func (d Dimension) ToValue() DimOrS { return DimOrS{Dimension: d} }

var ZeroPixels = Dimension{Unit: Px}

// DimOrS is a dimension or a keyword, like "auto", "none",
// "min-content" or "max-content".
type DimOrS struct {
	S string
	Dimension
}

// SToV wraps a keyword as a [DimOrS].
func SToV(s string) DimOrS { return DimOrS{S: s} }

// FToV wraps a pixel length as a [DimOrS].
func FToV(f Float) DimOrS { return DimOrS{Dimension: Dimension{Value: f, Unit: Px}} }

// PercToV wraps a percentage as a [DimOrS].
func PercToV(f Float) DimOrS { return DimOrS{Dimension: Dimension{Value: f, Unit: Perc}} }

func (ds DimOrS) String() string {
	if ds.S != "" {
		return ds.S
	}
	return ds.Dimension.String()
}

func (ds DimOrS) IsNone() bool { return ds == DimOrS{} }

func (ds DimOrS) IsAuto() bool { return ds.S == "auto" }

// Resolve returns the used value of a length against [referTo],
// the corresponding dimension of the containing block.
// Keywords are returned as [AutoF].
func (ds DimOrS) Resolve(referTo Float) MaybeFloat {
	switch {
	case ds.S != "":
		return AutoF
	case ds.Unit == Perc:
		return referTo * ds.Value / 100
	default:
		return ds.Value
	}
}

// ------------------------- keywords and integers -------------------------

type String string

type Int int

// ------------------------- grid values -------------------------

// GridDims is a compact form for a grid template
// dimension. It is either :
//   - a single value V
//   - minmax(V, V2)
type GridDims struct {
	V, v2 DimOrS
	tag   byte // 0 or 'm' for minmax()
}

// NewGridDimsValue returns a non tagged value.
func NewGridDimsValue(v DimOrS) GridDims { return GridDims{V: v} }

// NewGridDimsMinmax returns minmax(...)
func NewGridDimsMinmax(v1, v2 DimOrS) GridDims { return GridDims{tag: 'm', V: v1, v2: v2} }

// SizingFunctions normalizes the dimension to a (min, max) pair of track
// sizing functions. A flexible max has an "auto" min.
func (size GridDims) SizingFunctions() [2]DimOrS {
	minSizing, maxSizing := size.V, size.V
	if size.tag == 'm' {
		minSizing, maxSizing = size.V, size.v2
	}
	if minSizing.Unit == Fr {
		minSizing = SToV("auto")
	}
	return [2]DimOrS{minSizing, maxSizing}
}

func (size GridDims) IsMinmax() (min, max DimOrS, ok bool) {
	return size.V, size.v2, size.tag == 'm'
}

func (size GridDims) IsNone() bool {
	return size.tag == 0 && size.V.IsNone() && size.v2.IsNone()
}

// An empty list means 'none'
type GridTemplate []GridDims

// IsNone returns true for the CSS 'none' keyword
func (gt GridTemplate) IsNone() bool { return len(gt) == 0 }

type GridAuto []GridDims

func (ga GridAuto) Cycle() *GridAutoIter {
	return &GridAutoIter{src: ga}
}

// Reverse returns a new, reversed slice
func (ga GridAuto) Reverse() GridAuto {
	out := make(GridAuto, len(ga))
	for i, v := range ga {
		out[len(ga)-1-i] = v
	}
	return out
}

type GridAutoIter struct {
	src GridAuto
	pos int
}

func (gai *GridAutoIter) Next() GridDims {
	out := gai.src[gai.pos%len(gai.src)]
	gai.pos++
	return out
}

type Tag uint8

const (
	Auto Tag = iota + 1
	Span
)

// See https://developer.mozilla.org/en-US/docs/Web/CSS/grid-row-start
type GridLine struct {
	Val int
	Tag Tag // Auto, Span or 0
}

// IsSpan returns true for "span" attributes. In this case, the [Val] field is valid.
func (gl GridLine) IsSpan() bool { return gl.Tag == Span }

func (gl GridLine) IsAuto() bool { return gl.Tag == Auto }

func (gl GridLine) IsNone() bool { return gl == GridLine{} }

// ------------------------- method tags -------------------------

func (String) isCssProperty()       {}
func (Int) isCssProperty()          {}
func (Float) isCssProperty()        {}
func (DimOrS) isCssProperty()       {}
func (GridTemplate) isCssProperty() {}
func (GridAuto) isCssProperty()     {}
func (GridLine) isCssProperty()     {}
