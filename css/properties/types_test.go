package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimOrSResolve(t *testing.T) {
	assert.Equal(t, Float(30), FToV(30).Resolve(200))
	assert.Equal(t, Float(100), PercToV(50).Resolve(200))
	assert.Equal(t, MaybeFloat(AutoF), SToV("auto").Resolve(200))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Float(5), Clamp(3, 5, 10))
	assert.Equal(t, Float(10), Clamp(12, 5, 10))
	assert.Equal(t, Float(7), Clamp(7, 5, 10))
}

func TestSizingFunctions(t *testing.T) {
	fixed := NewGridDimsValue(FToV(120)).SizingFunctions()
	assert.Equal(t, [2]DimOrS{FToV(120), FToV(120)}, fixed)

	mm := NewGridDimsMinmax(FToV(50), FToV(120)).SizingFunctions()
	assert.Equal(t, [2]DimOrS{FToV(50), FToV(120)}, mm)

	// A flexible sizing function has an auto minimum.
	flex := NewGridDimsValue(DimOrS{Dimension: NewDim(1, Fr)}).SizingFunctions()
	assert.Equal(t, SToV("auto"), flex[0])
	assert.Equal(t, Fr, flex[1].Unit)
}

func TestGridAutoCycle(t *testing.T) {
	iter := GridAuto{NewGridDimsValue(FToV(10)), NewGridDimsValue(FToV(20))}.Cycle()
	assert.Equal(t, Float(10), iter.Next().V.Value)
	assert.Equal(t, Float(20), iter.Next().V.Value)
	assert.Equal(t, Float(10), iter.Next().V.Value)
}

func TestGridLine(t *testing.T) {
	assert.True(t, GridLine{Tag: Auto}.IsAuto())
	assert.True(t, GridLine{Tag: Span, Val: 2}.IsSpan())
	assert.False(t, GridLine{Val: 3}.IsAuto())
}

func TestPropertiesDefaults(t *testing.T) {
	p := Properties{PWidth: FToV(10)}
	assert.Equal(t, FToV(10), p.GetWidth())
	assert.Equal(t, String("inline"), p.GetDisplay())
	assert.True(t, p.GetHeight().IsAuto())
	assert.Equal(t, Float(16), p.GetFontSize())
}

func TestAnonymousInheritsTextOnly(t *testing.T) {
	parent := Properties{PFontSize: Float(20), PWidth: FToV(100), PDirection: String("rtl")}
	anon := Anonymous(parent)
	assert.Equal(t, String("block"), anon.GetDisplay())
	assert.Equal(t, Float(20), anon.GetFontSize())
	assert.Equal(t, String("rtl"), anon.GetDirection())
	assert.True(t, anon.GetWidth().IsAuto())
}
