package text

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	pr "github.com/velora-engine/velora/css/properties"
)

type faceKey struct {
	size pr.Fl
	bold bool
}

// FontMetrics implements [Metrics] on top of TrueType fonts, using
// 26.6 fixed point face measurement.
//
// It is not safe for concurrent use: layout is single threaded within one
// pass, and each pass owns its metrics.
type FontMetrics struct {
	regular, bold *truetype.Font

	faces map[faceKey]font.Face
}

// NewFontMetrics parses the given TrueType font data. [boldData] may be nil,
// in which case the regular face also serves bold runs.
func NewFontMetrics(regularData, boldData []byte) (*FontMetrics, error) {
	regular, err := truetype.Parse(regularData)
	if err != nil {
		return nil, fmt.Errorf("invalid font data: %s", err)
	}
	bold := regular
	if boldData != nil {
		bold, err = truetype.Parse(boldData)
		if err != nil {
			return nil, fmt.Errorf("invalid bold font data: %s", err)
		}
	}
	return &FontMetrics{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// face returns a cached face for the style, sized so that one point equals
// one CSS pixel.
func (fm *FontMetrics) face(style Style) font.Face {
	key := faceKey{size: style.FontSize, bold: style.Bold}
	if f, has := fm.faces[key]; has {
		return f
	}
	ft := fm.regular
	if style.Bold {
		ft = fm.bold
	}
	f := truetype.NewFace(ft, &truetype.Options{Size: float64(style.FontSize), DPI: 72})
	fm.faces[key] = f
	return f
}

func fromFixed(v fixed.Int26_6) pr.Float { return pr.Float(v) / 64 }

func (fm *FontMetrics) RunWidth(s string, style Style) pr.Float {
	return fromFixed(font.MeasureString(fm.face(style), s))
}

func (fm *FontMetrics) SpaceWidth(style Style) pr.Float {
	return fromFixed(font.MeasureString(fm.face(style), " "))
}

func (fm *FontMetrics) Ascent(style Style) pr.Float {
	return fromFixed(fm.face(style).Metrics().Ascent)
}

func (fm *FontMetrics) Descent(style Style) pr.Float {
	return fromFixed(fm.face(style).Metrics().Descent)
}
