// Package text supplies the text measurement collaborator of the layout
// engine. Layout treats inline text as opaque measurable runs: shaping and
// line breaking internals stay behind the [Metrics] interface.
package text

import (
	"unicode/utf8"

	pr "github.com/velora-engine/velora/css/properties"
)

// Style carries the text-relevant computed values of a run.
type Style struct {
	FontSize pr.Fl
	Bold     bool
}

// StyleFromProperties extracts the text style of a computed record.
func StyleFromProperties(p pr.Properties) Style {
	return Style{
		FontSize: pr.Fl(p.GetFontSize()),
		Bold:     p.GetFontWeight() >= 600,
	}
}

// Metrics measures text runs for the layout engine.
type Metrics interface {
	// RunWidth returns the advance width of [s], measured as one
	// unbreakable unit.
	RunWidth(s string, style Style) pr.Float

	// SpaceWidth returns the advance width of the inter-word space.
	SpaceWidth(style Style) pr.Float

	// Ascent returns the distance from the baseline to the top of a line.
	Ascent(style Style) pr.Float

	// Descent returns the distance from the baseline to the bottom of a
	// line, as a positive value.
	Descent(style Style) pr.Float
}

// FixedMetrics is a deterministic [Metrics] where every glyph is a square of
// the font size, like the Ahem font used by layout reference tests: ascent is
// 0.8em, descent 0.2em.
type FixedMetrics struct{}

func (FixedMetrics) RunWidth(s string, style Style) pr.Float {
	return pr.Float(utf8.RuneCountInString(s)) * pr.Float(style.FontSize)
}

func (FixedMetrics) SpaceWidth(style Style) pr.Float { return pr.Float(style.FontSize) }

func (FixedMetrics) Ascent(style Style) pr.Float { return 0.8 * pr.Float(style.FontSize) }

func (FixedMetrics) Descent(style Style) pr.Float { return 0.2 * pr.Float(style.FontSize) }
