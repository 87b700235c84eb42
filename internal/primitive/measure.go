package primitive

import "unicode/utf8"

// Measurer reports the device-space extent of a single line of text.
type Measurer interface {
	Measure(text string, fontSize float64) (w, h float64)
}

// MonoMeasurer approximates text extents with a fixed advance per rune.
// Typography is not modeled; the estimate only has to be stable so that
// chips are sized consistently.
type MonoMeasurer struct {
	// Advance is the width of one rune as a fraction of the font size.
	Advance float64
	// LineHeight is the line height as a fraction of the font size.
	LineHeight float64
}

func DefaultMeasurer() MonoMeasurer {
	return MonoMeasurer{Advance: 0.6, LineHeight: 1.0}
}

func (m MonoMeasurer) Measure(text string, fontSize float64) (float64, float64) {
	n := utf8.RuneCountInString(text)
	return float64(n) * m.Advance * fontSize, m.LineHeight * fontSize
}
